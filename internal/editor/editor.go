package editor

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corestash/corestash/internal/config"
	"github.com/corestash/corestash/internal/config/notify"
	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/klog"
	"github.com/corestash/corestash/internal/navhistory"
	"github.com/corestash/corestash/internal/recovery"
	"github.com/corestash/corestash/internal/renderer/backend"
	"github.com/corestash/corestash/internal/scrollsync"
	"github.com/corestash/corestash/internal/split"
	"github.com/corestash/corestash/internal/vfs"
)

// Options configures a new Editor, mirroring the teacher's app.Options
// shape generalized away from its LSP/plugin/project fields.
type Options struct {
	// ConfigPath is the path to the user configuration file.
	ConfigPath string

	// WorkspacePath is the workspace/project directory.
	WorkspacePath string

	// Files are files to open on startup.
	Files []string

	// Debug enables debug mode with extra logging.
	Debug bool

	// LogLevel sets the logging verbosity.
	LogLevel string

	// ReadOnly opens files in read-only mode.
	ReadOnly bool
}

// StatusKind tags what StatusMessage.Kind carries.
type StatusKind uint8

const (
	StatusInfo StatusKind = iota
	StatusError
)

// StatusMessage is a user-visible status-channel notification per §7's
// "Surfaced" propagation policy: command failures and recoverable I/O
// errors never panic, they arrive here instead.
type StatusMessage struct {
	Kind StatusKind
	Text string
}

// Editor is the C11 façade: the central coordinator owning every other
// component (C1-C10) and exposing ExecuteCommand as the sole mutation
// entry point, following the teacher's Application/Dispatcher split
// collapsed into one object since corestash has no plugin/LSP surface
// to keep separate.
type Editor struct {
	mu sync.RWMutex

	opts Options
	fs   vfs.VFS
	log  *klog.Logger
	cfg  config.Settings

	buffers   map[split.BufferID]*bufstate.State
	bufOrder  []split.BufferID
	tree      *split.Tree
	scroll    *scrollsync.Manager
	positions *navhistory.Stack
	recovery  *recovery.Engine

	configMgr *config.Config
	logFile   *os.File

	status chan StatusMessage
	modal  modalStack
	macro  macroRecorder

	backend backend.Backend

	running atomic.Bool
	done    chan struct{}
	shutdownOnce sync.Once

	lastAutoSave time.Time
}

// New creates an Editor from opts: loads settings, opens an OS-backed
// VFS, wires the recovery engine, position history and scroll-sync
// manager, and opens an empty scratch buffer so the splits tree always
// has a valid active leaf even with no files named on the command line.
func New(opts Options) (*Editor, error) {
	configMgr := config.New()
	if err := configMgr.Load(opts.ConfigPath, opts.WorkspacePath); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	cfg := configMgr.Settings()

	logDir := defaultLogDir()
	klog.SweepStaleLogs(logDir)
	logFile, _, logErr := klog.OpenProcessLog(logDir)
	logWriter := logFile
	if logErr != nil {
		logFile = nil
		logWriter = os.Stderr
	}

	level := klog.ParseLevel(opts.LogLevel)
	if opts.Debug {
		level = klog.ParseLevel("debug")
	}
	lg := klog.New(logWriter, level)

	fs := vfs.NewOSFS()

	e := &Editor{
		opts:      opts,
		fs:        fs,
		log:       lg,
		cfg:       cfg,
		configMgr: configMgr,
		logFile:   logFile,
		buffers:   make(map[split.BufferID]*bufstate.State),
		scroll:    scrollsync.NewManager(),
		positions: navhistory.NewStack(
			navhistory.WithMaxEntries(cfg.PositionHistoryMaxEntries),
		),
		status: make(chan StatusMessage, 64),
		done:   make(chan struct{}),
		macro:  newMacroRecorder(),
	}

	recoveryDir := cfg.RecoveryDir
	if recoveryDir == "" {
		recoveryDir = defaultRecoveryDir()
	}
	if err := fs.MkdirAll(recoveryDir, 0o750); err != nil {
		return nil, &InitError{Component: "recovery dir", Err: err}
	}
	e.recovery = recovery.NewEngine(fs, recoveryDir,
		recovery.WithInterval(cfg.AutoSaveInterval()),
		recovery.WithLogger(lg),
	)

	configMgr.Subscribe(func(notify.Change) {
		e.recovery.SetInterval(e.configMgr.Settings().AutoSaveInterval())
	})

	if _, _, err := recovery.StartSession(fs, recoveryDir); err != nil {
		lg.Warn("recovery.start_session_failed").Err(err).Send()
	}

	if err := e.openInitialBuffers(opts.Files); err != nil {
		return nil, err
	}

	return e, nil
}

// openInitialBuffers opens every file named in opts.Files (falling back
// to a single empty scratch buffer) and builds the split tree around
// the first one.
func (e *Editor) openInitialBuffers(files []string) error {
	if len(files) == 0 {
		id, state := e.newScratchBuffer()
		e.tree = split.NewTree(split.BufferID(id), state.Cursors)
		return nil
	}

	var first split.BufferID
	for _, path := range files {
		id, _, err := e.openFileBuffer(path)
		if err != nil {
			e.log.Warn("editor.open_failed").Str("path", path).Err(err).Send()
			continue
		}
		if first == 0 {
			first = id
		}
	}
	if e.tree == nil {
		if len(e.buffers) == 0 {
			id, state := e.newScratchBuffer()
			e.tree = split.NewTree(split.BufferID(id), state.Cursors)
			return nil
		}
		state := e.buffers[first]
		e.tree = split.NewTree(first, state.Cursors)
	}
	return nil
}

// SetBackend sets the terminal backend. Must be called before Run.
func (e *Editor) SetBackend(b backend.Backend) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running.Load() {
		return ErrAlreadyRunning
	}
	e.backend = b
	return nil
}

// Status returns the read-only status-message channel a UI layer drains
// to surface command failures and recoverable I/O errors (§7).
func (e *Editor) Status() <-chan StatusMessage {
	return e.status
}

func (e *Editor) reportError(command string, err error) {
	select {
	case e.status <- StatusMessage{Kind: StatusError, Text: err.Error()}:
	default:
	}
	e.log.Err("editor.command_failed", err).Str("command", command).Send()
}

func (e *Editor) reportInfo(text string) {
	select {
	case e.status <- StatusMessage{Kind: StatusInfo, Text: text}:
	default:
	}
}

// Run starts the façade's main loop: a 60fps frame ticker drives
// recovery auto-save ticks, alongside a goroutine draining backend input
// events, mirroring the teacher's Application.eventLoop. The loop does
// not paint; nothing here calls a renderer.
func (e *Editor) Run() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	if e.backend != nil {
		if err := e.backend.Init(); err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		defer e.backend.Shutdown()
	}

	return e.eventLoop()
}

const (
	targetFPS = 60
	frameTime = time.Second / targetFPS
)

func (e *Editor) eventLoop() error {
	if e.backend == nil {
		<-e.done
		return nil
	}

	frameTicker := time.NewTicker(frameTime)
	defer frameTicker.Stop()

	inputEvents := e.startInputPolling()

	for e.running.Load() {
		select {
		case <-e.done:
			return nil

		case ev, ok := <-inputEvents:
			if !ok {
				return nil
			}
			if err := e.handleBackendEvent(ev); err != nil {
				if err == ErrQuit {
					return nil
				}
				e.log.Err("editor.event_handler", err).Send()
			}

		case now := <-frameTicker.C:
			e.tick(now)
		}
	}
	return nil
}

func (e *Editor) startInputPolling() <-chan backend.Event {
	ch := make(chan backend.Event)
	go func() {
		defer close(ch)
		for {
			ev := e.backend.PollEvent()
			select {
			case ch <- ev:
			case <-e.done:
				return
			}
		}
	}()
	return ch
}

// tick runs once per frame: it drives the recovery engine's auto-save
// schedule. It does not paint anything.
func (e *Editor) tick(now time.Time) {
	e.mu.Lock()
	states := make([]*bufstate.State, 0, len(e.buffers))
	for _, id := range e.bufOrder {
		states = append(states, e.buffers[id])
	}
	e.mu.Unlock()

	if err := e.recovery.Tick(now, states); err != nil {
		e.log.Err("editor.recovery_tick", err).Send()
	}
}

// Shutdown initiates a graceful, idempotent shutdown: it ends the
// recovery session (discarding entries for every cleanly-saved buffer)
// and releases the session lockfile (§4.10 "Shutdown").
func (e *Editor) Shutdown() {
	e.shutdownOnce.Do(func() {
		close(e.done)

		e.mu.RLock()
		var cleanIDs []string
		for _, st := range e.buffers {
			if !st.Buffer.IsModified() {
				if id, ok := st.Buffer.RecoveryID(); ok {
					cleanIDs = append(cleanIDs, id)
				}
			}
		}
		dir := e.recovery.Dir()
		e.mu.RUnlock()

		if err := recovery.EndSession(e.fs, dir, cleanIDs); err != nil {
			e.log.Warn("editor.end_session_failed").Err(err).Send()
		}

		e.configMgr.Close()
		if e.logFile != nil {
			_ = e.logFile.Close()
		}
	})
}

// IsRunning reports whether the event loop is active.
func (e *Editor) IsRunning() bool { return e.running.Load() }
