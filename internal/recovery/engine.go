package recovery

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/klog"
	"github.com/corestash/corestash/internal/vfs"
)

const defaultAutoSaveInterval = 5 * time.Second

// Engine is the auto-save loop of §4.10: on each Tick, it scans the
// buffers it is given, selects those due for a snapshot, and writes
// their changed regions to the recovery directory.
type Engine struct {
	mu sync.Mutex

	v        vfs.VFS
	dir      string
	interval time.Duration
	log      *klog.Logger

	lastSaved map[string]time.Time
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithInterval overrides the default 5s auto-save interval.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithLogger attaches a logger; defaults to a discarding one.
func WithLogger(l *klog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Dir returns the recovery directory this engine writes under.
func (e *Engine) Dir() string { return e.dir }

// SetInterval updates the auto-save interval, e.g. in response to a
// live config reload.
func (e *Engine) SetInterval(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = d
}

// NewEngine creates an Engine writing under dir via v.
func NewEngine(v vfs.VFS, dir string, opts ...Option) *Engine {
	e := &Engine{
		v:         v,
		dir:       dir,
		interval:  defaultAutoSaveInterval,
		log:       klog.NewDiscard(),
		lastSaved: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick runs one auto-save pass over buffers at time now, per §4.10:
// skips composite buffers and buffers whose recovery-pending flag is
// clear, assigns a recovery id to each remaining buffer that lacks one,
// and snapshots those whose interval has elapsed.
func (e *Engine) Tick(now time.Time, buffers []*bufstate.State) error {
	for _, s := range buffers {
		if s.IsComposite {
			continue
		}
		if !s.Buffer.IsRecoveryPending() {
			continue
		}

		id := e.assignRecoveryID(s.Buffer)
		if !e.needsAutoSave(id, now) {
			continue
		}

		if err := e.saveBuffer(id, s.Buffer, now); err != nil {
			e.log.Err("recovery.autosave", err).Str("id", id).Send()
			return fmt.Errorf("recovery: save %s: %w", id, err)
		}
		e.markSaved(id, now)
	}
	return nil
}

func (e *Engine) assignRecoveryID(buf *piece.Buffer) string {
	if id, ok := buf.RecoveryID(); ok {
		return id
	}
	var id string
	if path, ok := buf.OriginalPath(); ok {
		id = DeriveID(path)
	} else {
		id = NewSessionID()
	}
	buf.SetRecoveryID(id)
	return id
}

func (e *Engine) needsAutoSave(id string, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	last, ok := e.lastSaved[id]
	return !ok || now.Sub(last) >= e.interval
}

func (e *Engine) markSaved(id string, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSaved[id] = now
}

// saveBuffer writes chunks and metadata for buf under id, clearing
// recovery-pending on success (§4.10).
func (e *Engine) saveBuffer(id string, buf *piece.Buffer, now time.Time) error {
	var chunks []Chunk

	if buf.IsLargeFile() {
		recChunks := buf.GetRecoveryChunks()
		if len(recChunks) == 0 {
			buf.SetRecoveryPending(false)
			return nil
		}
		for _, c := range recChunks {
			chunks = append(chunks, Chunk{
				Offset:      int64(c.Offset),
				OriginalLen: int64(len(c.Content)),
				Content:     []byte(c.Content),
			})
		}
	} else {
		text, ok := buf.ToString()
		if !ok {
			return fmt.Errorf("recovery: buffer %s reported small but ToString failed", id)
		}
		chunks = []Chunk{{Offset: 0, OriginalLen: 0, Content: []byte(text)}}
	}

	meta := Metadata{
		ContentSize:   int64(buf.Len()),
		LineCount:     buf.LineCount(),
		FormatVersion: FormatVersion,
		ChunkCount:    len(chunks),
		UpdatedAt:     now,
	}
	if path, ok := buf.OriginalPath(); ok {
		meta.OriginalPath = path
	}
	meta.OriginalMtime = buf.OriginalMtime()
	if size, ok := buf.OriginalFileSize(); ok {
		meta.OriginalFileSize = size
	}
	if existing, err := e.readMetadata(id); err == nil {
		meta.CreatedAt = existing.CreatedAt
	} else {
		meta.CreatedAt = now
	}

	for i, c := range chunks {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		path := e.chunkPath(id, i)
		if err := vfs.WriteFileAtomic(e.v, path, data, fs.FileMode(0o644)); err != nil {
			return err
		}
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := vfs.WriteFileAtomic(e.v, e.metaPath(id), data, fs.FileMode(0o644)); err != nil {
		return err
	}

	buf.SetRecoveryPending(false)
	return nil
}

func (e *Engine) metaPath(id string) string {
	return e.v.Join(e.dir, id+".meta.json")
}

func (e *Engine) chunkPath(id string, n int) string {
	return e.v.Join(e.dir, fmt.Sprintf("%s.chunk.%d", id, n))
}

func (e *Engine) readMetadata(id string) (Metadata, error) {
	var m Metadata
	data, err := e.v.ReadFile(e.metaPath(id))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
