package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/corestash/corestash/internal/config/layer"
	"github.com/corestash/corestash/internal/config/loader"
	"github.com/corestash/corestash/internal/config/notify"
)

const (
	layerDefaults  = "defaults"
	layerUser      = "user"
	layerWorkspace = "workspace"

	// workspaceSettingsFile is the conventional settings filename resolved
	// inside a workspace directory, mirroring how a user config directory
	// resolves to settings.toml.
	workspaceSettingsFile = "config.toml"
)

// Config loads, layers and live-reloads editor settings.
type Config struct {
	mu       sync.RWMutex
	layers   *layer.Manager
	notifier *notify.Notifier
	settings Settings

	userPath      string
	workspacePath string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a Config with the built-in defaults layer already loaded.
func New() *Config {
	c := &Config{
		layers:   layer.NewManager(),
		notifier: notify.New(),
	}
	c.layers.AddLayer(layer.NewLayerWithData(layerDefaults, layer.SourceBuiltin, int(layer.SourceBuiltin), defaultsMap()))
	c.settings = settingsFromMap(c.layers.Merge())
	return c
}

// Load reads the user settings file and the workspace settings file (either
// may be empty to skip that layer) and starts watching both for changes.
// userPath names a settings file directly; workspacePath names the workspace
// directory, inside which the conventional workspaceSettingsFile is
// resolved. Missing files are not an error; they simply leave that layer
// empty.
func (c *Config) Load(userPath, workspacePath string) error {
	if workspacePath != "" {
		workspacePath = filepath.Join(workspacePath, workspaceSettingsFile)
	}

	c.mu.Lock()
	c.userPath = userPath
	c.workspacePath = workspacePath
	c.mu.Unlock()

	if userPath != "" {
		if err := c.loadLayer(layerUser, layer.SourceUserGlobal, userPath); err != nil {
			return err
		}
	}
	if workspacePath != "" {
		if err := c.loadLayer(layerWorkspace, layer.SourceWorkspace, workspacePath); err != nil {
			return err
		}
	}
	return c.startWatching()
}

func (c *Config) loadLayer(name string, source layer.Source, path string) error {
	data, err := loader.NewTOMLLoader(path).Load()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	c.mu.Lock()
	c.layers.RemoveLayer(name)
	c.layers.AddLayer(layer.NewLayerWithData(name, source, int(source), data))
	c.settings = settingsFromMap(c.layers.Merge())
	c.mu.Unlock()
	return nil
}

func (c *Config) startWatching() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, p := range []string{c.userPath, c.workspacePath} {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if _, statErr := os.Stat(dir); statErr == nil {
			_ = w.Add(dir)
		}
	}
	c.watcher = w
	c.done = make(chan struct{})
	go c.watchLoop()
	return nil
}

func (c *Config) watchLoop() {
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.handleEvent(ev)
		case <-c.watcher.Errors:
		}
	}
}

func (c *Config) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	switch filepath.Clean(ev.Name) {
	case filepath.Clean(c.userPath):
		if err := c.loadLayer(layerUser, layer.SourceUserGlobal, c.userPath); err == nil {
			c.notifier.NotifyReload(c.userPath)
		}
	case filepath.Clean(c.workspacePath):
		if err := c.loadLayer(layerWorkspace, layer.SourceWorkspace, c.workspacePath); err == nil {
			c.notifier.NotifyReload(c.workspacePath)
		}
	}
}

// Close stops the watcher and the notifier.
func (c *Config) Close() {
	if c.done != nil {
		close(c.done)
	}
	if c.watcher != nil {
		_ = c.watcher.Close()
	}
	c.notifier.Close()
}

// Settings returns the current merged, typed settings snapshot.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Subscribe registers an observer invoked whenever a settings file reloads.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// Merged returns the raw merged configuration map, for collaborators that
// need settings outside the core's typed Settings (themes, keymaps).
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}
