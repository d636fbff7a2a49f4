package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/split"
	"github.com/corestash/corestash/internal/vfs"
)

var scratchCounter int

// newScratchBuffer creates an empty, unnamed buffer (a macOS/vim-style
// "[No Name]" buffer) and registers it.
func (e *Editor) newScratchBuffer() (split.BufferID, *bufstate.State) {
	scratchCounter++
	buf := piece.NewBuffer(piece.WithTabWidth(e.cfg.TabWidth))
	state := bufstate.New(buf,
		bufstate.WithMaxUndoEntries(e.cfg.MaxUndoEntries),
		bufstate.WithCoalesceWindow(e.cfg.CoalesceWindow()),
	)

	id := split.BufferID(state.ID)
	e.mu.Lock()
	e.buffers[id] = state
	e.bufOrder = append(e.bufOrder, id)
	e.mu.Unlock()
	return id, state
}

// openFileBuffer reads path through the façade's VFS and registers a
// new buffer backed by it. Returns the existing buffer id if path is
// already open.
func (e *Editor) openFileBuffer(path string) (split.BufferID, *bufstate.State, error) {
	abs, err := e.fs.Abs(path)
	if err != nil {
		abs = path
	}

	if id, state, ok := e.findBufferByPath(abs); ok {
		return id, state, nil
	}

	data, err := e.fs.ReadFile(abs)
	if err != nil {
		return 0, nil, corerr.NewIoFailure("open", abs, err)
	}
	info, err := e.fs.Stat(abs)
	if err != nil {
		return 0, nil, corerr.NewIoFailure("stat", abs, err)
	}

	enc := vfs.DetectEncoding(data)
	data, _ = vfs.StripBOM(data)

	buf := piece.NewBuffer(
		piece.WithOriginalPath(abs),
		piece.WithOriginalMtime(info.ModTime()),
		piece.WithTabWidth(e.cfg.TabWidth),
		piece.WithDetectedLineEnding(string(data)),
		piece.WithEncoding(enc),
	)
	if _, err := buf.Insert(0, string(data)); err != nil {
		return 0, nil, corerr.NewIoFailure("open", abs, err)
	}
	buf.SetModified(false)
	buf.SetRecoveryPending(false)

	state := bufstate.New(buf,
		bufstate.WithMaxUndoEntries(e.cfg.MaxUndoEntries),
		bufstate.WithCoalesceWindow(e.cfg.CoalesceWindow()),
	)
	id := split.BufferID(state.ID)

	e.mu.Lock()
	e.buffers[id] = state
	e.bufOrder = append(e.bufOrder, id)
	e.mu.Unlock()
	return id, state, nil
}

func (e *Editor) findBufferByPath(abs string) (split.BufferID, *bufstate.State, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for id, st := range e.buffers {
		if p, ok := st.Buffer.OriginalPath(); ok && p == abs {
			return id, st, true
		}
	}
	return 0, nil, false
}

func (e *Editor) bufferState(id split.BufferID) (*bufstate.State, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.buffers[id]
	return st, ok
}

// activeBuffer returns the buffer state backing the split tree's active leaf.
func (e *Editor) activeBuffer() (*split.Leaf, *bufstate.State, error) {
	if e.tree == nil {
		return nil, nil, ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return nil, nil, ErrNoActiveBuffer
	}
	state, ok := e.bufferState(leaf.BufferID)
	if !ok {
		return nil, nil, ErrBufferNotFound
	}
	return leaf, state, nil
}

// saveBuffer writes the buffer's full text back to its original path.
// A permission failure against a file the caller doesn't own escalates
// to SudoSaveRequired (§7) rather than a plain IoFailure.
func (e *Editor) saveBuffer(state *bufstate.State) error {
	path, ok := state.Buffer.OriginalPath()
	if !ok {
		return corerr.NewCommandFailed("save", "buffer has no path; use save-as")
	}
	return e.writeBufferTo(state, path)
}

func (e *Editor) saveBufferAs(state *bufstate.State, path string) error {
	abs, err := e.fs.Abs(path)
	if err != nil {
		abs = path
	}
	state.Buffer.SetOriginalPath(abs)
	return e.writeBufferTo(state, abs)
}

func (e *Editor) writeBufferTo(state *bufstate.State, path string) error {
	data := vfs.AddBOM([]byte(state.Buffer.Text()), state.Buffer.Encoding())
	if err := e.fs.WriteFile(path, data, 0o644); err != nil {
		if vfs.IsPermissionDenied(err) {
			return corerr.NewSudoSaveRequired(path)
		}
		return corerr.NewIoFailure("save", path, err)
	}
	if info, err := e.fs.Stat(path); err == nil {
		state.Buffer.SetOriginalMtime(info.ModTime())
	}
	state.Buffer.SetModified(false)
	state.Buffer.SetRecoveryPending(false)
	return nil
}
