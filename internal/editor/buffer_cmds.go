package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/split"
)

// cmdOpen implements "open": payload {"path": string}. Opens (or
// switches to, if already open) the named file in the active split.
func (e *Editor) cmdOpen(p Payload) error {
	path, err := payloadString(p, "path")
	if err != nil {
		return err
	}
	id, state, err := e.openFileBuffer(path)
	if err != nil {
		return err
	}
	return e.setActiveSplitBuffer(id, state)
}

// cmdNew implements "new": opens a fresh unnamed scratch buffer in the
// active split.
func (e *Editor) cmdNew(_ Payload) error {
	id, state := e.newScratchBuffer()
	return e.setActiveSplitBuffer(id, state)
}

// setActiveSplitBuffer points the active split at buffer id. Every leaf
// gets its own independent cursor set (seeded at the buffer's current
// primary position) rather than sharing state.Cursors directly — a
// buffer already open in another split must not have its cursor
// movements mirrored into this one (§4.7 splits are independent views
// over shared content).
func (e *Editor) setActiveSplitBuffer(id split.BufferID, state *bufstate.State) error {
	cursors := cursor.NewSet(state.Cursors.Primary().Selection)
	if e.tree == nil {
		e.tree = split.NewTree(id, cursors)
		return nil
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	return e.tree.SetBuffer(leaf.ID, id, cursors)
}

// cmdSave implements "save": writes the active buffer back to its
// original path.
func (e *Editor) cmdSave(_ Payload) error {
	_, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	return e.saveBuffer(state)
}

// cmdSaveAs implements "save-as": payload {"path": string}.
func (e *Editor) cmdSaveAs(p Payload) error {
	path, err := payloadString(p, "path")
	if err != nil {
		return err
	}
	_, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	return e.saveBufferAs(state, path)
}

// cmdClose implements "close": closes the active split's buffer view.
// Refuses (CommandFailed) if the buffer is modified and payload does
// not carry {"force": true}.
func (e *Editor) cmdClose(p Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	force, _ := p["force"].(bool)
	if state.Buffer.IsModified() && !force {
		return corerr.NewCommandFailed("close", "buffer has unsaved changes; pass force to discard")
	}
	return e.tree.Close(leaf.ID)
}

// cmdQuit implements "quit": payload {"force": bool}. Refuses
// (CommandFailed) if any buffer is dirty and force isn't set, mirroring
// the teacher's Application.Quit/ForceQuit split.
func (e *Editor) cmdQuit(p Payload) error {
	force, _ := p["force"].(bool)
	if !force && e.hasDirtyBuffer() {
		return corerr.NewCommandFailed("quit", "unsaved changes; pass force to discard")
	}
	return ErrQuit
}

func (e *Editor) hasDirtyBuffer() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, st := range e.buffers {
		if st.Buffer.IsModified() {
			return true
		}
	}
	return false
}
