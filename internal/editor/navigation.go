package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/navhistory"
	"github.com/corestash/corestash/internal/split"
)

// cmdBack implements "back": commits any pending position-history
// movement, steps to the previous entry, switches buffers if needed,
// and moves the primary cursor there.
func (e *Editor) cmdBack(_ Payload) error {
	entry, ok := e.positions.Back()
	if !ok {
		return corerr.NewCommandFailed("back", "no earlier position")
	}
	return e.gotoHistoryEntry(entry)
}

// cmdForward implements "forward": the mirror of cmdBack.
func (e *Editor) cmdForward(_ Payload) error {
	entry, ok := e.positions.Forward()
	if !ok {
		return corerr.NewCommandFailed("forward", "no later position")
	}
	return e.gotoHistoryEntry(entry)
}

func (e *Editor) gotoHistoryEntry(entry navhistory.Entry) error {
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	targetBuf := split.BufferID(entry.BufferID)
	if targetBuf != leaf.BufferID {
		state, ok := e.bufferState(targetBuf)
		if !ok {
			return ErrBufferNotFound
		}
		cursors := cursor.NewSet(state.Cursors.Primary().Selection)
		if err := e.tree.SetBuffer(leaf.ID, targetBuf, cursors); err != nil {
			return err
		}
		leaf = e.tree.Leaf(leaf.ID)
	}
	leaf.Cursors.Primary().Selection = leaf.Cursors.Primary().Selection.MoveTo(entry.Position)
	return nil
}

// cmdGotoLine implements "goto-line": payload {"line": int} (1-indexed,
// matching the conventional editor status line).
func (e *Editor) cmdGotoLine(p Payload) error {
	line := payloadInt(p, "line", 0)
	if line <= 0 {
		return corerr.NewCommandFailed("goto-line", "line must be >= 1")
	}
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	target := uint32(line - 1)
	if target >= state.Buffer.LineCount() {
		return corerr.NewCommandFailed("goto-line", "line out of range")
	}
	offset := state.Buffer.LineStartOffset(target)
	cur := leaf.Cursors.Primary()
	cur.Selection = cur.Selection.MoveTo(offset)
	e.positions.RecordMovement(state.ID, offset, offset)
	return nil
}

// cmdGotoDefinition implements "goto-definition". No language-server
// integration is in scope, so this always reports CommandFailed.
func (e *Editor) cmdGotoDefinition(_ Payload) error {
	return corerr.NewCommandFailed("goto-definition", "no definition provider configured")
}
