package editor

import (
	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/history"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/split"
)

// delta is one (pos, oldLen, newLen) edit span, the shape every sibling
// split's cursor set needs for AdjustForEdit (§4.7).
type delta struct {
	pos            piece.ByteOffset
	oldLen, newLen int
}

// deltasFor extracts the edit spans an Event represents, in application
// order, so sibling splits on the same buffer can be kept in sync with
// exactly the same adjustments bufstate.State.Apply made to the acting
// split.
func deltasFor(e history.Event) []delta {
	switch e.Kind {
	case history.KindInsert:
		return []delta{{pos: e.Range.Start, oldLen: 0, newLen: len(e.NewText)}}
	case history.KindDelete:
		return []delta{{pos: e.Range.Start, oldLen: int(e.Range.End - e.Range.Start), newLen: 0}}
	case history.KindBatch:
		var out []delta
		for _, sub := range e.Events {
			out = append(out, deltasFor(sub)...)
		}
		return out
	case history.KindBulkEdit:
		edits := append([]history.RecordedEdit(nil), e.Edits...)
		sortRecordedEditsByStart(edits)
		var out []delta
		var shift piece.ByteOffset
		for _, re := range edits {
			start := re.Edit.Range.Start + shift
			end := re.Edit.Range.End + shift
			oldLen := int(end - start)
			newLen := len(re.Edit.NewText)
			out = append(out, delta{pos: start, oldLen: oldLen, newLen: newLen})
			shift += piece.ByteOffset(newLen - oldLen)
		}
		return out
	default:
		return nil
	}
}

func sortRecordedEditsByStart(edits []history.RecordedEdit) {
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0 && edits[j].Edit.Range.Start < edits[j-1].Edit.Range.Start; j-- {
			edits[j], edits[j-1] = edits[j-1], edits[j]
		}
	}
}

// applyCommandEvent runs the §4.5 four-step contract for a single
// state-mutating command: log the event, apply it through the acting
// split's cursor set, then fan the same edit spans out to every sibling
// split on the same buffer (§4.7), since State.Apply only ever touches
// whichever *cursor.Set happens to be installed as state.Cursors at
// call time.
func (e *Editor) applyCommandEvent(leaf *split.Leaf, state *bufstate.State, ev history.Event) {
	state.Cursors = leaf.Cursors

	state.History.Append(ev)
	state.Apply(ev)

	for _, d := range deltasFor(ev) {
		e.positions.RecordMovement(state.ID, d.pos+piece.ByteOffset(d.newLen), d.pos)
	}

	if e.tree == nil {
		return
	}
	for _, sibling := range e.tree.SplitsForBuffer(leaf.BufferID) {
		if sibling.ID == leaf.ID {
			continue
		}
		for _, d := range deltasFor(ev) {
			sibling.Cursors.AdjustForEdit(d.pos, d.oldLen, d.newLen)
		}
	}
}
