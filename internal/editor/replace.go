package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/engine/history"
	"github.com/corestash/corestash/internal/engine/piece"
)

// cmdReplaceAll implements "replace-all": payload {"pattern": string,
// "replacement": string}. Per §5's cancellation rule, it pre-computes
// every match offset up front (piece.Buffer.FindAll already advances its
// scan position by max(len(pattern), 1) per match, so a replacement
// that reintroduces the pattern can never cause it to re-match) and
// applies them as a single BulkEdit, so the whole operation is one undo
// step and never leaves the buffer partially rewritten.
func (e *Editor) cmdReplaceAll(p Payload) error {
	pattern, err := payloadString(p, "pattern")
	if err != nil {
		return err
	}
	replacement, err := payloadString(p, "replacement")
	if err != nil {
		return err
	}
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}

	offsets := state.Buffer.FindAll(pattern, nil)
	if len(offsets) == 0 {
		return corerr.NewCommandFailed("replace-all", "no matches")
	}

	patLen := piece.ByteOffset(len(pattern))
	edits := make([]history.RecordedEdit, 0, len(offsets))
	for _, off := range offsets {
		edits = append(edits, history.RecordedEdit{
			Edit:    piece.Edit{Range: piece.Range{Start: off, End: off + patLen}, NewText: replacement},
			OldText: pattern,
		})
	}

	cur := leaf.Cursors.Primary()
	before := selectionsOf(leaf.Cursors)
	after := []cursor.Selection{cur.Selection.Clamp(clampedLen(state.Buffer.Len(), len(offsets), len(pattern), len(replacement)))}

	ev := history.NewBulkEditEvent(edits, before, after)
	e.applyCommandEvent(leaf, state, ev)
	return nil
}

func selectionsOf(cs *cursor.Set) []cursor.Selection {
	states := cs.All()
	sels := make([]cursor.Selection, len(states))
	for i, st := range states {
		sels[i] = st.Selection
	}
	return sels
}

// clampedLen estimates the post-replace buffer length so the retained
// primary cursor clamps into range without re-reading the buffer.
func clampedLen(oldLen piece.ByteOffset, matches, patLen, replLen int) piece.ByteOffset {
	return oldLen + piece.ByteOffset(matches*(replLen-patLen))
}
