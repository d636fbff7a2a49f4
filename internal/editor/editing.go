package editor

import (
	"strings"

	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/history"
	"github.com/corestash/corestash/internal/engine/piece"
)

// cmdInsert implements "insert": payload {"text": string}. Inserts at
// the active split's primary cursor.
func (e *Editor) cmdInsert(p Payload) error {
	text, err := payloadString(p, "text")
	if err != nil {
		return err
	}
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	ev := history.NewInsertEvent(cur.ID, cur.Selection.Cursor(), text)
	e.applyCommandEvent(leaf, state, ev)
	return nil
}

// cmdDelete implements "delete": payload {"range": [start, end]} or, if
// absent, deletes the primary cursor's current selection (or one byte
// backward if the selection is empty, mirroring backspace).
func (e *Editor) cmdDelete(p Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()

	start, end, ok := payloadRange(p)
	if !ok {
		sel := cur.Selection
		if sel.IsEmpty() {
			if sel.Cursor() == 0 {
				return corerr.NewCommandFailed("delete", "nothing to delete")
			}
			start, end = sel.Cursor()-1, sel.Cursor()
		} else {
			start, end = sel.Start(), sel.End()
		}
	}

	deleted := state.Buffer.TextRange(start, end)
	ev := history.NewDeleteEvent(cur.ID, piece.Range{Start: start, End: end}, deleted)
	e.applyCommandEvent(leaf, state, ev)
	return nil
}

func payloadRange(p Payload) (start, end piece.ByteOffset, ok bool) {
	v, present := p["range"]
	if !present {
		return 0, 0, false
	}
	pair, isPair := v.([2]int64)
	if isPair {
		return piece.ByteOffset(pair[0]), piece.ByteOffset(pair[1]), true
	}
	slice, isSlice := v.([]int64)
	if isSlice && len(slice) == 2 {
		return piece.ByteOffset(slice[0]), piece.ByteOffset(slice[1]), true
	}
	return 0, 0, false
}

// cmdReplaceSelection implements "replace-selection": payload {"text": string}.
func (e *Editor) cmdReplaceSelection(p Payload) error {
	text, err := payloadString(p, "text")
	if err != nil {
		return err
	}
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	sel := cur.Selection
	if sel.IsEmpty() {
		return corerr.NewCommandFailed("replace-selection", "no active selection")
	}

	state.History.BeginGroup("Replace selection")
	deleted := state.Buffer.TextRange(sel.Start(), sel.End())
	e.applyCommandEvent(leaf, state, history.NewDeleteEvent(cur.ID, piece.Range{Start: sel.Start(), End: sel.End()}, deleted))
	e.applyCommandEvent(leaf, state, history.NewInsertEvent(cur.ID, sel.Start(), text))
	state.History.EndGroup()
	return nil
}

// cmdUndo implements "undo": pops the coalesced run at head and applies
// its inverse directly (§4.4 — undo/redo never themselves append to the log).
func (e *Editor) cmdUndo(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	inv, ok := state.History.Undo()
	if !ok {
		return corerr.NewCommandFailed("undo", "nothing to undo")
	}
	state.Cursors = leaf.Cursors
	state.Apply(inv)
	return nil
}

// cmdRedo implements "redo": replays the run Undo last consumed.
func (e *Editor) cmdRedo(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	ev, ok := state.History.Redo()
	if !ok {
		return corerr.NewCommandFailed("redo", "nothing to redo")
	}
	state.Cursors = leaf.Cursors
	state.Apply(ev)
	return nil
}

// cmdToggleComment implements "toggle-comment": payload {"prefix": string,
// default "// "}. Toggles the prefix on every line the primary
// selection spans, as a single undo group.
func (e *Editor) cmdToggleComment(p Payload) error {
	prefix, err := payloadString(p, "prefix")
	if err != nil {
		prefix = "// "
	}
	leaf, state, err2 := e.activeBuffer()
	if err2 != nil {
		return err2
	}
	cur := leaf.Cursors.Primary()
	startLine := state.Buffer.OffsetToPoint(cur.Selection.Start()).Line
	endLine := state.Buffer.OffsetToPoint(cur.Selection.End()).Line

	allCommented := true
	for ln := startLine; ln <= endLine; ln++ {
		if !strings.HasPrefix(strings.TrimLeft(state.Buffer.LineText(ln), " \t"), prefix) {
			allCommented = false
			break
		}
	}

	state.History.BeginGroup("Toggle comment")
	for ln := startLine; ln <= endLine; ln++ {
		lineStart := state.Buffer.LineStartOffset(ln)
		text := state.Buffer.LineText(ln)
		trimmed := strings.TrimLeft(text, " \t")
		indent := len(text) - len(trimmed)

		if allCommented {
			if strings.HasPrefix(trimmed, prefix) {
				from := lineStart + piece.ByteOffset(indent)
				to := from + piece.ByteOffset(len(prefix))
				old := state.Buffer.TextRange(from, to)
				e.applyCommandEvent(leaf, state, history.NewDeleteEvent(cur.ID, piece.Range{Start: from, End: to}, old))
			}
		} else {
			at := lineStart + piece.ByteOffset(indent)
			e.applyCommandEvent(leaf, state, history.NewInsertEvent(cur.ID, at, prefix))
		}
	}
	state.History.EndGroup()
	return nil
}

// cmdCaseConvert implements "case-convert": payload {"mode": "upper"|"lower"|"title"}.
func (e *Editor) cmdCaseConvert(p Payload) error {
	mode, err := payloadString(p, "mode")
	if err != nil {
		return err
	}
	leaf, state, err2 := e.activeBuffer()
	if err2 != nil {
		return err2
	}
	cur := leaf.Cursors.Primary()
	sel := cur.Selection
	if sel.IsEmpty() {
		return corerr.NewCommandFailed("case-convert", "no active selection")
	}

	old := state.Buffer.TextRange(sel.Start(), sel.End())
	var converted string
	switch mode {
	case "upper":
		converted = strings.ToUpper(old)
	case "lower":
		converted = strings.ToLower(old)
	case "title":
		converted = strings.Title(old) //nolint:staticcheck // simple word-boundary convert; full Unicode title-casing is out of scope.
	default:
		return corerr.NewCommandFailed("case-convert", "unknown mode "+mode)
	}
	if converted == old {
		return nil
	}

	state.History.BeginGroup("Case convert")
	e.applyCommandEvent(leaf, state, history.NewDeleteEvent(cur.ID, piece.Range{Start: sel.Start(), End: sel.End()}, old))
	e.applyCommandEvent(leaf, state, history.NewInsertEvent(cur.ID, sel.Start(), converted))
	state.History.EndGroup()
	return nil
}
