package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/engine/piece"
)

// cmdExtendLeft/Right implement horizontal extend-*: move the primary
// cursor's head by one byte, extending from its anchor, and reset
// sticky_column per §4.3 ("horizontal motion resets it").
func (e *Editor) cmdExtendLeft(_ Payload) error  { return e.extendHorizontal(-1) }
func (e *Editor) cmdExtendRight(_ Payload) error { return e.extendHorizontal(1) }

func (e *Editor) extendHorizontal(delta int) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	head := cur.Selection.Cursor() + piece.ByteOffset(delta)
	if head < 0 {
		head = 0
	}
	if max := state.Buffer.Len(); head > max {
		head = max
	}
	cur.Selection = cur.Selection.Extend(head)
	cur.HasSticky = false
	return nil
}

// cmdExtendUp/Down implement vertical extend-*: motion targets
// sticky_column, set from the current column on the first vertical
// move and preserved across a shorter line without updating it.
func (e *Editor) cmdExtendUp(_ Payload) error   { return e.extendVertical(-1) }
func (e *Editor) cmdExtendDown(_ Payload) error { return e.extendVertical(1) }

func (e *Editor) extendVertical(lineDelta int) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	point := state.Buffer.OffsetToPoint(cur.Selection.Cursor())

	if !cur.HasSticky {
		cur.StickyColumn = int(point.Column)
		cur.HasSticky = true
	}

	newLine := int64(point.Line) + int64(lineDelta)
	if newLine < 0 {
		newLine = 0
	}
	if max := int64(state.Buffer.LineCount()) - 1; newLine > max {
		newLine = max
	}

	lineLen := state.Buffer.LineLen(uint32(newLine))
	col := cur.StickyColumn
	if col > lineLen {
		col = lineLen
	}
	offset := state.Buffer.LineStartOffset(uint32(newLine)) + piece.ByteOffset(col)
	cur.Selection = cur.Selection.Extend(offset)
	return nil
}

// cmdSelectLine implements "select-line": selects the primary cursor's
// current line, including its trailing newline if any.
func (e *Editor) cmdSelectLine(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	line := state.Buffer.OffsetToPoint(cur.Selection.Cursor()).Line
	start := state.Buffer.LineStartOffset(line)
	end := state.Buffer.LineEndOffset(line)
	cur.Selection = cursor.NewRangeSelection(cursor.Range{Start: start, End: end})
	return nil
}

// cmdSelectWord implements "select-word": selects the run of word
// characters (alphanumeric or underscore) the primary cursor sits in.
func (e *Editor) cmdSelectWord(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	pos := cur.Selection.Cursor()
	line := state.Buffer.OffsetToPoint(pos).Line
	text := state.Buffer.LineText(line)
	lineStart := state.Buffer.LineStartOffset(line)
	col := int(pos - lineStart)
	if col < 0 || col > len(text) {
		return corerr.NewCommandFailed("select-word", "cursor out of line bounds")
	}

	start, end := col, col
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	cur.Selection = cursor.NewRangeSelection(cursor.Range{
		Start: lineStart + piece.ByteOffset(start),
		End:   lineStart + piece.ByteOffset(end),
	})
	return nil
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// cmdSelectAll implements "select-all".
func (e *Editor) cmdSelectAll(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	cur.Selection = cursor.NewRangeSelection(cursor.Range{Start: 0, End: state.Buffer.Len()})
	return nil
}

// cmdAddCursorUp/Down implement add-cursor-*: adds a new cursor one
// line above/below the primary at the same column; the new cursor
// becomes primary (§4.3 Add contract).
func (e *Editor) cmdAddCursorUp(_ Payload) error   { return e.addCursorVertical(-1) }
func (e *Editor) cmdAddCursorDown(_ Payload) error { return e.addCursorVertical(1) }

func (e *Editor) addCursorVertical(lineDelta int) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	cur := leaf.Cursors.Primary()
	point := state.Buffer.OffsetToPoint(cur.Selection.Cursor())
	newLine := int64(point.Line) + int64(lineDelta)
	if newLine < 0 || newLine >= int64(state.Buffer.LineCount()) {
		return corerr.NewCommandFailed("add-cursor", "no adjacent line")
	}
	lineLen := state.Buffer.LineLen(uint32(newLine))
	col := int(point.Column)
	if col > lineLen {
		col = lineLen
	}
	offset := state.Buffer.LineStartOffset(uint32(newLine)) + piece.ByteOffset(col)
	leaf.Cursors.Add(cursor.NewCursorSelection(offset))
	return nil
}

// cmdRemoveSecondary implements "remove-secondary": collapses back to
// the lowest-id cursor.
func (e *Editor) cmdRemoveSecondary(_ Payload) error {
	leaf, _, err := e.activeBuffer()
	if err != nil {
		return err
	}
	leaf.Cursors.RemoveSecondary()
	return nil
}
