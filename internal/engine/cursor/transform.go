package cursor

import (
	"github.com/corestash/corestash/internal/engine/piece"
)

// Edit is an alias for piece.Edit for convenience.
type Edit = piece.Edit

// ByteOffset and Point are aliases for the piece package's position types.
type (
	ByteOffset = piece.ByteOffset
	Point      = piece.Point
)

// TransformOffset updates an offset after an edit.
// Returns the new offset position.
//
// Transformation rules:
//   - If edit ends at or before offset (including an insert exactly at
//     offset): adjust offset by the edit's delta
//   - Otherwise, if edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	return adjustOffsetForEdit(offset, edit.Range.Start, int(edit.Range.End-edit.Range.Start), len(edit.NewText))
}

// TransformSelection updates a selection after an edit.
// Both anchor and head are transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// adjustOffsetForEdit is the shared before/within/after rule behind both
// TransformOffset (Edit-based callers) and Set.AdjustForEdit
// (length-based callers that have no NewText to build an Edit from):
// edits ending at or before offset (an insert exactly at offset
// included) shift it by the edit's delta, other edits starting at or
// after offset leave it unchanged, and edits spanning offset collapse it
// to the edit's end.
func adjustOffsetForEdit(offset, pos ByteOffset, oldLen, newLen int) ByteOffset {
	end := pos + ByteOffset(oldLen)
	if end <= offset {
		return offset - ByteOffset(oldLen) + ByteOffset(newLen)
	}
	if pos >= offset {
		return offset
	}
	return pos + ByteOffset(newLen)
}
