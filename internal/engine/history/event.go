package history

import (
	"time"

	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/engine/piece"
)

// ByteOffset is an alias for piece.ByteOffset for convenience.
type ByteOffset = piece.ByteOffset

// Range is an alias for piece.Range for convenience.
type Range = piece.Range

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Kind tags which variant of Event is populated. Go has no sum types, so
// Event is a flat struct with one field group per Kind, following the
// same Range/OldText/NewText substrate the teacher's Operation type used
// for its Insert/Delete/Replace cases.
type Kind uint8

const (
	KindInsert Kind = iota
	KindDelete
	KindMoveCursor
	KindBatch
	KindBulkEdit
	KindShowPopup
	KindHidePopup
	KindSetViewport
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "Insert"
	case KindDelete:
		return "Delete"
	case KindMoveCursor:
		return "MoveCursor"
	case KindBatch:
		return "Batch"
	case KindBulkEdit:
		return "BulkEdit"
	case KindShowPopup:
		return "ShowPopup"
	case KindHidePopup:
		return "HidePopup"
	case KindSetViewport:
		return "SetViewport"
	default:
		return "Unknown"
	}
}

// Event is one entry in the undo/redo log (§4.4).
type Event struct {
	Kind      Kind
	Timestamp time.Time

	// CursorID identifies the cursor that produced an Insert/Delete, used
	// by the coalescing rule to tell concurrent multi-cursor edits apart.
	CursorID cursor.ID

	// Insert: Range is empty (Start==End==insertion point), NewText is
	// the inserted text. Delete: Range is the deleted span, OldText is
	// the text it contained. The two share this substrate because
	// inverting one produces the other.
	Range   Range
	OldText string
	NewText string

	// MoveCursor.
	OldSelection Selection
	NewSelection Selection

	// Batch: an ordered group of events undone/redone as one unit.
	Events []Event

	// BulkEdit: edits applied relative to the pre-edit buffer, with the
	// text each replaced captured so the whole group can be inverted.
	Edits         []RecordedEdit
	CursorsBefore []Selection
	CursorsAfter  []Selection

	// ShowPopup / HidePopup.
	PopupID   string
	PopupText string

	// SetViewport.
	OldTopLine int
	NewTopLine int
}

// RecordedEdit is one edit of a BulkEdit, carrying the text it replaced so
// the edit can be inverted without re-reading the buffer. Range is stated
// relative to the buffer as it stood before any sub-edit in the BulkEdit
// was applied (§4.3); applyBulkEditLocked replays edits in ascending
// Range.Start order with a running delta to find each one's actual
// landing position.
type RecordedEdit struct {
	Edit    piece.Edit
	OldText string
}

// invertBulkEdits inverts every sub-edit of a BulkEdit, tracking the same
// cumulative forward delta applyBulkEditLocked uses when replaying edits
// in ascending original-offset order. Each inverted edit's Range is
// therefore stated at the position its forward counterpart actually
// landed at post-delta, not the raw pre-edit offset every RecordedEdit
// still carries — using the raw offset directly would target the wrong
// bytes for every sub-edit after the first once earlier sub-edits have
// shifted the buffer.
func invertBulkEdits(edits []RecordedEdit) []RecordedEdit {
	sorted := append([]RecordedEdit(nil), edits...)
	sortRecordedEditsByOriginalStart(sorted)

	inverted := make([]RecordedEdit, len(sorted))
	var delta ByteOffset
	for i, re := range sorted {
		start := re.Edit.Range.Start + delta
		oldLen := int(re.Edit.Range.End - re.Edit.Range.Start)
		newLen := len(re.Edit.NewText)
		end := start + ByteOffset(newLen)

		inverted[i] = RecordedEdit{
			Edit:    piece.Edit{Range: Range{Start: start, End: end}, NewText: re.OldText},
			OldText: re.Edit.NewText,
		}
		delta += ByteOffset(newLen - oldLen)
	}
	return inverted
}

func sortRecordedEditsByOriginalStart(edits []RecordedEdit) {
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0 && edits[j].Edit.Range.Start < edits[j-1].Edit.Range.Start; j-- {
			edits[j], edits[j-1] = edits[j-1], edits[j]
		}
	}
}

// NewInsertEvent creates an Insert event for text inserted at pos by cursor id.
func NewInsertEvent(id cursor.ID, pos ByteOffset, text string) Event {
	return Event{
		Kind:     KindInsert,
		CursorID: id,
		Range:    Range{Start: pos, End: pos},
		NewText:  text,
	}
}

// NewDeleteEvent creates a Delete event for deletedText removed from r by cursor id.
func NewDeleteEvent(id cursor.ID, r Range, deletedText string) Event {
	return Event{
		Kind:     KindDelete,
		CursorID: id,
		Range:    r,
		OldText:  deletedText,
	}
}

// NewMoveCursorEvent creates a MoveCursor event.
func NewMoveCursorEvent(id cursor.ID, old, updated Selection) Event {
	return Event{Kind: KindMoveCursor, CursorID: id, OldSelection: old, NewSelection: updated}
}

// NewBulkEditEvent creates a BulkEdit event. cursorsBefore must be captured
// before any edit in edits is applied, per §4.4's pre-image requirement.
func NewBulkEditEvent(edits []RecordedEdit, cursorsBefore, cursorsAfter []Selection) Event {
	return Event{
		Kind:          KindBulkEdit,
		Edits:         edits,
		CursorsBefore: cursorsBefore,
		CursorsAfter:  cursorsAfter,
	}
}

// Invert returns the event that undoes e, per the rules in §4.4:
// Insert<->Delete, MoveCursor swaps old/new, Batch reverses and inverts
// each member, BulkEdit reverses and inverts each edit and restores the
// pre-edit cursor set.
func (e Event) Invert() Event {
	inv := Event{Kind: e.Kind, Timestamp: e.Timestamp, CursorID: e.CursorID}

	switch e.Kind {
	case KindInsert:
		inv.Kind = KindDelete
		inv.Range = Range{Start: e.Range.Start, End: e.Range.Start + ByteOffset(len(e.NewText))}
		inv.OldText = e.NewText
	case KindDelete:
		inv.Kind = KindInsert
		inv.Range = Range{Start: e.Range.Start, End: e.Range.Start}
		inv.NewText = e.OldText
	case KindMoveCursor:
		inv.OldSelection = e.NewSelection
		inv.NewSelection = e.OldSelection
	case KindBatch:
		events := make([]Event, len(e.Events))
		for i, sub := range e.Events {
			events[len(e.Events)-1-i] = sub.Invert()
		}
		inv.Events = events
	case KindBulkEdit:
		inv.Edits = invertBulkEdits(e.Edits)
		inv.CursorsBefore = e.CursorsAfter
		inv.CursorsAfter = e.CursorsBefore
	case KindShowPopup:
		inv.Kind = KindHidePopup
		inv.PopupID = e.PopupID
	case KindHidePopup:
		inv.Kind = KindShowPopup
		inv.PopupID = e.PopupID
		inv.PopupText = e.PopupText
	case KindSetViewport:
		inv.OldTopLine = e.NewTopLine
		inv.NewTopLine = e.OldTopLine
	default:
		return e
	}
	return inv
}

// Description returns a short human-readable label, used by undo/redo
// menus and the status line.
func (e Event) Description() string {
	switch e.Kind {
	case KindInsert:
		if e.NewText == "\n" {
			return "Insert newline"
		}
		return "Insert text"
	case KindDelete:
		return "Delete text"
	case KindMoveCursor:
		return "Move cursor"
	case KindBatch:
		if len(e.Events) == 1 {
			return e.Events[0].Description()
		}
		return "Grouped edit"
	case KindBulkEdit:
		return "Multi-cursor edit"
	case KindShowPopup:
		return "Show popup"
	case KindHidePopup:
		return "Hide popup"
	case KindSetViewport:
		return "Scroll"
	default:
		return "Unknown event"
	}
}
