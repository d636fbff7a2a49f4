package history

import (
	"testing"
	"time"

	"github.com/corestash/corestash/internal/engine/cursor"
)

func TestInsertEventInvertIsDelete(t *testing.T) {
	e := NewInsertEvent(1, 10, "hi")
	inv := e.Invert()

	if inv.Kind != KindDelete {
		t.Fatalf("Kind = %v, want Delete", inv.Kind)
	}
	if inv.Range.Start != 10 || inv.Range.End != 12 {
		t.Fatalf("Range = %+v, want [10,12)", inv.Range)
	}
	if inv.OldText != "hi" {
		t.Fatalf("OldText = %q, want %q", inv.OldText, "hi")
	}
}

func TestDeleteEventInvertIsInsert(t *testing.T) {
	e := NewDeleteEvent(1, Range{Start: 5, End: 8}, "abc")
	inv := e.Invert()

	if inv.Kind != KindInsert {
		t.Fatalf("Kind = %v, want Insert", inv.Kind)
	}
	if inv.Range.Start != 5 || inv.Range.End != 5 {
		t.Fatalf("Range = %+v, want [5,5)", inv.Range)
	}
	if inv.NewText != "abc" {
		t.Fatalf("NewText = %q, want %q", inv.NewText, "abc")
	}
}

func TestMoveCursorEventInvertSwaps(t *testing.T) {
	old := cursor.NewCursorSelection(3)
	updated := cursor.NewCursorSelection(9)
	e := NewMoveCursorEvent(1, old, updated)
	inv := e.Invert()

	if inv.OldSelection != updated || inv.NewSelection != old {
		t.Fatalf("Invert did not swap selections: %+v", inv)
	}
}

func TestBatchEventInvertReversesOrder(t *testing.T) {
	e := Event{Kind: KindBatch, Events: []Event{
		NewInsertEvent(1, 0, "a"),
		NewInsertEvent(1, 1, "b"),
	}}
	inv := e.Invert()

	if len(inv.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(inv.Events))
	}
	// last-applied insert ("b" at 1) must be undone first.
	if inv.Events[0].Range.Start != 1 || inv.Events[1].Range.Start != 0 {
		t.Fatalf("Batch invert did not reverse order: %+v", inv.Events)
	}
	if inv.Events[0].Kind != KindDelete || inv.Events[1].Kind != KindDelete {
		t.Fatalf("Batch invert members not inverted: %+v", inv.Events)
	}
}

func TestHistoryAppendUndoRedo(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.Append(NewInsertEvent(1, 0, "x"))

	if h.Head() != 1 {
		t.Fatalf("Head() = %d, want 1", h.Head())
	}

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindDelete {
		t.Fatalf("Undo() Kind = %v, want Delete", undone.Kind)
	}
	if h.Head() != 0 {
		t.Fatalf("Head() after Undo = %d, want 0", h.Head())
	}

	redone, ok := h.Redo()
	if !ok {
		t.Fatal("Redo() returned ok=false")
	}
	if redone.Kind != KindInsert {
		t.Fatalf("Redo() Kind = %v, want Insert", redone.Kind)
	}
	if h.Head() != 1 {
		t.Fatalf("Head() after Redo = %d, want 1", h.Head())
	}
}

func TestHistoryUndoAtEmptyLog(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	if _, ok := h.Undo(); ok {
		t.Fatal("Undo() on empty log should return ok=false")
	}
}

func TestHistoryRedoAtTip(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.Append(NewInsertEvent(1, 0, "x"))
	if _, ok := h.Redo(); ok {
		t.Fatal("Redo() at tip should return ok=false")
	}
}

func TestHistoryAppendPastHeadTruncatesRedoTail(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.Append(NewInsertEvent(1, 0, "a"))
	h.Append(NewDeleteEvent(2, Range{Start: 10, End: 11}, "z"))
	h.Undo() // head back to 1

	h.Append(NewInsertEvent(3, 5, "q"))

	if h.Head() != 2 {
		t.Fatalf("Head() = %d, want 2", h.Head())
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("Redo() should be unavailable after the redo tail was truncated")
	}
}

func TestHistoryTruncateToHead(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.Append(NewInsertEvent(1, 0, "a"))
	h.Append(NewInsertEvent(2, 1, "b"))
	h.Undo()
	h.TruncateToHead()

	if _, ok := h.Redo(); ok {
		t.Fatal("Redo() should be unavailable after TruncateToHead")
	}
}

func TestHistoryCoalescesTypingBurst(t *testing.T) {
	h := NewHistory(100, time.Second)
	base := time.Now()

	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base, Range: Range{Start: 0, End: 0}, NewText: "a"})
	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base.Add(time.Millisecond), Range: Range{Start: 1, End: 1}, NewText: "b"})
	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base.Add(2 * time.Millisecond), Range: Range{Start: 2, End: 2}, NewText: "c"})

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindBatch {
		t.Fatalf("Undo() Kind = %v, want Batch for a coalesced run", undone.Kind)
	}
	if len(undone.Events) != 3 {
		t.Fatalf("coalesced Batch has %d events, want 3", len(undone.Events))
	}
	if h.Head() != 0 {
		t.Fatalf("Head() after coalesced Undo = %d, want 0", h.Head())
	}
}

func TestHistoryDoesNotCoalesceAcrossCursors(t *testing.T) {
	h := NewHistory(100, time.Second)
	base := time.Now()

	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base, Range: Range{Start: 0, End: 0}, NewText: "a"})
	h.Append(Event{Kind: KindInsert, CursorID: 2, Timestamp: base.Add(time.Millisecond), Range: Range{Start: 10, End: 10}, NewText: "z"})

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindDelete {
		t.Fatalf("Undo() Kind = %v, want a single Delete (no cross-cursor coalescing)", undone.Kind)
	}
	if h.Head() != 1 {
		t.Fatalf("Head() after Undo = %d, want 1", h.Head())
	}
}

func TestHistoryDoesNotCoalesceOutsideWindow(t *testing.T) {
	h := NewHistory(100, 5*time.Millisecond)
	base := time.Now()

	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base, Range: Range{Start: 0, End: 0}, NewText: "a"})
	h.Append(Event{Kind: KindInsert, CursorID: 1, Timestamp: base.Add(time.Second), Range: Range{Start: 1, End: 1}, NewText: "b"})

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindDelete {
		t.Fatalf("Undo() Kind = %v, want a single Delete outside the coalesce window", undone.Kind)
	}
}

func TestHistoryLastIsInsertAt(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	if h.LastIsInsertAt(0) {
		t.Fatal("LastIsInsertAt on empty log should be false")
	}

	h.Append(NewInsertEvent(1, 4, "xy"))
	if !h.LastIsInsertAt(6) {
		t.Fatal("LastIsInsertAt(6) should be true after inserting \"xy\" at 4")
	}
	if h.LastIsInsertAt(4) {
		t.Fatal("LastIsInsertAt(4) should be false; the insert ends at 6")
	}
}

func TestHistoryMaxEntriesTrims(t *testing.T) {
	h := NewHistory(2, time.Millisecond)
	h.Append(NewInsertEvent(1, 0, "a"))
	time.Sleep(2 * time.Millisecond)
	h.Append(NewInsertEvent(2, 1, "b"))
	time.Sleep(2 * time.Millisecond)
	h.Append(NewInsertEvent(3, 2, "c"))

	if h.Head() != 2 {
		t.Fatalf("Head() = %d, want 2 after trimming to maxEntries", h.Head())
	}
}

func TestHistoryGroupCommitsAsBatch(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.BeginGroup("replace all")
	h.Append(NewInsertEvent(1, 0, "a"))
	h.Append(NewInsertEvent(1, 10, "b"))
	h.EndGroup()

	if h.Head() != 1 {
		t.Fatalf("Head() = %d, want 1 (one Batch entry)", h.Head())
	}

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindBatch || len(undone.Events) != 2 {
		t.Fatalf("Undo() = %+v, want a 2-member Batch", undone)
	}
}

func TestHistoryGroupOfOneAppendsDirectly(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.BeginGroup("single")
	h.Append(NewInsertEvent(1, 0, "a"))
	h.EndGroup()

	undone, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned ok=false")
	}
	if undone.Kind != KindDelete {
		t.Fatalf("Undo() Kind = %v, want Delete for a group of one", undone.Kind)
	}
}

func TestHistoryCancelGroupDiscardsBufferedEvents(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.BeginGroup("aborted")
	h.Append(NewInsertEvent(1, 0, "a"))
	h.CancelGroup()

	if h.Head() != 0 {
		t.Fatalf("Head() = %d, want 0 after CancelGroup", h.Head())
	}
	if h.Grouping() {
		t.Fatal("Grouping() should be false after CancelGroup")
	}
}

func TestHistoryGroupScopeCommitsOnNormalReturn(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	h.GroupScope("batch", func() {
		h.Append(NewInsertEvent(1, 0, "a"))
		h.Append(NewInsertEvent(1, 10, "b"))
	})

	if h.Head() != 1 {
		t.Fatalf("Head() = %d, want 1", h.Head())
	}
}

func TestHistoryGroupScopeRollsBackOnPanic(t *testing.T) {
	h := NewHistory(100, time.Millisecond)
	func() {
		defer func() { recover() }()
		h.GroupScope("batch", func() {
			h.Append(NewInsertEvent(1, 0, "a"))
			panic("boom")
		})
	}()

	if h.Head() != 0 {
		t.Fatalf("Head() = %d, want 0 after a panicking GroupScope rolled back", h.Head())
	}
	if h.Grouping() {
		t.Fatal("Grouping() should be false after rollback")
	}
}
