package navhistory

import (
	"testing"

	"github.com/corestash/corestash/internal/engine/bufstate"
)

func TestRecordMovementStartsPendingWithoutCommitting(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 10, 10)
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 (pending not yet committed)", s.Len())
	}
}

func TestRecordMovementCoalescesWithinGap(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 10, 10)
	s.RecordMovement(bufstate.ID(1), 40, 40) // within default 50-byte gap of 10
	s.RecordMovement(bufstate.ID(1), 55, 55) // within 50 bytes of *pending start* 10, not of 40

	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 (all coalesced into one pending entry)", s.Len())
	}
}

func TestRecordMovementCommitsOnLargeJump(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 10, 10)
	s.RecordMovement(bufstate.ID(1), 200, 200) // > 50 bytes from pending start

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestRecordMovementCommitsOnBufferSwitch(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 10, 10)
	s.RecordMovement(bufstate.ID(2), 10, 10)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestBackAndForwardNavigate(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 0, 0)
	s.RecordMovement(bufstate.ID(1), 500, 500)
	s.RecordMovement(bufstate.ID(1), 1000, 1000)

	if !s.CanGoBack() {
		t.Fatal("expected CanGoBack true after two committed entries")
	}

	e, ok := s.Back()
	if !ok || e.Position != 500 {
		t.Fatalf("Back() = %+v, %v, want position 500", e, ok)
	}

	e, ok = s.Back()
	if !ok || e.Position != 0 {
		t.Fatalf("Back() = %+v, %v, want position 0", e, ok)
	}

	if _, ok := s.Back(); ok {
		t.Fatal("Back() should fail at the oldest entry")
	}

	e, ok = s.Forward()
	if !ok || e.Position != 500 {
		t.Fatalf("Forward() = %+v, %v, want position 500", e, ok)
	}
}

func TestPushTruncatesForwardHistoryEvenOnDuplicate(t *testing.T) {
	s := NewStack()
	s.RecordMovement(bufstate.ID(1), 0, 0)
	s.RecordMovement(bufstate.ID(1), 500, 500)
	s.RecordMovement(bufstate.ID(1), 1000, 1000)

	s.Back()
	s.Back() // current now at position 0, position 1000 still in forward history

	// Re-visit position 0, then switch buffer so that entry is committed:
	// the push duplicates the current entry, yet forward history is still
	// truncated.
	s.RecordMovement(bufstate.ID(1), 0, 0)
	s.RecordMovement(bufstate.ID(2), 10, 10)

	if s.CanGoForward() {
		t.Fatal("forward history should have been truncated by the push")
	}
}

func TestMaxEntriesTrimsOldestFirst(t *testing.T) {
	s := NewStack(WithMaxEntries(2))
	s.RecordMovement(bufstate.ID(1), 0, 0)
	s.RecordMovement(bufstate.ID(2), 0, 0)
	s.RecordMovement(bufstate.ID(3), 0, 0)
	s.RecordMovement(bufstate.ID(4), 0, 0)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}
