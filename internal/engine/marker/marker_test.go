package marker

import "testing"

func TestListCreateGetPosition(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, false)

	pos, ok := l.GetPosition(id)
	if !ok || pos != 10 {
		t.Fatalf("GetPosition() = %d, %v, want 10, true", pos, ok)
	}
}

func TestListDeleteTombstone(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, false)
	l.Delete(id)

	if _, ok := l.GetPosition(id); ok {
		t.Fatal("deleted marker should never resolve again")
	}
	// Deleting again is a no-op, not an error.
	l.Delete(id)
}

func TestListGetPositionUnknown(t *testing.T) {
	l := NewList(100)
	if _, ok := l.GetPosition(999); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestAdjustForInsertAfter(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, false)
	l.AdjustForInsert(5, 3)

	pos, _ := l.GetPosition(id)
	if pos != 13 {
		t.Fatalf("marker after insert point should shift, got %d, want 13", pos)
	}
}

func TestAdjustForInsertAtRightAffinity(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, false) // Right affinity
	l.AdjustForInsert(10, 4)

	pos, _ := l.GetPosition(id)
	if pos != 14 {
		t.Fatalf("right-affinity marker at insert point should shift, got %d, want 14", pos)
	}
}

func TestAdjustForInsertAtLeftAffinity(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, true) // Left affinity
	l.AdjustForInsert(10, 4)

	pos, _ := l.GetPosition(id)
	if pos != 10 {
		t.Fatalf("left-affinity marker at insert point should stay, got %d, want 10", pos)
	}
}

func TestAdjustForInsertBefore(t *testing.T) {
	l := NewList(100)
	id := l.Create(10, false)
	l.AdjustForInsert(20, 5)

	pos, _ := l.GetPosition(id)
	if pos != 10 {
		t.Fatalf("marker before insert point should not move, got %d, want 10", pos)
	}
}

func TestAdjustForDeleteInsideRange(t *testing.T) {
	l := NewList(100)
	id := l.Create(15, false)
	l.AdjustForDelete(10, 10) // deletes [10, 20)

	pos, _ := l.GetPosition(id)
	if pos != 10 {
		t.Fatalf("marker inside deleted range should collapse to start, got %d, want 10", pos)
	}
}

func TestAdjustForDeleteAfterRange(t *testing.T) {
	l := NewList(100)
	id := l.Create(30, false)
	l.AdjustForDelete(10, 10) // deletes [10, 20)

	pos, _ := l.GetPosition(id)
	if pos != 20 {
		t.Fatalf("marker after deleted range should shift back, got %d, want 20", pos)
	}
}

func TestAdjustForDeleteBeforeRange(t *testing.T) {
	l := NewList(100)
	id := l.Create(5, false)
	l.AdjustForDelete(10, 10)

	pos, _ := l.GetPosition(id)
	if pos != 5 {
		t.Fatalf("marker before deleted range should not move, got %d, want 5", pos)
	}
}

func TestSetBufferSizeClampsNewMarkers(t *testing.T) {
	l := NewList(10)
	l.SetBufferSize(5)
	id := l.Create(9, false)

	pos, _ := l.GetPosition(id)
	if pos != 5 {
		t.Fatalf("new marker should clamp to the buffer size, got %d, want 5", pos)
	}
}

func TestMultipleMarkersIndependentAdjust(t *testing.T) {
	l := NewList(100)
	a := l.Create(5, false)
	b := l.Create(15, false)
	c := l.Create(25, false)

	l.AdjustForInsert(10, 2)

	if pos, _ := l.GetPosition(a); pos != 5 {
		t.Fatalf("marker a moved unexpectedly: %d", pos)
	}
	if pos, _ := l.GetPosition(b); pos != 17 {
		t.Fatalf("marker b = %d, want 17", pos)
	}
	if pos, _ := l.GetPosition(c); pos != 27 {
		t.Fatalf("marker c = %d, want 27", pos)
	}
}
