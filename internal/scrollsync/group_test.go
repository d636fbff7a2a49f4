package scrollsync

import "testing"

func TestNewGroupStartsAtOriginLockstep(t *testing.T) {
	g := NewGroup(1, 2)
	if g.LeftScrollLine() != 0 || g.RightScrollLine() != 0 {
		t.Fatalf("left=%d right=%d, want 0,0", g.LeftScrollLine(), g.RightScrollLine())
	}
	g.SetScrollLine(10)
	if g.RightScrollLine() != 10 {
		t.Fatalf("right = %d, want 10 (lockstep with sole origin anchor)", g.RightScrollLine())
	}
}

func TestApplyScrollDeltaSaturatesAtZero(t *testing.T) {
	g := NewGroup(1, 2)
	g.SetScrollLine(5)
	g.ApplyScrollDelta(-20)
	if g.LeftScrollLine() != 0 {
		t.Fatalf("scroll line = %d, want saturated to 0", g.LeftScrollLine())
	}
}

func TestScenarioFourFromSpec(t *testing.T) {
	// spec §8 scenario 4: anchors [(0,0),(50,60)]; apply_scroll_delta(L,10)
	// => left 10, right 10; set_scroll_line(55) => left 55, right 65.
	g := NewGroup(1, 2)
	g.SetAnchors([]Anchor{{LeftLine: 0, RightLine: 0}, {LeftLine: 50, RightLine: 60}})

	g.ApplyScrollDelta(10)
	if g.LeftScrollLine() != 10 || g.RightScrollLine() != 10 {
		t.Fatalf("after delta: left=%d right=%d, want 10,10", g.LeftScrollLine(), g.RightScrollLine())
	}

	g.SetScrollLine(55)
	if g.LeftScrollLine() != 55 || g.RightScrollLine() != 65 {
		t.Fatalf("after set: left=%d right=%d, want 55,65", g.LeftScrollLine(), g.RightScrollLine())
	}
}

func TestAnchorLookupUsesGreatestLeftLineNotExceedingScrollLine(t *testing.T) {
	// from the glossary example: anchors [(0,0),(10,15)].
	g := NewGroup(1, 2)
	g.SetAnchors([]Anchor{{LeftLine: 0, RightLine: 0}, {LeftLine: 10, RightLine: 15}})

	g.SetScrollLine(7)
	if g.RightScrollLine() != 7 {
		t.Fatalf("left_to_right(7) = %d, want 7", g.RightScrollLine())
	}
	g.SetScrollLine(12)
	if g.RightScrollLine() != 17 {
		t.Fatalf("left_to_right(12) = %d, want 17", g.RightScrollLine())
	}
}

func TestSetAnchorsSortsAndInsertsMissingOrigin(t *testing.T) {
	g := NewGroup(1, 2)
	g.SetAnchors([]Anchor{{LeftLine: 30, RightLine: 40}, {LeftLine: 10, RightLine: 12}})

	anchors := g.Anchors()
	if len(anchors) != 3 {
		t.Fatalf("anchor count = %d, want 3 (origin inserted)", len(anchors))
	}
	if anchors[0].LeftLine != 0 || anchors[1].LeftLine != 10 || anchors[2].LeftLine != 30 {
		t.Fatalf("anchors not sorted: %+v", anchors)
	}
}

func TestManagerGroupForFindsContainingGroup(t *testing.T) {
	m := NewManager()
	g := m.Link(1, 2)

	found, ok := m.GroupFor(2)
	if !ok || found.ID() != g.ID() {
		t.Fatal("GroupFor should find the group containing split 2")
	}

	if _, ok := m.GroupFor(99); ok {
		t.Fatal("GroupFor should not find a group for an unlinked split")
	}
}

func TestManagerUnlinkRemovesGroup(t *testing.T) {
	m := NewManager()
	g := m.Link(1, 2)
	m.Unlink(g.ID())

	if _, ok := m.GroupFor(1); ok {
		t.Fatal("group should no longer be found after Unlink")
	}
}
