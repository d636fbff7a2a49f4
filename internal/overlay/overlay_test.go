package overlay

import (
	"testing"

	"github.com/corestash/corestash/internal/engine/marker"
	"github.com/corestash/corestash/internal/renderer/core"
)

func TestManagerAddAndResolve(t *testing.T) {
	markers := marker.NewList(100)
	m := NewManager(markers)

	id := m.Add(Range{Start: 4, End: 7}, Background(core.ColorRed), PriorityError, "bad thing")

	resolved := m.OverlaysIn(Range{Start: 0, End: 100})
	if len(resolved) != 1 {
		t.Fatalf("OverlaysIn returned %d overlays, want 1", len(resolved))
	}
	if resolved[0].ID != id || resolved[0].Range.Start != 4 || resolved[0].Range.End != 7 {
		t.Fatalf("resolved overlay = %+v", resolved[0])
	}
}

func TestManagerOverlayTracksInsert(t *testing.T) {
	markers := marker.NewList(100)
	m := NewManager(markers)
	m.Add(Range{Start: 10, End: 20}, Foreground(core.ColorBlue), 0, "")

	markers.AdjustForInsert(5, 3) // insert 3 bytes before the overlay

	resolved := m.OverlaysIn(Range{Start: 0, End: 100})
	if resolved[0].Range.Start != 13 || resolved[0].Range.End != 23 {
		t.Fatalf("overlay did not track insert: %+v", resolved[0])
	}
}

func TestManagerRemoveDeletesMarkers(t *testing.T) {
	markers := marker.NewList(100)
	m := NewManager(markers)
	id := m.Add(Range{Start: 10, End: 20}, Foreground(core.ColorBlue), 0, "")

	m.Remove(id)

	if m.Count() != 0 {
		t.Fatalf("Count() after Remove = %d, want 0", m.Count())
	}
	if got := m.OverlaysIn(Range{Start: 0, End: 100}); len(got) != 0 {
		t.Fatalf("OverlaysIn after Remove = %v, want empty", got)
	}
}

func TestManagerOverlaysInExcludesOutOfRange(t *testing.T) {
	markers := marker.NewList(100)
	m := NewManager(markers)
	m.Add(Range{Start: 50, End: 60}, Background(core.ColorRed), 0, "")

	if got := m.OverlaysIn(Range{Start: 0, End: 10}); len(got) != 0 {
		t.Fatalf("OverlaysIn(0,10) = %v, want empty", got)
	}
}

func TestManagerSortsByPriorityAscending(t *testing.T) {
	markers := marker.NewList(100)
	m := NewManager(markers)
	m.Add(Range{Start: 0, End: 5}, Background(core.ColorRed), PriorityError, "")
	m.Add(Range{Start: 0, End: 5}, Background(core.ColorBlue), PrioritySelection, "")
	m.Add(Range{Start: 0, End: 5}, Background(core.ColorGreen), PriorityInfo, "")

	resolved := m.OverlaysIn(Range{Start: 0, End: 5})
	if len(resolved) != 3 {
		t.Fatalf("len = %d, want 3", len(resolved))
	}
	for i := 1; i < len(resolved); i++ {
		if resolved[i-1].Priority > resolved[i].Priority {
			t.Fatalf("overlays not sorted ascending by priority: %+v", resolved)
		}
	}
}

func TestVirtualTextMapAddLineAndResolve(t *testing.T) {
	markers := marker.NewList(100)
	vtm := NewVirtualTextMap(markers)

	id := vtm.AddLine(4, "synthetic", core.DefaultStyle(), LineAbove, "diagnostics", PriorityWarning)

	items := vtm.ItemsIn(Range{Start: 0, End: 100})
	if len(items) != 1 || items[0].ID != id || items[0].Offset != 4 {
		t.Fatalf("ItemsIn = %+v", items)
	}
	if items[0].Position != LineAbove {
		t.Fatalf("Position = %v, want LineAbove", items[0].Position)
	}
}

func TestVirtualTextMapClearNamespace(t *testing.T) {
	markers := marker.NewList(100)
	vtm := NewVirtualTextMap(markers)

	vtm.AddLine(4, "a", core.DefaultStyle(), LineAbove, "ns1", 0)
	vtm.AddLine(8, "b", core.DefaultStyle(), LineBelow, "ns1", 0)
	vtm.AddInline(12, "c", core.DefaultStyle(), "ns2", 0)

	vtm.ClearNamespace("ns1")

	if vtm.Count() != 1 {
		t.Fatalf("Count() after ClearNamespace = %d, want 1", vtm.Count())
	}
	items := vtm.ItemsIn(Range{Start: 0, End: 100})
	if len(items) != 1 || items[0].Namespace != "ns2" {
		t.Fatalf("remaining item = %+v, want ns2", items)
	}
}

func TestVirtualTextMapAnchorTracksInsert(t *testing.T) {
	markers := marker.NewList(100)
	vtm := NewVirtualTextMap(markers)
	vtm.AddInline(10, "hint", core.DefaultStyle(), "lsp", 0)

	markers.AdjustForInsert(0, 4)

	items := vtm.ItemsIn(Range{Start: 0, End: 100})
	if items[0].Offset != 14 {
		t.Fatalf("anchor Offset = %d, want 14", items[0].Offset)
	}
}
