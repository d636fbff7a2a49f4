// Package scrollsync implements scroll-sync groups (§4.8, C8): a pair
// of splits whose vertical scroll positions track each other through an
// anchor table rather than a fixed line offset, so buffers of different
// lengths (a source file and its generated output, a diff's two sides)
// stay aligned at the points that actually correspond.
package scrollsync

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/corestash/corestash/internal/split"
)

// ID identifies a scroll-sync group.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// Anchor links a line in the left buffer to the corresponding line in
// the right buffer.
type Anchor struct {
	LeftLine  uint32
	RightLine uint32
}

// Group is a pair of splits that scroll together. ScrollLine is the
// authoritative position, stated in left-buffer line space; the right
// position is always derived from it via the anchor table, never stored
// directly, so the two sides can never drift out of sync with each
// other independently of an explicit SetAnchors call.
type Group struct {
	mu         sync.RWMutex
	id         ID
	leftSplit  split.ID
	rightSplit split.ID
	scrollLine uint32
	anchors    []Anchor
}

// NewGroup creates a group anchored only at the origin (0,0), meaning
// the two sides scroll in lockstep until SetAnchors narrows that down.
func NewGroup(leftSplit, rightSplit split.ID) *Group {
	return &Group{
		id:         nextID(),
		leftSplit:  leftSplit,
		rightSplit: rightSplit,
		anchors:    []Anchor{{LeftLine: 0, RightLine: 0}},
	}
}

// ID returns the group's identity.
func (g *Group) ID() ID {
	return g.id
}

// Splits returns the two member splits.
func (g *Group) Splits() (left, right split.ID) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.leftSplit, g.rightSplit
}

// Has reports whether id is one of the group's two member splits.
func (g *Group) Has(id split.ID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return id == g.leftSplit || id == g.rightSplit
}

// ApplyScrollDelta shifts ScrollLine by deltaLines, saturating at 0.
func (g *Group) ApplyScrollDelta(deltaLines int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := int64(g.scrollLine) + int64(deltaLines)
	if next < 0 {
		next = 0
	}
	g.scrollLine = uint32(next)
}

// SetScrollLine sets ScrollLine directly.
func (g *Group) SetScrollLine(line uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollLine = line
}

// LeftScrollLine returns the stored, authoritative left-side line.
func (g *Group) LeftScrollLine() uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scrollLine
}

// RightScrollLine derives the corresponding right-side line: find the
// anchor with the greatest LeftLine <= ScrollLine, then offset by the
// distance past that anchor (§3).
func (g *Group) RightScrollLine() uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return rightLineFor(g.anchors, g.scrollLine)
}

func rightLineFor(anchors []Anchor, scrollLine uint32) uint32 {
	// anchors is sorted ascending by LeftLine; find the last index whose
	// LeftLine does not exceed scrollLine.
	idx := sort.Search(len(anchors), func(i int) bool {
		return anchors[i].LeftLine > scrollLine
	}) - 1
	if idx < 0 {
		idx = 0
	}
	a := anchors[idx]
	return a.RightLine + (scrollLine - a.LeftLine)
}

// SetAnchors replaces the anchor table. anchors need not be pre-sorted
// or already contain the origin; SetAnchors sorts by LeftLine and
// inserts (0,0) if it is missing, preserving the origin-anchor
// invariant §3 requires.
func (g *Group) SetAnchors(anchors []Anchor) {
	cp := make([]Anchor, len(anchors))
	copy(cp, anchors)
	sort.Slice(cp, func(i, j int) bool { return cp[i].LeftLine < cp[j].LeftLine })

	hasOrigin := len(cp) > 0 && cp[0].LeftLine == 0
	if !hasOrigin {
		cp = append([]Anchor{{LeftLine: 0, RightLine: 0}}, cp...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.anchors = cp
}

// Anchors returns a copy of the current anchor table.
func (g *Group) Anchors() []Anchor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Anchor, len(g.anchors))
	copy(out, g.anchors)
	return out
}
