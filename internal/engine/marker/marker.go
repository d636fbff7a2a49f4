// Package marker implements content-anchored marker positions (spec §4.2):
// a position that moves with surrounding edits instead of staying fixed at
// a byte offset. Affinity decides which side of an edit boundary a marker
// sticks to, the same distinction rope.Cursor has to make when seeking to
// an offset that falls exactly on a chunk boundary.
package marker

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/corestash/corestash/internal/engine/piece"
)

// ByteOffset is a position in buffer bytes.
type ByteOffset = piece.ByteOffset

// Affinity controls how a marker behaves when an edit lands exactly at its
// position.
type Affinity uint8

const (
	// Right affinity: an insert at the marker's exact position pushes it
	// forward (the marker behaves as if anchored to the text after it).
	Right Affinity = iota
	// Left affinity: an insert at the marker's exact position leaves it
	// in place (anchored to the text before it).
	Left
)

// ID uniquely identifies a marker. Tombstoned ids never resolve again.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

type entry struct {
	id       ID
	position ByteOffset
	affinity Affinity
	deleted  bool
}

// List is a set of content-anchored markers over a single buffer. All
// methods are safe for concurrent use.
type List struct {
	mu         sync.RWMutex
	byID       map[ID]*entry
	order      []*entry // kept sorted by position for fast adjust scans
	bufferSize ByteOffset
}

// NewList creates an empty marker list for a buffer of the given size.
func NewList(bufferSize ByteOffset) *List {
	return &List{
		byID:       make(map[ID]*entry),
		bufferSize: bufferSize,
	}
}

// Create adds a marker at position with the given affinity and returns its id.
func (l *List) Create(position ByteOffset, leftAffinity bool) ID {
	l.mu.Lock()
	defer l.mu.Unlock()

	aff := Right
	if leftAffinity {
		aff = Left
	}
	e := &entry{id: nextID(), position: clamp(position, 0, l.bufferSize), affinity: aff}
	l.byID[e.id] = e
	l.insertSorted(e)
	return e.id
}

// GetPosition returns a marker's current position, or false if it was
// deleted or never existed. Callers (typically rendering code) must
// tolerate the false case rather than treat it as an error.
func (l *List) GetPosition(id ID) (ByteOffset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.byID[id]
	if !ok || e.deleted {
		return 0, false
	}
	return e.position, true
}

// Delete tombstones a marker. Deleting an unknown or already-deleted id is
// a no-op.
func (l *List) Delete(id ID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byID[id]
	if !ok {
		return
	}
	e.deleted = true
	delete(l.byID, id)
	l.removeFromOrder(e)
}

// AdjustForInsert shifts every marker at a position greater than p by +n,
// and every Right-affinity marker exactly at p by +n as well; Left-affinity
// markers at p stay put (§4.2).
func (l *List) AdjustForInsert(p ByteOffset, n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	delta := ByteOffset(n)
	for _, e := range l.order {
		if e.position > p || (e.position == p && e.affinity == Right) {
			e.position += delta
		}
	}
	l.bufferSize += delta
	l.resort()
}

// AdjustForDelete moves any marker inside [start, start+n) to start, and
// shifts markers at or after start+n back by -n (§4.2).
func (l *List) AdjustForDelete(start ByteOffset, n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	end := start + ByteOffset(n)
	for _, e := range l.order {
		switch {
		case e.position >= start && e.position < end:
			e.position = start
		case e.position >= end:
			e.position -= ByteOffset(n)
		}
	}
	l.bufferSize -= ByteOffset(n)
	if l.bufferSize < 0 {
		l.bufferSize = 0
	}
	l.resort()
}

// SetBufferSize updates the buffer-size sanity bound used to clamp new
// marker positions in Create.
func (l *List) SetBufferSize(n ByteOffset) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bufferSize = n
}

func (l *List) insertSorted(e *entry) {
	idx := sort.Search(len(l.order), func(i int) bool { return l.order[i].position >= e.position })
	l.order = append(l.order, nil)
	copy(l.order[idx+1:], l.order[idx:])
	l.order[idx] = e
}

func (l *List) removeFromOrder(e *entry) {
	for i, o := range l.order {
		if o == e {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}

func (l *List) resort() {
	sort.Slice(l.order, func(i, j int) bool { return l.order[i].position < l.order[j].position })
}

func clamp(v, lo, hi ByteOffset) ByteOffset {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
