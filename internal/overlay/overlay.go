package overlay

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/corestash/corestash/internal/engine/marker"
	"github.com/corestash/corestash/internal/engine/piece"
)

// ByteOffset is an alias for piece.ByteOffset for convenience.
type ByteOffset = piece.ByteOffset

// Range is an alias for piece.Range for convenience.
type Range = piece.Range

// ID identifies an overlay, stable across edits.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

type entry struct {
	id          ID
	startMarker marker.ID
	endMarker   marker.ID
	face        Face
	priority    int
	message     string
}

// Resolved is an overlay with its markers resolved to concrete byte
// offsets, ready to hand to a renderer.
type Resolved struct {
	ID       ID
	Range    Range
	Face     Face
	Priority int
	Message  string
}

// Manager tracks overlays (§4.6): each overlay decorates a byte range
// with a face and priority, stored as two markers (start: Left affinity,
// end: Right affinity) so the range survives arbitrary edits.
type Manager struct {
	mu       sync.RWMutex
	markers  *marker.List
	overlays map[ID]*entry
}

// NewManager creates an overlay manager anchored against the given
// marker list, which must be the same list the owning buffer state uses
// so inserts/deletes keep overlay ranges in sync.
func NewManager(markers *marker.List) *Manager {
	return &Manager{markers: markers, overlays: make(map[ID]*entry)}
}

// Add creates an overlay over r with the given face and priority,
// returning its id. message is optional (e.g. a diagnostic's text).
func (m *Manager) Add(r Range, face Face, priority int, message string) ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.markers.Create(r.Start, true)
	end := m.markers.Create(r.End, false)
	id := nextID()
	m.overlays[id] = &entry{id: id, startMarker: start, endMarker: end, face: face, priority: priority, message: message}
	return id
}

// Remove deletes the overlay's two markers and forgets it. A nonexistent
// id is a no-op.
func (m *Manager) Remove(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ov, ok := m.overlays[id]
	if !ok {
		return
	}
	m.markers.Delete(ov.startMarker)
	m.markers.Delete(ov.endMarker)
	delete(m.overlays, id)
}

// Count returns the number of live overlays.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlays)
}

// OverlaysIn resolves every overlay intersecting viewport, sorted
// ascending by priority (later = drawn on top), ready to pass to the
// token pipeline as {char_range, face} spans. Overlays whose markers
// have been tombstoned (should not happen while the overlay is live,
// but rendering must tolerate it per §4.2) are skipped.
func (m *Manager) OverlaysIn(viewport Range) []Resolved {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Resolved, 0, len(m.overlays))
	for _, ov := range m.overlays {
		start, ok := m.markers.GetPosition(ov.startMarker)
		if !ok {
			continue
		}
		end, ok := m.markers.GetPosition(ov.endMarker)
		if !ok {
			continue
		}
		if end <= viewport.Start || start >= viewport.End {
			continue
		}
		out = append(out, Resolved{ID: ov.id, Range: Range{Start: start, End: end}, Face: ov.face, Priority: ov.priority, Message: ov.message})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}
