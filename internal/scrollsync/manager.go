package scrollsync

import (
	"sync"

	"github.com/corestash/corestash/internal/split"
)

// Manager owns the set of active scroll-sync groups and answers "which
// group, if any, contains this split" — the lookup §4.8's
// apply_scroll_delta(split_id, delta) needs before it can act.
type Manager struct {
	mu     sync.RWMutex
	groups map[ID]*Group
}

// NewManager creates an empty scroll-sync manager.
func NewManager() *Manager {
	return &Manager{groups: make(map[ID]*Group)}
}

// Link creates a new group over the two splits and registers it.
func (m *Manager) Link(left, right split.ID) *Group {
	g := NewGroup(left, right)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID()] = g
	return g
}

// Unlink removes the group with id, if any.
func (m *Manager) Unlink(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, id)
}

// GroupFor returns the group containing splitID, if one exists.
func (m *Manager) GroupFor(splitID split.ID) (*Group, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.groups {
		if g.Has(splitID) {
			return g, true
		}
	}
	return nil, false
}

// Groups returns every registered group.
func (m *Manager) Groups() []*Group {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, g)
	}
	return out
}
