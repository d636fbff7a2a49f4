package cursor

import (
	"errors"
	"sort"
)

// ErrLastCursor is returned by Remove when asked to remove the only
// remaining cursor; a Set must always have at least one.
var ErrLastCursor = errors.New("cannot remove the only remaining cursor")

// Set is the id-addressed multi-cursor model of §4.3. A Set always has
// exactly one primary cursor and zero or more secondaries.
type Set struct {
	states  map[ID]*State
	order   []ID // position order, kept current by Normalize
	primary ID
}

// NewSet creates a Set with a single cursor at sel, which becomes primary.
func NewSet(sel Selection) *Set {
	st := newState(sel)
	return &Set{
		states:  map[ID]*State{st.ID: st},
		order:   []ID{st.ID},
		primary: st.ID,
	}
}

// Primary returns the primary cursor's state. The returned pointer is
// live: mutating it mutates the Set (there is no separate immutable
// accessor, since Go has no const-vs-mut distinction for methods).
func (s *Set) Primary() *State {
	return s.states[s.primary]
}

// Get returns the state for id, or nil if it does not exist.
func (s *Set) Get(id ID) *State {
	return s.states[id]
}

// Add creates a new cursor at sel and makes it primary, returning its id.
func (s *Set) Add(sel Selection) ID {
	st := newState(sel)
	s.states[st.ID] = st
	s.order = append(s.order, st.ID)
	s.primary = st.ID
	return st.ID
}

// Remove deletes the cursor with id. It fails if id is the only cursor
// remaining. If the removed cursor was primary, the lowest-id survivor
// becomes primary.
func (s *Set) Remove(id ID) error {
	if len(s.states) <= 1 {
		return ErrLastCursor
	}
	if _, ok := s.states[id]; !ok {
		return nil
	}
	delete(s.states, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.primary == id {
		s.primary = s.lowestID()
	}
	return nil
}

// RemoveSecondary drops every cursor except the lowest-id one, which
// becomes (or remains) primary.
func (s *Set) RemoveSecondary() {
	if len(s.states) <= 1 {
		return
	}
	keep := s.lowestID()
	kept := s.states[keep]
	s.states = map[ID]*State{keep: kept}
	s.order = []ID{keep}
	s.primary = keep
}

// AdjustForEdit applies a buffer edit to every cursor's selection via
// transform.go's adjustOffsetForEdit: endpoint offsets inside the edited
// range collapse to the edit's end (Right-style affinity at both anchor
// and head).
func (s *Set) AdjustForEdit(pos ByteOffset, oldLen, newLen int) {
	for _, st := range s.states {
		st.Selection = Selection{
			Anchor: adjustOffsetForEdit(st.Selection.Anchor, pos, oldLen, newLen),
			Head:   adjustOffsetForEdit(st.Selection.Head, pos, oldLen, newLen),
		}
	}
}

// Normalize sorts cursors by position and drops exact duplicates (same
// anchor and head), per §4.3.
func (s *Set) Normalize() {
	sort.Slice(s.order, func(i, j int) bool {
		return s.states[s.order[i]].Selection.Start() < s.states[s.order[j]].Selection.Start()
	})

	firstWithSel := make(map[Selection]ID, len(s.order))
	for _, id := range s.order {
		sel := s.states[id].Selection
		if existing, ok := firstWithSel[sel]; !ok || id == s.primary {
			if ok && id == s.primary && existing != id {
				delete(s.states, existing)
			}
			firstWithSel[sel] = id
		} else {
			delete(s.states, id)
		}
	}

	kept := s.order[:0:0]
	seen := make(map[ID]bool, len(firstWithSel))
	for _, id := range firstWithSel {
		seen[id] = true
	}
	for _, id := range s.order {
		if seen[id] && s.states[id] != nil {
			kept = append(kept, id)
		}
	}
	s.order = kept

	if _, ok := s.states[s.primary]; !ok && len(s.order) > 0 {
		s.primary = s.order[0]
	}
}

// All returns the cursor states in position order (after the last
// Normalize call).
func (s *Set) All() []*State {
	result := make([]*State, len(s.order))
	for i, id := range s.order {
		result[i] = s.states[id]
	}
	return result
}

// ReplaceAll discards every existing cursor and installs one per
// selection in sels, in order, with the first becoming primary. sels
// must be non-empty, since a Set may never be empty. Used by BulkEdit
// (which supplies the post-edit cursor set directly, per §4.3) and by
// undoing a BulkEdit (restoring its captured pre-edit cursor set).
func (s *Set) ReplaceAll(sels []Selection) {
	if len(sels) == 0 {
		return
	}
	s.states = make(map[ID]*State, len(sels))
	s.order = make([]ID, len(sels))
	for i, sel := range sels {
		st := newState(sel)
		s.states[st.ID] = st
		s.order[i] = st.ID
	}
	s.primary = s.order[0]
}

// Count returns the number of cursors in the set.
func (s *Set) Count() int {
	return len(s.states)
}

func (s *Set) lowestID() ID {
	var min ID
	first := true
	for id := range s.states {
		if first || id < min {
			min = id
			first = false
		}
	}
	return min
}
