package navhistory

import (
	"sync"

	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/piece"
)

const (
	defaultMaxEntries  = 100
	defaultCoalesceGap = piece.ByteOffset(50)
)

// Entry is one committed position in the navigation stack: the buffer
// it belongs to, the byte position, and the selection anchor at that
// position (§3).
type Entry struct {
	BufferID bufstate.ID
	Position piece.ByteOffset
	Anchor   piece.ByteOffset
}

// Stack is the back/forward navigation stack of §4.9: committed entries
// plus one pending entry for the movement currently in progress.
type Stack struct {
	mu sync.Mutex

	entries []Entry
	current int // index of the "here" position; -1 when entries is empty

	pending    *Entry
	pendingRaw Entry // start of the pending movement, for the 50-byte gap check

	maxEntries  int
	coalesceGap piece.ByteOffset
}

// Option configures a Stack at construction.
type Option func(*options)

type options struct {
	maxEntries  int
	coalesceGap piece.ByteOffset
}

// WithMaxEntries overrides the default bound of 100 committed entries.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithCoalesceGap overrides the default 50-byte coalescing threshold.
func WithCoalesceGap(gap piece.ByteOffset) Option {
	return func(o *options) { o.coalesceGap = gap }
}

// NewStack creates an empty navigation stack.
func NewStack(opts ...Option) *Stack {
	o := options{maxEntries: defaultMaxEntries, coalesceGap: defaultCoalesceGap}
	for _, opt := range opts {
		opt(&o)
	}
	return &Stack{current: -1, maxEntries: o.maxEntries, coalesceGap: o.coalesceGap}
}

// RecordMovement is called for every cursor move (§4.9). If no pending
// entry exists, one starts at (bufferID, position). If a pending entry
// exists and the move stays in the same buffer within the coalescing
// gap of the pending entry's start, it keeps coalescing (the pending
// entry's position is updated, but it is not yet committed). Otherwise
// the pending entry is committed to the stack and a new one starts.
func (s *Stack) RecordMovement(bufferID bufstate.ID, position, anchor piece.ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.startPendingLocked(bufferID, position, anchor)
		return
	}

	sameBuffer := s.pending.BufferID == bufferID
	within := byteDistance(position, s.pendingRaw.Position) <= s.coalesceGap
	if sameBuffer && within {
		s.pending.Position = position
		s.pending.Anchor = anchor
		return
	}

	s.commitPendingLocked()
	s.startPendingLocked(bufferID, position, anchor)
}

func (s *Stack) startPendingLocked(bufferID bufstate.ID, position, anchor piece.ByteOffset) {
	e := Entry{BufferID: bufferID, Position: position, Anchor: anchor}
	s.pending = &e
	s.pendingRaw = e
}

func byteDistance(a, b piece.ByteOffset) piece.ByteOffset {
	if a >= b {
		return a - b
	}
	return b - a
}

// commitPendingLocked pushes the pending entry onto the stack, per
// §4.9: always truncates forward history first (even for an exact
// duplicate of the current entry), drops the push entirely if it
// duplicates the entry it would follow, and trims to maxEntries.
func (s *Stack) commitPendingLocked() {
	if s.pending == nil {
		return
	}
	pending := *s.pending
	s.pending = nil

	if s.current < len(s.entries)-1 {
		s.entries = s.entries[:s.current+1]
	}

	if s.current >= 0 && s.entries[s.current] == pending {
		return
	}

	s.entries = append(s.entries, pending)
	s.current = len(s.entries) - 1

	if len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
		s.current -= excess
	}
}

// Back commits any pending entry, steps the current index back one,
// and returns the entry now at that index. ok is false if already at
// the oldest entry.
func (s *Stack) Back() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitPendingLocked()
	if s.current <= 0 {
		return Entry{}, false
	}
	s.current--
	return s.entries[s.current], true
}

// Forward steps the current index forward one and returns the entry
// now at that index. ok is false if already at the newest entry.
func (s *Stack) Forward() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 || s.current >= len(s.entries)-1 {
		return Entry{}, false
	}
	s.current++
	return s.entries[s.current], true
}

// CanGoBack reports whether Back would succeed.
func (s *Stack) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current > 0
}

// CanGoForward reports whether Forward would succeed.
func (s *Stack) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current >= 0 && s.current < len(s.entries)-1
}

// Len returns the number of committed entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
