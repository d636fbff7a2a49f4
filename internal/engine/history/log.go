package history

import (
	"sync"
	"time"
	"unicode/utf8"
)

// defaultCoalesceWindow is used when NewHistory is given a non-positive window.
const defaultCoalesceWindow = 400 * time.Millisecond

// History is the event log of §4.4: a single append-only sequence with a
// head pointer. Appending past head truncates any redo tail, undo moves
// head back and returns the inverted event, redo moves it forward and
// returns the original event for replay.
type History struct {
	mu sync.Mutex

	events []Event
	head   int

	coalesceWindow time.Duration
	maxEntries     int

	grouping  bool
	groupName string
	groupBuf  []Event
}

// NewHistory creates an empty log. maxEntries <= 0 uses 1000; window <= 0
// uses the 400ms default from §4.4.
func NewHistory(maxEntries int, coalesceWindow time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if coalesceWindow <= 0 {
		coalesceWindow = defaultCoalesceWindow
	}
	return &History{maxEntries: maxEntries, coalesceWindow: coalesceWindow}
}

// Append records event, stamping it with the current time if unset.
// Infallible, per §4.4. If currently grouping, the event is buffered into
// the pending group instead of the main log.
func (h *History) Append(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupBuf = append(h.groupBuf, event)
		return
	}
	h.appendLocked(event)
}

func (h *History) appendLocked(event Event) {
	h.truncateToHeadLocked()
	h.events = append(h.events, event)
	h.head++

	if h.head > h.maxEntries {
		excess := h.head - h.maxEntries
		h.events = h.events[excess:]
		h.head -= excess
	}
}

// TruncateToHead discards any events past head (the redo tail), e.g.
// before an operation that must not be redoable (a BulkEdit over a
// rewritten whole buffer, per §4.7).
func (h *History) TruncateToHead() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.truncateToHeadLocked()
}

func (h *History) truncateToHeadLocked() {
	if h.head < len(h.events) {
		h.events = h.events[:h.head]
	}
}

// Head returns the current head index into the log.
func (h *History) Head() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.head
}

// Undo pops the coalesced run ending at head and returns its inverse. A
// run of length 1 returns that event's Invert() directly; a longer run is
// wrapped in a Batch. Returns false at head == 0.
func (h *History) Undo() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.head == 0 {
		return Event{}, false
	}

	start := h.head - 1
	for start > 0 && isCoalescable(h.events[start-1], h.events[start], h.coalesceWindow) {
		start--
	}

	run := h.events[start:h.head]
	h.head = start

	if len(run) == 1 {
		return run[0].Invert(), true
	}
	batch := Event{Kind: KindBatch, Timestamp: run[len(run)-1].Timestamp, Events: append([]Event(nil), run...)}
	return batch.Invert(), true
}

// Redo moves head forward over the same run Undo last consumed and
// returns the original (non-inverted) event or batch for replay. Returns
// false at the end of the log.
func (h *History) Redo() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.head >= len(h.events) {
		return Event{}, false
	}

	end := h.head + 1
	for end < len(h.events) && isCoalescable(h.events[end-1], h.events[end], h.coalesceWindow) {
		end++
	}

	run := h.events[h.head:end]
	h.head = end

	if len(run) == 1 {
		return run[0], true
	}
	return Event{Kind: KindBatch, Timestamp: run[len(run)-1].Timestamp, Events: append([]Event(nil), run...)}, true
}

// LastIsInsertAt reports whether the most recently appended event is an
// Insert ending exactly at pos, the condition callers use to decide
// whether a new single-character insert would coalesce with it.
func (h *History) LastIsInsertAt(pos ByteOffset) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.head == 0 {
		return false
	}
	last := h.events[h.head-1]
	return last.Kind == KindInsert && last.Range.Start+ByteOffset(len(last.NewText)) == pos
}

// BreakUndoGroup ends whatever the undo/redo coalescing window currently
// considers open. Since coalescing is decided at Undo/Redo time from
// adjacency and timestamps rather than stored state, this is implemented
// by stamping a no-op boundary: the next Insert/Delete naturally fails the
// contiguity check against an event for a different cursor.
func (h *History) BreakUndoGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.head > 0 {
		h.events[h.head-1].CursorID = ^h.events[h.head-1].CursorID
	}
}

// SetMaxEntries changes the trim threshold, trimming immediately if the
// log is already longer.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = 1000
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = max
	if h.head > max {
		excess := h.head - max
		h.events = h.events[excess:]
		h.head -= excess
	}
}

// isCoalescable reports whether cur may be folded into the same undo
// group as the immediately preceding event prev, per §4.4: same kind,
// same cursor, within the coalesce window, and — for Insert — contiguous
// single-character insertions; for Delete, contiguous single-character
// backspaces.
func isCoalescable(prev, cur Event, window time.Duration) bool {
	if prev.Kind != cur.Kind || prev.CursorID != cur.CursorID {
		return false
	}
	if cur.Timestamp.Before(prev.Timestamp) {
		return false
	}
	if cur.Timestamp.Sub(prev.Timestamp) > window {
		return false
	}
	switch cur.Kind {
	case KindInsert:
		return utf8.RuneCountInString(prev.NewText) == 1 &&
			utf8.RuneCountInString(cur.NewText) == 1 &&
			cur.Range.Start == prev.Range.Start+ByteOffset(len(prev.NewText))
	case KindDelete:
		return utf8.RuneCountInString(prev.OldText) == 1 &&
			utf8.RuneCountInString(cur.OldText) == 1 &&
			cur.Range.End == prev.Range.Start
	default:
		return false
	}
}
