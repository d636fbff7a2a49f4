package bufstate

import "github.com/corestash/corestash/internal/engine/history"

// Commit implements the four-step contract §4.5 places on every
// state-mutating command: append the event to the log, apply it, then
// run fn (typically sibling-split cursor notification, §4.7) while the
// state is still locked against concurrent access from another apply.
// Undo/redo must not use Commit — per §4.4 they apply an inverted event
// directly without producing a new log entry; use ApplyWithoutLogging.
func (s *State) Commit(e history.Event, fn func()) {
	s.History.Append(e)
	s.mu.Lock()
	s.applyLocked(e)
	if fn != nil {
		fn()
	}
	s.mu.Unlock()
}

// ApplyWithoutLogging applies e to buffer/marker/cursor state without
// appending to the log, for undo/redo replay (§4.4: "Buffer edits during
// undo/redo do not themselves produce log entries").
func (s *State) ApplyWithoutLogging(e history.Event) {
	s.Apply(e)
}

// Undo pops the log's coalesced run and applies its inverse. Returns
// false if there is nothing to undo.
func (s *State) Undo() bool {
	inv, ok := s.History.Undo()
	if !ok {
		return false
	}
	s.ApplyWithoutLogging(inv)
	return true
}

// Redo re-applies the log's next run. Returns false if there is nothing
// to redo.
func (s *State) Redo() bool {
	e, ok := s.History.Redo()
	if !ok {
		return false
	}
	s.ApplyWithoutLogging(e)
	return true
}
