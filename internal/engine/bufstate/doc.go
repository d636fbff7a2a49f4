// Package bufstate implements the buffer-state bundle of §4.5 (C5): a
// piece buffer plus its marker list, cursor set, event log, overlay
// manager and virtual text map, bound together behind the one funnel
// (State.Apply) through which content and cursor state change.
//
// State itself never writes to the event log — Commit wraps the full
// append/apply contract §4.5 names for ordinary commands, while Undo/Redo
// apply an inverted or replayed event without logging, per §4.4's rule
// that undo/redo must not themselves produce new log entries.
//
// CheckInvariants asserts cursor positions within [0, len] and the
// presence of a primary cursor as a single check callers can run after
// any command in tests or debug builds; marker positions are not
// checked.
package bufstate
