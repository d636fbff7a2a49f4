// Package navhistory implements the position-history back/forward
// navigation stack of §4.9 (C9): a bounded stack of committed entries
// plus a single pending entry representing an in-progress movement that
// has not yet been far enough from its start, or crossed a buffer
// boundary, to warrant its own stack slot.
package navhistory
