// Package history implements the undo/redo event log of §4.4: a flat,
// tagged-union Event type and a History log that stores events in a
// single append-only slice with a head pointer, rather than separate
// undo/redo stacks.
//
// Appending past head discards the redo tail, exactly like a commit
// discarding an abandoned branch. Undo walks head backward and returns
// the inverse of whatever it crosses; Redo walks forward and returns the
// original for replay. Neither ever touches a buffer, marker list, or
// cursor set directly — History only manages the log; the caller (the
// buffer-state layer) applies the returned Event.
//
// # Coalescing
//
// Coalescing is not done at storage time: every keystroke is appended as
// its own Insert or Delete event. Instead Undo scans backward over a run
// of same-cursor, contiguous, single-character events within a short
// time window and folds the run into one synthetic Batch, so a single
// Undo call reverts an entire typing or backspacing burst. Redo replays
// the same run forward.
//
// # Grouping
//
// BeginGroup/EndGroup/CancelGroup buffer a sequence of Append calls and
// commit them as one Batch event (or roll them back entirely), for
// compound editor commands that should undo as a unit regardless of the
// coalescing window:
//
//	history.BeginGroup("Find and Replace")
//	// ... multiple Append calls ...
//	history.EndGroup()
package history
