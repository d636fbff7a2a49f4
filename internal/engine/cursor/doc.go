// Package cursor provides cursor and selection management for text editing.
//
// The cursor package handles:
//
//   - Text selections with anchor/head model via Selection type
//   - Multi-cursor support with Set
//   - Selection transformation after buffer edits
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text. The selection can extend forward (head > anchor) or
// backward (head < anchor), preserving the user's selection direction.
//
// Multi-Cursor Support:
//
// Set (state.go, set.go) is the id-addressed multi-cursor model used by
// buffer state: each cursor carries a stable ID plus block-selection and
// sticky-column state, and a Set always has exactly one primary cursor
// and zero or more secondaries, kept in position order by Normalize.
//
// Basic usage:
//
//	// Create a selection
//	sel := cursor.NewCursorSelection(10)  // Cursor at offset 10
//
//	// Extend selection
//	sel = sel.Extend(20)  // Select from 10 to 20
//
//	// Multi-cursor
//	set := cursor.NewSet(sel)
//	set.Add(cursor.NewCursorSelection(50))  // Add another cursor
//
//	// Transform after edit
//	edit := piece.Edit{Range: piece.Range{Start: 0, End: 5}, NewText: "Hello"}
//	sel = cursor.TransformSelection(sel, edit)
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use. Set
// is not thread-safe and should be protected by external synchronization
// if accessed concurrently.
package cursor
