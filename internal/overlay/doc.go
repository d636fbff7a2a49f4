// Package overlay implements the visual decoration layer of §4.6:
// marker-anchored overlays (background/foreground/underline/composite
// faces over a byte range) and virtual text (injected line-above,
// line-below, or inline display content).
//
// Both types are arena + id indirection over the same marker.List a
// buffer state owns: an overlay stores a Left-affinity start marker and
// a Right-affinity end marker; a virtual text item stores one
// Left-affinity anchor marker. Neither type owns or references the
// buffer directly, so there is no cyclic reference to manage (§9).
// Resolving an overlay or virtual text item back to a byte range or
// offset is a marker lookup; a tombstoned marker (the overlay's owner
// deleted it) is tolerated by simply omitting that item from the
// resolved set.
package overlay
