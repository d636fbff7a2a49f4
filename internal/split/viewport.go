package split

// Viewport is a leaf's scroll/wrap state (§3): the first visible source
// line, the leftmost visible column, and whether long lines wrap. The
// teacher's renderer/viewport.Viewport adds scroll animation and margin
// config that this core has no use for (animation is a renderer
// boundary concern, margins belong to the collaborator that decides when
// to scroll to keep the cursor visible); only its clamp-on-write idiom
// is kept here.
type Viewport struct {
	TopLine     uint32
	LeftCol     int
	WrapEnabled bool
}

// Clamp keeps TopLine within [0, lineCount), the defensive rule §9
// applies by analogy from the file-tree scroll_offset panic (re-
// implementations must clamp scroll position defensively at render
// entry).
func (v *Viewport) Clamp(lineCount uint32) {
	if lineCount == 0 {
		v.TopLine = 0
		return
	}
	if v.TopLine >= lineCount {
		v.TopLine = lineCount - 1
	}
}
