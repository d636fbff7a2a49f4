package overlay

import "github.com/corestash/corestash/internal/renderer/core"

// UnderlineStyle enumerates the underline decorations §4.6 names.
type UnderlineStyle uint8

const (
	Straight UnderlineStyle = iota
	Wavy
	Dotted
	Dashed
)

// FaceKind tags which field of Face is populated.
type FaceKind uint8

const (
	FaceBackground FaceKind = iota
	FaceForeground
	FaceUnderline
	FaceComposite
)

// Face is the semantic visual decoration an overlay paints, one of
// Background(Color), Foreground(Color), Underline{color, style}, or a
// Composite wrapping a full renderer Style.
type Face struct {
	Kind           FaceKind
	Color          core.Color
	UnderlineStyle UnderlineStyle
	Style          core.Style
}

// Background creates a background-color face.
func Background(c core.Color) Face { return Face{Kind: FaceBackground, Color: c} }

// Foreground creates a foreground-color face.
func Foreground(c core.Color) Face { return Face{Kind: FaceForeground, Color: c} }

// NewUnderline creates an underline face with the given color and style.
func NewUnderline(c core.Color, style UnderlineStyle) Face {
	return Face{Kind: FaceUnderline, Color: c, UnderlineStyle: style}
}

// NewComposite wraps a full renderer style as a face.
func NewComposite(s core.Style) Face { return Face{Kind: FaceComposite, Style: s} }

// ResolveStyle renders a face against a base style, for collaborators
// that want a single core.Style rather than switching on Kind themselves.
func (f Face) ResolveStyle(base core.Style) core.Style {
	switch f.Kind {
	case FaceBackground:
		return base.WithBackground(f.Color)
	case FaceForeground:
		return base.WithForeground(f.Color)
	case FaceUnderline:
		return base.WithForeground(f.Color).WithAttributes(base.Attributes | core.AttrUnderline)
	case FaceComposite:
		return base.Merge(f.Style)
	default:
		return base
	}
}

// Priority bands named by §4.6. Overlays with higher priority draw on
// top when ranges overlap.
const (
	PriorityError     = 10
	PriorityWarning   = 5
	PriorityInfo      = 3
	PriorityHint      = 1
	PrioritySearch    = -5
	PrioritySelection = -10
)
