// Package renderer assembles the view-token stream (§6) that crosses
// the boundary to a collaborator terminal renderer: it reads a split
// leaf's viewport out of a buffer's state, styles it with the overlay
// and virtual-text layers, and folds the result into display lines via
// renderer/core.
package renderer

import (
	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/overlay"
	"github.com/corestash/corestash/internal/renderer/core"
	"github.com/corestash/corestash/internal/split"
)

// styledRange is a byte range with a face to apply, used for both
// resolved overlays and the current selection highlight.
type styledRange struct {
	r    piece.Range
	face overlay.Face
}

// selectionColor is the default selection-highlight background. A
// collaborator theme may override it by registering an overlay with a
// higher priority; this is only the floor every selection gets.
var selectionColor = core.ColorFromRGB(68, 71, 90)

// BuildTokens assembles the view-token stream for leaf's current
// viewport into state: up to maxLines of buffer content, styled by
// whatever overlays and selections intersect it, with virtual-text
// items injected as LineAbove/LineBelow synthetic lines or InlineAt
// spans around their anchor.
func BuildTokens(state *bufstate.State, leaf *split.Leaf, maxLines int) []core.Token {
	startOffset := state.Buffer.LineStartOffset(leaf.Viewport.TopLine)
	lines := state.Buffer.ViewportContent(startOffset, maxLines)
	if len(lines) == 0 {
		return nil
	}

	last := lines[len(lines)-1]
	endOffset := last.StartOffset + piece.ByteOffset(len(last.Text))
	viewRange := overlay.Range{Start: startOffset, End: endOffset}

	ranges := selectionRanges(state)
	for _, ov := range state.Overlays.OverlaysIn(viewRange) {
		ranges = append(ranges, styledRange{r: ov.Range, face: ov.Face})
	}
	vtext := state.VirtualTexts.ItemsIn(viewRange)

	var tokens []core.Token
	for _, ln := range lines {
		tokens = append(tokens, virtualLines(vtext, ln.StartOffset, overlay.LineAbove)...)
		tokens = append(tokens, tokenizeLine(ln.StartOffset, ln.Text, ranges, vtext)...)
		lineEnd := core.ByteOffset(ln.StartOffset + piece.ByteOffset(len(ln.Text)))
		tokens = append(tokens, core.NewNewline(core.Offset(lineEnd)))
		tokens = append(tokens, virtualLines(vtext, ln.StartOffset, overlay.LineBelow)...)
	}
	return tokens
}

// selectionRanges turns every non-empty cursor selection into a
// styledRange at overlay.PrioritySelection, the lowest band, so overlay
// faces painted over a selection (diagnostics, search highlight) always
// show through.
func selectionRanges(state *bufstate.State) []styledRange {
	var out []styledRange
	for _, cs := range state.Cursors.All() {
		if cs.Selection.IsEmpty() {
			continue
		}
		out = append(out, styledRange{
			r:    cs.Selection.Range(),
			face: overlay.Background(selectionColor),
		})
	}
	return out
}

// virtualLines renders every LineAbove/LineBelow virtual-text item
// anchored at lineStart as its own injected line (no source offset, so
// FoldTokens never assigns it a gutter line number).
func virtualLines(items []overlay.ResolvedVirtualText, lineStart piece.ByteOffset, kind overlay.PositionKind) []core.Token {
	var tokens []core.Token
	for _, it := range items {
		if it.Position != kind || it.Offset != lineStart {
			continue
		}
		tokens = append(tokens, core.NewText(it.Text, nil, it.Style))
		tokens = append(tokens, core.NewNewline(nil))
	}
	return tokens
}

// tokenizeLine splits text (starting at startOffset in the source
// buffer) into Text tokens along style-run boundaries so each token
// carries one uniform style, with InlineAt virtual-text items spliced
// in at their anchor offset.
func tokenizeLine(startOffset piece.ByteOffset, text string, ranges []styledRange, vtext []overlay.ResolvedVirtualText) []core.Token {
	var tokens []core.Token
	runStart := 0
	var runStyle core.Style
	haveRun := false

	flush := func(end int) {
		if !haveRun || end <= runStart {
			return
		}
		offset := core.ByteOffset(startOffset) + core.ByteOffset(runStart)
		tokens = append(tokens, core.NewText(text[runStart:end], core.Offset(offset), runStyle))
	}

	for i := range text {
		off := startOffset + piece.ByteOffset(i)
		for _, it := range vtext {
			if it.Position == overlay.InlineAt && it.Offset == off {
				flush(i)
				tokens = append(tokens, core.NewText(it.Text, nil, it.Style))
				runStart = i
				haveRun = false
			}
		}
		st := resolveStyle(off, ranges)
		if !haveRun || st != runStyle {
			flush(i)
			runStart = i
			runStyle = st
			haveRun = true
		}
	}
	flush(len(text))
	return tokens
}

func resolveStyle(offset piece.ByteOffset, ranges []styledRange) core.Style {
	style := core.DefaultStyle()
	for _, sr := range ranges {
		if offset >= sr.r.Start && offset < sr.r.End {
			style = sr.face.ResolveStyle(style)
		}
	}
	return style
}
