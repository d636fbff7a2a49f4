package core

import "unicode/utf8"

// LineStart classifies how a display line began, per the gutter
// line-number rule: only a line that starts at the true beginning of
// the stream, or immediately after a newline that came from source
// content, shows a line number — and only if its first character is
// itself source content (an entirely-injected line after a source
// newline, e.g. a diagnostic message, still gets no number).
type LineStart uint8

const (
	Beginning LineStart = iota
	AfterSourceNewline
	AfterInjectedNewline
	AfterBreak
)

// DisplayChar is one rendered cell of a display line: its rune, the
// source byte offset it maps back to (nil for injected content), the
// resolved style, and whether it is the first cell of a tab's
// expansion (tab_starts in the spec vocabulary).
type DisplayChar struct {
	Rune         rune
	SourceOffset *ByteOffset
	Style        Style
	TabStart     bool
}

// DisplayLine is one folded, wrapped row of the view-token stream,
// ready for a renderer to paint: text plus a per-character source-offset
// and style mapping.
type DisplayLine struct {
	Chars           []DisplayChar
	LineStart       LineStart
	EndsWithNewline bool
}

// ShowsLineNumber reports whether the gutter should print a line number
// for this display line.
func (d DisplayLine) ShowsLineNumber() bool {
	if d.LineStart != Beginning && d.LineStart != AfterSourceNewline {
		return false
	}
	if len(d.Chars) == 0 {
		return false
	}
	return d.Chars[0].SourceOffset != nil
}

// Text returns the display line's rune content with no style or offset
// information, useful for tests and simple width calculations.
func (d DisplayLine) Text() string {
	runes := make([]rune, len(d.Chars))
	for i, c := range d.Chars {
		runes[i] = c.Rune
	}
	return string(runes)
}

const tabWidth = 8

// FoldTokens folds a view-token stream into display lines: Newline
// tokens end a line (classified by whether the newline carried a
// source offset), Break tokens end a line as a synthetic wrap
// continuation, and TAB characters inside Text tokens expand to
// tabWidth - (col mod tabWidth) spaces, each inheriting the tab's
// source offset with TabStart set on the first.
func FoldTokens(tokens []Token) []DisplayLine {
	var lines []DisplayLine
	col := 0
	cur := DisplayLine{LineStart: Beginning}

	flush := func(next LineStart) {
		lines = append(lines, cur)
		cur = DisplayLine{LineStart: next}
		col = 0
	}

	appendChar := func(r rune, offset *ByteOffset, style Style, tabStart bool) {
		cur.Chars = append(cur.Chars, DisplayChar{Rune: r, SourceOffset: offset, Style: style, TabStart: tabStart})
		col++
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNewline:
			cur.EndsWithNewline = true
			if tok.SourceOffset != nil {
				flush(AfterSourceNewline)
			} else {
				flush(AfterInjectedNewline)
			}

		case TokenBreak:
			flush(AfterBreak)

		case TokenSpace:
			appendChar(' ', tok.SourceOffset, tok.Style, false)

		case TokenText:
			byteOff := ByteOffset(0)
			for _, r := range tok.Content {
				var charOffset *ByteOffset
				if tok.SourceOffset != nil {
					o := *tok.SourceOffset + byteOff
					charOffset = &o
				}
				if r == '\t' {
					width := tabWidth - (col % tabWidth)
					for i := 0; i < width; i++ {
						appendChar(' ', charOffset, tok.Style, i == 0)
					}
				} else {
					appendChar(r, charOffset, tok.Style, false)
				}
				byteOff += ByteOffset(utf8.RuneLen(r))
			}
		}
	}
	lines = append(lines, cur)
	return lines
}
