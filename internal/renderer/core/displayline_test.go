package core

import "testing"

func off(o ByteOffset) *ByteOffset { return &o }

func TestFoldTokensSimpleLine(t *testing.T) {
	tokens := []Token{
		NewText("abc", off(0), DefaultStyle()),
		NewNewline(off(3)),
	}
	lines := FoldTokens(tokens)
	if len(lines) != 2 {
		t.Fatalf("expected 2 display lines (content + trailing empty), got %d", len(lines))
	}
	if lines[0].Text() != "abc" {
		t.Errorf("expected text %q, got %q", "abc", lines[0].Text())
	}
	if !lines[0].EndsWithNewline {
		t.Error("expected first line to end with newline")
	}
	if lines[1].LineStart != AfterSourceNewline {
		t.Errorf("expected second line to start AfterSourceNewline, got %v", lines[1].LineStart)
	}
}

func TestFoldTokensTabExpansion(t *testing.T) {
	tokens := []Token{
		NewText("a\tb", off(0), DefaultStyle()),
	}
	lines := FoldTokens(tokens)
	if len(lines) != 1 {
		t.Fatalf("expected 1 display line, got %d", len(lines))
	}
	chars := lines[0].Chars
	// "a" at col 0, tab expands to 7 spaces (col 1 -> col 8), then "b" at col 8.
	if len(chars) != 1+7+1 {
		t.Fatalf("expected 9 display chars, got %d", len(chars))
	}
	if chars[1].Rune != ' ' || !chars[1].TabStart {
		t.Errorf("expected first expanded tab cell to be a space with TabStart set, got %+v", chars[1])
	}
	for i := 2; i < 8; i++ {
		if chars[i].TabStart {
			t.Errorf("expected only the first tab cell to carry TabStart, cell %d did", i)
		}
	}
	if chars[8].Rune != 'b' {
		t.Errorf("expected trailing rune 'b', got %q", chars[8].Rune)
	}
}

func TestShowsLineNumber(t *testing.T) {
	cases := []struct {
		name string
		line DisplayLine
		want bool
	}{
		{"beginning with source char", DisplayLine{LineStart: Beginning, Chars: []DisplayChar{{Rune: 'x', SourceOffset: off(0)}}}, true},
		{"beginning with injected char", DisplayLine{LineStart: Beginning, Chars: []DisplayChar{{Rune: 'x'}}}, false},
		{"after break", DisplayLine{LineStart: AfterBreak, Chars: []DisplayChar{{Rune: 'x', SourceOffset: off(0)}}}, false},
		{"after injected newline", DisplayLine{LineStart: AfterInjectedNewline, Chars: []DisplayChar{{Rune: 'x', SourceOffset: off(0)}}}, false},
		{"empty line", DisplayLine{LineStart: Beginning}, false},
	}
	for _, tc := range cases {
		if got := tc.line.ShowsLineNumber(); got != tc.want {
			t.Errorf("%s: ShowsLineNumber() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFoldTokensBreakDoesNotShowLineNumber(t *testing.T) {
	tokens := []Token{
		NewText("abcdefgh", off(0), DefaultStyle()),
		NewBreak(),
		NewText("ijk", off(8), DefaultStyle()),
	}
	lines := FoldTokens(tokens)
	if len(lines) != 2 {
		t.Fatalf("expected 2 display lines, got %d", len(lines))
	}
	if lines[1].LineStart != AfterBreak {
		t.Errorf("expected continuation line AfterBreak, got %v", lines[1].LineStart)
	}
	if lines[1].ShowsLineNumber() {
		t.Error("wrapped continuation must not show a line number")
	}
}
