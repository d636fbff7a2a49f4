package core

// TokenKind distinguishes the four view-token shapes a split's render
// pass emits: literal text, a single space, a line break that came from
// source content, and a synthetic wrap point.
type TokenKind uint8

const (
	TokenText TokenKind = iota
	TokenSpace
	TokenNewline
	TokenBreak
)

// Token is one element of the outbound view-token stream: the core's
// only rendering contract with a collaborator terminal renderer. A Text
// token carries literal content; Space and Newline exist as distinct
// kinds so a renderer doesn't need to special-case single characters
// inside Content. Break never has source content — it marks a
// synthetic wrap point inserted by line folding, not the buffer.
//
// SourceOffset is nil for injected content (a virtual-text line, a
// split header) and non-nil for anything traceable back to buffer
// bytes; FoldTokens uses it to decide which display lines earn a
// gutter line number.
type Token struct {
	Kind         TokenKind
	Content      string
	SourceOffset *ByteOffset
	Style        Style
}

// ByteOffset mirrors piece.ByteOffset without importing the engine
// package, keeping renderer/core free of a dependency on buffer internals.
type ByteOffset = int64

// NewText builds a Text token. offset is the byte offset of Content's
// first byte in the source buffer, or nil for injected text.
func NewText(content string, offset *ByteOffset, style Style) Token {
	return Token{Kind: TokenText, Content: content, SourceOffset: offset, Style: style}
}

// NewSpace builds a Space token.
func NewSpace(offset *ByteOffset, style Style) Token {
	return Token{Kind: TokenSpace, SourceOffset: offset, Style: style}
}

// NewNewline builds a Newline token.
func NewNewline(offset *ByteOffset) Token {
	return Token{Kind: TokenNewline, SourceOffset: offset}
}

// NewBreak builds a synthetic wrap-point Break token.
func NewBreak() Token {
	return Token{Kind: TokenBreak}
}

// Offset is a convenience constructor for a Token.SourceOffset pointer,
// since Go forbids taking the address of a literal.
func Offset(o ByteOffset) *ByteOffset {
	return &o
}
