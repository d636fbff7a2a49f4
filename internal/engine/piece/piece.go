package piece

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/corestash/corestash/internal/engine/rope"
	"github.com/corestash/corestash/internal/vfs"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
	ErrInvalidBoundary  = errors.New("position is not on a UTF-8 boundary")
)

// LargeFileThreshold is the size (bytes) above which a buffer is marked
// IsLargeFile: its precise line index is still maintained by the
// underlying rope (which is already amortized O(log N)), but ToString
// refuses full materialization and callers are expected to use
// ViewportContent / TextRange instead (spec §4.1).
const LargeFileThreshold = 1 << 20 // 1 MiB

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a Rope with additional editor functionality.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int

	modified        bool
	recoveryPending bool
	originalPath    string
	originalMtime   time.Time
	originalSize    int64
	hasOriginalSize bool
	isLargeFile     bool
	recoveryID      string
	dirty           []Range // regions changed since the last recovery save

	encoding vfs.Encoding // byte-order-mark encoding detected on load, restored on save
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
		encoding:   vfs.EncodingUTF8,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	s = b.normalizeLineEndings(s)
	b.rope = rope.FromString(s)
	b.isLargeFile = len(s) > LargeFileThreshold
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := NewBuffer(opts...)

	// Read all content first to handle line ending normalization correctly
	// (CRLF sequences may be split across read boundaries)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	b.hasOriginalSize = true
	b.originalSize = int64(len(data))
	b.isLargeFile = len(data) > LargeFileThreshold

	text := b.normalizeLineEndings(string(data))
	b.rope = rope.FromString(text)
	return b, nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if b.lineEnding == LineEndingLF {
		// Normalize CRLF and CR to LF
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	} else if b.lineEnding == LineEndingCRLF {
		// First normalize to LF, then convert to CRLF
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		s = strings.ReplaceAll(s, "\n", "\r\n")
	} else if b.lineEnding == LineEndingCR {
		// Normalize CRLF and LF to CR
		s = strings.ReplaceAll(s, "\r\n", "\r")
		s = strings.ReplaceAll(s, "\n", "\r")
	}
	return s
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer using TextRange or iterators.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(rope.ByteOffset(start), rope.ByteOffset(end))
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.rope.Len())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.rope.LineStartOffset(line)
	end := b.rope.LineEndOffset(line)
	return int(end - start)
}

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.ByteAt(rope.ByteOffset(offset))
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ropeLen := ByteOffset(b.rope.Len())
	if offset < 0 || offset >= ropeLen {
		return utf8.RuneError, 0
	}

	// Get up to 4 bytes (max UTF-8 rune length)
	end := offset + 4
	if end > ropeLen {
		end = ropeLen
	}

	s := b.rope.Slice(rope.ByteOffset(offset), rope.ByteOffset(end))
	return utf8.DecodeRuneInString(s)
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.rope.OffsetToPoint(rope.ByteOffset(offset))
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := rope.Point{Line: point.Line, Column: point.Column}
	return ByteOffset(b.rope.PointToOffset(p))
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	point := b.rope.OffsetToPoint(rope.ByteOffset(offset))
	lineStart := b.rope.LineStartOffset(point.Line)
	lineText := b.rope.Slice(lineStart, rope.ByteOffset(offset))

	// Count UTF-16 code units
	utf16Col := utf16ColumnFromString(lineText)

	return PointUTF16{Line: point.Line, Column: utf16Col}
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lineStart := b.rope.LineStartOffset(point.Line)
	lineEnd := b.rope.LineEndOffset(point.Line)
	lineText := b.rope.Slice(lineStart, lineEnd)

	// Convert UTF-16 column to byte offset within the line
	byteCol := byteOffsetFromUTF16Column(lineText, point.Column)

	return ByteOffset(lineStart) + ByteOffset(byteCol)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.rope.LineStartOffset(line))
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.rope.LineEndOffset(line))
}

// Write Operations

// isBoundary reports whether offset lies on a UTF-8 character boundary
// (or at the buffer's start/end, which always qualify).
func (b *Buffer) isBoundary(offset ByteOffset) bool {
	n := ByteOffset(b.rope.Len())
	if offset <= 0 || offset >= n {
		return offset >= 0 && offset <= n
	}
	byt, ok := b.rope.ByteAt(rope.ByteOffset(offset))
	if !ok {
		return false
	}
	return utf8.RuneStart(byt)
}

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(b.rope.Len()) {
		return 0, ErrOffsetOutOfRange
	}
	if !b.isBoundary(offset) {
		return 0, ErrInvalidBoundary
	}

	text = b.normalizeLineEndings(text)
	b.rope = b.rope.Insert(rope.ByteOffset(offset), text)
	b.revisionID = NewRevisionID()
	b.markModified(Range{Start: offset, End: offset + ByteOffset(len(text))})

	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.rope.Len()) {
		return ErrRangeInvalid
	}
	if !b.isBoundary(start) || !b.isBoundary(end) {
		return ErrInvalidBoundary
	}

	b.rope = b.rope.Delete(rope.ByteOffset(start), rope.ByteOffset(end))
	b.revisionID = NewRevisionID()
	b.markModified(Range{Start: start, End: start})

	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.rope.Len()) {
		return 0, ErrRangeInvalid
	}
	if !b.isBoundary(start) || !b.isBoundary(end) {
		return 0, ErrInvalidBoundary
	}

	text = b.normalizeLineEndings(text)
	b.rope = b.rope.Replace(rope.ByteOffset(start), rope.ByteOffset(end), text)
	b.revisionID = NewRevisionID()
	b.markModified(Range{Start: start, End: start + ByteOffset(len(text))})

	return start + ByteOffset(len(text)), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
		edit.Range.End > ByteOffset(b.rope.Len()) {
		return EditResult{}, ErrRangeInvalid
	}
	if !b.isBoundary(edit.Range.Start) || !b.isBoundary(edit.Range.End) {
		return EditResult{}, ErrInvalidBoundary
	}

	oldText := b.rope.Slice(rope.ByteOffset(edit.Range.Start), rope.ByteOffset(edit.Range.End))
	text := b.normalizeLineEndings(edit.NewText)
	b.rope = b.rope.Replace(rope.ByteOffset(edit.Range.Start), rope.ByteOffset(edit.Range.End), text)
	b.revisionID = NewRevisionID()

	newEnd := edit.Range.Start + ByteOffset(len(text))
	b.markModified(Range{Start: edit.Range.Start, End: newEnd})

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    int64(len(text)) - int64(edit.Range.Len()),
	}, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Validate edits are in reverse order and non-overlapping
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	// Validate all ranges
	ropeLen := ByteOffset(b.rope.Len())
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
			edit.Range.End > ropeLen {
			return ErrRangeInvalid
		}
	}

	// Apply edits in reverse order
	for _, edit := range edits {
		text := b.normalizeLineEndings(edit.NewText)
		b.rope = b.rope.Replace(rope.ByteOffset(edit.Range.Start), rope.ByteOffset(edit.Range.End), text)
		b.markModified(Range{Start: edit.Range.Start, End: edit.Range.Start + ByteOffset(len(text))})
	}

	b.revisionID = NewRevisionID()
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		rope:       b.rope, // Ropes are immutable, safe to share
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// Metadata and recovery tracking

// markModified marks the buffer dirty, flags it recovery-pending, and
// records r as a region changed since the last recovery save. Callers
// hold b.mu already.
func (b *Buffer) markModified(r Range) {
	b.modified = true
	b.recoveryPending = true
	b.dirty = mergeDirtyRange(b.dirty, r)
}

// mergeDirtyRange inserts r into a sorted, non-overlapping list of dirty
// ranges, merging with any overlapping or adjacent neighbors.
func mergeDirtyRange(ranges []Range, r Range) []Range {
	merged := make([]Range, 0, len(ranges)+1)
	inserted := false
	for _, existing := range ranges {
		if inserted || existing.End < r.Start {
			merged = append(merged, existing)
			continue
		}
		if existing.Start > r.End {
			merged = append(merged, r)
			inserted = true
			merged = append(merged, existing)
			continue
		}
		// Overlaps or touches r: fold into it.
		r = r.Union(existing)
	}
	if !inserted {
		merged = append(merged, r)
	}
	return merged
}

// SetModified explicitly sets the modified flag, e.g. after a successful save.
func (b *Buffer) SetModified(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = v
}

// IsModified reports whether the buffer has unsaved changes.
func (b *Buffer) IsModified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// IsRecoveryPending reports whether the buffer has changes the recovery
// engine has not yet snapshotted.
func (b *Buffer) IsRecoveryPending() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.recoveryPending
}

// SetRecoveryPending sets the recovery-pending flag directly.
func (b *Buffer) SetRecoveryPending(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recoveryPending = v
}

// IsLargeFile reports whether this buffer was loaded above LargeFileThreshold.
func (b *Buffer) IsLargeFile() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isLargeFile
}

// OriginalFileSize returns the file's size at load time, if known.
func (b *Buffer) OriginalFileSize() (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.originalSize, b.hasOriginalSize
}

// OriginalPath returns the path this buffer was loaded from, if any.
func (b *Buffer) OriginalPath() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.originalPath, b.originalPath != ""
}

// SetOriginalPath records the buffer's backing file path.
func (b *Buffer) SetOriginalPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.originalPath = path
}

// OriginalMtime returns the backing file's modification time at load/save time.
func (b *Buffer) OriginalMtime() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.originalMtime
}

// SetOriginalMtime records the backing file's modification time, called
// after every successful load or save.
func (b *Buffer) SetOriginalMtime(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.originalMtime = t
}

// Encoding returns the byte-order-mark encoding detected when the buffer
// was loaded from disk. Save re-applies this encoding's BOM, if any, so a
// round-tripped file keeps the marker it arrived with.
func (b *Buffer) Encoding() vfs.Encoding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.encoding
}

// RecoveryID returns the buffer's stable recovery identifier, if one has
// been assigned (file-backed buffers get a SHA-256 derived id; unnamed
// buffers get a session-generated UUID - see internal/recovery).
func (b *Buffer) RecoveryID() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.recoveryID, b.recoveryID != ""
}

// SetRecoveryID assigns the buffer's recovery identifier.
func (b *Buffer) SetRecoveryID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recoveryID = id
}

// RecoveryChunk is a modified region's current content, ready to be
// persisted by the recovery engine.
type RecoveryChunk struct {
	Offset  ByteOffset
	Content string
}

// GetRecoveryChunks returns the buffer's regions modified since the last
// recovery save, and clears the dirty set (callers are expected to persist
// the chunks they receive). Returns nil if the buffer has no pending
// changes.
func (b *Buffer) GetRecoveryChunks() []RecoveryChunk {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.dirty) == 0 {
		return nil
	}
	chunks := make([]RecoveryChunk, len(b.dirty))
	for i, r := range b.dirty {
		chunks[i] = RecoveryChunk{
			Offset:  r.Start,
			Content: b.rope.Slice(rope.ByteOffset(r.Start), rope.ByteOffset(r.End)),
		}
	}
	b.dirty = nil
	return chunks
}

// ToString returns the buffer's full content, or false if the buffer is a
// large file whose content should instead be read incrementally via
// TextRange or ViewportContent.
func (b *Buffer) ToString() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.isLargeFile {
		return "", false
	}
	return b.rope.String(), true
}

// FindAll returns the start offsets of every non-overlapping occurrence of
// pattern within the optional range (nil searches the whole buffer).
func (b *Buffer) FindAll(pattern string, r *Range) []ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if pattern == "" {
		return nil
	}

	start, end := ByteOffset(0), ByteOffset(b.rope.Len())
	if r != nil {
		start, end = r.Start, r.End
	}
	text := b.rope.Slice(rope.ByteOffset(start), rope.ByteOffset(end))

	var offsets []ByteOffset
	pos := 0
	for {
		idx := strings.Index(text[pos:], pattern)
		if idx < 0 {
			break
		}
		abs := pos + idx
		offsets = append(offsets, start+ByteOffset(abs))
		advance := len(pattern)
		if advance == 0 {
			advance = 1
		}
		pos = abs + advance
		if pos > len(text) {
			break
		}
	}
	return offsets
}

// ViewportLine is one line of streamed content for large-file viewport reads.
type ViewportLine struct {
	Text          string
	StartOffset   ByteOffset
	HasLineNumber bool // false when the large-file line index is imprecise
}

// ViewportContent streams up to maxLines lines starting at startOffset,
// without requiring a precise line index. Used by large-file buffers per
// spec §4.1; works equally well (if unnecessarily) on small buffers.
func (b *Buffer) ViewportContent(startOffset ByteOffset, maxLines int) []ViewportLine {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := ByteOffset(b.rope.Len())
	if startOffset < 0 || startOffset > n || maxLines <= 0 {
		return nil
	}

	lines := make([]ViewportLine, 0, maxLines)
	offset := startOffset
	for len(lines) < maxLines && offset < n {
		rest := b.rope.Slice(rope.ByteOffset(offset), rope.ByteOffset(n))
		nl := strings.IndexByte(rest, '\n')
		var lineText string
		var nextOffset ByteOffset
		if nl < 0 {
			lineText = rest
			nextOffset = n
		} else {
			lineText = rest[:nl]
			nextOffset = offset + ByteOffset(nl) + 1
		}
		lineText = strings.TrimSuffix(lineText, "\r")
		lines = append(lines, ViewportLine{
			Text:          lineText,
			StartOffset:   offset,
			HasLineNumber: !b.isLargeFile,
		})
		if nextOffset <= offset {
			break
		}
		offset = nextOffset
	}
	return lines
}

// Helper functions for UTF-16 conversion

// utf16ColumnFromString counts UTF-16 code units in a string.
func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair (characters outside BMP)
		} else {
			col++
		}
	}
	return col
}

// byteOffsetFromUTF16Column converts a UTF-16 column to byte offset within a line.
func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int

	for _, r := range line {
		if col >= utf16Col {
			break
		}

		// Count UTF-16 code units without allocating
		if r >= 0x10000 {
			col += 2 // Surrogate pair
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}

	return byteOffset
}
