package piece

import (
	"time"

	"github.com/corestash/corestash/internal/vfs"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithOriginalPath records the file path a buffer was (or will be) loaded
// from, used by the recovery engine to key its snapshot directory.
func WithOriginalPath(path string) Option {
	return func(b *Buffer) {
		b.originalPath = path
	}
}

// WithOriginalMtime records the backing file's modification time at load
// time. The recovery engine stores it in an entry's metadata, and accepting
// that entry compares it with the file's current mtime (§7
// OriginalFileModified); saving does not check it.
func WithOriginalMtime(t time.Time) Option {
	return func(b *Buffer) {
		b.originalMtime = t
	}
}

// WithRecoveryID assigns a pre-computed recovery identifier, e.g. one
// restored from a prior session's lockfile.
func WithRecoveryID(id string) Option {
	return func(b *Buffer) {
		b.recoveryID = id
	}
}

// WithLargeFileThresholdOverride forces the IsLargeFile classification
// regardless of content size, for tests that exercise viewport streaming
// without constructing a megabyte of text.
func WithLargeFileThresholdOverride(isLarge bool) Option {
	return func(b *Buffer) {
		b.isLargeFile = isLarge
	}
}

// WithEncoding records the byte-order-mark encoding a buffer's content was
// detected to use on load, so save can restore the same marker.
func WithEncoding(enc vfs.Encoding) Option {
	return func(b *Buffer) {
		b.encoding = enc
	}
}

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithLF configures the buffer to use Unix line endings (\n).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF configures the buffer to use Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// WithCR configures the buffer to use old Mac line endings (\r).
func WithCR() Option {
	return WithLineEnding(LineEndingCR)
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	// Return the most common line ending
	if crlfCount >= lfCount && crlfCount >= crCount {
		if crlfCount > 0 {
			return LineEndingCRLF
		}
	}
	if crCount >= lfCount && crCount >= crlfCount {
		if crCount > 0 {
			return LineEndingCR
		}
	}

	return LineEndingLF
}

// WithDetectedLineEnding sets the buffer's line ending style based on content.
// Call this after creating the buffer with content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
