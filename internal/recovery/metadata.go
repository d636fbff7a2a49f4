package recovery

import "time"

// FormatVersion is the current on-disk metadata format. A metadata file
// with a different value is unrecoverable and reported via
// corerr.RecoveryCorruptedError rather than guessed at.
const FormatVersion = 1

// Metadata is the `{id}.meta.json` sidecar for a buffer's recovery
// entry (§3).
type Metadata struct {
	OriginalPath     string    `json:"original_path,omitempty"`
	BufferName       string    `json:"buffer_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	ContentSize      int64     `json:"content_size"`
	LineCount        uint32    `json:"line_count,omitempty"`
	OriginalMtime    time.Time `json:"original_mtime,omitempty"`
	FormatVersion    int       `json:"format_version"`
	ChunkCount       int       `json:"chunk_count"`
	OriginalFileSize int64     `json:"original_file_size,omitempty"`
}

// Chunk is one `{id}.chunk.N` region: replace [Offset, Offset+OriginalLen)
// of the target with Content.
type Chunk struct {
	Offset      int64  `json:"offset"`
	OriginalLen int64  `json:"original_len"`
	Content     []byte `json:"content_bytes"`
}

// Lock is the session lockfile `session.lock` (§3/§6): its presence plus
// a live pid means another instance owns this recovery directory.
type Lock struct {
	PID        int       `json:"pid"`
	StartedAt  time.Time `json:"started_at"`
	WorkingDir string    `json:"working_dir,omitempty"`
}
