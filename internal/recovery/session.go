package recovery

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/vfs"
)

// Entry is one orphaned recovery entry discovered at startup: its
// metadata plus the ids needed to load or discard its chunks.
type Entry struct {
	ID   string
	Meta Metadata
}

// ListOrphans enumerates every `{id}.meta.json` under dir except the
// session lockfile, for offering to the user after AcquireSession
// reports a stale lock (§4.10 startup). Entries whose metadata fails to
// parse or whose format_version is unsupported are reported via
// corerr.RecoveryCorruptedError rather than silently skipped, and
// excluded from the result.
func ListOrphans(v vfs.VFS, dir string) ([]Entry, []error) {
	infos, err := v.ReadDir(dir)
	if err != nil {
		return nil, []error{err}
	}

	var entries []Entry
	var errs []error
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".meta.json") {
			continue
		}
		id := strings.TrimSuffix(fi.Name(), ".meta.json")

		data, err := v.ReadFile(v.Join(dir, fi.Name()))
		if err != nil {
			errs = append(errs, corerr.NewRecoveryCorrupted(id, "metadata unreadable"))
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			errs = append(errs, corerr.NewRecoveryCorrupted(id, "metadata unparsable"))
			continue
		}
		if meta.FormatVersion != FormatVersion {
			errs = append(errs, corerr.NewRecoveryCorrupted(id, fmt.Sprintf("unsupported format_version %d", meta.FormatVersion)))
			continue
		}
		entries = append(entries, Entry{ID: id, Meta: meta})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, errs
}

// loadChunks reads every chunk file for id, in ascending file-number
// order (the order they were written in).
func (e *Entry) loadChunks(v vfs.VFS, dir string) ([]Chunk, error) {
	chunks := make([]Chunk, e.Meta.ChunkCount)
	for i := 0; i < e.Meta.ChunkCount; i++ {
		data, err := v.ReadFile(v.Join(dir, fmt.Sprintf("%s.chunk.%d", e.ID, i)))
		if err != nil {
			return nil, corerr.NewRecoveryCorrupted(e.ID, fmt.Sprintf("missing chunk %d", i))
		}
		var c Chunk
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, corerr.NewRecoveryCorrupted(e.ID, fmt.Sprintf("chunk %d unparsable", i))
		}
		chunks[i] = c
	}
	return chunks, nil
}

// Accept applies entry's chunks onto the file at entry.Meta.OriginalPath
// (§4.10): if the file's current mtime differs from the recorded
// original_mtime, the entry is reported via OriginalFileModifiedError
// and left untouched rather than applied. Chunks are applied in
// descending offset order so an earlier chunk's offset is never shifted
// by a later one. On success the entry's files are discarded.
func Accept(v vfs.VFS, dir string, entry Entry) error {
	if entry.Meta.OriginalPath == "" {
		return acceptUnnamed(v, dir, entry)
	}

	info, err := v.Stat(entry.Meta.OriginalPath)
	if err != nil {
		return fmt.Errorf("recovery: stat %s: %w", entry.Meta.OriginalPath, err)
	}
	if !info.ModTime().Equal(entry.Meta.OriginalMtime) {
		return corerr.NewOriginalModified(entry.Meta.OriginalPath)
	}

	content, err := v.ReadFile(entry.Meta.OriginalPath)
	if err != nil {
		return fmt.Errorf("recovery: read %s: %w", entry.Meta.OriginalPath, err)
	}

	chunks, err := entry.loadChunks(v, dir)
	if err != nil {
		return err
	}
	merged, err := applyChunks(string(content), chunks)
	if err != nil {
		return err
	}

	if err := vfs.WriteFileAtomic(v, entry.Meta.OriginalPath, []byte(merged), info.Mode()); err != nil {
		return err
	}
	return Discard(v, dir, entry)
}

// acceptUnnamed reconstructs an unnamed buffer's content from its
// chunks alone — there is no original_path to apply against, so the
// recovered text is simply the chunk content (there is exactly one,
// since unnamed buffers are always small-file-shaped, per §4.10). The
// caller (the façade) is responsible for opening a new unnamed buffer
// with the returned text.
func acceptUnnamed(v vfs.VFS, dir string, entry Entry) error {
	chunks, err := entry.loadChunks(v, dir)
	if err != nil {
		return err
	}
	if _, err := applyChunks("", chunks); err != nil {
		return err
	}
	return Discard(v, dir, entry)
}

// applyChunks applies chunks to base in descending offset order:
// delete(offset..offset+original_len), insert(offset, content), per §3.
func applyChunks(base string, chunks []Chunk) (string, error) {
	sorted := make([]Chunk, len(chunks))
	copy(sorted, chunks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset > sorted[j].Offset })

	buf := []byte(base)
	for _, c := range sorted {
		if c.Offset < 0 || c.Offset+c.OriginalLen > int64(len(buf)) {
			return "", fmt.Errorf("recovery: chunk at offset %d out of range for %d-byte content", c.Offset, len(buf))
		}
		var out []byte
		out = append(out, buf[:c.Offset]...)
		out = append(out, c.Content...)
		out = append(out, buf[c.Offset+c.OriginalLen:]...)
		buf = out
	}
	return string(buf), nil
}

// Discard deletes every file belonging to entry without applying it
// (§4.10 "On reject, delete chunk and metadata files").
func Discard(v vfs.VFS, dir string, entry Entry) error {
	for i := 0; i < entry.Meta.ChunkCount; i++ {
		_ = v.Remove(v.Join(dir, fmt.Sprintf("%s.chunk.%d", entry.ID, i)))
	}
	return v.Remove(v.Join(dir, entry.ID+".meta.json"))
}
