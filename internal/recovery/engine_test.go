package recovery

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/corestash/corestash/internal/engine/bufstate"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/vfs"
)

func newTestFS(t *testing.T, dir string) vfs.VFS {
	t.Helper()
	v := vfs.NewMemFS()
	if err := v.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) = %v", dir, err)
	}
	return v
}

func TestTickSavesRecoveryPendingSmallBuffer(t *testing.T) {
	v := newTestFS(t, "/recovery")
	e := NewEngine(v, "/recovery")

	buf := piece.NewBufferFromString("hello world")
	buf.SetRecoveryPending(true)
	s := bufstate.New(buf)

	now := time.Unix(1000, 0)
	if err := e.Tick(now, []*bufstate.State{s}); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if buf.IsRecoveryPending() {
		t.Fatal("recovery-pending should be cleared after a successful save")
	}
	id, ok := buf.RecoveryID()
	if !ok {
		t.Fatal("expected a recovery id to be assigned")
	}

	data, err := v.ReadFile(v.Join("/recovery", id+".meta.json"))
	if err != nil {
		t.Fatalf("meta file missing: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("meta file empty")
	}

	chunkData, err := v.ReadFile(v.Join("/recovery", id+".chunk.0"))
	if err != nil {
		t.Fatalf("chunk file missing: %v", err)
	}
	var c Chunk
	if err := json.Unmarshal(chunkData, &c); err != nil {
		t.Fatalf("chunk unparsable: %v", err)
	}
	if string(c.Content) != "hello world" {
		t.Fatalf("chunk content = %q, want %q", c.Content, "hello world")
	}
}

func TestTickSkipsCompositeAndNonPendingBuffers(t *testing.T) {
	v := newTestFS(t, "/recovery")
	e := NewEngine(v, "/recovery")

	composite := bufstate.New(piece.NewBufferFromString("x"))
	composite.IsComposite = true

	clean := bufstate.New(piece.NewBufferFromString("y"))

	if err := e.Tick(time.Unix(0, 0), []*bufstate.State{composite, clean}); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if _, ok := composite.Buffer.RecoveryID(); ok {
		t.Fatal("composite buffer should never be assigned a recovery id")
	}
	if _, ok := clean.Buffer.RecoveryID(); ok {
		t.Fatal("unmodified buffer should never be assigned a recovery id")
	}
}

func TestTickRespectsAutoSaveInterval(t *testing.T) {
	v := newTestFS(t, "/recovery")
	e := NewEngine(v, "/recovery", WithInterval(10*time.Second))

	buf := piece.NewBufferFromString("abc")
	buf.SetRecoveryPending(true)
	s := bufstate.New(buf)

	base := time.Unix(1000, 0)
	if err := e.Tick(base, []*bufstate.State{s}); err != nil {
		t.Fatalf("first Tick() error = %v", err)
	}

	// simulate a new edit right away; interval has not elapsed.
	buf.SetRecoveryPending(true)
	if err := e.Tick(base.Add(2*time.Second), []*bufstate.State{s}); err != nil {
		t.Fatalf("second Tick() error = %v", err)
	}
	if !buf.IsRecoveryPending() {
		t.Fatal("should not have saved again before the interval elapsed")
	}

	if err := e.Tick(base.Add(11*time.Second), []*bufstate.State{s}); err != nil {
		t.Fatalf("third Tick() error = %v", err)
	}
	if buf.IsRecoveryPending() {
		t.Fatal("should have saved once the interval elapsed")
	}
}

func TestAcceptAppliesChunksWhenMtimeMatches(t *testing.T) {
	v := vfs.NewMemFS()
	v.MkdirAll("/recovery", 0o755)
	v.WriteFile("/target.txt", []byte("hello world"), 0o644)

	info, _ := v.Stat("/target.txt")

	e := NewEngine(v, "/recovery")
	buf := piece.NewBuffer(piece.WithOriginalPath("/target.txt"), piece.WithOriginalMtime(info.ModTime()))
	buf.Insert(0, "hello world")
	buf.SetRecoveryPending(true)
	s := bufstate.New(buf)

	if err := e.Tick(time.Unix(2000, 0), []*bufstate.State{s}); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	id, _ := buf.RecoveryID()
	entries, errs := ListOrphans(v, "/recovery")
	if len(errs) != 0 {
		t.Fatalf("ListOrphans errs = %v", errs)
	}
	var entry Entry
	for _, en := range entries {
		if en.ID == id {
			entry = en
		}
	}
	if entry.ID == "" {
		t.Fatal("expected to find the saved entry among orphans")
	}
	// stamp the original_mtime the save should have recorded.
	entry.Meta.OriginalMtime = info.ModTime()

	if err := Accept(v, "/recovery", entry); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if _, err := v.ReadFile(v.Join("/recovery", id+".meta.json")); err == nil {
		t.Fatal("meta file should be discarded after Accept")
	}
}

func TestDiscardRemovesAllEntryFiles(t *testing.T) {
	v := newTestFS(t, "/recovery")
	entry := Entry{ID: "abc123", Meta: Metadata{ChunkCount: 2}}
	v.WriteFile("/recovery/abc123.meta.json", []byte("{}"), 0o644)
	v.WriteFile("/recovery/abc123.chunk.0", []byte("{}"), 0o644)
	v.WriteFile("/recovery/abc123.chunk.1", []byte("{}"), 0o644)

	if err := Discard(v, "/recovery", entry); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if _, err := v.ReadFile("/recovery/abc123.meta.json"); err == nil {
		t.Fatal("meta file should be gone")
	}
}

func TestApplyChunksAppliesInDescendingOffsetOrder(t *testing.T) {
	base := "aaaaXXXXbbbb"
	// Listed in ascending order; applied in ascending order the second
	// chunk would land on shifted bytes and give "ZZXXYYYYbb".
	chunks := []Chunk{
		{Offset: 0, OriginalLen: 4, Content: []byte("ZZ")},
		{Offset: 4, OriginalLen: 4, Content: []byte("YYYY")},
	}
	out, err := applyChunks(base, chunks)
	if err != nil {
		t.Fatalf("applyChunks() error = %v", err)
	}
	if out != "ZZYYYYbbbb" {
		t.Fatalf("result = %q", out)
	}
}
