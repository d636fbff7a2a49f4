package bufstate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/engine/history"
	"github.com/corestash/corestash/internal/engine/marker"
	"github.com/corestash/corestash/internal/engine/piece"
	"github.com/corestash/corestash/internal/overlay"
)

// ByteOffset is an alias for piece.ByteOffset for convenience.
type ByteOffset = piece.ByteOffset

// ID identifies a buffer state, stable for the process lifetime.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// State is the C5 bundle: a piece buffer plus its marker list, cursor
// set, event log, overlay manager and virtual text map, plus the
// modified/composite metadata the rest of the editor reads. apply is
// the one funnel through which content and cursor state change (§4.5);
// nothing outside this package is supposed to call Buffer.Insert/Delete
// or Cursors.AdjustForEdit directly once a buffer is wrapped in a State.
type State struct {
	ID ID

	mu sync.RWMutex

	Buffer       *piece.Buffer
	Cursors      *cursor.Set
	Markers      *marker.List
	History      *history.History
	Overlays     *overlay.Manager
	VirtualTexts *overlay.VirtualTextMap

	// IsComposite marks a synthetic buffer assembled from others (e.g. a
	// side-by-side diff view). Composite buffers are excluded from
	// recovery auto-save (§4.10), since they have no independent content
	// of their own; sibling-split cursor fan-out treats them like any
	// other buffer.
	IsComposite bool
}

// Option configures a new State.
type Option func(*options)

type options struct {
	maxUndoEntries int
	coalesceWindow time.Duration
	isComposite    bool
}

// WithMaxUndoEntries overrides the event log's trim threshold.
func WithMaxUndoEntries(n int) Option {
	return func(o *options) { o.maxUndoEntries = n }
}

// WithCoalesceWindow overrides the undo-coalescing idle window.
func WithCoalesceWindow(d time.Duration) Option {
	return func(o *options) { o.coalesceWindow = d }
}

// WithComposite marks the new State as a composite (non-file-backed,
// recovery-exempt) buffer.
func WithComposite() Option {
	return func(o *options) { o.isComposite = true }
}

// New wraps buf in a fresh State: a marker list sized to the buffer, a
// single primary cursor at offset 0, an empty event log, and empty
// overlay/virtual-text managers anchored against the same marker list.
func New(buf *piece.Buffer, opts ...Option) *State {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	markers := marker.NewList(buf.Len())
	return &State{
		ID:           nextID(),
		Buffer:       buf,
		Cursors:      cursor.NewSet(cursor.NewCursorSelection(0)),
		Markers:      markers,
		History:      history.NewHistory(o.maxUndoEntries, o.coalesceWindow),
		Overlays:     overlay.NewManager(markers),
		VirtualTexts: overlay.NewVirtualTextMap(markers),
		IsComposite:  o.isComposite,
	}
}

// Apply is the §4.5 funnel: it mutates the buffer for Insert/Delete/
// BulkEdit, adjusts markers and cursors to match, and (via the buffer's
// own bookkeeping) sets modified/recovery-pending. It does not touch the
// event log — callers decide whether an event is worth logging, and log
// it themselves before calling Apply, per §4.5's four-step command
// contract.
func (s *State) Apply(e history.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(e)
}

func (s *State) applyLocked(e history.Event) {
	switch e.Kind {
	case history.KindInsert:
		s.applyInsertLocked(e)
	case history.KindDelete:
		s.applyDeleteLocked(e)
	case history.KindMoveCursor:
		s.applyMoveCursorLocked(e)
	case history.KindBatch:
		for _, sub := range e.Events {
			s.applyLocked(sub)
		}
	case history.KindBulkEdit:
		s.applyBulkEditLocked(e)
	case history.KindShowPopup, history.KindHidePopup, history.KindSetViewport:
		// Observable view-state changes with no C1/C2/C3 effect; the
		// façade (C11) owns popup/viewport state and applies these
		// itself. Recorded here only so undo/redo can see them logged.
	}
}

func (s *State) applyInsertLocked(e history.Event) {
	pos := e.Range.Start
	_, err := s.Buffer.Insert(pos, e.NewText)
	corerr.Check(err == nil, "apply Insert at %d: %v", pos, err)

	n := len(e.NewText)
	s.Markers.AdjustForInsert(pos, n)
	s.Cursors.AdjustForEdit(pos, 0, n)
	s.moveCursorTo(e.CursorID, pos+ByteOffset(n))
}

func (s *State) applyDeleteLocked(e history.Event) {
	start, end := e.Range.Start, e.Range.End
	oldLen := int(end - start)
	err := s.Buffer.Delete(start, end)
	corerr.Check(err == nil, "apply Delete [%d,%d): %v", start, end, err)

	s.Markers.AdjustForDelete(start, oldLen)
	s.Cursors.AdjustForEdit(start, oldLen, 0)
	s.moveCursorTo(e.CursorID, start)
}

func (s *State) applyMoveCursorLocked(e history.Event) {
	st := s.Cursors.Get(e.CursorID)
	if st == nil {
		return
	}
	st.Selection = e.NewSelection
}

// moveCursorTo collapses the named cursor to offset, if it still exists.
// Insert/Delete move the acting cursor to the edit's resulting position
// per §3's Event table; every other cursor was already repositioned by
// AdjustForEdit above.
func (s *State) moveCursorTo(id cursor.ID, offset ByteOffset) {
	st := s.Cursors.Get(id)
	if st == nil {
		return
	}
	st.Selection = cursor.NewCursorSelection(offset)
}

// applyBulkEditLocked applies a multi-cursor multi-range edit: each
// sub-edit's range is stated in terms of the *original* pre-edit buffer
// (§4.3), so sub-edits are replayed in ascending original-offset order
// with a running delta that shifts each subsequent sub-edit's range to
// account for the ones already applied (§5's ordering guarantee). The
// post-edit cursor set is installed directly from CursorsAfter rather
// than derived, since BulkEdit supplies it explicitly.
func (s *State) applyBulkEditLocked(e history.Event) {
	edits := append([]history.RecordedEdit(nil), e.Edits...)
	sortRecordedEditsByOriginalStart(edits)

	var delta ByteOffset
	for _, re := range edits {
		start := re.Edit.Range.Start + delta
		end := re.Edit.Range.End + delta
		oldLen := int(end - start)
		newLen := len(re.Edit.NewText)

		_, err := s.Buffer.Replace(start, end, re.Edit.NewText)
		corerr.Check(err == nil, "apply BulkEdit sub-edit [%d,%d): %v", start, end, err)

		s.Markers.AdjustForDelete(start, oldLen)
		s.Markers.AdjustForInsert(start, newLen)
		delta += ByteOffset(newLen - oldLen)
	}

	if len(e.CursorsAfter) > 0 {
		s.Cursors.ReplaceAll(e.CursorsAfter)
	}
}

func sortRecordedEditsByOriginalStart(edits []history.RecordedEdit) {
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0 && edits[j].Edit.Range.Start < edits[j-1].Edit.Range.Start; j-- {
			edits[j], edits[j-1] = edits[j-1], edits[j]
		}
	}
}

// CheckInvariants panics (via corerr.Check) if the buffer length is
// negative, if any cursor's anchor or head lies outside
// [0, buffer.Len()], or if the cursor set has no primary. Marker
// positions are not checked. Callers run this after each command in
// debug builds or tests; it is not on the hot apply path.
func (s *State) CheckInvariants() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	length := s.Buffer.Len()
	corerr.Check(length >= 0, "buffer length must be non-negative, got %d", length)

	for _, st := range s.Cursors.All() {
		corerr.Check(st.Selection.Anchor >= 0 && st.Selection.Anchor <= length,
			"cursor %d anchor %d out of [0,%d]", st.ID, st.Selection.Anchor, length)
		corerr.Check(st.Selection.Head >= 0 && st.Selection.Head <= length,
			"cursor %d head %d out of [0,%d]", st.ID, st.Selection.Head, length)
	}
	corerr.Check(s.Cursors.Primary() != nil, "cursor set must always have a primary")
}
