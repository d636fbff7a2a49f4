package overlay

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/corestash/corestash/internal/engine/marker"
	"github.com/corestash/corestash/internal/renderer/core"
)

// PositionKind selects where a virtual text item renders relative to its
// anchor: as a synthetic line before or after the source line, or
// between characters on the source line itself.
type PositionKind uint8

const (
	LineAbove PositionKind = iota
	LineBelow
	InlineAt
)

// VirtualTextID identifies a virtual text item, stable across edits.
type VirtualTextID uint64

var vtIDCounter uint64

func nextVTID() VirtualTextID {
	return VirtualTextID(atomic.AddUint64(&vtIDCounter, 1))
}

type vtEntry struct {
	id       VirtualTextID
	anchor   marker.ID
	text     string
	style    core.Style
	position PositionKind
	ns       string
	priority int
}

// ResolvedVirtualText is a virtual text item with its anchor resolved to
// a concrete byte offset.
type ResolvedVirtualText struct {
	ID        VirtualTextID
	Offset    ByteOffset
	Text      string
	Style     core.Style
	Position  PositionKind
	Namespace string
	Priority  int
}

// VirtualTextMap tracks injected display content (§4.6): line-above/below
// items that render as synthetic lines with no gutter line number, and
// inline items that render between characters without advancing source
// byte positions. Every item is anchored by a marker so it tracks edits.
type VirtualTextMap struct {
	mu      sync.RWMutex
	markers *marker.List
	items   map[VirtualTextID]*vtEntry
}

// NewVirtualTextMap creates a virtual text map anchored against the
// given marker list, which must be the same list the owning buffer state
// uses.
func NewVirtualTextMap(markers *marker.List) *VirtualTextMap {
	return &VirtualTextMap{markers: markers, items: make(map[VirtualTextID]*vtEntry)}
}

// AddLine adds a LineAbove/LineBelow item anchored at pos. kind must be
// LineAbove or LineBelow.
func (v *VirtualTextMap) AddLine(pos ByteOffset, text string, style core.Style, kind PositionKind, namespace string, priority int) VirtualTextID {
	return v.add(pos, text, style, kind, namespace, priority)
}

// AddInline adds an inline item anchored at pos, rendered between
// characters without advancing source byte positions.
func (v *VirtualTextMap) AddInline(pos ByteOffset, text string, style core.Style, namespace string, priority int) VirtualTextID {
	return v.add(pos, text, style, InlineAt, namespace, priority)
}

func (v *VirtualTextMap) add(pos ByteOffset, text string, style core.Style, kind PositionKind, namespace string, priority int) VirtualTextID {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := v.markers.Create(pos, true)
	id := nextVTID()
	v.items[id] = &vtEntry{id: id, anchor: m, text: text, style: style, position: kind, ns: namespace, priority: priority}
	return id
}

// Remove deletes a virtual text item's anchor marker and forgets it.
func (v *VirtualTextMap) Remove(id VirtualTextID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, ok := v.items[id]
	if !ok {
		return
	}
	v.markers.Delete(item.anchor)
	delete(v.items, id)
}

// ClearNamespace removes every item tagged with namespace ns, e.g. when a
// language server republishes diagnostics and the old set must be wiped
// before the new set is added.
func (v *VirtualTextMap) ClearNamespace(ns string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for id, item := range v.items {
		if item.ns == ns {
			v.markers.Delete(item.anchor)
			delete(v.items, id)
		}
	}
}

// Count returns the number of live items.
func (v *VirtualTextMap) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// ItemsIn resolves every item whose anchor lies within viewport, sorted
// ascending by priority. Items whose anchor marker has been tombstoned
// are skipped.
func (v *VirtualTextMap) ItemsIn(viewport Range) []ResolvedVirtualText {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]ResolvedVirtualText, 0, len(v.items))
	for _, item := range v.items {
		pos, ok := v.markers.GetPosition(item.anchor)
		if !ok {
			continue
		}
		if pos < viewport.Start || pos >= viewport.End {
			continue
		}
		out = append(out, ResolvedVirtualText{
			ID: item.id, Offset: pos, Text: item.text, Style: item.style,
			Position: item.position, Namespace: item.ns, Priority: item.priority,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}
