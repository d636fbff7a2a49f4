package editor

import (
	"github.com/corestash/corestash/internal/corerr"
	"github.com/corestash/corestash/internal/engine/cursor"
	"github.com/corestash/corestash/internal/split"
)

// cmdSplitHorizontal/Vertical implement the split-* family: split the
// active leaf in the given direction, opening the same buffer (with a
// cloned cursor set) in the new pane, and link the two into a
// scroll-sync group so §4.8's lockstep behavior is available by
// default.
func (e *Editor) cmdSplitHorizontal(p Payload) error { return e.doSplit(split.Horizontal, p) }
func (e *Editor) cmdSplitVertical(p Payload) error   { return e.doSplit(split.Vertical, p) }

func (e *Editor) doSplit(dir split.Direction, p Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	ratio := payloadFloat(p, "ratio", 0.5)

	newCursors := cursor.NewSet(leaf.Cursors.Primary().Selection)
	oldID := leaf.ID
	newID := e.tree.SplitActive(dir, leaf.BufferID, newCursors, ratio)

	e.scroll.Link(oldID, newID)
	return nil
}

func payloadFloat(p Payload, key string, fallback float64) float64 {
	v, ok := p[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return fallback
	}
}

// cmdCloseSplit implements "close-split": closes the active leaf,
// unlinking its scroll-sync group membership first.
func (e *Editor) cmdCloseSplit(_ Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	if g, ok := e.scroll.GroupFor(leaf.ID); ok {
		e.scroll.Unlink(g.ID())
	}
	return e.tree.Close(leaf.ID)
}

// cmdNextSplit/PrevSplit implement next-split/prev-split.
func (e *Editor) cmdNextSplit(_ Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	e.tree.Next()
	return nil
}

func (e *Editor) cmdPrevSplit(_ Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	e.tree.Prev()
	return nil
}

// cmdAdjustRatio implements "adjust-ratio": payload {"delta": float64}.
func (e *Editor) cmdAdjustRatio(p Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	delta := payloadFloat(p, "delta", 0)
	if delta == 0 {
		return corerr.NewCommandFailed("adjust-ratio", "missing payload field delta")
	}
	return e.tree.AdjustRatio(leaf.ID, delta)
}

// cmdMaximize implements "maximize": toggles the active split's
// maximized state.
func (e *Editor) cmdMaximize(_ Payload) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	e.tree.ToggleMaximize()
	return nil
}
