package editor

// cmdScrollUp/Down implement scroll-up/scroll-down: payload {"lines": int},
// default 1, applied as a scroll-sync delta if the active split belongs
// to a group, otherwise directly against its viewport.
func (e *Editor) cmdScrollUp(p Payload) error   { return e.scrollBy(-payloadInt(p, "lines", 1)) }
func (e *Editor) cmdScrollDown(p Payload) error { return e.scrollBy(payloadInt(p, "lines", 1)) }

func (e *Editor) scrollBy(delta int) error {
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	if g, ok := e.scroll.GroupFor(leaf.ID); ok {
		g.ApplyScrollDelta(delta)
		return nil
	}
	line := int64(leaf.Viewport.TopLine) + int64(delta)
	if line < 0 {
		line = 0
	}
	leaf.Viewport.TopLine = uint32(line)
	return nil
}

// cmdScrollLine implements "scroll-line": payload {"line": int}.
func (e *Editor) cmdScrollLine(p Payload) error {
	line := payloadInt(p, "line", 0)
	if e.tree == nil {
		return ErrNoActiveBuffer
	}
	leaf := e.tree.Active()
	if leaf == nil {
		return ErrNoActiveBuffer
	}
	if g, ok := e.scroll.GroupFor(leaf.ID); ok {
		g.SetScrollLine(uint32(line))
		return nil
	}
	leaf.Viewport.TopLine = uint32(line)
	return nil
}

// cmdGotoTop/Bottom implement goto-top/goto-bottom.
func (e *Editor) cmdGotoTop(_ Payload) error {
	leaf, _, err := e.activeBuffer()
	if err != nil {
		return err
	}
	leaf.Cursors.Primary().Selection = leaf.Cursors.Primary().Selection.MoveTo(0)
	return nil
}

func (e *Editor) cmdGotoBottom(_ Payload) error {
	leaf, state, err := e.activeBuffer()
	if err != nil {
		return err
	}
	leaf.Cursors.Primary().Selection = leaf.Cursors.Primary().Selection.MoveTo(state.Buffer.Len())
	return nil
}

// cmdToggleWrap implements "toggle-wrap".
func (e *Editor) cmdToggleWrap(_ Payload) error {
	leaf, _, err := e.activeBuffer()
	if err != nil {
		return err
	}
	leaf.Viewport.WrapEnabled = !leaf.Viewport.WrapEnabled
	return nil
}
