package editor

import "github.com/corestash/corestash/internal/renderer/backend"

// handleBackendEvent processes one terminal event. Full keymap/chord
// resolution is a collaborator's job (§1's "a keymap yields a command
// name; the core executes the command") — this only owns the handful
// of built-in, context-independent behaviors every terminal frontend
// needs regardless of keymap: resize bookkeeping and the universal
// Escape-cancels-innermost-modal rule (§4.11).
func (e *Editor) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return nil

	case backend.EventKey:
		if ev.Key == backend.KeyEscape {
			e.modal.pop()
			return nil
		}
	}
	return nil
}

// Context reports the currently active input context.
func (e *Editor) Context() InputContext {
	return e.modal.current()
}

// PushModal enters a nested Prompt/Popup context (§4.11): it is modal
// until dismissed by PopModal or an Escape key.
func (e *Editor) PushModal(c InputContext) {
	e.modal.push(c)
}

// PopModal dismisses the innermost modal context, reporting whether one
// was active.
func (e *Editor) PopModal() bool {
	return e.modal.pop()
}
