package editor

import "github.com/corestash/corestash/internal/corerr"

// Payload is a command's optional argument bag. Concrete commands
// document which keys they read; an absent or wrong-typed key is a
// CommandFailed, never a panic.
type Payload map[string]any

type commandFunc func(*Editor, Payload) error

var commandTable map[string]commandFunc

func init() {
	commandTable = map[string]commandFunc{
		// buffer family
		"open":     (*Editor).cmdOpen,
		"new":      (*Editor).cmdNew,
		"save":     (*Editor).cmdSave,
		"save-as":  (*Editor).cmdSaveAs,
		"close":    (*Editor).cmdClose,
		"quit":     (*Editor).cmdQuit,

		// navigation family
		"back":            (*Editor).cmdBack,
		"forward":         (*Editor).cmdForward,
		"goto-line":       (*Editor).cmdGotoLine,
		"goto-definition": (*Editor).cmdGotoDefinition,

		// editing family
		"insert":            (*Editor).cmdInsert,
		"delete":             (*Editor).cmdDelete,
		"replace-selection":  (*Editor).cmdReplaceSelection,
		"replace-all":        (*Editor).cmdReplaceAll,
		"toggle-comment":     (*Editor).cmdToggleComment,
		"case-convert":       (*Editor).cmdCaseConvert,
		"undo":               (*Editor).cmdUndo,
		"redo":               (*Editor).cmdRedo,
		"macro-record-start": (*Editor).cmdMacroRecordStart,
		"macro-record-stop":  (*Editor).cmdMacroRecordStop,
		"macro-play":         (*Editor).cmdMacroPlay,

		// selection family
		"extend-left":      (*Editor).cmdExtendLeft,
		"extend-right":     (*Editor).cmdExtendRight,
		"extend-up":        (*Editor).cmdExtendUp,
		"extend-down":      (*Editor).cmdExtendDown,
		"select-line":      (*Editor).cmdSelectLine,
		"select-word":      (*Editor).cmdSelectWord,
		"select-all":       (*Editor).cmdSelectAll,
		"add-cursor-up":    (*Editor).cmdAddCursorUp,
		"add-cursor-down":  (*Editor).cmdAddCursorDown,
		"remove-secondary": (*Editor).cmdRemoveSecondary,

		// splits family
		"split-horizontal": (*Editor).cmdSplitHorizontal,
		"split-vertical":   (*Editor).cmdSplitVertical,
		"close-split":      (*Editor).cmdCloseSplit,
		"next-split":       (*Editor).cmdNextSplit,
		"prev-split":       (*Editor).cmdPrevSplit,
		"adjust-ratio":     (*Editor).cmdAdjustRatio,
		"maximize":         (*Editor).cmdMaximize,

		// view family
		"scroll-up":   (*Editor).cmdScrollUp,
		"scroll-down": (*Editor).cmdScrollDown,
		"scroll-line": (*Editor).cmdScrollLine,
		"goto-top":    (*Editor).cmdGotoTop,
		"goto-bottom": (*Editor).cmdGotoBottom,
		"toggle-wrap": (*Editor).cmdToggleWrap,

		// recovery family
		"recovery-list":        (*Editor).cmdRecoveryList,
		"recovery-accept-all":  (*Editor).cmdRecoveryAcceptAll,
		"recovery-discard-all": (*Editor).cmdRecoveryDiscardAll,
	}
}

// ExecuteCommand is the §4.11 entry point: it looks up name, runs the
// handler, and on failure surfaces a status message rather than
// panicking or leaving a buffer partially edited (every handler that
// touches more than one buffer operation wraps its edits in a history
// group, per §4.11's Batch requirement).
func (e *Editor) ExecuteCommand(name string, payload Payload) error {
	fn, ok := commandTable[name]
	if !ok {
		err := corerr.NewCommandFailed(name, "unknown command")
		e.reportError(name, err)
		return err
	}

	e.recordMacroStep(name, payload)

	if err := fn(e, payload); err != nil {
		if err == ErrQuit {
			e.Shutdown()
			return err
		}
		e.reportError(name, err)
		return err
	}
	return nil
}

// payload accessors. Each returns CommandFailed rather than panicking
// on a missing or wrong-typed key.

func payloadString(p Payload, key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", corerr.NewCommandFailed(key, "missing payload field "+key)
	}
	s, ok := v.(string)
	if !ok {
		return "", corerr.NewCommandFailed(key, "payload field "+key+" must be a string")
	}
	return s, nil
}

func payloadInt(p Payload, key string, fallback int) int {
	v, ok := p[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
