package editor

import "github.com/corestash/corestash/internal/corerr"

// macroStep is one recorded command+payload pair.
type macroStep struct {
	name    string
	payload Payload
}

// macroRecorder captures ExecuteCommand calls between macro-record-start
// and macro-record-stop for later replay by macro-play, grounded on the
// teacher's input/macro package idea of a register-keyed command tape
// but collapsed to the subset corestash's command set needs.
type macroRecorder struct {
	recording bool
	steps     []macroStep
	saved     map[string][]macroStep
}

func newMacroRecorder() macroRecorder {
	return macroRecorder{saved: make(map[string][]macroStep)}
}

// recordMacroStep appends name/payload to the in-progress recording, if
// any. Macro commands themselves are never recorded, so playing back a
// macro can't recursively start/stop/replay itself.
func (e *Editor) recordMacroStep(name string, payload Payload) {
	if !e.macro.recording {
		return
	}
	switch name {
	case "macro-record-start", "macro-record-stop", "macro-play":
		return
	}
	e.macro.steps = append(e.macro.steps, macroStep{name: name, payload: payload})
}

// cmdMacroRecordStart implements "macro-record-start".
func (e *Editor) cmdMacroRecordStart(_ Payload) error {
	if e.macro.recording {
		return corerr.NewCommandFailed("macro-record-start", "already recording")
	}
	e.macro.recording = true
	e.macro.steps = nil
	return nil
}

// cmdMacroRecordStop implements "macro-record-stop": payload
// {"register": string}, default "default".
func (e *Editor) cmdMacroRecordStop(p Payload) error {
	if !e.macro.recording {
		return corerr.NewCommandFailed("macro-record-stop", "not recording")
	}
	register, err := payloadString(p, "register")
	if err != nil {
		register = "default"
	}
	e.macro.recording = false
	e.macro.saved[register] = e.macro.steps
	e.macro.steps = nil
	return nil
}

// cmdMacroPlay implements "macro-play": payload {"register": string,
// "count": int}, replaying the named macro count times (default 1).
// Each step is executed through ExecuteCommand so it logs and reports
// status identically to the original invocation.
func (e *Editor) cmdMacroPlay(p Payload) error {
	register, err := payloadString(p, "register")
	if err != nil {
		register = "default"
	}
	steps, ok := e.macro.saved[register]
	if !ok {
		return corerr.NewCommandFailed("macro-play", "no macro recorded in register "+register)
	}
	count := payloadInt(p, "count", 1)
	for i := 0; i < count; i++ {
		for _, step := range steps {
			if err := e.ExecuteCommand(step.name, step.payload); err != nil {
				return err
			}
		}
	}
	return nil
}
