// Package editor implements the C11 façade: the top-level object that
// owns buffers, splits, scroll-sync groups, position history and the
// recovery engine, and exposes a single ExecuteCommand(name, payload)
// entry point that a collaborator (keymap resolver, terminal event
// loop) drives.
//
// Control flow for any state-mutating command follows §4.5's four-step
// contract: build the event, append it to the buffer's log, call
// State.Apply, then fan the edit out to sibling splits on the same
// buffer (§4.7) before returning. The façade never mutates C1/C2/C3
// directly; it goes through bufstate.State.Apply exclusively, mirroring
// the teacher's Application, which never touches a document's engine
// without going through DocumentManager.
package editor
