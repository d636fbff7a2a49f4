package editor

import "errors"

// Lifecycle errors, mirroring the teacher's app package sentinels.
var (
	// ErrQuit signals that the event loop should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called while already running.
	ErrAlreadyRunning = errors.New("editor already running")

	// ErrNoActiveBuffer indicates a command needed a buffer but none is open.
	ErrNoActiveBuffer = errors.New("no active buffer")

	// ErrBufferNotFound indicates a command named a buffer id that isn't open.
	ErrBufferNotFound = errors.New("buffer not found")
)

// InitError wraps a failure to initialize one of the façade's components.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string { return e.Component + ": " + e.Err.Error() }
func (e *InitError) Unwrap() error { return e.Err }
