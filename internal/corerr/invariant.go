package corerr

import "fmt"

// InvariantViolation is the panic value raised by Check. It is the one
// error-taxonomy class (§7 CoreInvariantViolated) that is not recoverable:
// a missing primary cursor, a negative buffer length, a marker beyond the
// buffer end are all bugs, not user-facing failures.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "core invariant violated: " + e.Message
}

// Check panics with an InvariantViolation if cond is false. Call sites
// name the invariant, not the symptom, e.g.
//
//	corerr.Check(cursors.Primary() != nil, "cursor set must always have a primary")
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantViolation{Message: fmt.Sprintf(format, args...)})
	}
}
