// errors.go - error taxonomy for the compositor core.

package chordwm

import "fmt"

// Error wraps a failed core operation with the operation name and an
// optional underlying cause. None of these ever panic across a loop
// callback boundary; callers log and continue per the error taxonomy.
type Error struct {
	Operation string
	Details   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chordwm: %s: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("chordwm: %s: %s", e.Operation, e.Details)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, details string, cause error) *Error {
	return &Error{Operation: op, Details: details, Err: cause}
}

// ErrAllocationFailed is wrapped by the error View.Attach returns when
// its proxy buffer cannot be allocated.
var ErrAllocationFailed = fmt.Errorf("allocation failed")

// ErrRendererDenied is wrapped by Err when the renderer refuses a swap
// with access-denied; the caller treats this as a session deactivation.
var ErrRendererDenied = fmt.Errorf("renderer access denied")

// ErrNoCursor is returned by Seat.CursorPosition when no pointer is
// present; cursor-dependent chord steps then skip themselves, while
// button state is still updated.
var ErrNoCursor = fmt.Errorf("no cursor position")
