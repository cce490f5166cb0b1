package tunnel

import (
	"errors"
	"fmt"
)

// ErrProtocolViolation reports a malformed or out-of-order tunnel message.
// The attempt is over; retrying means a whole new handshake with fresh
// ephemeral keys.
var ErrProtocolViolation = errors.New("tunnel protocol violation")

// Error carries the handshake step that failed alongside the underlying
// cause.
type Error struct {
	Op      string
	Err     error
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

func violation(op, details string) *Error {
	return &Error{Op: op, Err: ErrProtocolViolation, Details: details}
}
