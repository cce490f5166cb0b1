package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrRelayUnavailable reports that the relay could not be reached or
	// did not acknowledge registration within the setup bound.
	ErrRelayUnavailable = errors.New("relay unavailable")

	// ErrConnectionTimeout reports that no peer connection was established
	// within the caller's bound.
	ErrConnectionTimeout = errors.New("connection timeout")

	// ErrMessageTimeout reports that no message arrived within the
	// receive bound.
	ErrMessageTimeout = errors.New("message timeout")

	// ErrPeerDisconnected reports that the remote side left mid-attempt.
	ErrPeerDisconnected = errors.New("peer disconnected")

	// ErrRelayRejected reports an error frame from the relay (unknown
	// endpoint, name in use, and so on).
	ErrRelayRejected = errors.New("relay rejected request")

	// ErrReceiveBusy reports a second concurrent ReceiveOnce on the same
	// connection; the protocol performs one receive per step.
	ErrReceiveBusy = errors.New("receive already in progress")

	// ErrConnectionClosed reports a receive on a closed connection.
	ErrConnectionClosed = errors.New("connection closed")
)

// Error decorates a transport failure with the operation that hit it.
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

func wrapError(op string, err error, details string) *Error {
	return &Error{Op: op, Err: err, Details: details}
}
