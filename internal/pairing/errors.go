package pairing

import "errors"

var (
	// ErrSelfPairing reports that the resolved partner identity equals the
	// local identity. Applying such a payload would pair a device with
	// itself, so it is rejected before any state changes.
	ErrSelfPairing = errors.New("self-pairing detected")

	// ErrMissingPartnerIdentity reports a payload that identifies the local
	// side but carries no identity for the other side.
	ErrMissingPartnerIdentity = errors.New("payload missing partner identity")
)
