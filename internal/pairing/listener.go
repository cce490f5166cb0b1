// Package pairing applies a transported master key payload to local state.
// The listener path covers both the normal completion at the end of a
// handshake and the restore case where the payload arrives while the user
// is elsewhere in the application.
package pairing

import (
	"encoding/base64"
	"fmt"

	"github.com/tether-app/tether/internal/store"
	"github.com/tether-app/tether/internal/tunnel"
)

// RestorePayload is a master key payload plus the optional bundled records
// a partner may attach for immediate resync, keyed by record store name.
type RestorePayload struct {
	tunnel.MasterKeyPayload
	Records map[string][]store.Record `json:"records,omitempty"`
}

// Listener idempotently applies restore payloads to durable local state.
type Listener struct {
	settings store.Settings
	records  store.Records
	bus      *Bus
}

func NewListener(settings store.Settings, records store.Records, bus *Bus) *Listener {
	return &Listener{settings: settings, records: records, bus: bus}
}

// Apply persists a received payload and flips local state to paired.
// Payloads are ignored entirely when no local identity exists yet or when
// the key material is incomplete. Effects run in a fixed order: bundled
// records first, then key material and partner identity, then the
// connected status, then the peer-connected announcement. Applying the
// same payload twice leaves identical state behind.
func (l *Listener) Apply(p *RestorePayload) error {
	if p == nil || len(p.MasterKey) == 0 || len(p.Salt) == 0 {
		return nil
	}
	localID, err := l.settings.Get(store.KeyUserID)
	if err != nil {
		return fmt.Errorf("read local identity: %w", err)
	}
	if localID == "" {
		return nil
	}

	partnerID, err := resolvePartner(localID, &p.MasterKeyPayload)
	if err != nil {
		return err
	}

	for name, records := range p.Records {
		if err := l.records.ImportRecords(name, records); err != nil {
			return fmt.Errorf("import records for %s: %w", name, err)
		}
	}

	if err := l.settings.Set(store.KeyMasterKey, base64.StdEncoding.EncodeToString(p.MasterKey)); err != nil {
		return fmt.Errorf("persist master key: %w", err)
	}
	if err := l.settings.Set(store.KeySalt, base64.StdEncoding.EncodeToString(p.Salt)); err != nil {
		return fmt.Errorf("persist salt: %w", err)
	}
	if err := l.settings.Set(store.KeyPartnerID, partnerID); err != nil {
		return fmt.Errorf("persist partner identity: %w", err)
	}
	if err := l.settings.Set(store.KeyPairingStatus, store.StatusConnected); err != nil {
		return fmt.Errorf("persist pairing status: %w", err)
	}

	l.bus.Publish(PeerConnected{PartnerID: partnerID})
	return nil
}

// resolvePartner decides which side of the relationship the local device
// is on and returns the other side's identity. A payload whose partner
// identity equals the local identity is a self-pairing and is rejected.
func resolvePartner(localID string, p *tunnel.MasterKeyPayload) (string, error) {
	var partnerID string
	if localID == p.CreatorID {
		partnerID = p.JoinerID
	} else {
		partnerID = p.CreatorID
	}
	if partnerID == "" {
		return "", ErrMissingPartnerIdentity
	}
	if partnerID == localID {
		return "", ErrSelfPairing
	}
	return partnerID, nil
}
