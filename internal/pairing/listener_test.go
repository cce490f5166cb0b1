package pairing_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/tether-app/tether/internal/pairing"
	"github.com/tether-app/tether/internal/store"
	"github.com/tether-app/tether/internal/tunnel"
)

func newListener(t *testing.T) (*pairing.Listener, *store.FileStore, *pairing.Bus) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	bus := pairing.NewBus()
	return pairing.NewListener(s, s, bus), s, bus
}

func payload(creatorID, joinerID string) *pairing.RestorePayload {
	return &pairing.RestorePayload{
		MasterKeyPayload: tunnel.MasterKeyPayload{
			MasterKey: []byte("0123456789abcdef0123456789abcdef"),
			Salt:      []byte("0123456789abcdef"),
			CreatorID: creatorID,
			JoinerID:  joinerID,
		},
	}
}

func mustGet(t *testing.T, s store.Settings, key string) string {
	t.Helper()
	v, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	return v
}

func TestApply_JoinerSide(t *testing.T) {
	l, s, bus := newListener(t)
	events := bus.Subscribe()

	if err := s.Set(store.KeyUserID, "joiner-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p := payload("creator-1", "joiner-1")
	if err := l.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := mustGet(t, s, store.KeyPartnerID); got != "creator-1" {
		t.Fatalf("partner = %q, want creator-1", got)
	}
	if got := mustGet(t, s, store.KeyPairingStatus); got != store.StatusConnected {
		t.Fatalf("status = %q, want connected", got)
	}
	want := base64.StdEncoding.EncodeToString(p.MasterKey)
	if got := mustGet(t, s, store.KeyMasterKey); got != want {
		t.Fatalf("master key = %q, want %q", got, want)
	}

	select {
	case ev := <-events:
		if ev.PartnerID != "creator-1" {
			t.Fatalf("event partner = %q, want creator-1", ev.PartnerID)
		}
	default:
		t.Fatal("no peer-connected event published")
	}
}

func TestApply_CreatorSide(t *testing.T) {
	l, s, _ := newListener(t)

	if err := s.Set(store.KeyUserID, "creator-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := l.Apply(payload("creator-1", "joiner-1")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := mustGet(t, s, store.KeyPartnerID); got != "joiner-1" {
		t.Fatalf("partner = %q, want joiner-1", got)
	}
}

func TestApply_IgnoredWithoutLocalIdentity(t *testing.T) {
	l, s, _ := newListener(t)

	if err := l.Apply(payload("creator-1", "joiner-1")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := mustGet(t, s, store.KeyPairingStatus); got != "" {
		t.Fatalf("status = %q, want untouched", got)
	}
}

func TestApply_IgnoredWithoutKeyMaterial(t *testing.T) {
	l, s, _ := newListener(t)
	if err := s.Set(store.KeyUserID, "joiner-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p := payload("creator-1", "joiner-1")
	p.MasterKey = nil
	if err := l.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := mustGet(t, s, store.KeyPairingStatus); got != "" {
		t.Fatalf("status = %q, want untouched", got)
	}
}

func TestApply_SelfPairingRejected(t *testing.T) {
	l, s, _ := newListener(t)
	if err := s.Set(store.KeyUserID, "creator-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := l.Apply(payload("creator-1", "creator-1"))
	if !errors.Is(err, pairing.ErrSelfPairing) {
		t.Fatalf("got %v, want ErrSelfPairing", err)
	}
	if got := mustGet(t, s, store.KeyPairingStatus); got != "" {
		t.Fatalf("status = %q, pairing state must be unchanged", got)
	}
	if got := mustGet(t, s, store.KeyMasterKey); got != "" {
		t.Fatalf("master key = %q, pairing state must be unchanged", got)
	}
}

func TestApply_MissingPartnerIdentity(t *testing.T) {
	l, s, _ := newListener(t)
	if err := s.Set(store.KeyUserID, "creator-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := l.Apply(payload("creator-1", ""))
	if !errors.Is(err, pairing.ErrMissingPartnerIdentity) {
		t.Fatalf("got %v, want ErrMissingPartnerIdentity", err)
	}
}

func TestApply_Idempotent(t *testing.T) {
	l, s, _ := newListener(t)
	if err := s.Set(store.KeyUserID, "joiner-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p := payload("creator-1", "joiner-1")
	if err := l.Apply(p); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	key1 := mustGet(t, s, store.KeyMasterKey)
	salt1 := mustGet(t, s, store.KeySalt)

	if err := l.Apply(p); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if mustGet(t, s, store.KeyMasterKey) != key1 || mustGet(t, s, store.KeySalt) != salt1 {
		t.Fatal("duplicate delivery changed persisted key material")
	}
	if got := mustGet(t, s, store.KeyPartnerID); got != "creator-1" {
		t.Fatalf("partner = %q, want creator-1", got)
	}
}

func TestApply_ImportsBundledRecords(t *testing.T) {
	l, s, _ := newListener(t)
	if err := s.Set(store.KeyUserID, "joiner-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p := payload("creator-1", "joiner-1")
	p.Records = map[string][]store.Record{
		"messages": {{"id": "m1"}},
		"memories": {{"id": "mem1"}},
	}
	if err := l.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	msgs, err := s.LoadRecords("messages")
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(msgs) != 1 || msgs[0]["id"] != "m1" {
		t.Fatalf("messages = %v, want one record m1", msgs)
	}
}
