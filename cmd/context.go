package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tether-app/tether/internal/config"
	"github.com/tether-app/tether/internal/pairing"
	"github.com/tether-app/tether/internal/store"
	"github.com/tether-app/tether/internal/tunnel"
	"github.com/tether-app/tether/internal/ui"
)

// PairingContext carries the pieces every pairing command needs.
type PairingContext struct {
	Config *config.Config
	Store  *store.FileStore
	UserID string
}

func NewPairingContext(cfg *config.Config) (*PairingContext, error) {
	st, err := OpenStore()
	if err != nil {
		return nil, err
	}

	userID, err := EnsureIdentity(st)
	if err != nil {
		return nil, err
	}

	return &PairingContext{
		Config: cfg,
		Store:  st,
		UserID: userID,
	}, nil
}

func LoadConfig(opts config.Options) (*config.Config, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if (cfg.TURNUser != "" || cfg.TURNPass != "") && cfg.TURNServer == "" {
		return nil, fmt.Errorf("TURN credentials set without a TURN server")
	}

	return cfg, nil
}

// OpenStore opens the settings store under the user config directory.
func OpenStore() (*store.FileStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	return store.NewFileStore(filepath.Join(base, "tether"))
}

// EnsureIdentity returns the persistent local device identity,
// generating one on first run.
func EnsureIdentity(s store.Settings) (string, error) {
	id, err := s.Get(store.KeyUserID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate identity: %w", err)
	}
	id = hex.EncodeToString(buf)

	if err := s.Set(store.KeyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}

// CompletePairing persists the negotiated key material and reports
// the result to the user.
func CompletePairing(ctx *PairingContext, payload *tunnel.MasterKeyPayload) error {
	bus := pairing.NewBus()
	events := bus.Subscribe()

	listener := pairing.NewListener(ctx.Store, ctx.Store, bus)
	if err := listener.Apply(&pairing.RestorePayload{MasterKeyPayload: *payload}); err != nil {
		return err
	}

	fmt.Println()
	select {
	case ev := <-events:
		ui.RenderPaired(ev.PartnerID)
	default:
		ui.PrintSuccess("Devices paired")
	}

	return nil
}
