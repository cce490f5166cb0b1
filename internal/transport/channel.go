// Package transport reaches the peer device: it registers a derived
// endpoint name with the relay over WebSocket, exchanges WebRTC connection
// metadata through it, and hands back an open peer-to-peer data channel
// the tunnel handshake runs over. The relay only ever sees endpoint names
// and signaling frames.
package transport

import (
	"log/slog"
	"time"

	"github.com/tether-app/tether/internal/config"
	"github.com/tether-app/tether/internal/relay"
)

// Timeout bounds for each phase of reaching the peer.
const (
	SetupTimeout   = 10 * time.Second
	ListenTimeout  = 120 * time.Second
	ConnectTimeout = 30 * time.Second
)

// Channel is a live registration with the relay under a session identity.
// One pairing attempt owns it exclusively; a new attempt must Close the
// previous one first.
type Channel struct {
	identity string
	cfg      *config.Config
	client   *wsClient
	handler  *handler
	closed   bool
}

// Initialize connects to the relay and registers localIdentity as this
// side's endpoint name. It fails with ErrRelayUnavailable when the relay
// cannot be reached or does not acknowledge within SetupTimeout.
func Initialize(cfg *config.Config, localIdentity string) (*Channel, error) {
	client := newWSClient(cfg.WebSocketURL)
	if err := client.connect(SetupTimeout); err != nil {
		return nil, wrapError("initialize channel", ErrRelayUnavailable, err.Error())
	}

	h := newHandler(client)
	go h.start()

	ch := &Channel{identity: localIdentity, cfg: cfg, client: client, handler: h}

	client.send(&relay.Frame{Type: relay.FrameRegister, Endpoint: localIdentity})
	select {
	case <-h.registered:
		slog.Debug("endpoint registered", "endpoint", localIdentity)
		return ch, nil
	case msg := <-h.errs:
		ch.Close()
		return nil, wrapError("register endpoint", ErrRelayRejected, msg)
	case <-time.After(SetupTimeout):
		ch.Close()
		return nil, newError("register endpoint", ErrRelayUnavailable)
	}
}

// Close releases the relay registration. Idempotent; safe on every exit
// path.
func (c *Channel) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if c.handler != nil {
		c.handler.close()
	}
	if c.client != nil {
		c.client.close()
	}
}
