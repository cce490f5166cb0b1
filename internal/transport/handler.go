package transport

import (
	"encoding/json"

	"github.com/tether-app/tether/internal/relay"
)

// handler routes inbound relay frames to typed channels so the channel
// setup code can select on exactly the event it is waiting for.
type handler struct {
	client     *wsClient
	registered chan string
	peerJoined chan string
	connectOK  chan string
	signals    chan *relay.SignalPayload
	peerLeft   chan struct{}
	errs       chan string
	closed     bool
}

func newHandler(client *wsClient) *handler {
	return &handler{
		client:     client,
		registered: make(chan string, 1),
		peerJoined: make(chan string, 1),
		connectOK:  make(chan string, 1),
		signals:    make(chan *relay.SignalPayload, 32),
		peerLeft:   make(chan struct{}, 1),
		errs:       make(chan string, 1),
	}
}

// start consumes the client's incoming frames until the connection drops.
func (h *handler) start() {
	for frame := range h.client.incoming {
		switch frame.Type {

		case relay.FrameRegistered:
			h.registered <- frame.Endpoint

		case relay.FramePeerJoined:
			h.peerJoined <- frame.Endpoint

		case relay.FrameConnectOK:
			h.connectOK <- frame.Endpoint

		case relay.FramePeerLeft:
			select {
			case h.peerLeft <- struct{}{}:
			default:
			}

		case relay.FrameSignal:
			h.handleSignal(frame)

		case relay.FrameError:
			h.handleError(frame)

		default:
		}
	}
}

func (h *handler) handleSignal(frame *relay.Frame) {
	var payload relay.SignalPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		h.errs <- "failed to parse signal payload"
		return
	}
	h.signals <- &payload
}

func (h *handler) handleError(frame *relay.Frame) {
	var payload relay.ErrorPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		h.errs <- "unknown error from relay"
		return
	}
	h.errs <- payload.Error
}

func (h *handler) close() {
	if h.closed {
		return
	}
	h.closed = true

	close(h.registered)
	close(h.peerJoined)
	close(h.connectOK)
	close(h.signals)
	close(h.peerLeft)
	close(h.errs)
}
