package relay

import (
	"encoding/json"
	"log/slog"
)

// Hub owns all relay state: the map from registered endpoint names to
// connected clients and the links between paired clients. A single
// goroutine runs the event loop, so no locks guard the maps.
type Hub struct {
	endpoints map[string]*Client

	Register   chan *Client
	Unregister chan *Client
	Inbound    chan *Frame
}

func NewHub() *Hub {
	return &Hub{
		endpoints:  make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan *Frame),
	}
}

// Run processes registrations, departures and inbound frames until the
// process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			slog.Debug("client connected", "remote", client.remoteAddr())

		case client := <-h.Unregister:
			h.dropClient(client)

		case frame := <-h.Inbound:
			h.handleFrame(frame)
		}
	}
}

func (h *Hub) handleFrame(frame *Frame) {
	c := frame.client

	switch frame.Type {
	case FrameRegister:
		if frame.Endpoint == "" {
			c.sendError("endpoint name required")
			return
		}
		if _, taken := h.endpoints[frame.Endpoint]; taken {
			c.sendError("endpoint name in use")
			return
		}
		c.endpoint = frame.Endpoint
		h.endpoints[frame.Endpoint] = c
		slog.Debug("endpoint registered", "endpoint", frame.Endpoint)
		c.Send <- &Frame{Type: FrameRegistered, Endpoint: frame.Endpoint}

	case FrameConnect:
		remote, ok := h.endpoints[frame.Endpoint]
		if !ok {
			c.sendError("endpoint not found")
			return
		}
		if remote == c {
			c.sendError("cannot connect to own endpoint")
			return
		}
		if remote.peer != nil || c.peer != nil {
			c.sendError("endpoint already connected")
			return
		}
		c.peer = remote
		remote.peer = c
		slog.Debug("endpoints bridged", "creator", remote.endpoint, "joiner", c.endpoint)
		remote.Send <- &Frame{Type: FramePeerJoined, Endpoint: c.endpoint}
		c.Send <- &Frame{Type: FrameConnectOK, Endpoint: remote.endpoint}

	case FrameSignal:
		if c.peer == nil {
			c.sendError("no connected peer")
			return
		}
		c.peer.Send <- &Frame{Type: FrameSignal, Payload: frame.Payload}

	default:
		slog.Debug("unknown frame type ignored", "type", frame.Type)
	}
}

// dropClient releases a departing client's registration and tells its peer,
// if any, that the other side is gone.
func (h *Hub) dropClient(c *Client) {
	if c.endpoint != "" {
		delete(h.endpoints, c.endpoint)
		slog.Debug("endpoint released", "endpoint", c.endpoint)
	}
	if c.peer != nil {
		c.peer.peer = nil
		select {
		case c.peer.Send <- &Frame{Type: FramePeerLeft}:
		default:
		}
		c.peer = nil
	}
	close(c.Send)
}

func (c *Client) sendError(msg string) {
	payload, _ := json.Marshal(ErrorPayload{Error: msg})
	c.Send <- &Frame{Type: FrameError, Payload: payload}
}
