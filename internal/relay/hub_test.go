package relay

import (
	"encoding/json"
	"testing"
)

// hubClient builds a client wired to the hub with a buffered Send channel,
// bypassing the WebSocket pumps.
func hubClient(h *Hub) *Client {
	return &Client{Hub: h, Send: make(chan *Frame, 8)}
}

func recvFrame(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case f := <-c.Send:
		return f
	default:
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func TestHub_RegisterAndConnect(t *testing.T) {
	h := NewHub()
	creator := hubClient(h)
	joiner := hubClient(h)

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "tether-ABCDEFGHc", client: creator})
	if f := recvFrame(t, creator); f.Type != FrameRegistered {
		t.Fatalf("creator got %q, want registered", f.Type)
	}

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "tether-ABCDEFGHj", client: joiner})
	recvFrame(t, joiner)

	h.handleFrame(&Frame{Type: FrameConnect, Endpoint: "tether-ABCDEFGHc", client: joiner})

	if f := recvFrame(t, creator); f.Type != FramePeerJoined || f.Endpoint != "tether-ABCDEFGHj" {
		t.Fatalf("creator got %+v, want peer_joined from joiner", f)
	}
	if f := recvFrame(t, joiner); f.Type != FrameConnectOK || f.Endpoint != "tether-ABCDEFGHc" {
		t.Fatalf("joiner got %+v, want connect_ok naming creator", f)
	}
}

func TestHub_DuplicateEndpointRejected(t *testing.T) {
	h := NewHub()
	first := hubClient(h)
	second := hubClient(h)

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "tether-ABCDEFGHc", client: first})
	recvFrame(t, first)

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "tether-ABCDEFGHc", client: second})
	f := recvFrame(t, second)
	if f.Type != FrameError {
		t.Fatalf("got %q, want error", f.Type)
	}
	var ep ErrorPayload
	if err := json.Unmarshal(f.Payload, &ep); err != nil || ep.Error == "" {
		t.Fatalf("error payload missing: %v %v", ep, err)
	}
}

func TestHub_ConnectUnknownEndpoint(t *testing.T) {
	h := NewHub()
	joiner := hubClient(h)

	h.handleFrame(&Frame{Type: FrameConnect, Endpoint: "tether-MISSINGc", client: joiner})
	if f := recvFrame(t, joiner); f.Type != FrameError {
		t.Fatalf("got %q, want error", f.Type)
	}
}

func TestHub_SignalForwardedToPeer(t *testing.T) {
	h := NewHub()
	creator := hubClient(h)
	joiner := hubClient(h)

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "c", client: creator})
	recvFrame(t, creator)
	h.handleFrame(&Frame{Type: FrameConnect, Endpoint: "c", client: joiner})
	recvFrame(t, creator)
	recvFrame(t, joiner)

	payload, _ := json.Marshal(SignalPayload{Type: "offer", SDP: "v=0"})
	h.handleFrame(&Frame{Type: FrameSignal, Payload: payload, client: joiner})

	f := recvFrame(t, creator)
	if f.Type != FrameSignal {
		t.Fatalf("got %q, want signal", f.Type)
	}
	var sp SignalPayload
	if err := json.Unmarshal(f.Payload, &sp); err != nil || sp.SDP != "v=0" {
		t.Fatalf("signal payload not forwarded intact: %v %v", sp, err)
	}
}

func TestHub_DropNotifiesPeerAndFreesEndpoint(t *testing.T) {
	h := NewHub()
	creator := hubClient(h)
	joiner := hubClient(h)

	h.handleFrame(&Frame{Type: FrameRegister, Endpoint: "c", client: creator})
	recvFrame(t, creator)
	h.handleFrame(&Frame{Type: FrameConnect, Endpoint: "c", client: joiner})
	recvFrame(t, creator)
	recvFrame(t, joiner)

	h.dropClient(joiner)

	if f := recvFrame(t, creator); f.Type != FramePeerLeft {
		t.Fatalf("creator got %q, want peer_left", f.Type)
	}

	// The creator's endpoint is still registered; a fresh joiner can pair.
	replacement := hubClient(h)
	h.handleFrame(&Frame{Type: FrameConnect, Endpoint: "c", client: replacement})
	if f := recvFrame(t, replacement); f.Type != FrameConnectOK {
		t.Fatalf("replacement got %q, want connect_ok", f.Type)
	}
}
