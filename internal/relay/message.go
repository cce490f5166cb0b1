package relay

import "encoding/json"

// Frame is every WebSocket message exchanged with the relay. The relay
// never inspects Payload beyond forwarding it; tunnel payload content never
// reaches it at all (only connection metadata does).
type Frame struct {
	Type     string          `json:"type"`
	Endpoint string          `json:"endpoint,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`

	client *Client
}

// Frame types. A device first registers its derived endpoint name; the
// joiner side then connects by naming the creator's endpoint; signal frames
// carry the WebRTC offer/answer/ICE exchange between the two.
const (
	FrameRegister = "register"
	FrameConnect  = "connect"
	FrameSignal   = "signal"

	FrameRegistered = "registered"
	FramePeerJoined = "peer_joined"
	FrameConnectOK  = "connect_ok"
	FramePeerLeft   = "peer_left"
	FrameError      = "error"
)

// SignalPayload carries an SDP description or a trickle ICE candidate.
type SignalPayload struct {
	Type         string `json:"type,omitempty"`
	SDP          string `json:"sdp,omitempty"`
	ICECandidate any    `json:"ice_candidate,omitempty"`
}

// ErrorPayload carries a relay-side failure description.
type ErrorPayload struct {
	Error string `json:"error"`
}
