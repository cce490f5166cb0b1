package transport

import (
	"encoding/json"
	"log/slog"
	"time"

	pion "github.com/pion/webrtc/v4"

	"github.com/tether-app/tether/internal/relay"
)

// ListenForPeer waits for a joiner to connect to this endpoint, then
// completes the offer/answer and ICE exchange as the offering side and
// waits for the data channel to open. Creator-side only.
func (c *Channel) ListenForPeer(timeout time.Duration) (*Connection, error) {
	deadline := time.After(timeout)

	select {
	case peer := <-c.handler.peerJoined:
		slog.Debug("peer joined", "peer", peer)
	case msg := <-c.handler.errs:
		return nil, wrapError("listen for peer", ErrRelayRejected, msg)
	case <-deadline:
		return nil, newError("listen for peer", ErrConnectionTimeout)
	}

	pc, err := c.newPeerConnection()
	if err != nil {
		return nil, newError("create peer connection", err)
	}
	conn := newConnection(pc)

	ordered := true
	dc, err := pc.CreateDataChannel("tunnel", &pion.DataChannelInit{Ordered: &ordered})
	if err != nil {
		conn.Close()
		return nil, newError("create data channel", err)
	}
	conn.bind(dc)

	c.wireICE(pc)
	go c.pumpSignals(pc, conn, c.handleCreatorSignal)

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		conn.Close()
		return nil, newError("create offer", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		conn.Close()
		return nil, newError("set local description", err)
	}
	// Trickle ICE: candidates follow via the OnICECandidate handler.
	c.sendSignal(&relay.SignalPayload{Type: offer.Type.String(), SDP: offer.SDP})

	return c.awaitOpen(conn, deadline, "listen for peer")
}

// ConnectToPeer reaches the creator's endpoint by name, then completes the
// exchange as the answering side. Joiner-side only.
func (c *Channel) ConnectToPeer(remoteIdentity string, timeout time.Duration) (*Connection, error) {
	deadline := time.After(timeout)

	c.client.send(&relay.Frame{Type: relay.FrameConnect, Endpoint: remoteIdentity})
	select {
	case peer := <-c.handler.connectOK:
		slog.Debug("connected to endpoint", "peer", peer)
	case msg := <-c.handler.errs:
		return nil, wrapError("connect to peer", ErrRelayRejected, msg)
	case <-deadline:
		return nil, newError("connect to peer", ErrConnectionTimeout)
	}

	pc, err := c.newPeerConnection()
	if err != nil {
		return nil, newError("create peer connection", err)
	}
	conn := newConnection(pc)

	pc.OnDataChannel(func(dc *pion.DataChannel) {
		conn.bind(dc)
	})

	c.wireICE(pc)
	go c.pumpSignals(pc, conn, c.handleJoinerSignal)

	return c.awaitOpen(conn, deadline, "connect to peer")
}

// awaitOpen blocks until the data channel opens or the attempt dies. The
// connection is closed on every failure path.
func (c *Channel) awaitOpen(conn *Connection, deadline <-chan time.Time, op string) (*Connection, error) {
	select {
	case <-conn.opened:
		return conn, nil
	case <-c.handler.peerLeft:
		conn.Close()
		return nil, newError(op, ErrPeerDisconnected)
	case msg := <-c.handler.errs:
		conn.Close()
		return nil, wrapError(op, ErrRelayRejected, msg)
	case <-deadline:
		conn.Close()
		return nil, newError(op, ErrConnectionTimeout)
	}
}

func (c *Channel) newPeerConnection() (*pion.PeerConnection, error) {
	iceServers := []pion.ICEServer{{URLs: c.cfg.GetSTUNServers()}}

	if turnServers := c.cfg.GetTURNServers(); turnServers != nil {
		username, password := c.cfg.GetTURNCredentials()
		iceServers = append(iceServers, pion.ICEServer{
			URLs:       turnServers,
			Username:   username,
			Credential: password,
		})
	}

	return pion.NewPeerConnection(pion.Configuration{ICEServers: iceServers})
}

// wireICE forwards local ICE candidates to the peer through the relay.
func (c *Channel) wireICE(pc *pion.PeerConnection) {
	pc.OnICECandidate(func(candidate *pion.ICECandidate) {
		if candidate == nil {
			return
		}
		c.sendSignal(&relay.SignalPayload{ICECandidate: candidate.ToJSON()})
	})
}

// pumpSignals feeds inbound signaling payloads to the role-specific
// handler until the connection is torn down.
func (c *Channel) pumpSignals(pc *pion.PeerConnection, conn *Connection, handle func(*pion.PeerConnection, *relay.SignalPayload) error) {
	for {
		select {
		case sig := <-c.handler.signals:
			if sig == nil {
				continue
			}
			if err := handle(pc, sig); err != nil {
				slog.Debug("signal handling error", "err", err)
			}
		case <-conn.stop:
			return
		}
	}
}

// handleCreatorSignal applies the joiner's answer and ICE candidates.
func (c *Channel) handleCreatorSignal(pc *pion.PeerConnection, sig *relay.SignalPayload) error {
	if sig.SDP != "" && sig.Type == "answer" {
		desc := pion.SessionDescription{Type: pion.SDPTypeAnswer, SDP: sig.SDP}
		if err := pc.SetRemoteDescription(desc); err != nil {
			return err
		}
	}
	return addICECandidate(pc, sig)
}

// handleJoinerSignal applies the creator's offer, answers it, and applies
// ICE candidates.
func (c *Channel) handleJoinerSignal(pc *pion.PeerConnection, sig *relay.SignalPayload) error {
	if sig.SDP != "" && sig.Type == "offer" {
		desc := pion.SessionDescription{Type: pion.SDPTypeOffer, SDP: sig.SDP}
		if err := pc.SetRemoteDescription(desc); err != nil {
			return err
		}
		answer, err := pc.CreateAnswer(nil)
		if err != nil {
			return err
		}
		if err := pc.SetLocalDescription(answer); err != nil {
			return err
		}
		c.sendSignal(&relay.SignalPayload{Type: answer.Type.String(), SDP: answer.SDP})
	}
	return addICECandidate(pc, sig)
}

func addICECandidate(pc *pion.PeerConnection, sig *relay.SignalPayload) error {
	if sig.ICECandidate == nil {
		return nil
	}
	candidateBytes, _ := json.Marshal(sig.ICECandidate)
	var ice pion.ICECandidateInit
	if err := json.Unmarshal(candidateBytes, &ice); err != nil {
		return err
	}
	return pc.AddICECandidate(ice)
}

func (c *Channel) sendSignal(payload *relay.SignalPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Debug("encode signal payload", "err", err)
		return
	}
	c.client.send(&relay.Frame{Type: relay.FrameSignal, Payload: raw})
}
