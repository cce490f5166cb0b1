package tunnel

import (
	"encoding/json"
	"fmt"
)

// Wire message types exchanged over the data channel. The message set is
// closed: anything that does not decode to one of these shapes is a
// protocol violation.
const (
	MessageTypeInit     = "tunnel-init"
	MessageTypeJoinerID = "joiner-id"
	MessageTypeKey      = "tunnel-key"
)

// wireMessage is the JSON envelope for every tunnel message. Binary fields
// are base64 strings.
type wireMessage struct {
	Type      string `json:"type"`
	PublicKey string `json:"publicKey,omitempty"`
	JoinerID  string `json:"joinerId,omitempty"`
	IV        string `json:"iv,omitempty"`
	Encrypted string `json:"encrypted,omitempty"`
}

// decodeMessage validates an inbound frame at the channel boundary. It
// rejects unknown types and messages missing their required fields so the
// state machines only ever see well-formed variants.
func decodeMessage(data []byte) (*wireMessage, error) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, violation("decode message", "not valid JSON")
	}

	switch msg.Type {
	case MessageTypeInit:
		if msg.PublicKey == "" {
			return nil, violation("decode message", "tunnel-init without publicKey")
		}
	case MessageTypeJoinerID:
		if msg.JoinerID == "" {
			return nil, violation("decode message", "joiner-id without joinerId")
		}
	case MessageTypeKey:
		if msg.IV == "" || msg.Encrypted == "" {
			return nil, violation("decode message", "tunnel-key without iv or encrypted")
		}
	default:
		return nil, violation("decode message", fmt.Sprintf("unknown type %q", msg.Type))
	}
	return &msg, nil
}

func encodeMessage(msg *wireMessage) ([]byte, error) {
	return json.Marshal(msg)
}
