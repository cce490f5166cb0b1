// Package tunnel implements the pairing handshake that carries the
// long-term master key from the creator device to the joiner device over an
// established peer-to-peer connection. Each side runs a small role-specific
// state machine; messages arriving out of order, malformed, or failing
// authentication end the attempt with a typed error. Nothing is retried
// inside an attempt.
package tunnel

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/tether-app/tether/internal/crypto"
)

// Conn is the reliable, ordered message channel the handshake runs over.
// The transport adapter's Connection satisfies it; tests use an in-memory
// pipe. ReceiveOnce serves exactly one waiter per call.
type Conn interface {
	Send(data []byte) error
	ReceiveOnce(timeout time.Duration) ([]byte, error)
}

// MessageTimeout bounds each receive step of the handshake.
const MessageTimeout = 30 * time.Second

type creatorState int

const (
	creatorIdle creatorState = iota
	creatorAwaitingJoinerInit
	creatorAwaitingJoinerID
)

type joinerState int

const (
	joinerIdle joinerState = iota
	joinerAwaitingCreatorInit
	joinerAwaitingMasterKey
)

// RunCreator drives the creator side of the handshake: announce the
// ephemeral public key, learn the joiner's key and identity, then generate
// the master key material and send it sealed under the shared secret. On
// success the returned payload is exactly what the joiner decrypted.
func RunCreator(conn Conn, localID string) (*MasterKeyPayload, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, newError("generate ephemeral key", err)
	}
	defer kp.Wipe()

	var secret []byte
	defer func() { crypto.Zero(secret) }()

	state := creatorIdle
	var joinerID string

	for {
		switch state {
		case creatorIdle:
			init, err := encodeMessage(&wireMessage{
				Type:      MessageTypeInit,
				PublicKey: base64.StdEncoding.EncodeToString(kp.Public[:]),
			})
			if err != nil {
				return nil, newError("encode tunnel-init", err)
			}
			if err := conn.Send(init); err != nil {
				return nil, newError("send tunnel-init", err)
			}
			state = creatorAwaitingJoinerInit

		case creatorAwaitingJoinerInit:
			msg, err := receive(conn)
			if err != nil {
				return nil, err
			}
			if msg.Type != MessageTypeInit {
				return nil, violation("await joiner init", "expected tunnel-init, got "+msg.Type)
			}
			peerPub, err := base64.StdEncoding.DecodeString(msg.PublicKey)
			if err != nil {
				return nil, violation("await joiner init", "publicKey is not base64")
			}
			secret, err = crypto.DeriveSharedSecret(kp.Private, peerPub)
			if err != nil {
				return nil, newError("derive shared secret", err)
			}
			state = creatorAwaitingJoinerID

		case creatorAwaitingJoinerID:
			msg, err := receive(conn)
			if err != nil {
				return nil, err
			}
			if msg.Type != MessageTypeJoinerID {
				return nil, violation("await joiner identity", "expected joiner-id, got "+msg.Type)
			}
			joinerID = msg.JoinerID

			payload, err := buildPayload(localID, joinerID)
			if err != nil {
				return nil, err
			}
			if err := sendSealedPayload(conn, payload, secret); err != nil {
				return nil, err
			}
			return payload, nil
		}
	}
}

// RunJoiner drives the joiner side: wait for the creator's ephemeral key,
// answer with its own plus its identity, then receive and unseal the master
// key payload.
func RunJoiner(conn Conn, localID string) (*MasterKeyPayload, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, newError("generate ephemeral key", err)
	}
	defer kp.Wipe()

	var secret []byte
	defer func() { crypto.Zero(secret) }()

	state := joinerIdle

	for {
		switch state {
		case joinerIdle:
			state = joinerAwaitingCreatorInit

		case joinerAwaitingCreatorInit:
			msg, err := receive(conn)
			if err != nil {
				return nil, err
			}
			if msg.Type != MessageTypeInit {
				return nil, violation("await creator init", "expected tunnel-init, got "+msg.Type)
			}
			peerPub, err := base64.StdEncoding.DecodeString(msg.PublicKey)
			if err != nil {
				return nil, violation("await creator init", "publicKey is not base64")
			}
			secret, err = crypto.DeriveSharedSecret(kp.Private, peerPub)
			if err != nil {
				return nil, newError("derive shared secret", err)
			}

			init, err := encodeMessage(&wireMessage{
				Type:      MessageTypeInit,
				PublicKey: base64.StdEncoding.EncodeToString(kp.Public[:]),
			})
			if err != nil {
				return nil, newError("encode tunnel-init", err)
			}
			if err := conn.Send(init); err != nil {
				return nil, newError("send tunnel-init", err)
			}

			announce, err := encodeMessage(&wireMessage{
				Type:     MessageTypeJoinerID,
				JoinerID: localID,
			})
			if err != nil {
				return nil, newError("encode joiner-id", err)
			}
			if err := conn.Send(announce); err != nil {
				return nil, newError("send joiner-id", err)
			}
			state = joinerAwaitingMasterKey

		case joinerAwaitingMasterKey:
			msg, err := receive(conn)
			if err != nil {
				return nil, err
			}
			if msg.Type != MessageTypeKey {
				return nil, violation("await master key", "expected tunnel-key, got "+msg.Type)
			}
			return openSealedPayload(msg, secret)
		}
	}
}

func receive(conn Conn) (*wireMessage, error) {
	data, err := conn.ReceiveOnce(MessageTimeout)
	if err != nil {
		return nil, newError("receive message", err)
	}
	return decodeMessage(data)
}

func buildPayload(creatorID, joinerID string) (*MasterKeyPayload, error) {
	masterKey, err := crypto.GenerateMasterKey()
	if err != nil {
		return nil, newError("generate master key", err)
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, newError("generate salt", err)
	}
	return &MasterKeyPayload{
		MasterKey: masterKey,
		Salt:      salt,
		CreatorID: creatorID,
		JoinerID:  joinerID,
	}, nil
}

func sendSealedPayload(conn Conn, payload *MasterKeyPayload, secret []byte) error {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return newError("encode master key payload", err)
	}
	defer crypto.Zero(plaintext)

	env, err := crypto.Encrypt(plaintext, secret)
	if err != nil {
		return newError("seal master key payload", err)
	}

	keyMsg, err := encodeMessage(&wireMessage{
		Type:      MessageTypeKey,
		IV:        base64.StdEncoding.EncodeToString(env.IV),
		Encrypted: base64.StdEncoding.EncodeToString(env.Ciphertext),
	})
	if err != nil {
		return newError("encode tunnel-key", err)
	}
	if err := conn.Send(keyMsg); err != nil {
		return newError("send tunnel-key", err)
	}
	return nil
}

func openSealedPayload(msg *wireMessage, secret []byte) (*MasterKeyPayload, error) {
	iv, err := base64.StdEncoding.DecodeString(msg.IV)
	if err != nil {
		return nil, violation("open master key payload", "iv is not base64")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(msg.Encrypted)
	if err != nil {
		return nil, violation("open master key payload", "encrypted is not base64")
	}

	plaintext, err := crypto.Decrypt(iv, ciphertext, secret)
	if err != nil {
		return nil, newError("open master key payload", err)
	}
	defer crypto.Zero(plaintext)

	var payload MasterKeyPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, violation("open master key payload", "payload is not valid JSON")
	}
	return &payload, nil
}
