package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidPeerKey reports that remote public key bytes do not decode to a
// usable Curve25519 point.
var ErrInvalidPeerKey = errors.New("invalid peer public key")

const sharedInfo = "tether-tunnel-v1"

// KeyPair is an ephemeral Curve25519 key pair. It lives only for a single
// pairing attempt; only the public half ever leaves the process.
type KeyPair struct {
	Private [32]byte
	Public  [32]byte
}

// GenerateKeyPair returns a fresh key pair with the private scalar clamped
// per RFC 7748.
func GenerateKeyPair() (*KeyPair, error) {
	var kp KeyPair
	if _, err := rand.Read(kp.Private[:]); err != nil {
		return nil, err
	}
	kp.Private[0] &= 248
	kp.Private[31] &= 127
	kp.Private[31] |= 64

	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(kp.Public[:], pub)
	return &kp, nil
}

// Wipe zeroes the private scalar.
func (kp *KeyPair) Wipe() {
	Zero(kp.Private[:])
}

// DeriveSharedSecret runs X25519 between the local private key and the
// remote public key bytes and expands the raw agreement through
// HKDF-SHA256 into a 32-byte symmetric key. The derivation is commutative:
// both sides obtain identical bytes from opposite halves.
func DeriveSharedSecret(priv [32]byte, remotePub []byte) ([]byte, error) {
	if len(remotePub) != 32 {
		return nil, ErrInvalidPeerKey
	}
	raw, err := curve25519.X25519(priv[:], remotePub)
	if err != nil {
		return nil, ErrInvalidPeerKey
	}
	defer Zero(raw)

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, nil, []byte(sharedInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}
