package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrAuthenticationFailed reports that a ciphertext failed its integrity
// check. This is terminal for a pairing attempt: it means corruption or a
// tampering relay, never something to retry.
var ErrAuthenticationFailed = errors.New("ciphertext authentication failed")

// Envelope is an authenticated ciphertext with its one-time nonce.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

// Encrypt seals plaintext under key with ChaCha20-Poly1305, drawing a fresh
// random nonce per call. A nonce is never reused with the same key.
func Encrypt(plaintext, key []byte) (*Envelope, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	return &Envelope{IV: iv, Ciphertext: aead.Seal(nil, iv, plaintext, nil)}, nil
}

// Decrypt opens a sealed envelope. It returns ErrAuthenticationFailed when
// the integrity tag does not verify.
func Decrypt(iv, ciphertext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
