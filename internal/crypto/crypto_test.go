package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tether-app/tether/internal/crypto"
)

func TestDeriveSharedSecret_Commutative(t *testing.T) {
	a, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	ab, err := crypto.DeriveSharedSecret(a.Private, b.Public[:])
	if err != nil {
		t.Fatalf("derive a->b: %v", err)
	}
	ba, err := crypto.DeriveSharedSecret(b.Private, a.Public[:])
	if err != nil {
		t.Fatalf("derive b->a: %v", err)
	}

	if !bytes.Equal(ab, ba) {
		t.Fatal("shared secrets differ between the two sides")
	}
	if len(ab) != crypto.KeySize {
		t.Fatalf("shared secret length = %d, want %d", len(ab), crypto.KeySize)
	}
}

func TestDeriveSharedSecret_InvalidPeerKey(t *testing.T) {
	a, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	if _, err := crypto.DeriveSharedSecret(a.Private, []byte("short")); !errors.Is(err, crypto.ErrInvalidPeerKey) {
		t.Fatalf("short key: got %v, want ErrInvalidPeerKey", err)
	}

	// The all-zero point is rejected by the curve implementation.
	if _, err := crypto.DeriveSharedSecret(a.Private, make([]byte, 32)); !errors.Is(err, crypto.ErrInvalidPeerKey) {
		t.Fatalf("low-order key: got %v, want ErrInvalidPeerKey", err)
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	key, err := crypto.GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey: %v", err)
	}
	plaintext := []byte(`{"masterKey":"abc","salt":"def"}`)

	env, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := crypto.Decrypt(env.IV, env.Ciphertext, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestEnvelope_FreshNoncePerCall(t *testing.T) {
	key, _ := crypto.GenerateMasterKey()
	a, err := crypto.Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := crypto.Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a.IV, b.IV) {
		t.Fatal("nonce reused across calls")
	}
}

func TestEnvelope_TamperDetected(t *testing.T) {
	key, _ := crypto.GenerateMasterKey()
	env, err := crypto.Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	env.Ciphertext[0] ^= 0x01
	if _, err := crypto.Decrypt(env.IV, env.Ciphertext, key); !errors.Is(err, crypto.ErrAuthenticationFailed) {
		t.Fatalf("flipped byte: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestEnvelope_WrongKeyFails(t *testing.T) {
	key, _ := crypto.GenerateMasterKey()
	other, _ := crypto.GenerateMasterKey()

	env, err := crypto.Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := crypto.Decrypt(env.IV, env.Ciphertext, other); !errors.Is(err, crypto.ErrAuthenticationFailed) {
		t.Fatalf("wrong key: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestGenerateMasterKey_Sizes(t *testing.T) {
	key, err := crypto.GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey: %v", err)
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if len(key) != crypto.KeySize {
		t.Fatalf("master key length = %d, want %d", len(key), crypto.KeySize)
	}
	if len(salt) != crypto.SaltSize {
		t.Fatalf("salt length = %d, want %d", len(salt), crypto.SaltSize)
	}

	again, _ := crypto.GenerateMasterKey()
	if bytes.Equal(key, again) {
		t.Fatal("master key generation is not random")
	}
}
