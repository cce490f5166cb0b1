package crypto

import "crypto/rand"

const (
	// KeySize is the length of the long-term master key and of every
	// symmetric key in the tunnel, sized for AEAD use.
	KeySize = 32

	// SaltSize is the length of the KDF salt that accompanies the master
	// key.
	SaltSize = 16
)

// GenerateMasterKey draws the long-term master key. Only the creator side
// of a pairing ever calls this; the joiner receives the result through the
// tunnel. Once pairing completes the key is never regenerated, or the two
// devices' derived encryption keys would diverge.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateSalt draws the KDF salt transported alongside the master key.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Zero overwrites b in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
