package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the set of characters a room code may contain. Visually
// ambiguous characters (I, L, O, 0, 1) are excluded so codes survive being
// read aloud or copied by hand.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length is the number of alphabet characters in a canonical room code,
// excluding the display separator.
const Length = 8

// namespace prefixes every derived session identity so relay endpoint names
// from different applications cannot collide.
const namespace = "tether-"

// Role identifies which side of a pairing attempt a device is on. Exactly
// one device is the creator (it generates the master key) and the other is
// the joiner (it receives it).
type Role string

const (
	RoleCreator Role = "creator"
	RoleJoiner  Role = "joiner"
)

// marker returns the single-character role marker used in session
// identities.
func (r Role) marker() byte {
	if r == RoleCreator {
		return 'c'
	}
	return 'j'
}

// Opposite returns the peer's role.
func (r Role) Opposite() Role {
	if r == RoleCreator {
		return RoleJoiner
	}
	return RoleCreator
}

// Generate returns a fresh room code formatted as XXXX-XXXX, drawn from
// Alphabet using crypto/rand.
func Generate() (string, error) {
	chars := make([]byte, Length)
	for i := range chars {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		chars[i] = Alphabet[n.Int64()]
	}
	return string(chars[:4]) + "-" + string(chars[4:]), nil
}

// Normalize uppercases the input, strips every character outside Alphabet
// (separators, whitespace, ambiguous characters) and truncates to the
// canonical length.
func Normalize(input string) string {
	upper := strings.ToUpper(input)
	var b strings.Builder
	for i := 0; i < len(upper) && b.Len() < Length; i++ {
		if strings.IndexByte(Alphabet, upper[i]) >= 0 {
			b.WriteByte(upper[i])
		}
	}
	return b.String()
}

// IsValid reports whether the input normalizes to a full-length room code.
func IsValid(input string) bool {
	return len(Normalize(input)) == Length
}

// Format renders a normalized code as two four-character groups for
// display. Inputs that are not full-length are returned unchanged.
func Format(code string) string {
	n := Normalize(code)
	if len(n) != Length {
		return code
	}
	return n[:4] + "-" + n[4:]
}

// SessionID derives the relay endpoint name for one side of a pairing
// attempt. It is deterministic over (code, role) so both devices can
// compute each other's endpoint offline: same code, opposite roles.
func SessionID(code string, role Role) string {
	return fmt.Sprintf("%s%s%c", namespace, Normalize(code), role.marker())
}

// PeerSessionID derives the relay endpoint name of the opposite role.
func PeerSessionID(code string, role Role) string {
	return SessionID(code, role.Opposite())
}
