package roomcode_test

import (
	"strings"
	"testing"

	"github.com/tether-app/tether/internal/roomcode"
)

func TestGenerate_IsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := roomcode.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !roomcode.IsValid(code) {
			t.Fatalf("generated code %q is not valid", code)
		}
		if len(code) != roomcode.Length+1 || code[4] != '-' {
			t.Fatalf("generated code %q is not formatted XXXX-XXXX", code)
		}
	}
}

func TestGenerate_NoAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := roomcode.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if strings.ContainsAny(code, "ILO01") {
			t.Fatalf("generated code %q contains an ambiguous character", code)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ABCD-EFGH", "ABCDEFGH"},
		{"abcd-efgh", "ABCDEFGH"},
		{"  ab cd ef gh  ", "ABCDEFGH"},
		{"AB!CD@EF#GH", "ABCDEFGH"},
		{"ABCDEFGHJK", "ABCDEFGH"}, // truncated to canonical length
		{"", ""},
		{"ab", "AB"},
		{"A1B0CIDLEOFG", "ABCDEFG"}, // ambiguous characters stripped
	}
	for _, c := range cases {
		if got := roomcode.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !roomcode.IsValid("abcd-efgh") {
		t.Error("lowercase formatted code should be valid")
	}
	if roomcode.IsValid("ABCD") {
		t.Error("short code should be invalid")
	}
	if roomcode.IsValid("") {
		t.Error("empty code should be invalid")
	}
	// O, 0, 1 and I are stripped, leaving fewer than 8 characters.
	if roomcode.IsValid("O0O0-1I1I") {
		t.Error("code made of ambiguous characters should be invalid")
	}
}

func TestFormat(t *testing.T) {
	if got := roomcode.Format("abcdefgh"); got != "ABCD-EFGH" {
		t.Errorf("Format = %q, want ABCD-EFGH", got)
	}
	if got := roomcode.Format("nope"); got != "nope" {
		t.Errorf("Format on short input = %q, want unchanged", got)
	}
}

func TestSessionID_ComplementaryRoles(t *testing.T) {
	code := "ABCD-EFGH"

	creatorLocal := roomcode.SessionID(code, roomcode.RoleCreator)
	joinerLocal := roomcode.SessionID(code, roomcode.RoleJoiner)

	if creatorLocal == joinerLocal {
		t.Fatal("creator and joiner must derive distinct identities")
	}
	if roomcode.PeerSessionID(code, roomcode.RoleCreator) != joinerLocal {
		t.Fatal("creator's peer identity must equal joiner's local identity")
	}
	if roomcode.PeerSessionID(code, roomcode.RoleJoiner) != creatorLocal {
		t.Fatal("joiner's peer identity must equal creator's local identity")
	}
}

func TestSessionID_NormalizesCode(t *testing.T) {
	a := roomcode.SessionID("abcd-efgh", roomcode.RoleCreator)
	b := roomcode.SessionID("ABCDEFGH", roomcode.RoleCreator)
	if a != b {
		t.Fatalf("session identity must be derived from the normalized code: %q != %q", a, b)
	}
}
