package password

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Low cost keeps the test suite fast; correctness is cost-independent.
func testHasher() *Hasher {
	return New(bcrypt.MinCost, zerolog.Nop())
}

func TestHashVerify_RoundTrip(t *testing.T) {
	h := testHasher()

	for _, pw := range []string{"Secret123", "correct horse battery staple", "p@$$w0rd!~"} {
		digest, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q): %v", pw, err)
		}
		if digest == pw {
			t.Fatal("digest must not equal plaintext")
		}
		if !h.Verify(pw, digest) {
			t.Errorf("Verify(%q, digest) = false, want true", pw)
		}
		if h.Verify(pw+"x", digest) {
			t.Errorf("Verify with wrong password = true, want false")
		}
	}
}

func TestHash_SaltsAreRandom(t *testing.T) {
	h := testHasher()

	d1, _ := h.Hash("Secret123")
	d2, _ := h.Hash("Secret123")
	if d1 == d2 {
		t.Error("two digests of the same password must differ (random salt)")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	h := testHasher()

	if _, err := h.Hash(strings.Repeat("a", MaxPasswordLen+1)); err == nil {
		t.Error("expected error for password over bcrypt's byte limit")
	}
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordLen)); err != nil {
		t.Errorf("password at the limit must hash: %v", err)
	}
}

func TestVerify_MalformedDigestReturnsFalse(t *testing.T) {
	h := testHasher()

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$garbage"} {
		if h.Verify("anything", digest) {
			t.Errorf("Verify against malformed digest %q = true, want false", digest)
		}
	}
}

func TestNew_ClampsOutOfRangeCost(t *testing.T) {
	// In-range costs above ~12 are omitted: New computes a dummy digest at
	// the configured cost, which gets expensive fast.
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultCost},
		{-3, DefaultCost},
		{32, DefaultCost},
		{100, DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{10, 10},
	}
	for _, tc := range cases {
		if got := New(tc.in, zerolog.Nop()).Cost(); got != tc.want {
			t.Errorf("New(%d).Cost() = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestVerifyDummy_DoesNotPanic(t *testing.T) {
	h := testHasher()
	h.VerifyDummy("anything at all")
}
