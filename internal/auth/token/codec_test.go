package token

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strumline/catalog-api/internal/core/domain"
)

const testSecret = "unit-test-secret"

func testCodec(ttl time.Duration) *Codec {
	return New(testSecret, "catalog-api", ttl)
}

// ---------------------------------------------------------------------------
// Issue
// ---------------------------------------------------------------------------

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := testCodec(time.Hour)

	raw, err := c.Issue("user-1", "alice", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(raw, ".") != 2 {
		t.Fatalf("token must have three dot-separated segments, got %q", raw)
	}

	claims, err := c.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("sub = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want %q", claims.Username, "alice")
	}
	if claims.Role != domain.RoleCustomer {
		t.Errorf("role = %q, want %q", claims.Role, domain.RoleCustomer)
	}
	if claims.ID == "" {
		t.Error("jti must be set")
	}
	if claims.Issuer != "catalog-api" {
		t.Errorf("iss = %q, want %q", claims.Issuer, "catalog-api")
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != time.Hour {
		t.Errorf("exp-iat = %v, want %v", lifetime, time.Hour)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	c := testCodec(time.Hour)

	raw1, _ := c.Issue("user-1", "alice", domain.RoleCustomer)
	raw2, _ := c.Issue("user-1", "alice", domain.RoleCustomer)

	c1, _ := c.Verify(raw1)
	c2, _ := c.Verify(raw2)
	if c1.ID == c2.ID {
		t.Error("two issued tokens must carry distinct jti values")
	}
}

// ---------------------------------------------------------------------------
// Verify failure modes
// ---------------------------------------------------------------------------

func TestVerify_FlippedSignatureByte(t *testing.T) {
	c := testCodec(time.Hour)
	raw, _ := c.Issue("user-1", "alice", domain.RoleCustomer)

	parts := strings.Split(raw, ".")
	sig := []byte(parts[2])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := c.Verify(tampered); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("flipped signature byte: err = %v, want ErrTokenSignature", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := testCodec(time.Hour)
	raw, _ := c.Issue("user-1", "alice", domain.RoleCustomer)

	parts := strings.Split(raw, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	payload = bytes.Replace(payload, []byte(`"customer"`), []byte(`"admin"`), 1)
	parts[1] = base64.RawURLEncoding.EncodeToString(payload)

	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("role escalation in payload: err = %v, want ErrTokenSignature", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, _ := testCodec(time.Hour).Issue("user-1", "alice", domain.RoleCustomer)

	other := New("a-different-secret", "catalog-api", time.Hour)
	if _, err := other.Verify(raw); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("wrong secret: err = %v, want ErrTokenSignature", err)
	}
}

func TestVerify_ZeroTTLIsExpired(t *testing.T) {
	c := testCodec(0)
	raw, err := c.Issue("user-1", "alice", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("ttl=0: err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_PastTTLIsExpired(t *testing.T) {
	c := testCodec(-time.Hour)
	raw, _ := c.Issue("user-1", "alice", domain.RoleCustomer)

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("negative ttl: err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	c := testCodec(time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.!!!.!!!"} {
		if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("Verify(%q): err = %v, want ErrTokenMalformed", raw, err)
		}
	}
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	c := testCodec(time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":      "user-1",
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("alg=none: err = %v, want ErrTokenSignature", err)
	}
}

func TestVerify_RequiresExpiryClaim(t *testing.T) {
	c := testCodec(time.Hour)

	// Well-signed but with no exp claim at all.
	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "user-1",
		"username": "alice",
		"role":     "customer",
	})
	raw, err := noExp.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("missing exp: err = %v, want ErrTokenMalformed", err)
	}
}
