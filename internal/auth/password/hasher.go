// Package password wraps bcrypt behind a small hasher with a clamped,
// startup-configured cost factor.
package password

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/strumline/catalog-api/internal/api/metrics"
)

const (
	// DefaultCost is used when configuration supplies an out-of-range cost.
	DefaultCost = 10

	// MaxPasswordLen is bcrypt's input limit in bytes; longer inputs would be
	// silently truncated by the algorithm, so we reject them instead.
	MaxPasswordLen = 72
)

// Hasher derives and verifies salted password digests. The cost factor is
// fixed at construction and never changes afterward, so a Hasher is safe for
// concurrent use.
type Hasher struct {
	cost  int
	dummy []byte
}

// New builds a Hasher with the given bcrypt cost. An out-of-range cost is
// logged and replaced with DefaultCost rather than failing startup.
func New(cost int, log zerolog.Logger) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		log.Warn().
			Int("cost", cost).
			Int("default", DefaultCost).
			Msgf("bcrypt cost outside [%d,%d], using default", bcrypt.MinCost, bcrypt.MaxCost)
		cost = DefaultCost
	}
	// Digest of a fixed string at the same cost, used to equalize timing when
	// there is no real digest to check. Cannot fail for an in-range cost.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

// Cost returns the effective cost factor after clamping.
func (h *Hasher) Cost() int { return h.cost }

// Hash derives a salted digest of plaintext. bcrypt embeds the salt and cost
// in the digest, so nothing is stored separately.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordLen {
		return "", fmt.Errorf("password longer than %d bytes", MaxPasswordLen)
	}
	defer observe(time.Now())
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. It never returns an error:
// a malformed digest and a wrong password both yield false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	defer observe(time.Now())
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDummy burns the same CPU as a real verification against a digest that
// matches nothing. Callers run it when the subject does not exist, so lookup
// misses and password mismatches take indistinguishable time.
func (h *Hasher) VerifyDummy(plaintext string) {
	defer observe(time.Now())
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}

func observe(start time.Time) {
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
}
