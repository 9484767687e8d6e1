// Package token signs and verifies the compact claim set carried by bearer
// tokens. A Codec holds the signing secret, issuer and lifetime fixed at
// startup; it has no other state and is safe for concurrent use.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/strumline/catalog-api/internal/core/domain"
)

// Claims is the payload embedded in a signed token. Role and username are
// informational copies taken at issue time; authorization decisions must
// re-fetch the subject rather than trust them.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed tokens.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New builds a Codec. The ttl is used as-is: callers own defaulting, and a
// zero or negative ttl produces tokens that are already expired.
func New(secret, issuer string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token for the given subject, valid from now until now+ttl.
func (c *Codec) Issue(subjectID, username string, role domain.Role) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses raw, re-derives the signature with the codec's secret and
// checks expiry. It fails closed: any structural, signature or time problem
// maps to one of the domain token errors and no claims are returned.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			// Garbled structure, missing exp, unparseable claims.
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
