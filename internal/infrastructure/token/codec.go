// Package token implements the signed session snapshot exchanged between
// the session service and the route guard. The guard may run in a different
// execution context than the in-memory service, so the snapshot must be an
// independently verifiable claim rather than shared memory.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

const defaultTTL = 7 * 24 * time.Hour

// Codec signs snapshots into HS256 JWTs and verifies them back.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Encode signs an authenticated snapshot together with the opaque record
// token used for server-side revocation checks.
func (c *Codec) Encode(snap domain.Snapshot, recordToken string) (string, error) {
	if !snap.Consistent() || !snap.IsAuthenticated {
		return "", fmt.Errorf("encode snapshot: refusing to sign an unauthenticated snapshot")
	}

	identity := snap.Identity
	claims := jwt.MapClaims{
		"sub":        identity.ID,
		"email":      identity.Email,
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"phone":      identity.Phone,
		"role":       string(identity.Role),
		"avatar_url": identity.AvatarURL,
		"sid":        recordToken,
		"exp":        time.Now().Add(c.ttl).Unix(),
		"iat":        time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies the claim and reconstructs the snapshot plus the record
// token. It fails closed: signature mismatch, wrong algorithm, expiry, or an
// unrecognized role all return an error and an empty snapshot.
func (c *Codec) Decode(encoded string) (domain.Snapshot, string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(encoded, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.EmptySnapshot(), "", fmt.Errorf("decode snapshot: %w", err)
	}

	role, err := domain.ParseRole(claimString(claims, "role"))
	if err != nil {
		return domain.EmptySnapshot(), "", err
	}

	id := claimString(claims, "sub")
	if id == "" {
		return domain.EmptySnapshot(), "", fmt.Errorf("decode snapshot: missing subject")
	}

	identity := &domain.Identity{
		ID:        id,
		Email:     claimString(claims, "email"),
		FirstName: claimString(claims, "first_name"),
		LastName:  claimString(claims, "last_name"),
		Phone:     claimString(claims, "phone"),
		Role:      role,
		AvatarURL: claimString(claims, "avatar_url"),
	}

	return domain.Snapshot{Identity: identity, IsAuthenticated: true}, claimString(claims, "sid"), nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
