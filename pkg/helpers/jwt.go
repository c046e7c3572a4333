package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the stores care about. The collaborator may
// omit any of name/email/role; the session store fills the gaps from the
// auth response when it can.
type TokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var ErrMalformedToken = errors.New("malformed token")

// DecodeClaims extracts claims from a token without verifying the
// signature. The client never holds the collaborator's signing secret;
// the token is trust-on-transport, decoded only to synthesize a profile
// and to check expiry before reuse.
func DecodeClaims(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformedToken
	}
	if claims.UserID == "" && claims.Subject != "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// Expired reports whether the claims carry an exp in the past. Tokens
// without an exp are treated as non-expiring.
func (c *TokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now)
}

// MintLocalToken issues an HS256 token for the local fallback backend,
// signed with a per-install secret so restore works identically across
// backend variants.
func MintLocalToken(secret []byte, userID, email, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}
