// Package auth resolves caller identities from bearer tokens and decides
// ownership-based authorization.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded identity carried by a bearer token.
type Claims struct {
	// Subject is the identity provider's stable handle for the caller.
	Subject string

	// Name is the human-readable name claim, when present.
	Name string
}

// Verifier turns a bearer token into decoded claims. A token that cannot
// be decoded yields ok == false — "no identity" — rather than an error;
// token issuance and key management belong to the external provider.
type Verifier interface {
	Decode(token string) (Claims, bool)
}

// tokenClaims extends the registered JWT claims with the name claim.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// JWTVerifier validates and decodes HS256 bearer tokens.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a verifier. secret must be at least 32 characters
// for HS256 security; issuer, when non-empty, is enforced on every token.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Decode parses and validates a bearer token, tolerating a "Bearer " prefix.
func (v *JWTVerifier) Decode(token string) (Claims, bool) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Claims{}, false
	}

	opts := []jwt.ParserOption{}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, false
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Claims{}, false
	}
	return Claims{Subject: claims.Subject, Name: claims.Name}, true
}
