package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brewkit/cellar/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret, subject, name, issuer string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	if name != "" {
		claims["name"] = name
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTVerifierDecode(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret, "")

	valid := signToken(t, testSecret, "auth0|alice", "Alice", "", time.Hour)

	tests := []struct {
		name        string
		token       string
		wantSubject string
		wantOK      bool
	}{
		{name: "valid token", token: valid, wantSubject: "auth0|alice", wantOK: true},
		{name: "bearer prefix tolerated", token: "Bearer " + valid, wantSubject: "auth0|alice", wantOK: true},
		{name: "empty token", token: "", wantOK: false},
		{name: "garbage token", token: "not.a.jwt", wantOK: false},
		{name: "wrong secret", token: signToken(t, "ffffffffffffffffffffffffffffffff", "auth0|alice", "", "", time.Hour), wantOK: false},
		{name: "expired token", token: signToken(t, testSecret, "auth0|alice", "", "", -time.Hour), wantOK: false},
		{name: "missing subject", token: signToken(t, testSecret, "", "", "", time.Hour), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := verifier.Decode(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if claims.Subject != tt.wantSubject {
				t.Errorf("expected subject %q, got %q", tt.wantSubject, claims.Subject)
			}
		})
	}
}

func TestJWTVerifierNameClaim(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret, "")
	token := signToken(t, testSecret, "auth0|alice", "Alice", "", time.Hour)

	claims, ok := verifier.Decode(token)
	if !ok {
		t.Fatal("expected token to decode")
	}
	if claims.Name != "Alice" {
		t.Errorf("expected name Alice, got %q", claims.Name)
	}
}

func TestJWTVerifierIssuerEnforcement(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret, "https://issuer.example.com/")

	matching := signToken(t, testSecret, "auth0|alice", "", "https://issuer.example.com/", time.Hour)
	if _, ok := verifier.Decode(matching); !ok {
		t.Error("expected matching issuer to decode")
	}

	wrong := signToken(t, testSecret, "auth0|alice", "", "https://other.example.com/", time.Hour)
	if _, ok := verifier.Decode(wrong); ok {
		t.Error("expected mismatched issuer to be rejected")
	}

	missing := signToken(t, testSecret, "auth0|alice", "", "", time.Hour)
	if _, ok := verifier.Decode(missing); ok {
		t.Error("expected absent issuer to be rejected")
	}
}

func TestJWTVerifierRejectsUnsignedAlgorithm(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret, "")

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "auth0|alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, ok := verifier.Decode(token); ok {
		t.Error("expected alg=none token to be rejected")
	}
}
