package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Verify collapses the library's error tree into
// these three cases.
var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
)

// Claims is the decoded payload of a bearer token: subject (the user
// identifier), issuer, and expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens with a process-wide HMAC secret.
// The secret is loaded once at startup and read-only thereafter.
type Tokens struct {
	secret []byte
}

// NewTokens creates a token issuer/verifier around the signing secret.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token carrying the subject and issuer claims, expiring
// after ttl.
func (t *Tokens) Issue(subject, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning its claims.
//
// It checks cryptographic validity only: ErrTokenMalformed if the token
// cannot be parsed, ErrSignatureInvalid on a signature mismatch,
// ErrTokenExpired past expiry. Issuer matching is policy and is left to the
// caller.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrSignatureInvalid
		}
	}
	if !token.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}
