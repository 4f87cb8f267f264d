// Package auth issues and checks the credentials the API accepts: bcrypt
// password hashes, HS256 bearer tokens, and (optionally) GitHub sign-in.
//
// REQUEST FLOW:
//  1. Register or log in → the server returns a signed JWT
//  2. The client sends it back on every call as "Authorization: Bearer <jwt>"
//  3. RequireAuth verifies it and puts the Caller into the request context
//
// JWT STRUCTURE (three base64 parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:  {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"<userID>","name":"Ana","iss":"jobs-api","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
//
// Verification needs only the secret; no database lookup per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "jobs-api"

// DefaultTokenLifetime applies when no lifetime is configured.
const DefaultTokenLifetime = 30 * 24 * time.Hour

var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Caller is the identity carried by a verified token.
type Caller struct {
	ID   string
	Name string
}

// TokenService signs and verifies JWTs with one HMAC secret.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService. A non-positive lifetime falls back
// to DefaultTokenLifetime.
// Generate a production secret with: openssl rand -hex 32
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{secret: []byte(secret), lifetime: lifetime}, nil
}

// claims is the JWT payload: the registered claims plus the display name,
// so handlers can greet the caller without a user lookup.
type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user with the configured lifetime.
func (s *TokenService) Issue(userID, name string) (string, error) {
	return s.IssueWithDuration(userID, name, s.lifetime)
}

// IssueWithDuration signs a token that expires after d. Tests use a negative
// d to get an already-expired token.
func (s *TokenService) IssueWithDuration(userID, name string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the Caller it was issued to.
//
// The library checks the signature, expiry and issuer. Pinning the accepted
// methods to HS256 blocks the "alg: none" and RS/HS confusion attacks.
func (s *TokenService) Verify(tokenStr string) (Caller, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Caller{}, ErrTokenExpired
		}
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Caller{}, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}
	if c.Subject == "" {
		return Caller{}, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	return Caller{ID: c.Subject, Name: c.Name}, nil
}
