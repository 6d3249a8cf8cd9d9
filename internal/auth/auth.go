// Package auth issues and verifies team access tokens (HS256 JWTs).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the token was valid but has passed its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid means the token failed signature or structural checks.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the verified identity carried by a team access token.
type Claims struct {
	TeamID   string
	Username string
}

type tokenClaims struct {
	TeamID   string `json:"team_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies team access tokens with a shared HMAC secret.
type Tokens struct {
	secret []byte
	expiry time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New creates a token issuer/verifier. expiry bounds how long issued
// tokens remain valid.
func New(secret string, expiry time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Issue signs a token for the given team identity.
func (t *Tokens) Issue(teamID, username string) (string, error) {
	now := t.now()
	claims := tokenClaims{
		TeamID:   teamID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token and returns the identity it carries. Expired
// tokens return ErrTokenExpired; everything else wrong with the token
// returns ErrTokenInvalid.
func (t *Tokens) Verify(token string) (Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if claims.TeamID == "" {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{TeamID: claims.TeamID, Username: claims.Username}, nil
}
