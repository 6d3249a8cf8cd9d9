// Package authmw provides HTTP middleware for bearer token authentication.
package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/linnemanlabs/beacon/internal/auth"
	"github.com/linnemanlabs/beacon/internal/team"
)

type ctxKey struct{}

// Authenticator resolves a bearer token to the team that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*team.Team, error)
}

// TeamFromContext returns the authenticated team stored by Require, or
// nil when the request was not authenticated.
func TeamFromContext(ctx context.Context) *team.Team {
	t, _ := ctx.Value(ctxKey{}).(*team.Team)
	return t
}

// Require returns middleware that validates the Authorization header
// contains a Bearer token, resolves it to a team, and stores the team
// in the request context for handlers downstream.
func Require(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")

			if !strings.HasPrefix(raw, "Bearer ") {
				unauthorized(w, "missing or malformed authorization header")
				return
			}

			tm, err := a.Authenticate(r.Context(), raw[len("Bearer "):])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					unauthorized(w, "token expired")
				case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, team.ErrUnauthenticated):
					unauthorized(w, "invalid token")
				default:
					http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, tm)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	http.Error(w, `{"error":"`+msg+`"}`, http.StatusUnauthorized)
}
