package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/steamgames/internal/api/apierr"
	"github.com/mcoot/steamgames/internal/services/auth"
)

type contextKey string

const usernameContextKey contextKey = "username"

// Realm is announced in the WWW-Authenticate challenge
const Realm = "steamgames"

// Authenticator checks a Basic credential pair
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// ServiceAuthenticator adapts the auth service to Authenticator
type ServiceAuthenticator struct {
	Service *auth.Service
}

// Authenticate implements Authenticator
func (a ServiceAuthenticator) Authenticate(ctx context.Context, username, password string) error {
	_, err := a.Service.Authenticate(ctx, username, password)
	return err
}

// BasicAuth creates middleware requiring a valid Basic Authorization header
func BasicAuth(authenticator Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				challenge(w)
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := authenticator.Authenticate(r.Context(), username, password); err != nil {
				if !errors.Is(err, auth.ErrInvalidCredentials) {
					logger.Error("authentication failed",
						slog.String("username", username),
						slog.String("error", err.Error()),
					)
				}
				if apierr.Status(err) == http.StatusUnauthorized {
					challenge(w)
				}
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
}

// GetUsername returns the authenticated username from the request context
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(usernameContextKey).(string)
	return username
}
