package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gameon/internal/model"
	"gameon/internal/service"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const SessionContextKey = contextKey("session")

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Session, error)
}

func AuthMiddleware(resolver SessionResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug().Str("path", r.URL.Path).Msg("Authorization header missing")
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug().Str("path", r.URL.Path).Msg("Invalid authorization header")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			sess, err := resolver.Resolve(r.Context(), parts[1])
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
					return
				}
				logger.Error().Err(err).Msg("Failed to resolve session")
				http.Error(w, "Failed to resolve session", http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by AuthMiddleware, or nil.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(SessionContextKey).(*model.Session)
	return sess
}
