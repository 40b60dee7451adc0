package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

// Authenticator resolves a bearer token to a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (domain.Caller, error)
}

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// BearerAuth rejects requests without a valid bearer token and attaches the
// resolved caller to the request context. Handlers read it back with
// CallerFrom; there is no other channel for the caller identity.
func BearerAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				logger.Info("auth middleware missing bearer token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			caller, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Info("auth middleware rejected token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a handler behind the admin role. It must run after
// BearerAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFrom(r.Context())
		if !ok || caller.Role != domain.RoleAdmin {
			logger.Info("auth middleware forbidden request", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CallerFrom returns the caller attached by BearerAuth.
func CallerFrom(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
