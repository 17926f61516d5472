package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/trendfinder/internal/apperror"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. A package-private type means
// only THIS package can read or write the identity value.
type contextKey string

const identityKey contextKey = "identity"

// Identity is what the gate hands to protected handlers.
//
// Token is the caller's raw bearer token. It is forwarded to the data store
// so the store enforces per-user isolation with the caller's own rights.
type Identity struct {
	UserID string
	Email  string
	Token  string
}

// BearerToken extracts the token from an Authorization header value.
//
// "Bearer abc" → "abc". A missing or malformed header yields "", which the
// Verifier then rejects. We never return an error here so the gate has a
// single rejection path.
func BearerToken(header string) string {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth is the authorization gate for every protected route.
//
// It reads the Authorization header, verifies the token and stores the
// caller's Identity in the request context. If verification fails it answers
// 401 and the wrapped handler never runs, so no upstream call is made.
//
// The gate runs on every request; nothing about a previous request is trusted.
//
// MIDDLEWARE PATTERN IN GO:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... before ...
//	        next.ServeHTTP(w, r)
//	    })
//	}
func RequireAuth(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("rejected bearer token",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				writeUnauthorized(w, err)
				return
			}

			id := Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
				Token:  token,
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request context.
//
// Returns (Identity{}, false) when the request did not pass through RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// WithIdentity returns a copy of ctx carrying id.
// Handlers read it back with IdentityFromContext; tests use it to skip the gate.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// writeUnauthorized renders the same error shape as handler.writeError.
// It lives here because handler imports auth, not the other way round.
func writeUnauthorized(w http.ResponseWriter, err error) {
	message := "valid authentication required"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
