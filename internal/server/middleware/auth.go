// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// actorKey is the context key for the authenticated actor id.
const actorKey ContextKey = "actor"

// TokenValidator validates a bearer token and yields the actor behind it.
type TokenValidator interface {
	ValidateToken(tokenString string) (ActorGetter, error)
}

// ActorGetter extracts the actor id from token claims.
type ActorGetter interface {
	GetActor() uuid.UUID
}

// RequireAuth validates the Authorization header and attaches the actor id
// to the request context. Every mutating route runs behind it.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, claims.GetActor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Actor extracts the authenticated actor id from the request context.
func Actor(r *http.Request) (uuid.UUID, error) {
	actor, ok := r.Context().Value(actorKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("actor not found in request context")
	}
	return actor, nil
}

// WithActor returns a context carrying the actor id (used by tests).
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
