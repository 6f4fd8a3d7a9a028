package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/auth"
	"github.com/tnvu/storefront/internal/http/apierr"
)

type ownerIDKey struct{}

// OwnerFromContext returns the authenticated user id the auth middleware
// stored. Every product, sale and report operation is scoped by this id.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerIDKey{}).(uuid.UUID)
	return id, ok
}

// ContextWithOwner is exported for handler tests.
func ContextWithOwner(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, id)
}

// Auth verifies the bearer token and injects the authenticated user id into
// the request context.
func Auth(tokens auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				writeAuthError(w, apperr.InvalidTokenErr)
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := ContextWithOwner(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(res.StatusCode)
	//nolint:errcheck
	json.NewEncoder(w).Encode(res)
}
