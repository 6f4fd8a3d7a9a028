package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/service"
)

func TestLoginHandler(t *testing.T) {
	t.Run("password flow issues a bearer token", func(t *testing.T) {
		f := newFixture(t)
		f.auths.login = func(_ context.Context, username, password string) (service.Token, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "s3cret-pass", password)
			return service.Token{AccessToken: "token-123", TokenType: "bearer"}, nil
		}

		rec := f.do(formRequest("/auth/token", url.Values{
			"username": {"alice"},
			"password": {"s3cret-pass"},
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"token-123"`)
		assert.Contains(t, rec.Body.String(), `"token_type":"bearer"`)
	})

	t.Run("missing credentials", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(formRequest("/auth/token", url.Values{"username": {"alice"}}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := newFixture(t)
		f.auths.login = func(context.Context, string, string) (service.Token, error) {
			return service.Token{}, apperr.InvalidCredentialsErr
		}

		rec := f.do(formRequest("/auth/token", url.Values{
			"username": {"alice"},
			"password": {"wrong"},
		}))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Run("refreshes for the authenticated user", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		f.auths.refresh = func(_ context.Context, id uuid.UUID) (service.Token, error) {
			assert.Equal(t, userID, id)
			return service.Token{AccessToken: "fresh-token", TokenType: "bearer"}, nil
		}

		req := newRequest(http.MethodPost, "/auth/refresh_token")
		req.Header.Set("Authorization", f.bearer(t, userID))

		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fresh-token")
	})

	t.Run("requires a token", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(newRequest(http.MethodPost, "/auth/refresh_token"))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})
}
