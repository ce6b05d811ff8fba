package dto_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/streamhub/account-server/internal/adapters/http/dto"
	"github.com/streamhub/account-server/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapErrTokenFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"no token", domain.ErrNoToken, domain.ErrCodeUnauthenticated, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, domain.ErrCodeInvalidToken, http.StatusUnauthorized},
		{"expired token", domain.ErrTokenExpired, domain.ErrCodeTokenExpired, http.StatusUnauthorized},
		{"revoked token", domain.ErrTokenRevoked, domain.ErrCodeTokenRevoked, http.StatusUnauthorized},
		{"invalid credentials", domain.ErrInvalidCredentials, domain.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, domain.ErrCodeNotFound, http.StatusNotFound},
		{"duplicate user", domain.ErrUserExists, domain.ErrCodeConflict, http.StatusConflict},
		{"db unavailable", domain.ErrDbConnection, domain.ErrCodeExternal, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			httpErr := dto.MapErr(tc.err)
			assert.Equal(t, tc.wantCode, httpErr.Code)
			assert.Equal(t, tc.wantStatus, httpErr.StatusCode)
		})
	}
}

func TestMapErrUnknownError(t *testing.T) {
	t.Parallel()

	httpErr := dto.MapErr(errors.New("boom"))
	assert.Equal(t, domain.ErrCodeInternal, httpErr.Code)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	// internal details never leak to the client
	assert.Equal(t, "internal server error", httpErr.Message)
}

func TestMapErrWrappedDomainError(t *testing.T) {
	t.Parallel()

	wrapped := domain.NewDomainError(domain.ErrCodeInternal, "failed to persist refresh token", errors.New("connection reset"))
	httpErr := dto.MapErr(wrapped)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}
