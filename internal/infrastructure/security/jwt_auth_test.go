package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhub/account-server/internal/domain"
)

func testJwtAuth() JwtAuth {
	return JwtAuth{
		AccessSecret:  []byte("access-secret-for-tests-0123456789ab"),
		RefreshSecret: []byte("refresh-secret-for-tests-0123456789a"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "account-server",
	}
}

func TestCreateTokenPair_RoundTrip(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()

	pair, err := j.CreateTokenPair("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	identity, err := j.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)

	identity, err = j.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
}

func TestVerifyAccessToken_NoToken(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()

	_, err := j.VerifyAccessToken("")
	assert.ErrorIs(t, err, domain.ErrNoToken)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()
	j.AccessTTL = -1 * time.Minute

	pair, err := j.CreateTokenPair("user-123")
	require.NoError(t, err)

	// deterministic regardless of how many times it is checked
	for i := 0; i < 3; i++ {
		_, err = j.VerifyAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	}
}

func TestVerifyAccessToken_TamperedSignature(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()

	pair, err := j.CreateTokenPair("user-123")
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	sig[0] ^= 0x01
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = j.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()

	_, err := j.VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()

	pair, err := j.CreateTokenPair("user-123")
	require.NoError(t, err)

	_, err = j.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = j.VerifyRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	j := testJwtAuth()
	other := testJwtAuth()
	other.AccessSecret = []byte("a-completely-different-secret-value!")

	pair, err := j.CreateTokenPair("user-123")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
