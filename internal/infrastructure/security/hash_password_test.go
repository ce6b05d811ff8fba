package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhub/account-server/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_VerifyHash(t *testing.T) {
	t.Parallel()

	h := Hasher{Cost: bcrypt.MinCost}

	hashed, err := h.Hash("S3cret!pass")
	require.NoError(t, err)

	assert.NoError(t, h.VerifyHash([]byte(hashed), "S3cret!pass"))
	assert.ErrorIs(t, h.VerifyHash([]byte(hashed), "wrong-pass"), domain.ErrInvalidCredentials)
}
