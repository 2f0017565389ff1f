package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	hash, err := ps.Hash("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, ps.Verify(hash, "s3cret-pass"))
	assert.False(t, ps.Verify(hash, "wrong-pass"))
	assert.False(t, ps.Verify("not-a-hash", "s3cret-pass"))
}

func TestPasswordService_Salted(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	h1, err := ps.Hash("same-password")
	require.NoError(t, err)
	h2, err := ps.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestPasswordService_TooLong(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	_, err := ps.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = ps.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestPasswordService_CostFallback(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordService(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordService(99).cost)
	assert.Equal(t, 10, NewPasswordService(10).cost)
}

func TestPasswordService_VerifyDummy(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)
	assert.NotPanics(t, func() {
		ps.VerifyDummy("anything")
		ps.VerifyDummy("anything else")
	})
}
