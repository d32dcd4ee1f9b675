package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	h1, err := HashPassword("s3cret!")
	require.NoError(t, err)
	h2, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")
	assert.NotContains(t, h1, "s3cret!")
	assert.True(t, CheckPassword("s3cret!", h1))
	assert.True(t, CheckPassword("s3cret!", h2))
}

func TestCheckPassword_Mismatch(t *testing.T) {
	h, err := HashPassword("password-one")
	require.NoError(t, err)

	assert.False(t, CheckPassword("password-two", h))
	assert.False(t, CheckPassword("", h))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
