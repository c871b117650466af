package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("letters123")
	require.NoError(t, err)
	assert.NotEqual(t, "letters123", hash)
	assert.NoError(t, CheckPasswordHash(hash, "letters123"))
	assert.Error(t, CheckPasswordHash(hash, "letters124"))
}

func TestIsStrongEnough(t *testing.T) {
	assert.True(t, IsStrongEnough("abc12345"))
	assert.False(t, IsStrongEnough("abcdefgh"))
	assert.False(t, IsStrongEnough("12345678"))
}
