package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	Cost = bcrypt.MinCost
	h, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", h)
	assert.True(t, Compare(h, "secret"))
	assert.False(t, Compare(h, "wrong"))
	assert.False(t, Compare("not-a-hash", "secret"))
}

func TestGenerate(t *testing.T) {
	a, err := Generate(8)
	require.NoError(t, err)
	b, err := Generate(8)
	require.NoError(t, err)

	assert.Len(t, a, 8)
	assert.Regexp(t, `^[a-z0-9]{8}$`, a)
	assert.NotEqual(t, a, b)
}
