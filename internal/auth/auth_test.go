package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, salt, saltLength*2)

	hash := HashPassword("secret1", salt, 1000)
	assert.Len(t, hash, keyLength*2)

	assert.True(t, CheckPassword("secret1", salt, hash, 1000))
	assert.False(t, CheckPassword("secret2", salt, hash, 1000))
	assert.False(t, CheckPassword("secret1", salt+"x", hash, 1000))
	// другое число итераций дает другой ключ
	assert.False(t, CheckPassword("secret1", salt, hash, 1001))
}

func TestNewTokenIsRandom(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, a, tokenBytes*2)
	assert.NotEqual(t, a, b)
}

func TestTokenHasher(t *testing.T) {
	h := NewTokenHasher("secret")
	other := NewTokenHasher("other")

	assert.Equal(t, h.Hash("abc"), h.Hash("abc"))
	assert.NotEqual(t, h.Hash("abc"), h.Hash("abd"))
	assert.NotEqual(t, h.Hash("abc"), other.Hash("abc"))
}

func TestVerificationCode(t *testing.T) {
	code, err := NewVerificationCode()
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	assert.Equal(t, HashVerificationCode("a@b.c", code), HashVerificationCode("a@b.c", code))
	assert.NotEqual(t, HashVerificationCode("a@b.c", code), HashVerificationCode("x@b.c", code))
}
