package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slcassoc/theatre-booking/internal/utils"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := utils.HashPassword("opening-night", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "opening-night", hash)
	assert.True(t, utils.VerifyPassword(hash, "opening-night"))
	assert.False(t, utils.VerifyPassword(hash, "closing-night"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	// 99 is outside bcrypt's range; the default cost is used instead of
	// erroring out.
	hash, err := utils.HashPassword("curtain-call", 99)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "curtain-call"))
}

func TestNewAccessTokenCarriesClaims(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestNewAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 1, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	ref, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, ref.Raw, 96) // 48 random bytes, hex encoded
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), ref.Exp, 5*time.Second)

	h1 := utils.HashRefreshRaw(ref.Raw)
	h2 := utils.HashRefreshRaw(ref.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, ref.Raw, h1)

	other, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, utils.HashRefreshRaw(other.Raw), h1)
}
