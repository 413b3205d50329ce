package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

func TestGenerateAndParseJWT(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	token, err := utils.GenerateJWT("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(utils.TokenValidity), claims.ExpiresAt.Time, time.Minute)
}

func TestParseJWT_ExpiredToken(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-123",
	})
	tokenStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = utils.ParseJWT(tokenStr)
	assert.Error(t, err)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	utils.InitJwtSecret("test-secret")
	token, err := utils.GenerateJWT("user-123")
	require.NoError(t, err)

	utils.InitJwtSecret("another-secret")
	_, err = utils.ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWT_Garbage(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	_, err := utils.ParseJWT("not-a-token")
	assert.Error(t, err)
}
