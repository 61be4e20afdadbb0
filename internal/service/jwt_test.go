package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostJWT_RoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateHostJWT("ABC123", "host-1")
	require.NoError(t, err)

	claims, err := ParseHostJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", claims.SessionID)
	assert.Equal(t, "host-1", claims.HostID)
}

func TestHostJWT_Rejects(t *testing.T) {
	InitJWT("test-secret")

	_, err := ParseHostJWT("garbage")
	assert.Error(t, err)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": "ABC123",
		"host_id":    "h",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	forged, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = ParseHostJWT(forged)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": "ABC123",
		"host_id":    "h",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	old, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseHostJWT(old)
	assert.Error(t, err)

	missing := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	bare, err := missing.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseHostJWT(bare)
	assert.Error(t, err)
}
