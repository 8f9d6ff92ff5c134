package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Hour)
	require.NoError(t, err)

	token, err := m.Generate("64f1c2")
	require.NoError(t, err)

	sub, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c2", sub)
}

func TestJWTManagerRejectsForeignTokens(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Hour)
	require.NoError(t, err)

	other, err := NewJWTManager("other-secret", "HS256", time.Hour)
	require.NoError(t, err)
	forged, err := other.Generate("64f1c2")
	require.NoError(t, err)

	_, err = m.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManagerRejectsOtherAlgorithms(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Hour)
	require.NoError(t, err)

	hs512, err := NewJWTManager("secret", "HS512", time.Hour)
	require.NoError(t, err)
	token, err := hs512.Generate("64f1c2")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m, err := NewJWTManager("secret", "HS256", time.Hour)
	require.NoError(t, err)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "64f1c2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManagerValidation(t *testing.T) {
	_, err := NewJWTManager("secret", "RS256", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTManager("", "HS256", time.Hour)
	assert.Error(t, err)
}
