package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Jane.Doe@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", email)

	for _, bad := range []string{"", "jane", "jane@", "Jane <jane@example.com>", "jane@localhost"} {
		_, err := NormalizeEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Jane"))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName(strings.Repeat("é", MaxNameLength)))
	assert.Error(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes)))
	assert.Error(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1)))
	// 25 three-byte runes fit the rune minimum but not bcrypt's byte limit
	assert.Error(t, ValidatePassword(strings.Repeat("密", 25)))
}

func TestValidateOTP(t *testing.T) {
	assert.NoError(t, ValidateOTP("1234"))
	assert.NoError(t, ValidateOTP("123456"))
	assert.Error(t, ValidateOTP("123"))
	assert.Error(t, ValidateOTP("1234567"))
	assert.Error(t, ValidateOTP("12a456"))
}
