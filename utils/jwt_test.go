package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "technician", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, role, err := ParseToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "technician", role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 7, "user", time.Hour)
	assert.NoError(t, err)

	_, _, err = ParseToken("some-other-secret", token)
	assert.Error(t, err, "Token signed with a different secret must be rejected")
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, 7, "user", -time.Minute)
	assert.NoError(t, err)

	_, _, err = ParseToken(testSecret, token)
	assert.Error(t, err, "Expired token must be rejected")
}

func TestParseTokenGarbage(t *testing.T) {
	_, _, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}
