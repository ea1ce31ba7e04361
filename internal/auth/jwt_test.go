package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "customer", role)
}

func TestTokenCarriesAdminRole(t *testing.T) {
	token, err := GenerateToken(1, "admin")
	require.NoError(t, err)

	_, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, _, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, _, err = ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(7, "customer")
	require.NoError(t, err)

	// Flip the last character of the signature.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, _, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(7, "customer")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, _, err = ValidateToken(token)
	assert.Error(t, err)
}
