package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndMatches(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("rahasia-banget"))
	require.NotEmpty(t, p.Hash)
	assert.NotEqual(t, "rahasia-banget", p.Hash)

	match, err := p.Matches("rahasia-banget")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = p.Matches("salah-password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestPasswordMatchesMalformedHash(t *testing.T) {
	p := Password{Hash: "not-a-bcrypt-hash"}

	match, err := p.Matches("password")
	assert.Error(t, err)
	assert.False(t, match)
}
