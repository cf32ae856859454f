package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/storefront/pkg/crypt"
)

func TestForName(t *testing.T) {
	assert.Equal(t, "bcrypt", crypt.ForName("bcrypt").Name())
	assert.Equal(t, "plaintext", crypt.ForName("plaintext").Name())
	assert.Equal(t, "plaintext", crypt.ForName("argon9").Name())
}

func TestPlaintext(t *testing.T) {
	h := crypt.Plaintext{}
	stored, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", stored)

	assert.True(t, h.Check(stored, "s3cret"))
	assert.False(t, h.Check(stored, "s3cret "))
	assert.False(t, h.Check(stored, ""))
}

func TestBcrypt(t *testing.T) {
	h := crypt.Bcrypt{Cost: bcrypt.MinCost}
	stored, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored)

	assert.True(t, h.Check(stored, "s3cret"))
	assert.False(t, h.Check(stored, "wrong"))
	assert.False(t, h.Check("not-a-hash", "s3cret"))
}
