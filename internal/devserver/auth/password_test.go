package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndCompare(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("student123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "student123", hash)

	assert.NoError(t, h.Compare(hash, "student123"))
	assert.Error(t, h.Compare(hash, "wrongpassword"))
}

func TestBcryptCostOutOfRangeFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordHasherWithCost(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordHasherWithCost(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptPasswordHasherWithCost(bcrypt.MinCost).cost)
}
