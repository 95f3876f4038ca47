package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	full := &User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	assert.Equal(t, "Ada Lovelace", full.DisplayName())

	firstOnly := &User{FirstName: "Ada", Email: "ada@example.com"}
	assert.Equal(t, "Ada", firstOnly.DisplayName())

	nameless := &User{Email: "ada@example.com"}
	assert.Equal(t, "ada@example.com", nameless.DisplayName())
}

func TestUserValidate(t *testing.T) {
	ok := &User{Email: "ada@example.com"}
	assert.NoError(t, ok.Validate())

	noEmail := &User{FirstName: "Ada"}
	assert.ErrorIs(t, noEmail.Validate(), ErrInvalidValue)
}
