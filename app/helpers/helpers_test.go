package helpers

import (
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[0-9A-Z]{8}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := GenerateOrderID()
		assert.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=8"`
	}

	err := validator.New().Struct(payload{Email: "nope", Password: "short"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	messages := FormatValidationErrors(verrs)
	assert.Equal(t, "Email must be a valid email address.", messages["email"])
	assert.Equal(t, "Password must be at least 8 characters.", messages["password"])
}

func TestPasswordCompare(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, PasswordCompare(string(hash), []byte("hunter22")))
	assert.False(t, PasswordCompare(string(hash), []byte("hunter23")))
}
