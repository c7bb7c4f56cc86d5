package helpers

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "userID"
	ContextKeyUserRole  contextKey = "userRole"
	ContextKeyCartOwner contextKey = "cartOwner"
)

const (
	OrderIDPrefix = "ORD-"
	orderIDLength = 8
	base36Digits  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateOrderID returns ORD- followed by eight upper-case base36 characters.
// The id is not meant to be unguessable, so math/rand is enough.
func GenerateOrderID() string {
	var b strings.Builder
	b.Grow(len(OrderIDPrefix) + orderIDLength)
	b.WriteString(OrderIDPrefix)
	for i := 0; i < orderIDLength; i++ {
		b.WriteByte(base36Digits[rand.Intn(len(base36Digits))])
	}
	return b.String()
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}
