package fakers

import (
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-faker/faker/v4"
)

// UserFaker returns an unsaved customer with a plain-text password.
func UserFaker(password string) *models.User {
	return &models.User{
		Name:     faker.Name(),
		Email:    strings.ToLower(faker.Email()),
		Password: password,
		Role:     models.RoleCustomer,
	}
}
