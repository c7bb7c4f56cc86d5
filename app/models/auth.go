package models

import "strings"

type RegisterPayload struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin customer"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the user shape returned by auth endpoints. Some backends send
// the identifier as "_id", others as "id".
type AuthUser struct {
	ID        string    `json:"id,omitempty"`
	MongoID   string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Addresses []Address `json:"addresses,omitempty"`
}

type AuthResponse struct {
	Token        string    `json:"token,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	User         *AuthUser `json:"user,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role,omitempty"`
	Message      string    `json:"message,omitempty"`
	Error        string    `json:"error,omitempty"`
	Success      bool      `json:"success"`
}

// ToUser normalises the response user: lower-cased email, "_id" preferred over
// "id", and any role other than admin becomes customer.
func (u AuthUser) ToUser() *User {
	id := u.MongoID
	if id == "" {
		id = u.ID
	}
	addresses := u.Addresses
	if addresses == nil {
		addresses = []Address{}
	}
	return &User{
		ID:        id,
		Name:      u.Name,
		Email:     strings.ToLower(strings.TrimSpace(u.Email)),
		Role:      NormalizeRole(u.Role),
		Addresses: addresses,
	}
}

// UserFromResponse builds the session user from an auth response that may
// carry the user inline or only its email and role.
func UserFromResponse(resp AuthResponse) *User {
	if resp.User != nil {
		return resp.User.ToUser()
	}
	return AuthUser{Email: resp.Email, Role: resp.Role}.ToUser()
}

func NewAuthUser(user *User) *AuthUser {
	return &AuthUser{
		MongoID:   user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Addresses: user.Addresses,
	}
}
