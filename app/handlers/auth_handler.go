package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render    *render.Render
	userRepo  repositories.UserRepositoryImpl
	tokens    *services.TokenService
	validator *validator.Validate
	logger    *zap.SugaredLogger
}

func NewAuthHandler(r *render.Render, userRepo repositories.UserRepositoryImpl, tokens *services.TokenService, validator *validator.Validate, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		render:    r,
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// Register creates a customer account. A requested admin role is ignored; admins
// are created from the command line.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, models.AuthResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		h.renderValidation(w, err)
		return
	}

	user := &models.User{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     models.RoleCustomer,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			_ = h.render.JSON(w, http.StatusConflict, models.AuthResponse{Error: "email already registered"})
			return
		}
		h.logger.Errorf("AuthHandler.Register: failed to create user %s: %v", payload.Email, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, models.AuthResponse{Error: "failed to create user"})
		return
	}

	h.renderToken(w, http.StatusCreated, user, "Registration successful")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, models.AuthResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		h.renderValidation(w, err)
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), payload.Email)
	if err != nil {
		h.logger.Errorf("AuthHandler.Login: failed to look up %s: %v", payload.Email, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, models.AuthResponse{Error: "failed to sign in"})
		return
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(payload.Password)) {
		_ = h.render.JSON(w, http.StatusUnauthorized, models.AuthResponse{Error: "Invalid email or password"})
		return
	}

	h.renderToken(w, http.StatusOK, user, "Login successful")
}

func (h *AuthHandler) renderToken(w http.ResponseWriter, status int, user *models.User, message string) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Errorf("AuthHandler.renderToken: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, models.AuthResponse{Error: "failed to generate token"})
		return
	}

	_ = h.render.JSON(w, status, models.AuthResponse{
		Token:   token,
		User:    models.NewAuthUser(user),
		Message: message,
		Success: true,
	})
}

func (h *AuthHandler) renderValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": helpers.FormatValidationErrors(verrs),
		})
		return
	}
	_ = h.render.JSON(w, http.StatusBadRequest, models.AuthResponse{Error: err.Error()})
}
