package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/stream"
	"go.uber.org/zap"
)

// AuthSession holds the signed-in user and the API tokens. Published users are
// never modified in place; every change publishes a fresh copy.
type AuthSession struct {
	mu           sync.RWMutex
	token        string
	refreshToken string

	repo        repositories.SessionRepository
	userSubject *stream.Subject[*models.User]
	logger      *zap.SugaredLogger
}

func NewAuthSession(repo repositories.SessionRepository, logger *zap.SugaredLogger) *AuthSession {
	return &AuthSession{
		repo:        repo,
		userSubject: stream.NewSubject[*models.User](nil),
		logger:      logger,
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (a *AuthSession) CurrentUser() *models.User {
	return cloneUser(a.userSubject.Value())
}

func (a *AuthSession) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthSession) RefreshToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.refreshToken
}

func (a *AuthSession) IsAuthenticated() bool {
	return a.userSubject.Value() != nil
}

func (a *AuthSession) HasRole(role string) bool {
	user := a.userSubject.Value()
	return user != nil && user.Role == role
}

// SubscribeUser streams the current user (nil when signed out) and every later change.
func (a *AuthSession) SubscribeUser() (<-chan *models.User, func()) {
	return a.userSubject.Subscribe()
}

// SetSession stores a successful sign-in. An empty refresh token removes any stored one.
func (a *AuthSession) SetSession(ctx context.Context, token, refreshToken string, user *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = token
	a.refreshToken = refreshToken
	a.saveToken(ctx, repositories.TokenKey, token)
	a.saveToken(ctx, repositories.RefreshTokenKey, refreshToken)
	a.setUser(ctx, cloneUser(user))
}

func (a *AuthSession) Logout(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = ""
	a.refreshToken = ""
	a.saveToken(ctx, repositories.TokenKey, "")
	a.saveToken(ctx, repositories.RefreshTokenKey, "")
	a.setUser(ctx, nil)
}

// UpdateAddress puts address first in the user's address book, replacing any
// entry with the same label. It does nothing when nobody is signed in.
func (a *AuthSession) UpdateAddress(ctx context.Context, address models.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.userSubject.Value()
	if current == nil {
		return
	}

	updated := cloneUser(current)
	addresses := make([]models.Address, 0, len(current.Addresses)+1)
	addresses = append(addresses, address)
	for _, existing := range current.Addresses {
		if existing.Label != address.Label {
			addresses = append(addresses, existing)
		}
	}
	updated.Addresses = addresses
	a.setUser(ctx, updated)
}

// Restore loads the stored session. A stored user without an email is ignored.
func (a *AuthSession) Restore(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.repo.LoadUser(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrMalformedState) {
			a.logger.Warnf("AuthSession.Restore: stored user is unreadable: %v", err)
		} else {
			a.logger.Errorf("AuthSession.Restore: failed to load stored user: %v", err)
		}
		user = nil
	}

	if token, err := a.repo.LoadToken(ctx, repositories.TokenKey); err != nil {
		a.logger.Errorf("AuthSession.Restore: failed to load token: %v", err)
	} else {
		a.token = token
	}
	if refresh, err := a.repo.LoadToken(ctx, repositories.RefreshTokenKey); err != nil {
		a.logger.Errorf("AuthSession.Restore: failed to load refresh token: %v", err)
	} else {
		a.refreshToken = refresh
	}

	if user = normalizeStoredUser(user); user != nil {
		a.userSubject.Next(user)
	}
}

func (a *AuthSession) Close() {
	a.userSubject.Close()
}

// setUser must be called with a.mu held.
func (a *AuthSession) setUser(ctx context.Context, user *models.User) {
	a.userSubject.Next(user)
	if err := a.repo.SaveUser(ctx, user); err != nil {
		a.logger.Errorf("AuthSession.setUser: failed to persist user: %v", err)
	}
}

func (a *AuthSession) saveToken(ctx context.Context, key, token string) {
	if err := a.repo.SaveToken(ctx, key, token); err != nil {
		a.logger.Errorf("AuthSession.saveToken: failed to persist %s: %v", key, err)
	}
}

func normalizeStoredUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return nil
	}
	normalized := cloneUser(user)
	normalized.Email = email
	normalized.Role = models.NormalizeRole(user.Role)
	if normalized.Addresses == nil {
		normalized.Addresses = []models.Address{}
	}
	return normalized
}

func cloneUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.Password = ""
	if user.Addresses != nil {
		clone.Addresses = append([]models.Address(nil), user.Addresses...)
	}
	return &clone
}
