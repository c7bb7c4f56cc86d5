package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/models"
)

const (
	CurrentUserKey  = "storefront_current_user"
	TokenKey        = "storefront_token"
	RefreshTokenKey = "storefront_refresh_token"
	APICookiesKey   = "storefront_api_cookies"
)

// SessionRepository persists the signed-in user, its tokens and the cookies
// the storefront API handed out.
type SessionRepository interface {
	LoadUser(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	LoadToken(ctx context.Context, key string) (string, error)
	SaveToken(ctx context.Context, key, token string) error
	LoadCookies(ctx context.Context) ([]*http.Cookie, error)
	SaveCookies(ctx context.Context, cookies []*http.Cookie) error
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type kvSessionRepository struct {
	store KeyValueStore
}

func NewSessionRepository(store KeyValueStore) SessionRepository {
	return &kvSessionRepository{store: store}
}

func (r *kvSessionRepository) LoadUser(ctx context.Context) (*models.User, error) {
	raw, err := r.store.Get(ctx, CurrentUserKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current user: %w", err)
	}

	var user *models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return user, nil
}

// SaveUser removes the stored user when user is nil.
func (r *kvSessionRepository) SaveUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return r.store.Delete(ctx, CurrentUserKey)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode current user: %w", err)
	}
	return r.store.Set(ctx, CurrentUserKey, string(raw))
}

func (r *kvSessionRepository) LoadToken(ctx context.Context, key string) (string, error) {
	token, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return token, err
}

// SaveToken removes the stored token when token is empty.
func (r *kvSessionRepository) SaveToken(ctx context.Context, key, token string) error {
	if token == "" {
		return r.store.Delete(ctx, key)
	}
	return r.store.Set(ctx, key, token)
}

// LoadCookies returns the stored cookies with only their name and value set.
func (r *kvSessionRepository) LoadCookies(ctx context.Context) ([]*http.Cookie, error) {
	raw, err := r.store.Get(ctx, APICookiesKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read API cookies: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

// SaveCookies removes the stored cookies when cookies is empty.
func (r *kvSessionRepository) SaveCookies(ctx context.Context, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return r.store.Delete(ctx, APICookiesKey)
	}
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode API cookies: %w", err)
	}
	return r.store.Set(ctx, APICookiesKey, string(raw))
}
