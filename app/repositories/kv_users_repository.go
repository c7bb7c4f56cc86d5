package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/models"
)

// kvUserRepository lets the API run on the redis or file drivers without a SQL database.
type kvUserRepository struct {
	mu    sync.Mutex
	store KeyValueStore
}

// storedUser exists because models.User hides the password hash from JSON.
type storedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func NewKVUserRepository(store KeyValueStore) UserRepositoryImpl {
	return &kvUserRepository{store: store}
}

func userKey(id string) string         { return "user:" + id }
func userEmailKey(email string) string { return "user_email:" + email }

func (r *kvUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.store.Get(ctx, userEmailKey(normalizeEmail(user.Email)))
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := prepareNewUser(user); err != nil {
		return err
	}
	raw, err := json.Marshal(storedUser{User: *user, PasswordHash: user.Password})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := r.store.Set(ctx, userKey(user.ID), string(raw)); err != nil {
		return err
	}
	return r.store.Set(ctx, userEmailKey(user.Email), user.ID)
}

func (r *kvUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	raw, err := r.store.Get(ctx, userKey(id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	user := stored.User
	user.Password = stored.PasswordHash
	return &user, nil
}

func (r *kvUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.store.Get(ctx, userEmailKey(normalizeEmail(email)))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
