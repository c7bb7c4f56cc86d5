package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/models"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type fakeCartAPI struct {
	mu           sync.Mutex
	fetchPayload *models.CartPayload
	fetchErr     error
	fetchCalls   int
	pushes       []models.CartPayload
	pushErr      error

	// when set, PushCart signals started and then waits for gate
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeCartAPI) FetchCart(ctx context.Context) (*models.CartPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.fetchPayload, f.fetchErr
}

func (f *fakeCartAPI) PushCart(ctx context.Context, payload models.CartPayload) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, payload)
	return f.pushErr
}

func (f *fakeCartAPI) Pushes() []models.CartPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartPayload(nil), f.pushes...)
}

var errStoreDown = errors.New("store down")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errStoreDown }
func (failingStore) Set(context.Context, string, string) error   { return errStoreDown }
func (failingStore) Delete(context.Context, string) error        { return errStoreDown }
