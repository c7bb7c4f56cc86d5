package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	router http.Handler
	users  repositories.UserRepositoryImpl
	store  repositories.KeyValueStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := repositories.NewMemoryStore()
	users := repositories.NewKVUserRepository(kv)
	router := NewRouter(Dependencies{
		Store:    kv,
		Users:    users,
		Tokens:   services.NewTokenService([]byte("test-secret"), time.Hour),
		Sessions: sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)),
		Logger:   zap.NewNop().Sugar(),
	})
	return &fixture{router: router, users: users, store: kv}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func cartBody(qty int) models.CartPayload {
	return models.CartPayload{Items: []models.LineItem{{
		ProductID: "p1",
		Quantity:  qty,
		Price:     decimal.NewFromInt(200),
		Name:      "Lamp",
	}}}
}

func TestHealthz(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterPayload{
		Name: "Asha", Email: "Asha@Example.com", Password: "secret1", Role: models.RoleAdmin,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeAuth(t, rec)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.Equal(t, models.RoleCustomer, registered.User.Role, "self-registration never grants admin")

	rec = f.do(t, http.MethodPost, "/api/auth/register", models.RegisterPayload{Name: "Asha", Email: "asha@example.com", Password: "secret1"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", models.LoginPayload{Email: "asha@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", models.LoginPayload{Email: "asha@example.com", Password: "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeAuth(t, rec)
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.MongoID, loggedIn.User.MongoID)
}

func TestRegisterValidation(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodPost, "/api/auth/register", models.RegisterPayload{Name: "A", Email: "bad", Password: "1"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestGuestCartRoundTripUsesCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart", cartBody(2), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var saved models.CartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotNil(t, saved.Summary)
	assert.True(t, decimal.NewFromInt(489).Equal(saved.Summary.Total), "got %s", saved.Summary.Total)

	rec = f.do(t, http.MethodGet, "/api/cart", nil, func(r *http.Request) { r.AddCookie(cookies[0]) })
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.CartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	rec = f.do(t, http.MethodGet, "/api/cart", nil, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Items, "a new guest starts with an empty cart")
}

func newGuestAPIClient(t *testing.T, baseURL string, clientKV repositories.KeyValueStore) services.CartAPIClient {
	t.Helper()
	logger := zap.NewNop().Sugar()
	sessionRepo := repositories.NewSessionRepository(clientKV)
	jar, err := services.NewSessionJar(context.Background(), baseURL, sessionRepo, logger)
	require.NoError(t, err)
	session := services.NewAuthSession(sessionRepo, logger)
	t.Cleanup(session.Close)
	httpClient := services.NewAPIHTTPClient(baseURL, 5*time.Second, session, jar)
	return services.NewHTTPCartAPIClient(baseURL, httpClient, logger)
}

func TestGuestClientKeepsOneRemoteCartAcrossRuns(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()
	baseURL := srv.URL + "/api"
	ctx := context.Background()
	clientKV := repositories.NewMemoryStore()

	api := newGuestAPIClient(t, baseURL, clientKV)
	for qty := 1; qty <= 3; qty++ {
		require.NoError(t, api.PushCart(ctx, cartBody(qty)))
	}
	got, err := api.FetchCart(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)

	// a later run starts from the cookie stored with the session
	nextRun := newGuestAPIClient(t, baseURL, clientKV)
	cart := services.NewCartStore(repositories.NewCartRepository(repositories.NewMemoryStore()), nextRun, zap.NewNop().Sugar())
	defer func() { _ = cart.Close(ctx) }()
	cart.Restore(ctx)

	items := cart.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)

	other := newGuestAPIClient(t, baseURL, repositories.NewMemoryStore())
	got, err = other.FetchCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "another guest gets its own cart")
}

func TestUserCartFollowsToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterPayload{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"}, nil)
	auth := decodeAuth(t, rec)

	rec = f.do(t, http.MethodPost, "/api/cart", cartBody(3), bearer(auth.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "signed-in owners need no guest cookie")

	rec = f.do(t, http.MethodGet, "/api/cart", nil, bearer(auth.Token))
	var got models.CartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)

	rec = f.do(t, http.MethodGet, "/api/cart", nil, bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveCartRejectsInvalidItems(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart", cartBody(0), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCartViewRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.do(t, http.MethodPost, "/api/auth/register", models.RegisterPayload{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"}, nil)
	customer := decodeAuth(t, rec)
	f.do(t, http.MethodPost, "/api/cart", cartBody(1), bearer(customer.Token))

	require.NoError(t, f.users.Create(ctx, &models.User{Name: "Boss", Email: "boss@example.com", Password: "secret1", Role: models.RoleAdmin}))
	rec = f.do(t, http.MethodPost, "/api/auth/login", models.LoginPayload{Email: "boss@example.com", Password: "secret1"}, nil)
	admin := decodeAuth(t, rec)

	path := "/api/admin/carts/" + customer.User.MongoID

	rec = f.do(t, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, path, nil, bearer(customer.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, path, nil, bearer(admin.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.CartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Items, 1)
}
