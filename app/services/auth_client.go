package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	LoginEndpoints = []string{
		"users/authenticate",
		"users/login",
		"user/authenticate",
		"user/login",
		"auth/login",
		"auth/authenticate",
		"login",
		"authenticate",
	}
	RegisterEndpoints = []string{"users/register", "user/register", "auth/register"}
)

var (
	ErrNoAuthEndpoint = errors.New("no auth endpoint answered")
	ErrMissingToken   = errors.New("authentication failed")
)

// AuthClient signs users in against the storefront API and stores the result in
// the AuthSession. Each candidate endpoint is tried in order; only a 404 moves
// on to the next one.
type AuthClient struct {
	baseURL  string
	client   *http.Client
	session  *AuthSession
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewAuthClient(baseURL string, client *http.Client, session *AuthSession, logger *zap.SugaredLogger) *AuthClient {
	return &AuthClient{
		baseURL:  baseURL,
		client:   client,
		session:  session,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *AuthClient) Login(ctx context.Context, payload models.LoginPayload) (*models.User, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("invalid login payload: %w", err)
	}
	return c.authenticate(ctx, LoginEndpoints, payload)
}

func (c *AuthClient) Register(ctx context.Context, payload models.RegisterPayload) (*models.User, error) {
	if payload.Role == "" {
		payload.Role = models.RoleCustomer
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("invalid register payload: %w", err)
	}
	return c.authenticate(ctx, RegisterEndpoints, payload)
}

func (c *AuthClient) authenticate(ctx context.Context, endpoints []string, payload interface{}) (*models.User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode auth payload: %w", err)
	}

	var resp *models.AuthResponse
	for _, endpoint := range endpoints {
		resp, err = c.post(ctx, endpoint, body)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.logger.Debugf("AuthClient.authenticate: %s not found, trying next endpoint", endpoint)
			continue
		}
		break
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: tried %d endpoints", ErrNoAuthEndpoint, len(endpoints))
		}
		return nil, err
	}

	if resp.Token == "" {
		if resp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingToken, resp.Message)
		}
		return nil, ErrMissingToken
	}

	user := models.UserFromResponse(*resp)
	c.session.SetSession(ctx, resp.Token, resp.RefreshToken, user)
	return c.session.CurrentUser(), nil
}

func (c *AuthClient) post(ctx context.Context, endpoint string, body []byte) (*models.AuthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.baseURL, endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request to %s: %w", req.URL, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: errorMessage(raw)}
	}

	var resp models.AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	return &resp, nil
}

// errorMessage prefers the "error" field of a JSON body, then "message", then the raw body.
func errorMessage(raw []byte) string {
	var body models.AuthResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return string(raw)
}
