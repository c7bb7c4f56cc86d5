package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	cartEndpointPath = "cart"

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
	maxErrorBodyBytes       = 4 << 10
)

type CartAPIClient interface {
	FetchCart(ctx context.Context) (*models.CartPayload, error)
	PushCart(ctx context.Context, payload models.CartPayload) error
}

// HTTPCartAPIClient talks to {API_BASE_URL}/cart. Calls go through a circuit
// breaker, so once the endpoint keeps failing they fail fast with
// gobreaker.ErrOpenState until the breaker half-opens again.
type HTTPCartAPIClient struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*models.CartPayload]
}

func NewHTTPCartAPIClient(baseURL string, client *http.Client, logger *zap.SugaredLogger) *HTTPCartAPIClient {
	breaker := gobreaker.NewCircuitBreaker[*models.CartPayload](gobreaker.Settings{
		Name:    "cart-api",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("HTTPCartAPIClient: breaker %s moved from %s to %s", name, from, to)
		},
	})

	return &HTTPCartAPIClient{
		endpoint: joinURL(baseURL, cartEndpointPath),
		client:   client,
		breaker:  breaker,
	}
}

func (c *HTTPCartAPIClient) FetchCart(ctx context.Context) (*models.CartPayload, error) {
	return c.breaker.Execute(func() (*models.CartPayload, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		var payload models.CartPayload
		if err := c.do(req, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

// PushCart posts the payload. The reply body is read and discarded.
func (c *HTTPCartAPIClient) PushCart(ctx context.Context, payload models.CartPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cart payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (*models.CartPayload, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return nil, c.do(req, nil)
	})
	return err
}

func (c *HTTPCartAPIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request to %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse cart response: %w", err)
	}
	return nil
}
