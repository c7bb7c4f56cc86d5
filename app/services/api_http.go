package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource yields the bearer token for outgoing API calls. An empty token
// means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// APIError is returned when the storefront API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront API error: status %d, body: %s", e.StatusCode, e.Body)
}

type bearerTransport struct {
	base   http.RoundTripper
	scope  *url.URL
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil && t.inScope(req.URL) {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(req)
}

// inScope reports whether u has the base URL's scheme and host and a path at
// or below its path.
func (t *bearerTransport) inScope(u *url.URL) bool {
	if t.scope == nil || !strings.EqualFold(u.Scheme, t.scope.Scheme) || !strings.EqualFold(u.Host, t.scope.Host) {
		return false
	}
	prefix := strings.TrimRight(t.scope.Path, "/")
	return prefix == "" || u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// NewAPIHTTPClient returns an http.Client that attaches the bearer token to every
// request under baseURL. jar may be nil.
func NewAPIHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, jar http.CookieJar) *http.Client {
	scope, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || scope.Host == "" {
		scope = nil
	}
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &bearerTransport{
			base:   http.DefaultTransport,
			scope:  scope,
			tokens: tokens,
		},
	}
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
