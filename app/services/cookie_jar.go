package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/repositories"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// SessionJar is the cookie jar of the storefront API client. Cookies set by the
// API host are written through to the session repository, so a guest keeps the
// same server-side cart across runs.
type SessionJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	base   *url.URL
	repo   repositories.SessionRepository
	logger *zap.SugaredLogger
}

func NewSessionJar(ctx context.Context, baseURL string, repo repositories.SessionRepository, logger *zap.SugaredLogger) (*SessionJar, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	stored, err := repo.LoadCookies(ctx)
	if err != nil {
		logger.Warnf("SessionJar: ignoring stored API cookies: %v", err)
	}
	for _, c := range stored {
		c.Path = "/"
	}
	if len(stored) > 0 {
		jar.SetCookies(base, stored)
	}

	return &SessionJar{jar: jar, base: base, repo: repo, logger: logger}, nil
}

func (j *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)
	if !strings.EqualFold(u.Host, j.base.Host) {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.repo.SaveCookies(context.Background(), j.jar.Cookies(j.base)); err != nil {
		j.logger.Errorf("SessionJar.SetCookies: failed to persist API cookies: %v", err)
	}
}
