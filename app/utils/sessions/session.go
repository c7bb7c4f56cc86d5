package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-session"

	cartIDSessionKey = "cartID"
)

type SessionStore interface {
	GetCartID(r *http.Request) string
	GetOrCreateCartID(w http.ResponseWriter, r *http.Request) (string, error)
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

// CookieSessionStore keeps the guest cart id in a signed and encrypted cookie.
type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession always returns a usable session; a cookie that fails to decode
// yields a fresh one, which is how rotated keys drop old guest carts.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil || session == nil {
		return sessions.NewSession(c.store, sessionCookieName)
	}
	return session
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	cartID, _ := c.getSession(r).Values[cartIDSessionKey].(string)
	return cartID
}

func (c *CookieSessionStore) GetOrCreateCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if cartID, ok := session.Values[cartIDSessionKey].(string); ok && cartID != "" {
		return cartID, nil
	}

	cartID := uuid.New().String()
	session.Values[cartIDSessionKey] = cartID
	session.Options = c.store.Options
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return cartID, nil
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	opts := *c.store.Options
	opts.MaxAge = -1
	session.Options = &opts
	return session.Save(r, w)
}
