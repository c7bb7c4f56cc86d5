package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// BearerAuth puts the user id and role of a valid bearer token in the request
// context. Requests without an Authorization header pass through anonymously;
// a header with a bad token is rejected.
func BearerAuth(tokens *services.TokenService, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "malformed authorization header"})
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, helpers.ContextKeyUserRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartOwner resolves whose cart a request addresses: the authenticated user, or
// else a guest cart id kept in the session cookie.
func CartOwner(store sessions.SessionStore, rnd *render.Render, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, _ := r.Context().Value(helpers.ContextKeyUserID).(string)
			if owner == "" {
				cartID, err := store.GetOrCreateCartID(w, r)
				if err != nil {
					logger.Errorf("CartOwner: failed to resolve guest cart id: %v", err)
					_ = rnd.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve cart"})
					return
				}
				owner = "guest:" + cartID
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyCartOwner, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
