package middlewares

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// RequireRole lets the request through only when the authenticated user still
// holds role in the user repository. The token role alone is not trusted.
func RequireRole(userRepo repositories.UserRepositoryImpl, role string, rnd *render.Render, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
			if !ok || userID == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil || user == nil {
				logger.Warnf("RequireRole: user %s not found: %v", userID, err)
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "user not found or session invalid"})
				return
			}

			if user.Role != role {
				logger.Warnf("RequireRole: user %s (%s) lacks role %s", user.ID, user.Email, role)
				_ = rnd.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
