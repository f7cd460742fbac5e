package middleware

import (
	"log/slog"
	"net/http"

	"cosmos-server/internal/shared/errors"
	"cosmos-server/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin attempted to access admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.JWT(AdminMiddleware(next))
}
