package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"cosmos-server/internal/auth"
	"cosmos-server/internal/shared/errors"
	"cosmos-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

const AuthCookieName = "auth_token"

// Auth authenticates requests with a bearer token or the auth_token cookie.
type Auth struct {
	tokens *auth.TokenManager
}

func NewAuth(tokens *auth.TokenManager) *Auth {
	return &Auth{tokens: tokens}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Auth) JWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := tokenFromRequest(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			logger.Debug("Token rejected", "error", err)
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful", "subject", claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
