package server

import (
	"log/slog"
	"net/http"

	cosmosHandlers "cosmos-server/internal/cosmos/handlers"
	"cosmos-server/internal/middleware"
	serverHandlers "cosmos-server/internal/server/handlers"
)

type Routes struct {
	health      *serverHandlers.HealthHandler
	cosmos      *cosmosHandlers.CosmosHandler
	auth        *middleware.Auth
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func NewRoutes(
	health *serverHandlers.HealthHandler,
	cosmos *cosmosHandlers.CosmosHandler,
	auth *middleware.Auth,
	rateLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		health:      health,
		cosmos:      cosmos,
		auth:        auth,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	admin := func(h http.HandlerFunc) http.Handler {
		return r.auth.RequireAdmin(h)
	}

	// Public endpoints
	mux.Handle("GET /api/server/health", r.health)
	mux.HandleFunc("GET /api/cosmoses", r.cosmos.GetCosmoses)
	mux.HandleFunc("GET /api/cosmoses/{id}", r.cosmos.GetCosmos)
	mux.HandleFunc("GET /api/cosmoses/{id}/bodies", r.cosmos.GetBodies)
	mux.HandleFunc("GET /api/cosmoses/{id}/stats", r.cosmos.GetStats)
	mux.Handle("POST /api/cosmoses/preview", r.rateLimiter.Middleware(http.HandlerFunc(r.cosmos.PreviewCosmos)))

	// Admin-only endpoints
	mux.Handle("POST /api/cosmoses", admin(r.cosmos.CreateCosmos))
	mux.Handle("POST /api/cosmoses/{id}/generate", admin(r.cosmos.GenerateCosmos))
	mux.Handle("DELETE /api/cosmoses/{id}", admin(r.cosmos.DeleteCosmos))

	logger.Info("Routes configured",
		"public_endpoints", []string{"/api/server/health", "/api/cosmoses", "/api/cosmoses/{id}", "/api/cosmoses/{id}/bodies", "/api/cosmoses/{id}/stats"},
		"rate_limited_endpoints", []string{"/api/cosmoses/preview"},
		"admin_endpoints", []string{"POST /api/cosmoses", "POST /api/cosmoses/{id}/generate", "DELETE /api/cosmoses/{id}"},
	)

	return mux
}
