package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cosmos-server/internal/shared/response"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatusReporter reports a free-form status string.
type StatusReporter interface {
	Status(ctx context.Context) string
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	// CatalogRows is the number of rows in the loaded star property table.
	CatalogRows int `json:"catalog_rows"`
}

type HealthHandler struct {
	db          Pinger
	redis       StatusReporter
	catalogRows int
}

func NewHealthHandler(db Pinger, redis StatusReporter, catalogRows int) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, catalogRows: catalogRows}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		dbStatus = "disconnected"
		status = "degraded"
	}

	redisStatus := h.redis.Status(ctx)
	if redisStatus == "disconnected" {
		logger.Warn("Redis ping failed")
		status = "degraded"
	}

	response.Success(w, http.StatusOK, HealthResponse{
		Status:      status,
		Timestamp:   time.Now().Format(time.RFC3339),
		Database:    dbStatus,
		Redis:       redisStatus,
		CatalogRows: h.catalogRows,
	})
}
