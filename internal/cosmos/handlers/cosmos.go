package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"cosmos-server/internal/cosmos"
	"cosmos-server/internal/shared/errors"
	"cosmos-server/internal/shared/response"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20 // 1 MB

// CosmosService is the part of cosmos.Service the HTTP layer needs.
type CosmosService interface {
	Create(ctx context.Context, req cosmos.CreateRequest) (*cosmos.Cosmos, error)
	Generate(ctx context.Context, id uuid.UUID) (*cosmos.Cosmos, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*cosmos.Cosmos, error)
	List(ctx context.Context) ([]cosmos.Cosmos, error)
	GetBodies(ctx context.Context, id uuid.UUID) ([]cosmos.StarData, error)
	GetStats(ctx context.Context, id uuid.UUID) (*cosmos.Stats, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Preview(ctx context.Context, settings cosmos.GenerationSettings) (*cosmos.Preview, error)
}

type CosmosHandler struct {
	service          CosmosService
	defaultStarCount cosmos.Range
}

func NewCosmosHandler(service CosmosService, defaultStarCount cosmos.Range) *CosmosHandler {
	return &CosmosHandler{service: service, defaultStarCount: defaultStarCount}
}

type GenerateResponse struct {
	Cosmos    *cosmos.Cosmos `json:"cosmos"`
	Generated bool           `json:"generated"`
}

// PreviewRequest mirrors CreateRequest without a name. Missing counts use the
// server defaults.
type PreviewRequest struct {
	Seed         uint64 `json:"seed"`
	StarCountMin int    `json:"star_count_min"`
	StarCountMax int    `json:"star_count_max"`
}

func parseID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, errors.Validation("cosmos ID is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.WrapValidation("invalid cosmos ID format", err)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}

func (h *CosmosHandler) CreateCosmos(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_cosmos")

	var req cosmos.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *CosmosHandler) GenerateCosmos(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_cosmos")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	c, generated, err := h.service.Generate(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, GenerateResponse{Cosmos: c, Generated: generated})
}

func (h *CosmosHandler) GetCosmoses(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_cosmoses")

	cosmoses, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if cosmoses == nil {
		cosmoses = []cosmos.Cosmos{}
	}

	response.Success(w, http.StatusOK, cosmoses)
}

func (h *CosmosHandler) GetCosmos(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_cosmos")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, c)
}

func (h *CosmosHandler) GetBodies(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_cosmos_bodies")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stars, err := h.service.GetBodies(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, stars)
}

func (h *CosmosHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_cosmos_stats")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stats, err := h.service.GetStats(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, stats)
}

func (h *CosmosHandler) DeleteCosmos(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_cosmos")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusNoContent, nil)
}

func (h *CosmosHandler) PreviewCosmos(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "preview_cosmos")

	var req PreviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	settings := cosmos.GenerationSettings{
		Seed:      req.Seed,
		StarCount: cosmos.Range{Min: req.StarCountMin, Max: req.StarCountMax},
	}
	if req.StarCountMin == 0 && req.StarCountMax == 0 {
		settings.StarCount = h.defaultStarCount
	}

	preview, err := h.service.Preview(r.Context(), settings)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, preview)
}
