package cosmos

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cosmos-server/internal/shared/errors"

	"github.com/google/uuid"
)

// InitializeFunc runs while the cosmos row is locked. It returns the generated
// bodies and true, or false when the cosmos was already initialized.
type InitializeFunc func(ctx context.Context, c *Cosmos) ([]StarData, bool, error)

// Store persists cosmos records and their generated bodies.
type Store interface {
	CreateCosmos(ctx context.Context, req CreateRequest) (*Cosmos, error)
	GetCosmos(ctx context.Context, id uuid.UUID) (*Cosmos, error)
	ListCosmoses(ctx context.Context) ([]Cosmos, error)
	DeleteCosmos(ctx context.Context, id uuid.UUID) error
	InitializeCosmos(ctx context.Context, id uuid.UUID, initialize InitializeFunc) (*Cosmos, []StarData, bool, error)
	GetBodies(ctx context.Context, id uuid.UUID) ([]StarData, error)
}

type Limits struct {
	DefaultStarCount    Range
	MaxStarCount        int
	MaxPreviewStarCount int
}

const maxNameLength = 255

type Service struct {
	store     Store
	cache     Cache
	generator *Generator
	limits    Limits
	logger    *slog.Logger
}

func NewService(store Store, cache Cache, generator *Generator, limits Limits, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		generator: generator,
		limits:    limits,
		logger:    logger,
	}
}

// Create stores a new cosmos record and generates its bodies. If generation
// fails the record is kept uninitialized and can be generated again later.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Cosmos, error) {
	logger := s.logger.With("component", "cosmos_service", "operation", "create_cosmos", "name", req.Name)
	logger.Debug("Creating cosmos", "seed", req.Seed)

	req.Name = strings.TrimSpace(req.Name)
	if req.StarCountMin == 0 && req.StarCountMax == 0 {
		req.StarCountMin = s.limits.DefaultStarCount.Min
		req.StarCountMax = s.limits.DefaultStarCount.Max
	}

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCosmos(ctx, req)
	if err != nil {
		return nil, err
	}

	generated, _, err := s.Generate(ctx, c.ID)
	if err != nil {
		logger.Error("Cosmos created but generation failed", "cosmos_id", c.ID, "error", err)
		return nil, err
	}

	logger.Info("Cosmos created", "cosmos_id", generated.ID)
	return generated, nil
}

func (s *Service) validateCreate(req CreateRequest) error {
	if req.Name == "" {
		return errors.Validation("name is required")
	}
	if len(req.Name) > maxNameLength {
		return errors.Validationf("name must be at most %d characters", maxNameLength)
	}
	return s.validateSettings(GenerationSettings{
		Seed:      req.Seed,
		StarCount: Range{Min: req.StarCountMin, Max: req.StarCountMax},
	}, s.limits.MaxStarCount)
}

func (s *Service) validateSettings(settings GenerationSettings, maxStars int) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	if maxStars > 0 && settings.StarCount.Max > maxStars {
		return errors.Validationf("star count maximum must be at most %d, got %d", maxStars, settings.StarCount.Max)
	}
	return nil
}

// Generate builds the bodies of an uninitialized cosmos. It returns false
// without generating when the cosmos was already initialized.
func (s *Service) Generate(ctx context.Context, id uuid.UUID) (*Cosmos, bool, error) {
	logger := s.logger.With("component", "cosmos_service", "operation", "generate_cosmos", "cosmos_id", id)
	logger.Debug("Generating cosmos")

	c, stars, created, err := s.store.InitializeCosmos(ctx, id, func(ctx context.Context, c *Cosmos) ([]StarData, bool, error) {
		return NewSession(c.Initialized).Initialize(ctx, s.generator, c.Settings())
	})
	if err != nil {
		return nil, false, err
	}

	if !created {
		logger.Info("Cosmos already initialized, nothing to generate")
		return c, false, nil
	}

	if err := s.cache.SetBodies(ctx, id, stars); err != nil {
		logger.Warn("Failed to cache generated bodies", "error", err)
	}

	logger.Info("Cosmos generated",
		"stars", c.StarCount,
		"planets", c.PlanetCount,
		"moons", c.MoonCount)
	return c, true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Cosmos, error) {
	return s.store.GetCosmos(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Cosmos, error) {
	return s.store.ListCosmoses(ctx)
}

// GetBodies returns the generated tree, reading through the cache.
func (s *Service) GetBodies(ctx context.Context, id uuid.UUID) ([]StarData, error) {
	logger := s.logger.With("component", "cosmos_service", "operation", "get_bodies", "cosmos_id", id)

	stars, ok, err := s.cache.GetBodies(ctx, id)
	if err != nil {
		logger.Warn("Cache read failed, falling back to store", "error", err)
	}
	if ok {
		return stars, nil
	}

	c, err := s.store.GetCosmos(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Initialized {
		return nil, errors.Conflictf("cosmos %s has not been generated yet", id)
	}

	stars, err = s.store.GetBodies(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBodies(ctx, id, stars); err != nil {
		logger.Warn("Failed to cache bodies", "error", err)
	}
	return stars, nil
}

type Stats struct {
	ID          uuid.UUID `json:"id"`
	Initialized bool      `json:"initialized"`
	BodyStatistics
}

func (s *Service) GetStats(ctx context.Context, id uuid.UUID) (*Stats, error) {
	c, err := s.store.GetCosmos(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Stats{
		ID:          c.ID,
		Initialized: c.Initialized,
		BodyStatistics: BodyStatistics{
			Stars:   c.StarCount,
			Planets: c.PlanetCount,
			Moons:   c.MoonCount,
		},
	}, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	logger := s.logger.With("component", "cosmos_service", "operation", "delete_cosmos", "cosmos_id", id)
	logger.Info("Deleting cosmos and its bodies")

	if err := s.store.DeleteCosmos(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		logger.Warn("Failed to evict cached bodies", "error", err)
	}
	return nil
}

type Preview struct {
	Settings   GenerationSettings `json:"settings"`
	Statistics BodyStatistics     `json:"statistics"`
	Duration   time.Duration      `json:"duration_ns"`
	Stars      []StarData         `json:"stars"`
}

// Preview generates a cosmos without storing it.
func (s *Service) Preview(ctx context.Context, settings GenerationSettings) (*Preview, error) {
	if err := s.validateSettings(settings, s.limits.MaxPreviewStarCount); err != nil {
		return nil, err
	}

	start := time.Now()
	stars, err := s.generator.Generate(ctx, settings)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Settings:   settings,
		Statistics: Statistics(stars),
		Duration:   time.Since(start),
		Stars:      stars,
	}, nil
}
