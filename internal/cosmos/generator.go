package cosmos

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"cosmos-server/internal/random"
	"cosmos-server/internal/sampling"
	"cosmos-server/internal/shared/errors"

	"golang.org/x/sync/errgroup"
)

var (
	starMassDomain     = sampling.Domain{Min: 0, Max: 130}
	starMassEnvelope   = sampling.Domain{Min: 0, Max: 1}
	planetMassDomain   = sampling.Domain{Min: 0.02, Max: 300}
	planetMassEnvelope = sampling.Domain{Min: 0, Max: 9.952}
	moonMassDomain     = sampling.Domain{Min: 0, Max: 1}
	moonMassEnvelope   = sampling.Domain{Min: 0, Max: 1}
)

type Options struct {
	// MaxBatches caps every rejection sampling call. Zero means unbounded.
	MaxBatches int
	// Workers bounds concurrent star subtrees. Zero uses GOMAXPROCS.
	Workers int
}

type Generator struct {
	table  *Table
	names  []string
	opts   Options
	logger *slog.Logger
}

func NewGenerator(table *Table, names []string, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		table:  table,
		names:  names,
		opts:   opts,
		logger: logger,
	}
}

// Generate builds a cosmos tree with no star names from the catalogue.
func Generate(ctx context.Context, settings GenerationSettings, table *Table, opts Options) ([]StarData, error) {
	return NewGenerator(table, nil, opts, nil).Generate(ctx, settings)
}

// ValidateSettings checks the star count range.
func ValidateSettings(settings GenerationSettings) error {
	if settings.StarCount.Min < 1 {
		return errors.Validationf("star count minimum must be at least 1, got %d", settings.StarCount.Min)
	}
	if settings.StarCount.Max <= settings.StarCount.Min {
		return errors.Validationf("star count maximum (%d) must be greater than minimum (%d)",
			settings.StarCount.Max, settings.StarCount.Min)
	}
	return nil
}

// Generate runs the star, planet and moon stages. The output depends only on the
// settings, the table and the name list.
//
// The star stage draws from a source seeded by settings.Seed. Every star's planets
// and moons draw from a source derived from the seed and the star index, so the
// subtrees can run concurrently without changing the result.
func (g *Generator) Generate(ctx context.Context, settings GenerationSettings) ([]StarData, error) {
	logger := g.logger.With("component", "cosmos_generator", "operation", "generate", "seed", settings.Seed)

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Debug("Generating cosmos",
		"star_count_min", settings.StarCount.Min,
		"star_count_max", settings.StarCount.Max)

	stars, err := g.generateStars(random.New(settings.Seed), settings)
	if err != nil {
		logger.Error("Failed to generate stars", "error", err)
		return nil, err
	}

	workers := g.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := range stars {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			planets, err := g.generatePlanets(random.Derive(settings.Seed, "star", i), i, stars[i].Properties.Class)
			if err != nil {
				return fmt.Errorf("star %d: %w", i, err)
			}
			stars[i].Children = planets
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		logger.Error("Failed to generate planetary systems", "error", err)
		return nil, err
	}

	stats := Statistics(stars)
	logger.Info("Cosmos generated",
		"stars", stats.Stars,
		"planets", stats.Planets,
		"moons", stats.Moons,
		"duration", time.Since(start))

	return stars, nil
}

func (g *Generator) generateStars(rng random.Source, settings GenerationSettings) ([]StarData, error) {
	n := rng.IntRange(settings.StarCount.Min, settings.StarCount.Max)

	masses, err := g.sample(rng, StarMassPDF, starMassDomain, starMassEnvelope, n)
	if err != nil {
		return nil, fmt.Errorf("star masses: %w", err)
	}

	pool := newNamePool(g.names)
	stars := make([]StarData, 0, n)

	for _, mass := range masses {
		props := g.table.Interpolate(mass, rng.Float64Range(0, 1))

		stars = append(stars, StarData{
			Name:        pool.draw(rng, props.Class),
			SampledMass: mass,
			Properties:  props,
			Children:    []PlanetData{},
		})
	}

	return stars, nil
}

func (g *Generator) generatePlanets(rng random.Source, starIndex int, class StarClass) ([]PlanetData, error) {
	n := rng.IntRangeInclusive(0, MaxNumPlanets(class.Index))

	masses, err := g.sample(rng, PlanetMassPDF, planetMassDomain, planetMassEnvelope, n)
	if err != nil {
		return nil, fmt.Errorf("planet masses: %w", err)
	}

	planets := make([]PlanetData, 0, n)
	for _, mass := range masses {
		density := planetDensityDistribution(mass).Sample(rng)

		planets = append(planets, PlanetData{
			ParentIndex: starIndex,
			Type:        ClassifyPlanet(mass, density),
			Body: CelestialBody{
				Mass:    mass,
				Radius:  RadiusFromMassDensity(mass, density),
				Density: density,
			},
			Color:    randomColor(rng),
			Children: []MoonData{},
		})
	}

	for j := range planets {
		moons, err := g.generateMoons(rng, j, planets[j].Body.Mass)
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", j, err)
		}
		planets[j].Children = moons
	}

	return planets, nil
}

func (g *Generator) generateMoons(rng random.Source, planetIndex int, planetMass float64) ([]MoonData, error) {
	n := rng.IntRangeInclusive(0, MaxNumMoons(planetMass))

	masses, err := g.sample(rng, MoonMassPDF, moonMassDomain, moonMassEnvelope, n)
	if err != nil {
		return nil, fmt.Errorf("moon masses: %w", err)
	}

	densities := make([]float64, n)
	for i := range densities {
		densities[i] = MoonDensity.Sample(rng)
	}

	moons := make([]MoonData, 0, n)
	for i, mass := range masses {
		moons = append(moons, MoonData{
			ParentIndex: planetIndex,
			Body: CelestialBody{
				Mass:    mass,
				Radius:  RadiusFromMassDensity(mass, densities[i]),
				Density: densities[i],
			},
			Color: randomColor(rng),
		})
	}

	return moons, nil
}

func (g *Generator) sample(rng random.Source, pdf sampling.PDF, x, y sampling.Domain, count int) ([]float64, error) {
	return sampling.Sample(rng, pdf, x, y, count, sampling.Options{
		BatchSize:  sampling.DefaultBatchSize(count),
		MaxBatches: g.opts.MaxBatches,
	})
}

func randomColor(rng random.Source) RGBA {
	return RGBA{
		R: rng.Float64Range(0, 1),
		G: rng.Float64Range(0, 1),
		B: rng.Float64Range(0, 1),
		A: rng.Float64Range(0, 1),
	}
}
