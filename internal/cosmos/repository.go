package cosmos

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"cosmos-server/internal/shared/database"
	"cosmos-server/internal/shared/errors"

	"github.com/google/uuid"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing cosmos repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const cosmosColumns = `id, name, seed, star_count_min, star_count_max, initialized,
	star_count, planet_count, moon_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCosmos(row rowScanner) (*Cosmos, error) {
	var c Cosmos
	var seed int64
	err := row.Scan(
		&c.ID,
		&c.Name,
		&seed,
		&c.StarCountMin,
		&c.StarCountMax,
		&c.Initialized,
		&c.StarCount,
		&c.PlanetCount,
		&c.MoonCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Postgres has no unsigned bigint; the seed is stored bit for bit.
	c.Seed = uint64(seed)
	return &c, nil
}

func (r *Repository) CreateCosmos(ctx context.Context, req CreateRequest) (*Cosmos, error) {
	logger := r.logger.With(
		"component", "cosmos_repository",
		"operation", "create_cosmos",
		"name", req.Name,
	)
	logger.Debug("Creating cosmos")

	query := `
		INSERT INTO cosmoses (id, name, seed, star_count_min, star_count_max)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + cosmosColumns

	c, err := scanCosmos(r.db.QueryRowContext(ctx, query,
		uuid.New(), req.Name, int64(req.Seed), req.StarCountMin, req.StarCountMax))
	if err != nil {
		logger.Error("Failed to create cosmos", "error", err)
		return nil, errors.WrapInternal("failed to create cosmos", err)
	}

	logger.Info("Cosmos created", "cosmos_id", c.ID)
	return c, nil
}

func (r *Repository) GetCosmos(ctx context.Context, id uuid.UUID) (*Cosmos, error) {
	return r.getCosmos(ctx, id, nil, false)
}

func (r *Repository) getCosmos(ctx context.Context, id uuid.UUID, tx *database.Tx, forUpdate bool) (*Cosmos, error) {
	query := `SELECT ` + cosmosColumns + ` FROM cosmoses WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	c, err := scanCosmos(r.getExecutor(tx).QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("cosmos not found with id: %s", id)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to get cosmos", err)
	}
	return c, nil
}

func (r *Repository) ListCosmoses(ctx context.Context) ([]Cosmos, error) {
	logger := r.logger.With("component", "cosmos_repository", "operation", "list_cosmoses")

	rows, err := r.db.QueryContext(ctx, `SELECT `+cosmosColumns+` FROM cosmoses ORDER BY created_at DESC`)
	if err != nil {
		logger.Error("Failed to list cosmoses", "error", err)
		return nil, errors.WrapInternal("failed to list cosmoses", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	cosmoses := []Cosmos{}
	for rows.Next() {
		c, err := scanCosmos(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan cosmos", err)
		}
		cosmoses = append(cosmoses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating cosmoses", err)
	}

	return cosmoses, nil
}

func (r *Repository) DeleteCosmos(ctx context.Context, id uuid.UUID) error {
	logger := r.logger.With("component", "cosmos_repository", "operation", "delete_cosmos", "cosmos_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM cosmoses WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete cosmos", "error", err)
		return errors.WrapInternal("failed to delete cosmos", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFoundf("cosmos not found with id: %s", id)
	}

	logger.Info("Cosmos deleted")
	return nil
}

// InitializeCosmos locks the cosmos row and hands it to initialize. When
// initialize reports that it generated bodies they are stored and the row is
// marked initialized in the same transaction.
func (r *Repository) InitializeCosmos(ctx context.Context, id uuid.UUID, initialize InitializeFunc) (*Cosmos, []StarData, bool, error) {
	logger := r.logger.With("component", "cosmos_repository", "operation", "initialize_cosmos", "cosmos_id", id)

	var (
		result  *Cosmos
		stars   []StarData
		created bool
	)

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		c, err := r.getCosmos(ctx, id, tx, true)
		if err != nil {
			return err
		}

		stars, created, err = initialize(ctx, c)
		if err != nil {
			return err
		}
		if !created {
			result = c
			return nil
		}

		if err := r.insertBodies(ctx, tx, id, stars); err != nil {
			return err
		}

		stats := Statistics(stars)
		result, err = scanCosmos(tx.QueryRowContext(ctx, `
			UPDATE cosmoses
			SET initialized = TRUE, star_count = $2, planet_count = $3, moon_count = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING `+cosmosColumns,
			id, stats.Stars, stats.Planets, stats.Moons))
		if err != nil {
			return errors.WrapInternal("failed to mark cosmos initialized", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to initialize cosmos", "error", err)
		return nil, nil, false, err
	}

	return result, stars, created, nil
}

type starRow struct {
	StarIndex            int     `json:"star_index"`
	Name                 string  `json:"name"`
	SampledMass          float64 `json:"sampled_mass"`
	ClassType            string  `json:"class_type"`
	ClassSubType         uint32  `json:"class_sub_type"`
	ClassIndex           uint32  `json:"class_index"`
	Mass                 float64 `json:"mass"`
	Radius               float64 `json:"radius"`
	Luminosity           float64 `json:"luminosity"`
	EffectiveTemperature float64 `json:"effective_temperature"`
	Color                RGBA    `json:"color"`
}

type planetRow struct {
	StarIndex   int           `json:"star_index"`
	PlanetIndex int           `json:"planet_index"`
	Type        BodyType      `json:"body_type"`
	Body        CelestialBody `json:"body"`
	Color       RGBA          `json:"color"`
}

type moonRow struct {
	StarIndex   int           `json:"star_index"`
	PlanetIndex int           `json:"planet_index"`
	MoonIndex   int           `json:"moon_index"`
	Body        CelestialBody `json:"body"`
	Color       RGBA          `json:"color"`
}

// flattenBodies turns a generated tree into per-table rows keyed by position.
func flattenBodies(stars []StarData) ([]starRow, []planetRow, []moonRow) {
	starRows := make([]starRow, 0, len(stars))
	var planetRows []planetRow
	var moonRows []moonRow

	for i, s := range stars {
		p := s.Properties
		starRows = append(starRows, starRow{
			StarIndex:            i,
			Name:                 s.Name,
			SampledMass:          s.SampledMass,
			ClassType:            string(p.Class.Type),
			ClassSubType:         p.Class.SubType,
			ClassIndex:           p.Class.Index,
			Mass:                 p.Mass,
			Radius:               p.Radius,
			Luminosity:           p.Luminosity,
			EffectiveTemperature: p.EffectiveTemperature,
			Color:                p.Color,
		})

		for j, planet := range s.Children {
			planetRows = append(planetRows, planetRow{
				StarIndex:   i,
				PlanetIndex: j,
				Type:        planet.Type,
				Body:        planet.Body,
				Color:       planet.Color,
			})

			for k, moon := range planet.Children {
				moonRows = append(moonRows, moonRow{
					StarIndex:   i,
					PlanetIndex: j,
					MoonIndex:   k,
					Body:        moon.Body,
					Color:       moon.Color,
				})
			}
		}
	}

	return starRows, planetRows, moonRows
}

// assembleBodies rebuilds the tree from rows ordered by their index columns.
func assembleBodies(starRows []starRow, planetRows []planetRow, moonRows []moonRow) ([]StarData, error) {
	stars := make([]StarData, len(starRows))
	for i, row := range starRows {
		if row.StarIndex != i {
			return nil, fmt.Errorf("star index %d out of sequence at %d", row.StarIndex, i)
		}
		stars[i] = StarData{
			Name:        row.Name,
			SampledMass: row.SampledMass,
			Properties: StarProperties{
				Class: StarClass{
					Type:    StarType(row.ClassType),
					SubType: row.ClassSubType,
					Index:   row.ClassIndex,
				},
				Mass:                 row.Mass,
				Radius:               row.Radius,
				Luminosity:           row.Luminosity,
				EffectiveTemperature: row.EffectiveTemperature,
				Color:                row.Color,
			},
			Children: []PlanetData{},
		}
	}

	for _, row := range planetRows {
		if row.StarIndex < 0 || row.StarIndex >= len(stars) {
			return nil, fmt.Errorf("planet references unknown star %d", row.StarIndex)
		}
		star := &stars[row.StarIndex]
		if row.PlanetIndex != len(star.Children) {
			return nil, fmt.Errorf("planet index %d out of sequence for star %d", row.PlanetIndex, row.StarIndex)
		}
		star.Children = append(star.Children, PlanetData{
			ParentIndex: row.StarIndex,
			Type:        row.Type,
			Body:        row.Body,
			Color:       row.Color,
			Children:    []MoonData{},
		})
	}

	for _, row := range moonRows {
		if row.StarIndex < 0 || row.StarIndex >= len(stars) ||
			row.PlanetIndex < 0 || row.PlanetIndex >= len(stars[row.StarIndex].Children) {
			return nil, fmt.Errorf("moon references unknown planet %d/%d", row.StarIndex, row.PlanetIndex)
		}
		planet := &stars[row.StarIndex].Children[row.PlanetIndex]
		planet.Children = append(planet.Children, MoonData{
			ParentIndex: row.PlanetIndex,
			Body:        row.Body,
			Color:       row.Color,
		})
	}

	return stars, nil
}

func (r *Repository) insertBodies(ctx context.Context, tx *database.Tx, id uuid.UUID, stars []StarData) error {
	logger := r.logger.With("component", "cosmos_repository", "operation", "insert_bodies", "cosmos_id", id)

	starRows, planetRows, moonRows := flattenBodies(stars)
	logger.Debug("Inserting bodies in batch",
		"stars", len(starRows),
		"planets", len(planetRows),
		"moons", len(moonRows))

	batches := []struct {
		table string
		rows  any
		count int
		query string
	}{
		{"stars", starRows, len(starRows), `
			INSERT INTO stars (cosmos_id, star_index, name, sampled_mass, class_type, class_sub_type, class_index,
				mass, radius, luminosity, effective_temperature, color_r, color_g, color_b, color_a)
			SELECT
				$1,
				(data->>'star_index')::integer,
				data->>'name',
				(data->>'sampled_mass')::double precision,
				data->>'class_type',
				(data->>'class_sub_type')::integer,
				(data->>'class_index')::integer,
				(data->>'mass')::double precision,
				(data->>'radius')::double precision,
				(data->>'luminosity')::double precision,
				(data->>'effective_temperature')::double precision,
				(data->'color'->>'r')::double precision,
				(data->'color'->>'g')::double precision,
				(data->'color'->>'b')::double precision,
				(data->'color'->>'a')::double precision
			FROM json_array_elements($2::json) AS data`},
		{"planets", planetRows, len(planetRows), `
			INSERT INTO planets (cosmos_id, star_index, planet_index, body_type, mass, radius, density,
				color_r, color_g, color_b, color_a)
			SELECT
				$1,
				(data->>'star_index')::integer,
				(data->>'planet_index')::integer,
				data->>'body_type',
				(data->'body'->>'mass')::double precision,
				(data->'body'->>'radius')::double precision,
				(data->'body'->>'density')::double precision,
				(data->'color'->>'r')::double precision,
				(data->'color'->>'g')::double precision,
				(data->'color'->>'b')::double precision,
				(data->'color'->>'a')::double precision
			FROM json_array_elements($2::json) AS data`},
		{"moons", moonRows, len(moonRows), `
			INSERT INTO moons (cosmos_id, star_index, planet_index, moon_index, mass, radius, density,
				color_r, color_g, color_b, color_a)
			SELECT
				$1,
				(data->>'star_index')::integer,
				(data->>'planet_index')::integer,
				(data->>'moon_index')::integer,
				(data->'body'->>'mass')::double precision,
				(data->'body'->>'radius')::double precision,
				(data->'body'->>'density')::double precision,
				(data->'color'->>'r')::double precision,
				(data->'color'->>'g')::double precision,
				(data->'color'->>'b')::double precision,
				(data->'color'->>'a')::double precision
			FROM json_array_elements($2::json) AS data`},
	}

	for _, batch := range batches {
		if batch.count == 0 {
			continue
		}

		payload, err := json.Marshal(batch.rows)
		if err != nil {
			logger.Error("Failed to marshal rows to JSON", "table", batch.table, "error", err)
			return errors.WrapInternal("failed to marshal "+batch.table, err)
		}

		if _, err := tx.ExecContext(ctx, batch.query, id, string(payload)); err != nil {
			logger.Error("Failed to batch insert", "table", batch.table, "error", err)
			return errors.WrapInternal("failed to insert "+batch.table, err)
		}
	}

	logger.Info("Bodies inserted", "stars", len(starRows), "planets", len(planetRows), "moons", len(moonRows))
	return nil
}

func (r *Repository) GetBodies(ctx context.Context, id uuid.UUID) ([]StarData, error) {
	logger := r.logger.With("component", "cosmos_repository", "operation", "get_bodies", "cosmos_id", id)
	logger.Debug("Loading bodies")

	var starRows []starRow
	err := r.queryRows(ctx, `
		SELECT star_index, name, sampled_mass, class_type, class_sub_type, class_index,
			mass, radius, luminosity, effective_temperature, color_r, color_g, color_b, color_a
		FROM stars WHERE cosmos_id = $1 ORDER BY star_index`, id,
		func(rows *sql.Rows) error {
			var s starRow
			if err := rows.Scan(&s.StarIndex, &s.Name, &s.SampledMass, &s.ClassType, &s.ClassSubType, &s.ClassIndex,
				&s.Mass, &s.Radius, &s.Luminosity, &s.EffectiveTemperature,
				&s.Color.R, &s.Color.G, &s.Color.B, &s.Color.A); err != nil {
				return err
			}
			starRows = append(starRows, s)
			return nil
		})
	if err != nil {
		return nil, err
	}

	var planetRows []planetRow
	err = r.queryRows(ctx, `
		SELECT star_index, planet_index, body_type, mass, radius, density, color_r, color_g, color_b, color_a
		FROM planets WHERE cosmos_id = $1 ORDER BY star_index, planet_index`, id,
		func(rows *sql.Rows) error {
			var p planetRow
			if err := rows.Scan(&p.StarIndex, &p.PlanetIndex, &p.Type,
				&p.Body.Mass, &p.Body.Radius, &p.Body.Density,
				&p.Color.R, &p.Color.G, &p.Color.B, &p.Color.A); err != nil {
				return err
			}
			planetRows = append(planetRows, p)
			return nil
		})
	if err != nil {
		return nil, err
	}

	var moonRows []moonRow
	err = r.queryRows(ctx, `
		SELECT star_index, planet_index, moon_index, mass, radius, density, color_r, color_g, color_b, color_a
		FROM moons WHERE cosmos_id = $1 ORDER BY star_index, planet_index, moon_index`, id,
		func(rows *sql.Rows) error {
			var m moonRow
			if err := rows.Scan(&m.StarIndex, &m.PlanetIndex, &m.MoonIndex,
				&m.Body.Mass, &m.Body.Radius, &m.Body.Density,
				&m.Color.R, &m.Color.G, &m.Color.B, &m.Color.A); err != nil {
				return err
			}
			moonRows = append(moonRows, m)
			return nil
		})
	if err != nil {
		return nil, err
	}

	stars, err := assembleBodies(starRows, planetRows, moonRows)
	if err != nil {
		logger.Error("Stored bodies are inconsistent", "error", err)
		return nil, errors.WrapInternal("stored bodies are inconsistent", err)
	}

	logger.Debug("Bodies loaded", "stars", len(stars))
	return stars, nil
}

func (r *Repository) queryRows(ctx context.Context, query string, id uuid.UUID, scan func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return errors.WrapInternal("failed to query bodies", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return errors.WrapInternal("failed to scan body", err)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.WrapInternal("error iterating bodies", err)
	}
	return nil
}
