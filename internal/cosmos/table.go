package cosmos

import (
	"cosmos-server/internal/shared/errors"
)

// Table is the star property table, sorted descending by mass.
type Table struct {
	rows []StarProperties
}

// NewTable validates rows and assigns each row's class index from its position.
// The rows must already be sorted descending by mass; they are not reordered.
func NewTable(rows []StarProperties) (*Table, error) {
	if len(rows) < 2 {
		return nil, errors.Configurationf("star property table needs at least 2 rows, got %d", len(rows))
	}

	out := make([]StarProperties, len(rows))
	for i, row := range rows {
		if !row.Class.Type.Valid() {
			return nil, errors.Configurationf("row %d: unknown star type %q", i, row.Class.Type)
		}
		if row.Mass <= 0 {
			return nil, errors.Configurationf("row %d: mass must be positive, got %v", i, row.Mass)
		}
		if i > 0 && row.Mass > rows[i-1].Mass {
			return nil, errors.Configurationf("row %d: table not sorted descending by mass (%v after %v)",
				i, row.Mass, rows[i-1].Mass)
		}

		row.Class.Index = uint32(i)
		out[i] = row
	}

	return &Table{rows: out}, nil
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Row(i int) StarProperties {
	return t.rows[i]
}

func (t *Table) Rows() []StarProperties {
	rows := make([]StarProperties, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Bracket locates the rows around mass. floor is the first row whose mass is
// below mass (the last row if none is); ceil is the row above it, or floor itself
// when floor is the first row.
func (t *Table) Bracket(mass float64) (floor, ceil int) {
	floor = len(t.rows) - 1
	for i, row := range t.rows {
		if row.Mass < mass {
			floor = i
			break
		}
	}

	ceil = floor - 1
	if ceil < 0 {
		ceil = 0
	}
	return floor, ceil
}

// Interpolate blends the bracketing rows of mass by factor f in [0, 1). The class
// is always the floor row's.
func (t *Table) Interpolate(mass, f float64) StarProperties {
	i, j := t.Bracket(mass)
	floor, ceil := t.rows[i], t.rows[j]

	return StarProperties{
		Class:                floor.Class,
		Mass:                 lerp(floor.Mass, ceil.Mass, f),
		Radius:               lerp(floor.Radius, ceil.Radius, f),
		Luminosity:           lerp(floor.Luminosity, ceil.Luminosity, f),
		EffectiveTemperature: lerp(floor.EffectiveTemperature, ceil.EffectiveTemperature, f),
		Color:                floor.Color.Lerp(ceil.Color, f),
	}
}
