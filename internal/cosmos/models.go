package cosmos

import (
	"time"

	"github.com/google/uuid"
)

// StarType is the spectral type of a main sequence star.
type StarType string

const (
	StarTypeO StarType = "O"
	StarTypeB StarType = "B"
	StarTypeA StarType = "A"
	StarTypeF StarType = "F"
	StarTypeG StarType = "G"
	StarTypeK StarType = "K"
	StarTypeM StarType = "M"
)

func (t StarType) Valid() bool {
	switch t {
	case StarTypeO, StarTypeB, StarTypeA, StarTypeF, StarTypeG, StarTypeK, StarTypeM:
		return true
	}
	return false
}

// StarClass is the detailed class of a star. Index is the row position in the
// descending-by-mass property table.
type StarClass struct {
	Type    StarType `json:"type"`
	SubType uint32   `json:"sub_type"`
	Index   uint32   `json:"index"`
}

// RGBA is a linear colour.
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

func (c RGBA) Lerp(to RGBA, t float64) RGBA {
	return RGBA{
		R: lerp(c.R, to.R, t),
		G: lerp(c.G, to.G, t),
		B: lerp(c.B, to.B, t),
		A: lerp(c.A, to.A, t),
	}
}

// StarProperties is one row of the star property table.
type StarProperties struct {
	Class StarClass `json:"class"`
	// In solar masses.
	Mass float64 `json:"mass"`
	// In solar radii.
	Radius float64 `json:"radius"`
	// In solar luminosities.
	Luminosity float64 `json:"luminosity"`
	// In kelvin.
	EffectiveTemperature float64 `json:"effective_temperature"`
	Color                RGBA    `json:"color"`
}

type BodyType string

const (
	BodyTypeRocky    BodyType = "rocky"
	BodyTypeGasGiant BodyType = "gas_giant"
	BodyTypeIceGiant BodyType = "ice_giant"
)

// CelestialBody holds the physical data shared by planets and moons. Planets use
// earth masses, moons a normalised unit.
type CelestialBody struct {
	Mass    float64 `json:"mass"`
	Radius  float64 `json:"radius"`
	Density float64 `json:"density"`
}

type StarData struct {
	Name string `json:"name"`
	// SampledMass is the mass drawn from the star mass distribution before interpolation.
	SampledMass float64        `json:"sampled_mass"`
	Properties  StarProperties `json:"properties"`
	Children    []PlanetData   `json:"children"`
}

type PlanetData struct {
	// ParentIndex is the index of the owning star.
	ParentIndex int           `json:"parent_index"`
	Type        BodyType      `json:"type"`
	Body        CelestialBody `json:"body"`
	Color       RGBA          `json:"color"`
	Children    []MoonData    `json:"children"`
}

type MoonData struct {
	// ParentIndex is the index of the owning planet within its star.
	ParentIndex int           `json:"parent_index"`
	Body        CelestialBody `json:"body"`
	Color       RGBA          `json:"color"`
}

// Range is a half-open integer interval [Min, Max).
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type GenerationSettings struct {
	Seed      uint64 `json:"seed"`
	StarCount Range  `json:"star_count"`
}

type BodyStatistics struct {
	Stars   int `json:"stars"`
	Planets int `json:"planets"`
	Moons   int `json:"moons"`
}

// Statistics counts the bodies of a generated tree.
func Statistics(stars []StarData) BodyStatistics {
	stats := BodyStatistics{Stars: len(stars)}
	for _, star := range stars {
		stats.Planets += len(star.Children)
		for _, planet := range star.Children {
			stats.Moons += len(planet.Children)
		}
	}
	return stats
}

// Cosmos is the persisted record of one generated cosmos.
type Cosmos struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Seed         uint64    `json:"seed"`
	StarCountMin int       `json:"star_count_min"`
	StarCountMax int       `json:"star_count_max"`
	Initialized  bool      `json:"initialized"`
	StarCount    int       `json:"star_count"`
	PlanetCount  int       `json:"planet_count"`
	MoonCount    int       `json:"moon_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Cosmos) Settings() GenerationSettings {
	return GenerationSettings{
		Seed:      c.Seed,
		StarCount: Range{Min: c.StarCountMin, Max: c.StarCountMax},
	}
}

// CreateRequest is the payload for creating a cosmos.
type CreateRequest struct {
	Name         string `json:"name"`
	Seed         uint64 `json:"seed"`
	StarCountMin int    `json:"star_count_min"`
	StarCountMax int    `json:"star_count_max"`
}
