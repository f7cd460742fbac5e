package cosmos

import (
	"math"

	"cosmos-server/internal/random"
)

// GiantMassThreshold separates rocky bodies from giants, in earth masses.
const GiantMassThreshold = 100.0

// RadiusFromMassDensity derives a radius from mass and density assuming a sphere.
func RadiusFromMassDensity(mass, density float64) float64 {
	return math.Cbrt(mass / density * 0.75 / math.Pi)
}

// DensityDistribution is a normal distribution truncated to the open interval (Min, Max).
type DensityDistribution struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

var (
	RockyDensity = DensityDistribution{Mean: 0.5, StdDev: 0.25, Min: 0.05, Max: 1.5}
	GiantDensity = DensityDistribution{Mean: 0.5, StdDev: 0.25, Min: 0.05, Max: 1.5}
	MoonDensity  = DensityDistribution{Mean: 0.5, StdDev: 0.25, Min: 0.05, Max: 1.5}
)

// Sample redraws until the value falls inside (Min, Max).
func (d DensityDistribution) Sample(rng random.Source) float64 {
	for {
		v := rng.Normal(d.Mean, d.StdDev)
		if v > d.Min && v < d.Max {
			return v
		}
	}
}

func planetDensityDistribution(mass float64) DensityDistribution {
	if mass > GiantMassThreshold {
		return GiantDensity
	}
	return RockyDensity
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
