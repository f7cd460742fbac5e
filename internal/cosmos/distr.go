package cosmos

import "math"

// StarMassPDF weights star masses in solar masses over (0, 130].
func StarMassPDF(x float64) float64 {
	return math.Min(1/(500*x), 1)
}

// PlanetMassPDF weights planet masses in earth masses over [0.02, 300].
func PlanetMassPDF(x float64) float64 {
	return 2*math.Max(-math.Pow(150*x, 5)+5, 0) + (math.Tanh(300*x-20)-math.Tanh(3*x-1))*0.2
}

// MoonMassPDF weights normalised moon masses over [0, 1].
func MoonMassPDF(x float64) float64 {
	return math.Pow(26, -50*x) + math.Pow(21, -1.5*(x+1))
}

func MaxNumPlanets(starClassIndex uint32) int {
	x := float64(starClassIndex)
	return int(math.Floor(8/(1+math.Exp((x-33)/12)) + 3))
}

// MaxNumMoons takes the planet mass in earth masses.
func MaxNumMoons(mass float64) int {
	return int(math.Floor(math.Sqrt(0.5*mass)/3 + 0.9))
}
