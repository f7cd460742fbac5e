package cosmos

import (
	"context"
	stderrors "errors"
	"math"
	"reflect"
	"testing"

	"cosmos-server/internal/sampling"
	"cosmos-server/internal/shared/errors"
)

func loadCatalog(t *testing.T) *Table {
	t.Helper()

	table, err := LoadTable("../../configs/star_properties.yaml")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	return table
}

func genSettings(seed uint64, min, max int) GenerationSettings {
	return GenerationSettings{Seed: seed, StarCount: Range{Min: min, Max: max}}
}

func TestGenerateDeterministic(t *testing.T) {
	table := loadCatalog(t)
	ctx := context.Background()

	first, err := Generate(ctx, genSettings(7, 3, 8), table, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Generate(ctx, genSettings(7, 3, 8), table, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different cosmoses")
	}
}

func TestGenerateIndependentOfWorkers(t *testing.T) {
	table := loadCatalog(t)
	names := []string{"Vega", "Sirius", "Rigel", "Deneb"}
	ctx := context.Background()

	serial, err := NewGenerator(table, names, Options{Workers: 1}, nil).Generate(ctx, genSettings(99, 4, 9))
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewGenerator(table, names, Options{Workers: 8}, nil).Generate(ctx, genSettings(99, 4, 9))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Error("worker count changed the generated cosmos")
	}
}

func TestGenerateSeedsDiverge(t *testing.T) {
	table := loadCatalog(t)
	ctx := context.Background()

	a, err := Generate(ctx, genSettings(1, 5, 6), table, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(ctx, genSettings(2, 5, 6), table, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical cosmoses")
	}
}

func TestGenerateHierarchyBounds(t *testing.T) {
	table := loadCatalog(t)
	lightest := table.Row(table.Len() - 1).Mass
	heaviest := table.Row(0).Mass

	for seed := uint64(1); seed <= 5; seed++ {
		s := genSettings(seed, 1, 20)
		stars, err := Generate(context.Background(), s, table, Options{})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		if len(stars) < s.StarCount.Min || len(stars) >= s.StarCount.Max {
			t.Errorf("seed %d: %d stars outside [%d, %d)", seed, len(stars), s.StarCount.Min, s.StarCount.Max)
		}

		for i, star := range stars {
			if star.SampledMass < starMassDomain.Min || star.SampledMass >= starMassDomain.Max {
				t.Errorf("star %d sampled mass %v outside domain", i, star.SampledMass)
			}
			if m := star.Properties.Mass; m < lightest || m > heaviest {
				t.Errorf("star %d interpolated mass %v outside table range", i, m)
			}
			if max := MaxNumPlanets(star.Properties.Class.Index); len(star.Children) > max {
				t.Errorf("star %d has %d planets, max %d", i, len(star.Children), max)
			}

			for j, planet := range star.Children {
				checkPlanet(t, i, j, planet)
			}
		}
	}
}

func checkPlanet(t *testing.T, star, index int, planet PlanetData) {
	t.Helper()

	if planet.ParentIndex != star {
		t.Errorf("planet %d/%d parent = %d", star, index, planet.ParentIndex)
	}
	if !planetMassDomain.Contains(planet.Body.Mass) {
		t.Errorf("planet %d/%d mass %v outside domain", star, index, planet.Body.Mass)
	}
	checkBody(t, planet.Body)
	if planet.Body.Mass <= GiantMassThreshold && planet.Type != BodyTypeRocky {
		t.Errorf("planet %d/%d of mass %v classified %s", star, index, planet.Body.Mass, planet.Type)
	}
	if max := MaxNumMoons(planet.Body.Mass); len(planet.Children) > max {
		t.Errorf("planet %d/%d has %d moons, max %d", star, index, len(planet.Children), max)
	}

	for k, moon := range planet.Children {
		if moon.ParentIndex != index {
			t.Errorf("moon %d/%d/%d parent = %d", star, index, k, moon.ParentIndex)
		}
		if !moonMassDomain.Contains(moon.Body.Mass) {
			t.Errorf("moon %d/%d/%d mass %v outside domain", star, index, k, moon.Body.Mass)
		}
		checkBody(t, moon.Body)
	}
}

func checkBody(t *testing.T, body CelestialBody) {
	t.Helper()

	if body.Density <= 0.05 || body.Density >= 1.5 {
		t.Errorf("density %v outside (0.05, 1.5)", body.Density)
	}
	if math.IsNaN(body.Radius) || body.Radius < 0 {
		t.Errorf("invalid radius %v", body.Radius)
	}
	if want := RadiusFromMassDensity(body.Mass, body.Density); body.Radius != want {
		t.Errorf("radius %v, want %v", body.Radius, want)
	}
}

func TestGenerateSingleStar(t *testing.T) {
	stars, err := Generate(context.Background(), genSettings(42, 1, 2), loadCatalog(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(stars) != 1 {
		t.Fatalf("got %d stars, want exactly 1", len(stars))
	}
	if stars[0].Children == nil {
		t.Error("children should be an empty slice, not nil")
	}
	for j, planet := range stars[0].Children {
		if planet.ParentIndex != 0 {
			t.Errorf("planet %d parent = %d, want 0", j, planet.ParentIndex)
		}
	}
}

func TestGenerateNamesFallBack(t *testing.T) {
	names := []string{"Vega", "Sirius"}
	gen := NewGenerator(loadCatalog(t), names, Options{}, nil)

	stars, err := gen.Generate(context.Background(), genSettings(3, 5, 6))
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	named := 0
	for _, star := range stars {
		if seen[star.Name] {
			t.Errorf("duplicate star name %q", star.Name)
		}
		seen[star.Name] = true
		if star.Name == "Vega" || star.Name == "Sirius" {
			named++
		}
	}
	if named != 2 {
		t.Errorf("expected both catalogue names to be used, got %d", named)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, genSettings(1, 1, 5), loadCatalog(t), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateNotConverged(t *testing.T) {
	_, err := Generate(context.Background(), genSettings(1, 10, 11), loadCatalog(t), Options{MaxBatches: 1})
	if !stderrors.Is(err, sampling.ErrNotConverged) {
		t.Errorf("err = %v, want ErrNotConverged", err)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{"valid", 1, 2, false},
		{"wide", 10, 500, false},
		{"zero minimum", 0, 5, true},
		{"empty range", 5, 5, true},
		{"inverted", 6, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings(genSettings(1, tt.min, tt.max))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.GetType(err) != errors.ErrorTypeValidation {
				t.Errorf("error type = %s, want validation", errors.GetType(err))
			}
		})
	}
}

func TestStatistics(t *testing.T) {
	stars := []StarData{
		{Children: []PlanetData{
			{Children: []MoonData{{}, {}}},
			{Children: []MoonData{}},
		}},
		{Children: []PlanetData{{Children: []MoonData{{}}}}},
	}

	got := Statistics(stars)
	want := BodyStatistics{Stars: 2, Planets: 3, Moons: 3}
	if got != want {
		t.Errorf("Statistics = %+v, want %+v", got, want)
	}
}
