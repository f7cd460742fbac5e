package cosmos

import (
	"math"
	"testing"

	"cosmos-server/internal/shared/errors"
)

func row(t StarType, sub uint32, mass float64) StarProperties {
	return StarProperties{
		Class:                StarClass{Type: t, SubType: sub},
		Mass:                 mass,
		Radius:               mass / 10,
		Luminosity:           mass * mass,
		EffectiveTemperature: 1000 * mass,
		Color:                RGBA{R: mass / 100, G: 0.5, B: 1, A: 1},
	}
}

func threeRowTable(t *testing.T) *Table {
	t.Helper()

	table, err := NewTable([]StarProperties{
		row(StarTypeO, 5, 100),
		row(StarTypeB, 2, 50),
		row(StarTypeA, 0, 10),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestNewTableAssignsIndex(t *testing.T) {
	table := threeRowTable(t)

	for i := 0; i < table.Len(); i++ {
		if got := table.Row(i).Class.Index; got != uint32(i) {
			t.Errorf("row %d index = %d", i, got)
		}
	}
}

func TestNewTableRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		rows []StarProperties
	}{
		{"empty", nil},
		{"single row", []StarProperties{row(StarTypeG, 2, 1)}},
		{"ascending", []StarProperties{row(StarTypeM, 5, 0.2), row(StarTypeG, 2, 1)}},
		{"unknown type", []StarProperties{row("X", 0, 10), row(StarTypeG, 2, 1)}},
		{"zero mass", []StarProperties{row(StarTypeG, 2, 1), row(StarTypeM, 9, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.rows)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetType(err); got != errors.ErrorTypeConfiguration {
				t.Errorf("error type = %s, want %s", got, errors.ErrorTypeConfiguration)
			}
		})
	}
}

func TestBracket(t *testing.T) {
	table := threeRowTable(t)

	tests := []struct {
		name      string
		mass      float64
		wantFloor int
		wantCeil  int
	}{
		{"between rows", 30, 2, 1},
		{"above heaviest", 200, 0, 0},
		{"between top rows", 75, 1, 0},
		{"equal to a row", 50, 2, 1},
		{"below lightest", 5, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, ceil := table.Bracket(tt.mass)
			if floor != tt.wantFloor || ceil != tt.wantCeil {
				t.Errorf("Bracket(%v) = (%d, %d), want (%d, %d)",
					tt.mass, floor, ceil, tt.wantFloor, tt.wantCeil)
			}
		})
	}
}

func TestBracketRowMasses(t *testing.T) {
	table := threeRowTable(t)

	floor, ceil := table.Bracket(30)
	if table.Row(floor).Mass != 10 {
		t.Errorf("floor mass = %v, want 10", table.Row(floor).Mass)
	}
	if table.Row(ceil).Mass != 50 {
		t.Errorf("ceil mass = %v, want 50", table.Row(ceil).Mass)
	}
}

func TestInterpolate(t *testing.T) {
	table := threeRowTable(t)

	atFloor := table.Interpolate(30, 0)
	if atFloor.Mass != 10 || atFloor.Radius != 1 {
		t.Errorf("f=0 should return floor values, got mass=%v radius=%v", atFloor.Mass, atFloor.Radius)
	}

	mid := table.Interpolate(30, 0.5)
	checks := []struct {
		name      string
		got, want float64
	}{
		{"mass", mid.Mass, 30},
		{"radius", mid.Radius, 3},
		{"luminosity", mid.Luminosity, 1300},
		{"temperature", mid.EffectiveTemperature, 30000},
		{"red", mid.Color.R, 0.3},
		{"alpha", mid.Color.A, 1},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	// Class comes from the floor row, never interpolated.
	if mid.Class.Type != StarTypeA || mid.Class.Index != 2 {
		t.Errorf("class = %+v, want floor class A0 index 2", mid.Class)
	}
}

func TestInterpolateDegenerateBracket(t *testing.T) {
	table := threeRowTable(t)

	got := table.Interpolate(500, 0.7)
	if got.Mass != 100 || got.Class.Index != 0 {
		t.Errorf("expected zero-width interpolation on the first row, got %+v", got)
	}
}
