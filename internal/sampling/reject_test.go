package sampling

import (
	"errors"
	"testing"

	"cosmos-server/internal/random"
)

// countingSource records how many draws were made.
type countingSource struct {
	random.Source
	draws int
}

func (c *countingSource) Float64Range(lo, hi float64) float64 {
	c.draws++
	return c.Source.Float64Range(lo, hi)
}

func triangle(x float64) float64 {
	return 1 - x
}

func TestSampleExactCountWithinDomain(t *testing.T) {
	tests := []struct {
		name  string
		count int
		batch int
	}{
		{"single", 1, 1},
		{"default batch", 37, DefaultBatchSize(37)},
		{"small batch", 50, 3},
		{"large batch", 10, 1000},
	}

	x := Domain{Min: 0, Max: 1}
	y := Domain{Min: 0, Max: 1}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sample(random.New(1), triangle, x, y, tt.count, Options{BatchSize: tt.batch})
			if err != nil {
				t.Fatalf("Sample returned error: %v", err)
			}
			if len(got) != tt.count {
				t.Fatalf("len = %d, want %d", len(got), tt.count)
			}
			for i, v := range got {
				if !x.Contains(v) {
					t.Errorf("sample %d = %v outside %v", i, v, x)
				}
			}
		})
	}
}

func TestSampleReproducible(t *testing.T) {
	x := Domain{Min: 0, Max: 1}
	y := Domain{Min: 0, Max: 1}

	a, err := Sample(random.New(42), triangle, x, y, 200, Options{BatchSize: 400})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sample(random.New(42), triangle, x, y, 200, Options{BatchSize: 400})
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v != %v", i, a[i], b[i])
		}
	}
}

func TestSampleAcceptanceReplay(t *testing.T) {
	x := Domain{Min: 0, Max: 1}
	y := Domain{Min: 0, Max: 1}
	const batch = 8

	got, err := Sample(random.New(5), triangle, x, y, 20, Options{BatchSize: batch})
	if err != nil {
		t.Fatal(err)
	}

	// Replay the same stream: x batch, then y batch, keep y < pdf(x).
	replay := random.New(5)
	var want []float64
	for len(want) < 20 {
		xs := make([]float64, batch)
		ys := make([]float64, batch)
		for i := range xs {
			xs[i] = replay.Float64Range(x.Min, x.Max)
		}
		for i := range ys {
			ys[i] = replay.Float64Range(y.Min, y.Max)
		}
		for i := range xs {
			if ys[i] < triangle(xs[i]) {
				want = append(want, xs[i])
			}
		}
	}
	want = want[:20]

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, replay gives %v", i, got[i], want[i])
		}
	}
}

func TestSampleZeroCountDrawsNothing(t *testing.T) {
	src := &countingSource{Source: random.New(1)}

	got, err := Sample(src, triangle, Domain{0, 1}, Domain{0, 1}, 0, Options{BatchSize: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
	if src.draws != 0 {
		t.Fatalf("draws = %d, want 0", src.draws)
	}
}

func TestSampleInvalidBatchSize(t *testing.T) {
	_, err := Sample(random.New(1), triangle, Domain{0, 1}, Domain{0, 1}, 5, Options{BatchSize: 0})
	if !errors.Is(err, ErrInvalidBatchSize) {
		t.Fatalf("err = %v, want ErrInvalidBatchSize", err)
	}
}

func TestSampleNotConverged(t *testing.T) {
	never := func(float64) float64 { return 0 }
	src := &countingSource{Source: random.New(1)}

	_, err := Sample(src, never, Domain{0, 1}, Domain{0, 1}, 5, Options{BatchSize: 4, MaxBatches: 10})
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("err = %v, want ErrNotConverged", err)
	}
	if src.draws != 10*4*2 {
		t.Fatalf("draws = %d, want %d", src.draws, 10*4*2)
	}
}

func TestSampleTruncatesFinalBatch(t *testing.T) {
	always := func(float64) float64 { return 2 }

	got, err := Sample(random.New(1), always, Domain{0, 1}, Domain{0, 1}, 3, Options{BatchSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestDefaultBatchSize(t *testing.T) {
	tests := map[int]int{0: 1, -3: 1, 1: 2, 10: 20}
	for count, want := range tests {
		if got := DefaultBatchSize(count); got != want {
			t.Errorf("DefaultBatchSize(%d) = %d, want %d", count, got, want)
		}
	}
}
