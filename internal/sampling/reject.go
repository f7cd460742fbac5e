package sampling

import (
	"errors"
	"fmt"

	"cosmos-server/internal/random"
)

var (
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
	ErrNotConverged     = errors.New("rejection sampling did not converge")
)

// PDF is an unnormalised relative likelihood used as a rejection weight.
type PDF func(x float64) float64

// Domain is a half-open interval [Min, Max).
type Domain struct {
	Min float64
	Max float64
}

func (d Domain) Contains(x float64) bool {
	return x >= d.Min && x < d.Max
}

type Options struct {
	// BatchSize is the number of (x, y) pairs drawn per round.
	BatchSize int
	// MaxBatches caps the number of rounds. Zero means unbounded.
	MaxBatches int
}

// DefaultBatchSize draws twice the requested count per round.
func DefaultBatchSize(count int) int {
	if count < 1 {
		return 1
	}
	return 2 * count
}

// Sample draws exactly count values distributed according to pdf over x.
//
// Each round draws opts.BatchSize x values uniformly over x, then the same number of
// y values over y, and keeps every x whose y falls under pdf(x). y must envelope pdf
// over x; a lower bound biases the result silently.
func Sample(rng random.Source, pdf PDF, x, y Domain, count int, opts Options) ([]float64, error) {
	if count <= 0 {
		return []float64{}, nil
	}
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, opts.BatchSize)
	}

	samples := make([]float64, 0, count)
	xs := make([]float64, opts.BatchSize)
	ys := make([]float64, opts.BatchSize)

	for batch := 0; len(samples) < count; batch++ {
		if opts.MaxBatches > 0 && batch >= opts.MaxBatches {
			return nil, fmt.Errorf("%w: accepted %d of %d after %d batches",
				ErrNotConverged, len(samples), count, batch)
		}

		for i := range xs {
			xs[i] = rng.Float64Range(x.Min, x.Max)
		}
		for i := range ys {
			ys[i] = rng.Float64Range(y.Min, y.Max)
		}

		for i, candidate := range xs {
			if ys[i] < pdf(candidate) {
				samples = append(samples, candidate)
				if len(samples) == count {
					break
				}
			}
		}
	}

	return samples, nil
}
