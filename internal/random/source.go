package random

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source is the seeded random source consumed by the samplers and the cosmos generator.
type Source interface {
	// Float64Range returns a value in [lo, hi).
	Float64Range(lo, hi float64) float64
	// IntRange returns a value in [lo, hi). It returns lo when the range is empty.
	IntRange(lo, hi int) int
	// IntRangeInclusive returns a value in [lo, hi].
	IntRangeInclusive(lo, hi int) int
	// Normal draws from a normal distribution with the given mean and standard deviation.
	Normal(mean, stddev float64) float64
}

// PCG is a Source backed by math/rand/v2's PCG generator. The algorithm is
// specified bit for bit, so a seed reproduces the same sequence on every platform.
type PCG struct {
	seed uint64
	r    *rand.Rand
}

func New(seed uint64) *PCG {
	// Non-cryptographic PRNG is intentional for deterministic generation.
	// #nosec G404
	return &PCG{
		seed: seed,
		r:    rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b"))),
	}
}

// Derive builds an independent source for a child branch (e.g. the i-th star's
// subtree). The result depends only on the parent seed, the salt and the index.
func Derive(seed uint64, salt string, index int) *PCG {
	return New(seedWord(seed, fmt.Sprintf("%s/%d", salt, index)))
}

func (p *PCG) Seed() uint64 {
	return p.seed
}

func (p *PCG) Float64Range(lo, hi float64) float64 {
	return lo + p.r.Float64()*(hi-lo)
}

func (p *PCG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.r.IntN(hi-lo)
}

func (p *PCG) IntRangeInclusive(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + p.r.IntN(hi-lo+1)
}

func (p *PCG) Normal(mean, stddev float64) float64 {
	return mean + stddev*p.r.NormFloat64()
}

func seedWord(seed uint64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
