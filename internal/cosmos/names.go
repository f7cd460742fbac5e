package cosmos

import (
	"fmt"

	"cosmos-server/internal/random"
)

// namePool hands out star names without replacement.
type namePool struct {
	available []string
	fallback  int
}

func newNamePool(names []string) *namePool {
	available := make([]string, len(names))
	copy(available, names)
	return &namePool{available: available}
}

// draw picks a random remaining name. Once the pool is empty it returns a
// designation built from the star class. No randomness is consumed then.
func (p *namePool) draw(rng random.Source, class StarClass) string {
	if len(p.available) == 0 {
		p.fallback++
		return fmt.Sprintf("%s%d-%d", class.Type, class.SubType, p.fallback)
	}

	i := rng.IntRange(0, len(p.available))
	name := p.available[i]

	last := len(p.available) - 1
	p.available[i] = p.available[last]
	p.available = p.available[:last]

	return name
}
