package cosmos

import (
	"testing"

	"cosmos-server/internal/random"
)

func TestNamePoolDrawsWithoutReplacement(t *testing.T) {
	names := []string{"Vega", "Sirius", "Rigel"}
	pool := newNamePool(names)
	rng := random.New(5)
	class := StarClass{Type: StarTypeG, SubType: 2}

	seen := map[string]bool{}
	for range names {
		name := pool.draw(rng, class)
		if seen[name] {
			t.Fatalf("name %q drawn twice", name)
		}
		seen[name] = true
	}
	for _, name := range names {
		if !seen[name] {
			t.Errorf("name %q never drawn", name)
		}
	}

	if got := pool.draw(rng, class); got != "G2-1" {
		t.Errorf("first fallback = %q, want G2-1", got)
	}
	if got := pool.draw(rng, StarClass{Type: StarTypeM, SubType: 4}); got != "M4-2" {
		t.Errorf("second fallback = %q, want M4-2", got)
	}
}

func TestNamePoolLeavesInputUntouched(t *testing.T) {
	names := []string{"Vega", "Sirius"}
	pool := newNamePool(names)
	pool.draw(random.New(1), StarClass{Type: StarTypeA})

	if names[0] != "Vega" || names[1] != "Sirius" {
		t.Errorf("input slice modified: %v", names)
	}
}
