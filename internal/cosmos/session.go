package cosmos

import (
	"context"
	"sync"
)

// Session owns the "cosmos already initialized" flag for one logical new-game
// request. Generation itself stays a pure function of its inputs.
type Session struct {
	mu          sync.Mutex
	initialized bool
}

// NewSession returns a session whose flag starts at initialized, e.g. when
// restoring a cosmos that was generated earlier.
func NewSession(initialized bool) *Session {
	return &Session{initialized: initialized}
}

func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Initialize generates the cosmos once. It reports false, without generating,
// when the session is already initialized. A failed generation leaves the flag
// unset so the caller may retry.
func (s *Session) Initialize(ctx context.Context, gen *Generator, settings GenerationSettings) ([]StarData, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil, false, nil
	}

	stars, err := gen.Generate(ctx, settings)
	if err != nil {
		return nil, false, err
	}

	s.initialized = true
	return stars, true, nil
}
