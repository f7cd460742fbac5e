package cosmos

import (
	"context"
	"sync"
	"testing"
)

func TestSessionInitializesOnce(t *testing.T) {
	gen := NewGenerator(loadCatalog(t), nil, Options{}, nil)
	session := NewSession(false)
	ctx := context.Background()

	stars, created, err := session.Initialize(ctx, gen, genSettings(4, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !created || len(stars) == 0 {
		t.Fatalf("first Initialize: created=%v stars=%d", created, len(stars))
	}
	if !session.Initialized() {
		t.Error("session should be initialized")
	}

	stars, created, err = session.Initialize(ctx, gen, genSettings(4, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if created || stars != nil {
		t.Errorf("second Initialize: created=%v stars=%v", created, stars)
	}
}

func TestSessionRestored(t *testing.T) {
	gen := NewGenerator(loadCatalog(t), nil, Options{}, nil)
	session := NewSession(true)

	_, created, err := session.Initialize(context.Background(), gen, genSettings(1, 1, 2))
	if err != nil || created {
		t.Errorf("restored session regenerated: created=%v err=%v", created, err)
	}
}

func TestSessionFailureLeavesFlagUnset(t *testing.T) {
	gen := NewGenerator(loadCatalog(t), nil, Options{}, nil)
	session := NewSession(false)

	if _, _, err := session.Initialize(context.Background(), gen, genSettings(1, 0, 0)); err == nil {
		t.Fatal("expected validation error")
	}
	if session.Initialized() {
		t.Error("failed generation must not mark the session initialized")
	}

	if _, created, err := session.Initialize(context.Background(), gen, genSettings(1, 1, 2)); err != nil || !created {
		t.Errorf("retry: created=%v err=%v", created, err)
	}
}

func TestSessionConcurrentInitialize(t *testing.T) {
	gen := NewGenerator(loadCatalog(t), nil, Options{}, nil)
	session := NewSession(false)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := session.Initialize(context.Background(), gen, genSettings(8, 1, 3))
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("cosmos generated %d times, want 1", created)
	}
}
