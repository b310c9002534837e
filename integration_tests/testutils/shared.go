package testutils

import (
	"log"
	"sync"
	"testing"
)

// Shared lazily starts one TestEnvironment for a test package.
type Shared struct {
	once sync.Once
	env  *TestEnvironment
	err  error
}

// Get returns the package environment, starting it on first use.
func (s *Shared) Get(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests skipped in short mode")
	}

	s.once.Do(func() {
		log.Println("Initializing integration test environment...")
		s.env, s.err = NewTestEnvironment(t)
	})
	if s.err != nil {
		t.Fatalf("test environment initialization failed: %v", s.err)
	}

	if err := s.env.Reset(s.env.Ctx); err != nil {
		t.Fatalf("failed to reset test environment: %v", err)
	}
	return s.env
}

// Teardown releases the environment if one was started.
func (s *Shared) Teardown() {
	if s.env != nil {
		s.env.Cleanup()
	}
}
