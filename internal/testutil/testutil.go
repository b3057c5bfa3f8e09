// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/nhle/todo-way/internal/source"
)

// NewTestSQLite creates an in-memory SQLite snapshot with all migrations
// applied. It automatically closes the database when the test completes.
func NewTestSQLite(t *testing.T) *source.SQLite {
	t.Helper()

	s, err := source.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("creating test sqlite source: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test sqlite source: %v", err)
		}
	})

	return s
}

// Clock is a manual clock for deterministic timestamps. Every call to Now
// advances it by Step.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewClock returns a Clock starting at start that advances one second per
// reading.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start, Step: time.Second}
}

// Now returns the current reading and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
