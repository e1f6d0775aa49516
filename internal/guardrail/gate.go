package guardrail

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds the number of judge calls in flight across all sessions.
// Constructed once at startup and shared by reference.
type Gate struct {
	sem *semaphore.Weighted
}

func NewGate(maxConcurrent int) *Gate {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Gate{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Acquire blocks the calling goroutine until a slot frees or ctx is done.
// Every successful Acquire must be paired with exactly one Release.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *Gate) Release() {
	g.sem.Release(1)
}
