package guardrail

import (
	"sync/atomic"
)

// Breaker is a per-session one-way flag: open until the first UNSAFE verdict
// trips it, never resettable. Safe for concurrent Trip/Tripped from the
// stream loop and background monitor goroutines.
type Breaker struct {
	tripped atomic.Bool
}

func NewBreaker() *Breaker {
	return &Breaker{}
}

func (b *Breaker) Trip() {
	b.tripped.Store(true)
}

func (b *Breaker) Tripped() bool {
	return b.tripped.Load()
}
