package guardrail

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGate_BoundsConcurrency(t *testing.T) {
	gate := NewGate(2)

	var inFlight atomic.Int32
	var maxInFlight atomic.Int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := gate.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer gate.Release()

			current := inFlight.Add(1)
			for {
				observed := maxInFlight.Load()
				if current <= observed || maxInFlight.CompareAndSwap(observed, current) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}()
	}

	wg.Wait()

	if got := maxInFlight.Load(); got > 2 {
		t.Errorf("Expected at most 2 concurrent holders, got %d", got)
	}
}

func TestGate_AcquireHonorsContext(t *testing.T) {
	gate := NewGate(1)

	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := gate.Acquire(ctx); err == nil {
		t.Error("Expected acquire to fail while the slot is held")
		gate.Release()
	}

	gate.Release()

	// Slot freed, acquire succeeds again
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := gate.Acquire(ctx2); err != nil {
		t.Errorf("Expected acquire to succeed after release, got %v", err)
	} else {
		gate.Release()
	}
}

func TestGate_MinimumOfOneSlot(t *testing.T) {
	gate := NewGate(0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := gate.Acquire(ctx); err != nil {
		t.Errorf("Expected a zero-size gate to fall back to one slot, got %v", err)
	} else {
		gate.Release()
	}
}
