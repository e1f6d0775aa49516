package violations

import (
	"context"
)

// Recorder persists violation events. Implementations must never block the
// chat path for long or surface errors to it.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Fanout records through every configured recorder.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, event Event) {
	for _, r := range f {
		r.Record(ctx, event)
	}
}

// Nop discards every event. Used in tests and when no sink is configured.
type Nop struct{}

func (Nop) Record(ctx context.Context, event Event) {}
