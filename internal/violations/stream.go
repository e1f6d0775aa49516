package violations

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// StreamRecorder publishes violation events to a Redis stream so the audit
// consumer can persist them out-of-band. Publish failures are logged and
// dropped, recording must never fail the chat path.
type StreamRecorder struct {
	client *redis.Client
	stream string
	logger *zerolog.Logger
}

const publishTimeout = 2 * time.Second

func NewStreamRecorder(client *redis.Client, stream string, logger *zerolog.Logger) *StreamRecorder {
	return &StreamRecorder{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (r *StreamRecorder) Record(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Str("request_id", event.RequestID).Msg("Failed to encode violation event")
		return
	}

	// The publish runs detached: a hung Redis must not delay rejection or
	// termination delivery. The caller only pays for the marshal.
	publishCtx := context.WithoutCancel(ctx)
	go func() {
		publishCtx, cancel := context.WithTimeout(publishCtx, publishTimeout)
		defer cancel()

		id, err := r.client.XAdd(publishCtx, &redis.XAddArgs{
			Stream: r.stream,
			Values: map[string]any{"payload": string(payload)},
		}).Result()
		if err != nil {
			r.logger.Error().Err(err).Str("stream", r.stream).Msg("Failed to publish violation event")
			return
		}

		r.logger.Debug().Str("stream", r.stream).Str("id", id).Msg("Violation event published")
	}()
}
