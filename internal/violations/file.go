package violations

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// FileRecorder appends violation events as JSON lines to a dedicated log
// file, separate from the service log.
type FileRecorder struct {
	logger zerolog.Logger
	file   *os.File
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open violations log %s: %w", path, err)
	}

	return &FileRecorder{
		logger: zerolog.New(file).With().Timestamp().Logger(),
		file:   file,
	}, nil
}

func (r *FileRecorder) Record(ctx context.Context, event Event) {
	r.logger.Warn().
		Str("request_id", event.RequestID).
		Str("layer", event.Layer).
		Str("keyword", event.Keyword).
		Str("verdict", event.Verdict).
		Str("text", event.Text).
		Time("detected_at", event.Timestamp).
		Msg("violation")
}

func (r *FileRecorder) Close() error {
	return r.file.Close()
}
