package chat

import (
	"github.com/chatre7/AI-Guardrail/internal/guardrail"
	"github.com/chatre7/AI-Guardrail/internal/violations"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is the per-request state: the prompt, the output buffer held by
// the monitor, and the breaker linking validation outcomes to the stream
// loop. The breaker is never shared across sessions.
type Session struct {
	ID      string
	Prompt  string
	Breaker *guardrail.Breaker
	Monitor *guardrail.Monitor
}

func NewSession(prompt string, judge *guardrail.Judge, checkInterval int, recorder violations.Recorder, logger *zerolog.Logger) *Session {
	id := uuid.NewString()
	breaker := guardrail.NewBreaker()

	return &Session{
		ID:      id,
		Prompt:  prompt,
		Breaker: breaker,
		Monitor: guardrail.NewMonitor(judge, breaker, checkInterval, id, recorder, logger),
	}
}
