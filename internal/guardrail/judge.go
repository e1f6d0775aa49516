package guardrail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatre7/AI-Guardrail/internal/llm"
	"github.com/rs/zerolog"
)

// Judge classifies text against the content policy through the judge model.
// Every call goes through the shared gate and is bounded by the configured
// timeout. A judge outage never propagates: the verdict degrades to
// INCONCLUSIVE instead.
type Judge struct {
	client      llm.Client
	gate        *Gate
	instruction string
	timeout     time.Duration
	logger      *zerolog.Logger
}

// judgeMaxTokens keeps verdict responses short.
const judgeMaxTokens = 200

func NewJudge(client llm.Client, gate *Gate, instruction string, timeout time.Duration, logger *zerolog.Logger) *Judge {
	return &Judge{
		client:      client,
		gate:        gate,
		instruction: instruction,
		timeout:     timeout,
		logger:      logger,
	}
}

// Check classifies the given text. It blocks on the gate, so callers that
// must not stall run it from their own goroutine.
func (j *Judge) Check(ctx context.Context, requestID string, text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return VerdictSafe
	}

	if err := j.gate.Acquire(ctx); err != nil {
		j.logger.Warn().Err(err).Str("request_id", requestID).Msg("Judge slot acquire cancelled, failing open")
		return VerdictInconclusive
	}
	defer j.gate.Release()

	callCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	now := time.Now()
	response, err := j.client.Invoke(callCtx, llm.Request{
		Prompt:      fmt.Sprintf(j.instruction, text),
		MaxTokens:   judgeMaxTokens,
		Temperature: 0.0, // Deterministic
	})

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			j.logger.Warn().Str("request_id", requestID).Dur("duration", time.Since(now)).Msg("Judge timeout, failing open")
		} else {
			j.logger.Warn().Err(err).Str("request_id", requestID).Msg("Judge call failed, failing open")
		}
		return VerdictInconclusive
	}

	verdict := parseVerdict(response.Content)

	j.logger.Debug().
		Str("request_id", requestID).
		Str("verdict", string(verdict)).
		Dur("duration", time.Since(now)).
		Msg("Judge completed")

	return verdict
}

// parseVerdict maps the judge model's free-text answer to a verdict. Any
// response mentioning UNSAFE blocks, everything else passes.
func parseVerdict(content string) Verdict {
	if strings.Contains(strings.ToUpper(content), string(VerdictUnsafe)) {
		return VerdictUnsafe
	}
	return VerdictSafe
}
