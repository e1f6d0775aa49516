package chat

import (
	"context"
	"errors"

	"github.com/chatre7/AI-Guardrail/internal/config"
	"github.com/chatre7/AI-Guardrail/internal/guardrail"
	"github.com/chatre7/AI-Guardrail/internal/llm"
	"github.com/chatre7/AI-Guardrail/internal/violations"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// errStreamHalted aborts the generation stream once the breaker trips.
var errStreamHalted = errors.New("stream halted by guardrail")

// Params are the generation parameters for one request.
type Params struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Reply is the non-streaming result of a fully validated request.
type Reply struct {
	RequestID  string
	Content    string
	StopReason string
	Model      string
	Blocked    bool
	Message    string
}

// Orchestrator drives the per-request lifecycle: keyword filter, prompt
// judge, then the guarded generation stream with continuous re-validation.
type Orchestrator struct {
	chatClient llm.Client
	modelID    string
	screener   *guardrail.Screener
	judge      *guardrail.Judge
	policy     *config.Policy
	recorder   violations.Recorder
	logger     *zerolog.Logger
}

func NewOrchestrator(
	chatClient llm.Client,
	modelID string,
	screener *guardrail.Screener,
	judge *guardrail.Judge,
	policy *config.Policy,
	recorder violations.Recorder,
	logger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		chatClient: chatClient,
		modelID:    modelID,
		screener:   screener,
		judge:      judge,
		policy:     policy,
		recorder:   recorder,
		logger:     logger,
	}
}

// Run executes the streaming pipeline against the given emitter. The emitter
// receives exactly one terminal event. The returned error is non-nil only
// for generation failures; policy outcomes are not errors.
func (o *Orchestrator) Run(ctx context.Context, params Params, emitter Emitter) error {
	session := NewSession(params.Prompt, o.judge, o.policy.CheckInterval, o.recorder, o.logger)

	o.logger.Info().
		Str("request_id", session.ID).
		Int("prompt_length", len(params.Prompt)).
		Msg("New chat stream")

	if blocked := o.screen(ctx, session.ID, params.Prompt, emitter); blocked {
		return nil
	}

	if err := emitter.Start(session.ID, o.modelID); err != nil {
		return err
	}

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	response, err := o.chatClient.InvokeStream(genCtx, llm.Request{
		Prompt:      params.Prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}, func(chunk string) error {
		// Breaker check happens-before every fragment delivery.
		if session.Breaker.Tripped() {
			return errStreamHalted
		}
		if err := emitter.Fragment(chunk); err != nil {
			return err
		}
		// Background checks run on the request context, not the generation
		// context: cancelling generation must not kill an in-flight check.
		session.Monitor.Observe(ctx, chunk)
		return nil
	})

	if err != nil {
		if errors.Is(err, errStreamHalted) || session.Breaker.Tripped() {
			// Tripping also tears down the generation call: the callback
			// error aborts the stream and cancel releases the transport.
			cancel()
			session.Monitor.Drain()
			o.logger.Warn().Str("request_id", session.ID).Msg("Stream halted by breaker")
			return emitter.Terminated(o.policy.Messages.StreamTerminated)
		}

		session.Monitor.Drain()
		o.logger.Error().Err(err).Str("request_id", session.ID).Msg("Generation stream failed")
		if emitErr := emitter.Failed(o.policy.Messages.GenerationFailed); emitErr != nil {
			o.logger.Warn().Err(emitErr).Str("request_id", session.ID).Msg("Failed to deliver error event")
		}
		return err
	}

	// Natural completion. One last whole-buffer check before the end marker:
	// the breaker can still trip until the client sees completion.
	if verdict := session.Monitor.FinalCheck(ctx); verdict == guardrail.VerdictUnsafe {
		o.logger.Warn().Str("request_id", session.ID).Msg("Final check tripped breaker after completion")
		return emitter.Terminated(o.policy.Messages.StreamTerminated)
	}

	o.logger.Info().
		Str("request_id", session.ID).
		Str("stop_reason", response.StopReason).
		Msg("Chat stream completed")

	return emitter.Done(response.StopReason)
}

// Complete runs the same layered pipeline without streaming: the answer is
// generated in full, checked once against the whole text, then returned.
func (o *Orchestrator) Complete(ctx context.Context, params Params) (*Reply, error) {
	requestID := uuid.NewString()

	o.logger.Info().
		Str("request_id", requestID).
		Int("prompt_length", len(params.Prompt)).
		Msg("New chat request")

	decision := o.screener.ScreenPrompt(ctx, requestID, params.Prompt)
	if decision.Verdict == guardrail.VerdictUnsafe {
		return &Reply{
			RequestID: requestID,
			Model:     o.modelID,
			Blocked:   true,
			Message:   o.rejectionMessage(ctx, requestID, params.Prompt, decision),
		}, nil
	}

	response, err := o.chatClient.Invoke(ctx, llm.Request{
		Prompt:      params.Prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		o.logger.Error().Err(err).Str("request_id", requestID).Msg("Generation failed")
		return nil, err
	}

	if verdict := o.judge.Check(ctx, requestID, response.Content); verdict == guardrail.VerdictUnsafe {
		o.logger.Warn().Str("request_id", requestID).Msg("UNSAFE detected in generated answer")
		o.recorder.Record(ctx, violations.NewEvent(requestID, violations.LayerStream, "", string(verdict), response.Content))
		return &Reply{
			RequestID: requestID,
			Model:     o.modelID,
			Blocked:   true,
			Message:   o.policy.Messages.ContentRejected,
		}, nil
	}

	return &Reply{
		RequestID:  requestID,
		Content:    response.Content,
		StopReason: response.StopReason,
		Model:      o.modelID,
	}, nil
}

// screen runs L1+L2 and emits the rejection when the prompt is blocked.
func (o *Orchestrator) screen(ctx context.Context, requestID string, prompt string, emitter Emitter) bool {
	decision := o.screener.ScreenPrompt(ctx, requestID, prompt)
	if decision.Verdict != guardrail.VerdictUnsafe {
		return false
	}

	message := o.rejectionMessage(ctx, requestID, prompt, decision)
	if err := emitter.Rejected(message); err != nil {
		o.logger.Warn().Err(err).Str("request_id", requestID).Msg("Failed to deliver rejection")
	}
	return true
}

func (o *Orchestrator) rejectionMessage(ctx context.Context, requestID string, prompt string, decision guardrail.Decision) string {
	switch decision.Layer {
	case "l1":
		o.logger.Warn().
			Str("request_id", requestID).
			Str("keyword", decision.Keyword).
			Msg("Forbidden keyword in prompt")
		o.recorder.Record(ctx, violations.NewEvent(requestID, violations.LayerKeyword, decision.Keyword, string(decision.Verdict), prompt))
		return o.policy.Messages.PromptRejected
	default:
		o.logger.Warn().
			Str("request_id", requestID).
			Msg("Prompt judged UNSAFE")
		o.recorder.Record(ctx, violations.NewEvent(requestID, violations.LayerPrompt, "", string(decision.Verdict), prompt))
		return o.policy.Messages.ContentRejected
	}
}
