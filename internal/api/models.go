package api

import (
	"encoding/json"
	"fmt"

	"github.com/chatre7/AI-Guardrail/internal/api/middleware"
)

type ChatRequest struct {
	Prompt      string  `json:"prompt" description:"The user's prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty" description:"Maximum tokens to generate (default: 2000)"`
	Temperature float64 `json:"temperature,omitempty" description:"Temperature for generation (0.0-1.0, default: 0.0)"`
}

type ChatResponse struct {
	RequestID  string `json:"request_id" description:"Request identifier"`
	Content    string `json:"content" description:"The generated answer, empty when blocked"`
	StopReason string `json:"stop_reason,omitempty" description:"Why generation stopped"`
	Model      string `json:"model" description:"Model ID used"`
	Blocked    bool   `json:"blocked" description:"Whether a guardrail blocked the answer"`
	Message    string `json:"message,omitempty" description:"User-facing rejection message when blocked"`
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

func (c *ChatRequest) Validate(maxPromptLength int) error {
	if c.Prompt == "" {
		return middleware.ErrEmptyPrompt
	}

	if maxPromptLength > 0 && len([]rune(c.Prompt)) > maxPromptLength {
		return middleware.ErrPromptTooLong
	}

	if c.MaxTokens < 0 || c.MaxTokens > 100000 {
		return middleware.ErrInvalidMaxTokens
	}

	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return middleware.ErrInvalidTemperature
	}

	return nil
}

func (c *ChatRequest) SetDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
}

type SSEEvent struct {
	Event string      `json:"-"`
	Data  interface{} `json:"-"`
}

// SSE event data structures
type StreamStartEvent struct {
	RequestID string `json:"request_id"`
	Model     string `json:"model"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	StopReason string `json:"stop_reason"`
}

type StreamRejectedEvent struct {
	Message string `json:"message"`
}

type StreamTerminatedEvent struct {
	Message string `json:"message"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}
