package api

import (
	"errors"
	"strings"
	"testing"

	"github.com/chatre7/AI-Guardrail/internal/api/middleware"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name        string
		request     ChatRequest
		maxLength   int
		expectedErr error
	}{
		{
			name:      "valid request",
			request:   ChatRequest{Prompt: "Flights to Phuket?", MaxTokens: 100, Temperature: 0.5},
			maxLength: 1000,
		},
		{
			name:        "empty prompt",
			request:     ChatRequest{},
			maxLength:   1000,
			expectedErr: middleware.ErrEmptyPrompt,
		},
		{
			name:      "prompt at the limit",
			request:   ChatRequest{Prompt: strings.Repeat("a", 1000)},
			maxLength: 1000,
		},
		{
			name:        "prompt one over the limit",
			request:     ChatRequest{Prompt: strings.Repeat("a", 1001)},
			maxLength:   1000,
			expectedErr: middleware.ErrPromptTooLong,
		},
		{
			name:      "thai prompt measured in runes",
			request:   ChatRequest{Prompt: strings.Repeat("ก", 1000)},
			maxLength: 1000,
		},
		{
			name:      "limit disabled",
			request:   ChatRequest{Prompt: strings.Repeat("a", 5000)},
			maxLength: 0,
		},
		{
			name:        "negative max tokens",
			request:     ChatRequest{Prompt: "hi", MaxTokens: -1},
			maxLength:   1000,
			expectedErr: middleware.ErrInvalidMaxTokens,
		},
		{
			name:        "max tokens too large",
			request:     ChatRequest{Prompt: "hi", MaxTokens: 100001},
			maxLength:   1000,
			expectedErr: middleware.ErrInvalidMaxTokens,
		},
		{
			name:        "temperature out of range",
			request:     ChatRequest{Prompt: "hi", Temperature: 1.5},
			maxLength:   1000,
			expectedErr: middleware.ErrInvalidTemperature,
		},
		{
			name:        "negative temperature",
			request:     ChatRequest{Prompt: "hi", Temperature: -0.1},
			maxLength:   1000,
			expectedErr: middleware.ErrInvalidTemperature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate(tt.maxLength)
			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestChatRequestSetDefaults(t *testing.T) {
	request := ChatRequest{Prompt: "hi"}
	request.SetDefaults()

	if request.MaxTokens != 2000 {
		t.Errorf("Expected default max tokens 2000, got %d", request.MaxTokens)
	}

	request = ChatRequest{Prompt: "hi", MaxTokens: 50}
	request.SetDefaults()

	if request.MaxTokens != 50 {
		t.Errorf("Expected max tokens to stay 50, got %d", request.MaxTokens)
	}
}

func TestSSEEventFormat(t *testing.T) {
	event := SSEEvent{Event: "chunk", Data: StreamChunkEvent{Text: "hello"}}

	formatted, err := event.Format()
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := "event: chunk\ndata: {\"text\":\"hello\"}\n\n"
	if formatted != expected {
		t.Errorf("Expected %q, got %q", expected, formatted)
	}
}
