package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chatre7/AI-Guardrail/internal/llm"
)

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}

func (c *Client) Invoke(ctx context.Context, request llm.Request) (*llm.Response, error) {
	body, err := c.post(ctx, request, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ollama response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("ollama returned non-json payload: %w", err)
	}

	return &llm.Response{
		Content:    parsed.Response,
		StopReason: parsed.DoneReason,
	}, nil
}

// InvokeStream decodes the NDJSON stream Ollama produces for stream=true,
// invoking the callback for every non-empty response fragment.
func (c *Client) InvokeStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	body, err := c.post(ctx, request, true)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var fullContent strings.Builder
	var stopReason string

	decoder := json.NewDecoder(body)
	for {
		var chunk generateResponse
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode ollama stream: %w", err)
		}

		if chunk.Response != "" {
			fullContent.WriteString(chunk.Response)
			if callback != nil {
				if err := callback(chunk.Response); err != nil {
					return nil, fmt.Errorf("callback error: %w", err)
				}
			}
		}

		if chunk.Done {
			stopReason = chunk.DoneReason
			break
		}
	}

	return &llm.Response{
		Content:    fullContent.String(),
		StopReason: stopReason,
	}, nil
}

func (c *Client) post(ctx context.Context, request llm.Request, stream bool) (io.ReadCloser, error) {
	payload := generateRequest{
		Model:  c.ModelID,
		Prompt: request.Prompt,
		Stream: stream,
		Options: map[string]any{
			"temperature": request.Temperature,
			"num_predict": request.MaxTokens,
		},
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize ollama request. Error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed on /api/generate: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	return resp.Body, nil
}
