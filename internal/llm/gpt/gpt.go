package gpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatre7/AI-Guardrail/internal/llm"
	"github.com/openai/openai-go"
)

func (c *Client) Invoke(ctx context.Context, request llm.Request) (*llm.Response, error) {
	message := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.ModelID),
	}

	output, err := c.Client.Chat.Completions.New(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model. Error: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	return &llm.Response{
		Content:    response.Message.Content,
		StopReason: fmt.Sprint(response.FinishReason),
	}, nil
}

func (c *Client) InvokeStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	message := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.ModelID),
	}

	stream := c.Client.Chat.Completions.NewStreaming(ctx, message)
	defer stream.Close()

	var fullContent strings.Builder
	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		fullContent.WriteString(delta)
		if callback != nil {
			if err := callback(delta); err != nil {
				return nil, fmt.Errorf("callback error: %w", err)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("unable to stream gpt model. Error: %w", err)
	}

	var stopReason string
	if len(acc.Choices) > 0 {
		stopReason = fmt.Sprint(acc.Choices[0].FinishReason)
	}

	return &llm.Response{
		Content:    fullContent.String(),
		StopReason: stopReason,
	}, nil
}
