package mcpadapter

import (
	"context"

	"github.com/chatre7/AI-Guardrail/internal/guardrail"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CheckPromptInput is the MCP tool input schema for prompt screening.
type CheckPromptInput struct {
	Prompt string `json:"prompt" jsonschema:"the user prompt to screen against the content policy"`
}

// CheckTextInput is the MCP tool input schema for a single judge verdict.
type CheckTextInput struct {
	Text string `json:"text" jsonschema:"arbitrary text to classify as SAFE or UNSAFE"`
}

// CheckResult is the tool output for both checks.
type CheckResult struct {
	RequestID string `json:"request_id"`
	Verdict   string `json:"verdict"`
	Layer     string `json:"layer,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
}

// NewCheckPromptHandler returns a tool handler that runs the keyword filter
// and the prompt judge. Pass the returned function to mcp.AddTool.
func NewCheckPromptHandler(screener *guardrail.Screener) func(context.Context, *mcp.CallToolRequest, CheckPromptInput) (*mcp.CallToolResult, CheckResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckPromptInput) (*mcp.CallToolResult, CheckResult, error) {
		return CheckPrompt(ctx, screener, req, input)
	}
}

// CheckPrompt screens a prompt and returns the layered decision.
func CheckPrompt(
	ctx context.Context,
	screener *guardrail.Screener,
	req *mcp.CallToolRequest,
	input CheckPromptInput,
) (*mcp.CallToolResult, CheckResult, error) {
	requestID := uuid.NewString()
	decision := screener.ScreenPrompt(ctx, requestID, input.Prompt)

	return nil, CheckResult{
		RequestID: requestID,
		Verdict:   string(decision.Verdict),
		Layer:     decision.Layer,
		Keyword:   decision.Keyword,
	}, nil
}

// NewCheckTextHandler returns a tool handler that runs a single judge
// classification. Pass the returned function to mcp.AddTool.
func NewCheckTextHandler(screener *guardrail.Screener) func(context.Context, *mcp.CallToolRequest, CheckTextInput) (*mcp.CallToolResult, CheckResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckTextInput) (*mcp.CallToolResult, CheckResult, error) {
		return CheckText(ctx, screener, req, input)
	}
}

// CheckText classifies arbitrary text with the judge model.
func CheckText(
	ctx context.Context,
	screener *guardrail.Screener,
	req *mcp.CallToolRequest,
	input CheckTextInput,
) (*mcp.CallToolResult, CheckResult, error) {
	requestID := uuid.NewString()
	verdict := screener.CheckText(ctx, requestID, input.Text)

	return nil, CheckResult{
		RequestID: requestID,
		Verdict:   string(verdict),
	}, nil
}
