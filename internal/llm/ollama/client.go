package ollama

import (
	"fmt"
	"net/http"
	"strings"
)

// Client talks to a local Ollama server over its JSON HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ModelID    string
}

func NewClient(host string, modelID string) (*Client, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	if modelID == "" {
		return nil, fmt.Errorf("Ollama model ID is required")
	}

	return &Client{
		// No client-level timeout: streamed generations run until natural
		// completion, callers bound judge calls through their context.
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(strings.TrimSpace(host), "/"),
		ModelID:    modelID,
	}, nil
}
