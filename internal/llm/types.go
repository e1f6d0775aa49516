package llm

type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Content    string
	StopReason string
}

// StreamCallback receives each text chunk as it is produced. Returning an
// error aborts the stream.
type StreamCallback func(chunk string) error
