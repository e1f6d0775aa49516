package chat

// Emitter delivers stream events to the client. Implementations are
// transport-specific (SSE for the API, stdout for the CLI). Per session the
// orchestrator calls Start at most once, Fragment zero or more times, and
// exactly one of Done, Rejected, Terminated or Failed.
type Emitter interface {
	Start(requestID string, model string) error
	Fragment(text string) error
	Done(stopReason string) error
	Rejected(message string) error
	Terminated(message string) error
	Failed(message string) error
}
