package api

import (
	"fmt"
	"io"
	"net/http"
)

// sseEmitter adapts the orchestrator's emitter boundary onto a server-sent
// events response.
type sseEmitter struct {
	writer  io.Writer
	flusher http.Flusher
}

func newSSEEmitter(writer io.Writer, flusher http.Flusher) *sseEmitter {
	return &sseEmitter{writer: writer, flusher: flusher}
}

func (e *sseEmitter) Start(requestID string, model string) error {
	return e.send(SSEEvent{Event: "start", Data: StreamStartEvent{RequestID: requestID, Model: model}})
}

func (e *sseEmitter) Fragment(text string) error {
	return e.send(SSEEvent{Event: "chunk", Data: StreamChunkEvent{Text: text}})
}

func (e *sseEmitter) Done(stopReason string) error {
	return e.send(SSEEvent{Event: "done", Data: StreamDoneEvent{StopReason: stopReason}})
}

func (e *sseEmitter) Rejected(message string) error {
	return e.send(SSEEvent{Event: "rejected", Data: StreamRejectedEvent{Message: message}})
}

func (e *sseEmitter) Terminated(message string) error {
	return e.send(SSEEvent{Event: "terminated", Data: StreamTerminatedEvent{Message: message}})
}

func (e *sseEmitter) Failed(message string) error {
	return e.send(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: message}})
}

func (e *sseEmitter) send(event SSEEvent) error {
	formatted, err := event.Format()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(e.writer, formatted); err != nil {
		return err
	}

	e.flusher.Flush()
	return nil
}
