package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chatre7/AI-Guardrail/internal/api/middleware"
	"github.com/chatre7/AI-Guardrail/internal/chat"
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

type Handler struct {
	orchestrator    *chat.Orchestrator
	maxPromptLength int
	logger          *zerolog.Logger
}

func NewHandler(orchestrator *chat.Orchestrator, maxPromptLength int, logger *zerolog.Logger) *Handler {
	return &Handler{
		orchestrator:    orchestrator,
		maxPromptLength: maxPromptLength,
		logger:          logger,
	}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	chatRequest, ok := h.readRequest(req, resp)
	if !ok {
		return
	}

	ctx := req.Request.Context()

	reply, err := h.orchestrator.Complete(ctx, chat.Params{
		Prompt:      chatRequest.Prompt,
		MaxTokens:   chatRequest.MaxTokens,
		Temperature: chatRequest.Temperature,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to complete chat request")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ChatResponse{
		RequestID:  reply.RequestID,
		Content:    reply.Content,
		StopReason: reply.StopReason,
		Model:      reply.Model,
		Blocked:    reply.Blocked,
		Message:    reply.Message,
	})
}

// ChatStream handles POST /api/v1/chat/stream
func (h *Handler) ChatStream(req *restful.Request, resp *restful.Response) {
	chatRequest, ok := h.readRequest(req, resp)
	if !ok {
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	ctx := req.Request.Context()
	emitter := newSSEEmitter(writer, flusher)

	if err := h.orchestrator.Run(ctx, chat.Params{
		Prompt:      chatRequest.Prompt,
		MaxTokens:   chatRequest.MaxTokens,
		Temperature: chatRequest.Temperature,
	}, emitter); err != nil {
		// Terminal error event was already emitted, nothing more to send.
		h.logger.Error().Err(err).Msg("Chat stream failed")
		return
	}

	flusher.Flush()
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) readRequest(req *restful.Request, resp *restful.Response) (ChatRequest, bool) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return chatRequest, false
	}

	chatRequest.SetDefaults()
	if err := chatRequest.Validate(h.maxPromptLength); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, middleware.ErrPromptTooLong) {
			code = http.StatusRequestEntityTooLarge
		}
		middleware.HandleError(resp, err, code)
		return chatRequest, false
	}

	return chatRequest, true
}
