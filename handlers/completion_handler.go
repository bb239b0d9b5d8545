package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/middleware"
	"github.com/willckim/ClaimInvestigator-AI/services/completion"
	"github.com/willckim/ClaimInvestigator-AI/utils"
)

// CompletionRequest is the body of POST /api/v1/completions
type CompletionRequest struct {
	Text              string   `json:"text" validate:"required"`
	TaskType          string   `json:"task_type,omitempty" validate:"omitempty,oneof=claim_triage question_generation coverage_analysis file_notes extraction general"`
	PreferredProvider string   `json:"preferred_provider,omitempty" validate:"omitempty,oneof=auto claude openai gemini azure ollama"`
	SystemPrompt      string   `json:"system_prompt,omitempty"`
	MaxTokens         int      `json:"max_tokens,omitempty" validate:"gte=0,lte=32768"`
	Temperature       *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	JSONMode          bool     `json:"json_mode,omitempty"`
}

// RedactRequest is the body of POST /api/v1/redact
type RedactRequest struct {
	Text     string   `json:"text" validate:"required"`
	Entities []string `json:"entities,omitempty"`
}

// CompletionService defines the operations the completion handler needs
type CompletionService interface {
	Redact(ctx context.Context, req *completion.RedactRequest) (*completion.RedactResponse, error)
	Complete(ctx context.Context, req *completion.Request) (*completion.Response, error)
	Status() *completion.Status
}

// CompletionHandler handles redaction and completion requests
type CompletionHandler struct {
	service CompletionService
	logger  *zap.Logger
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(service CompletionService, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		service: service,
		logger:  logger,
	}
}

// HandleStatus handles GET /api/v1/status
func (h *CompletionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteOK(w, h.service.Status()); err != nil {
		h.logger.Error("failed to write status response", zap.Error(err))
	}
}

// HandleRedact handles POST /api/v1/redact
func (h *CompletionHandler) HandleRedact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var body RedactRequest
	if err := utils.DecodeJSONBody(w, r, &body); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := utils.ValidateStruct(&body); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	resp, err := h.service.Redact(ctx, &completion.RedactRequest{
		Text:     body.Text,
		Entities: body.Entities,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleComplete handles POST /api/v1/completions
func (h *CompletionHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var body CompletionRequest
	if err := utils.DecodeJSONBody(w, r, &body); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := utils.ValidateStruct(&body); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	resp, err := h.service.Complete(ctx, &completion.Request{
		RequestID:         requestID,
		Text:              body.Text,
		TaskType:          body.TaskType,
		PreferredProvider: body.PreferredProvider,
		SystemPrompt:      body.SystemPrompt,
		MaxTokens:         body.MaxTokens,
		Temperature:       body.Temperature,
		JSONMode:          body.JSONMode,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
