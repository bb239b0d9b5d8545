package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/services/audit"
	"github.com/willckim/ClaimInvestigator-AI/utils"
)

// AuditReader reads the stored completion audit trail
type AuditReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.CompletionRecord, error)
	List(ctx context.Context, q audit.ListQuery) ([]*models.CompletionRecord, error)
}

// AuditListResponse is the body of GET /api/v1/audit
type AuditListResponse struct {
	Records   []*models.CompletionRecord `json:"records"`
	Count     int                        `json:"count"`
	Limit     int                        `json:"limit,omitempty"`
	Offset    int                        `json:"offset,omitempty"`
	RequestID string                     `json:"request_id,omitempty"`
}

// AuditHandler serves stored completion records
type AuditHandler struct {
	reader AuditReader
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(reader AuditReader, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		reader: reader,
		logger: logger,
	}
}

// HandleGetCompletion handles GET /api/v1/completions/{id}
func (h *AuditHandler) HandleGetCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid completion id", nil)
		return
	}

	rec, err := h.reader.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, rec); err != nil {
		h.logger.Error("failed to write completion record", zap.Error(err))
	}
}

// HandleList handles GET /api/v1/audit?limit=&offset=&request_id=
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := audit.ListQuery{RequestID: query.Get("request_id")}

	var err error
	if q.Limit, err = intParam(query.Get("limit")); err != nil {
		_ = utils.WriteBadRequest(w, "limit must be an integer", nil)
		return
	}
	if q.Offset, err = intParam(query.Get("offset")); err != nil {
		_ = utils.WriteBadRequest(w, "offset must be an integer", nil)
		return
	}

	recs, err := h.reader.List(r.Context(), q)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp := AuditListResponse{
		Records:   recs,
		Count:     len(recs),
		RequestID: q.RequestID,
	}
	if q.RequestID == "" {
		resp.Limit = q.Limit
		resp.Offset = q.Offset
		if resp.Limit == 0 {
			resp.Limit = audit.DefaultListLimit
		}
	}

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write audit list response", zap.Error(err))
	}
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
