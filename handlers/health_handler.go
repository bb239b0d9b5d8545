package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/services/audit"
	"github.com/willckim/ClaimInvestigator-AI/services/completion"
	"github.com/willckim/ClaimInvestigator-AI/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Mode      completion.Mode   `json:"mode,omitempty"`
	Providers int               `json:"available_providers"`
	Checks    map[string]string `json:"checks,omitempty"`
	Audit     *audit.Stats      `json:"audit,omitempty"`
}

// StatusReporter reports the gateway's provider configuration
type StatusReporter interface {
	Status() *completion.Status
}

// AuditStatsReporter reports the audit writer's queue state
type AuditStatsReporter interface {
	GetStats() audit.Stats
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     *sql.DB
	status StatusReporter
	audit  AuditStatsReporter
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db may be nil when audit
// persistence is disabled.
func NewHealthHandler(db *sql.DB, status StatusReporter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		status: status,
		logger: logger,
	}
}

// WithAuditStats adds the audit writer to readiness checks
func (h *HealthHandler) WithAuditStats(a AuditStatsReporter) *HealthHandler {
	h.audit = a
	return h
}

// HandleHealth handles GET /healthz
// Liveness check - always returns 200 if the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// A gateway with no providers is still ready: it serves mock completions.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	switch {
	case h.db == nil:
		checks["database"] = "disabled"
	case h.checkDatabase(ctx) != nil:
		checks["database"] = "unhealthy"
		allHealthy = false
	default:
		checks["database"] = "healthy"
	}

	var auditStats *audit.Stats
	if h.audit != nil {
		stats := h.audit.GetStats()
		auditStats = &stats
		if stats.Started {
			checks["audit"] = "running"
		} else {
			checks["audit"] = "stopped"
			allHealthy = false
		}
	}

	status := h.status.Status()
	available := 0
	for _, p := range status.Providers {
		if p.Available {
			available++
		}
	}
	if available == 0 {
		checks["providers"] = "none_configured"
	} else {
		checks["providers"] = "configured"
	}

	state := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		state = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Mode:      status.Mode,
		Providers: available,
		Checks:    checks,
		Audit:     auditStats,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// checkDatabase pings the audit database and runs a trivial query
func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		return err
	}

	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		return err
	}

	return nil
}
