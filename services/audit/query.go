package audit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/repositories"
	"github.com/willckim/ClaimInvestigator-AI/services"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ErrRecordNotFound is returned when no completion record has the requested ID
var ErrRecordNotFound = services.NewDomainError(services.ErrorTypeNotFound, "completion record not found", nil)

// ListQuery selects stored completion records. A non-empty RequestID
// returns every record for that request and ignores paging.
type ListQuery struct {
	RequestID string
	Limit     int
	Offset    int
}

// Normalize applies the default limit and rejects out-of-range paging
func (q *ListQuery) Normalize() error {
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit < 0 || q.Limit > MaxListLimit {
		return services.NewDomainError(services.ErrorTypeValidation, "limit must be between 1 and 200", nil).
			WithDetail("limit", q.Limit)
	}
	if q.Offset < 0 {
		return services.NewDomainError(services.ErrorTypeValidation, "offset cannot be negative", nil).
			WithDetail("offset", q.Offset)
	}
	return nil
}

// Get returns one stored completion record
func (s *AuditService) Get(ctx context.Context, id uuid.UUID) (*models.CompletionRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, services.WrapInternal(services.ErrDatabaseError.Message, err)
	}
	return rec, nil
}

// List returns stored completion records, newest first
func (s *AuditService) List(ctx context.Context, q ListQuery) ([]*models.CompletionRecord, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	var (
		recs []*models.CompletionRecord
		err  error
	)
	if q.RequestID != "" {
		recs, err = s.repo.GetByRequestID(ctx, q.RequestID)
	} else {
		recs, err = s.repo.ListRecent(ctx, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, services.WrapInternal(services.ErrDatabaseError.Message, err)
	}
	if recs == nil {
		recs = []*models.CompletionRecord{}
	}
	return recs, nil
}
