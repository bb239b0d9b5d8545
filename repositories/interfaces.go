package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/willckim/ClaimInvestigator-AI/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// CompletionRecordRepository persists the completion audit trail
type CompletionRecordRepository interface {
	// Insert writes a new completion record
	Insert(ctx context.Context, record *models.CompletionRecord) error

	// GetByID retrieves a completion record by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.CompletionRecord, error)

	// GetByRequestID retrieves the records written for one request
	GetByRequestID(ctx context.Context, requestID string) ([]*models.CompletionRecord, error)

	// ListRecent retrieves records newest first with pagination
	ListRecent(ctx context.Context, limit, offset int) ([]*models.CompletionRecord, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	CompletionRecords CompletionRecordRepository
}
