package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/repositories"
)

const completionRecordColumns = `id, request_id, task_type, provider, model, latency_ms,
		       used_fallback, pii_entity_counts, status, error_class, created_at`

// CompletionRecordRepository implements repositories.CompletionRecordRepository
type CompletionRecordRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCompletionRecordRepository creates a new completion record repository
func NewCompletionRecordRepository(db *DB, logger *zap.Logger) repositories.CompletionRecordRepository {
	return &CompletionRecordRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new completion record
func (r *CompletionRecordRepository) Insert(ctx context.Context, record *models.CompletionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid completion record: %w", err)
	}

	query := `
		INSERT INTO completion_records (
			id, request_id, task_type, provider, model, latency_ms,
			used_fallback, pii_entity_counts, status, error_class, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.RequestID,
		record.TaskType,
		record.Provider,
		record.Model,
		record.LatencyMs,
		record.UsedFallback,
		record.PIIEntityCounts,
		record.Status,
		record.ErrorClass,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert completion record: %w", err)
	}

	r.logger.Debug("completion record inserted",
		zap.String("id", record.ID.String()),
		zap.String("status", string(record.Status)))
	return nil
}

// GetByID retrieves a completion record by ID
func (r *CompletionRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CompletionRecord, error) {
	query := `SELECT ` + completionRecordColumns + `
		FROM completion_records
		WHERE id = $1
	`

	record, err := scanCompletionRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("completion record %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get completion record: %w", err)
	}
	return record, nil
}

// GetByRequestID retrieves completion records by request ID
func (r *CompletionRecordRepository) GetByRequestID(ctx context.Context, requestID string) ([]*models.CompletionRecord, error) {
	query := `SELECT ` + completionRecordColumns + `
		FROM completion_records
		WHERE request_id = $1
		ORDER BY created_at DESC
	`

	return r.queryCompletionRecords(ctx, query, requestID)
}

// ListRecent retrieves completion records newest first
func (r *CompletionRecordRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.CompletionRecord, error) {
	query := `SELECT ` + completionRecordColumns + `
		FROM completion_records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryCompletionRecords(ctx, query, limit, offset)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompletionRecord(row rowScanner) (*models.CompletionRecord, error) {
	record := &models.CompletionRecord{}
	err := row.Scan(
		&record.ID,
		&record.RequestID,
		&record.TaskType,
		&record.Provider,
		&record.Model,
		&record.LatencyMs,
		&record.UsedFallback,
		&record.PIIEntityCounts,
		&record.Status,
		&record.ErrorClass,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// queryCompletionRecords is a helper method to query multiple records
func (r *CompletionRecordRepository) queryCompletionRecords(ctx context.Context, query string, args ...interface{}) ([]*models.CompletionRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion records: %w", err)
	}
	defer rows.Close()

	var records []*models.CompletionRecord
	for rows.Next() {
		record, err := scanCompletionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion record rows: %w", err)
	}

	return records, nil
}
