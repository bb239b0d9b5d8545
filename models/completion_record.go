package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompletionStatus is the terminal state of a routed completion
type CompletionStatus string

const (
	CompletionStatusSucceeded CompletionStatus = "succeeded"
	CompletionStatusFailed    CompletionStatus = "failed"
)

// EntityCounts maps a PII entity type name to the number of spans redacted.
// Stored as JSONB.
type EntityCounts map[string]int

// Value implements driver.Valuer
func (c EntityCounts) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *EntityCounts) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = EntityCounts{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into EntityCounts", src)
	}

	counts := EntityCounts{}
	if err := json.Unmarshal(raw, &counts); err != nil {
		return fmt.Errorf("failed to decode entity counts: %w", err)
	}
	*c = counts
	return nil
}

// Total returns the number of redacted spans across all entity types
func (c EntityCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CompletionRecord is the audit trail entry for one completion. It carries
// identifiers, counts and routing outcome only: prompts, placeholder mappings
// and response text are never persisted.
type CompletionRecord struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	RequestID       string           `json:"request_id" db:"request_id"`
	TaskType        string           `json:"task_type" db:"task_type"`
	Provider        *string          `json:"provider,omitempty" db:"provider"`
	Model           *string          `json:"model,omitempty" db:"model"`
	LatencyMs       int64            `json:"latency_ms" db:"latency_ms"`
	UsedFallback    bool             `json:"used_fallback" db:"used_fallback"`
	PIIEntityCounts EntityCounts     `json:"pii_entity_counts" db:"pii_entity_counts"`
	Status          CompletionStatus `json:"status" db:"status"`
	ErrorClass      *string          `json:"error_class,omitempty" db:"error_class"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the CompletionRecord model
func (CompletionRecord) TableName() string {
	return "completion_records"
}

// NewCompletionRecord creates a record for a request, initially failed until
// a result is attached.
func NewCompletionRecord(requestID, taskType string) *CompletionRecord {
	return &CompletionRecord{
		ID:              uuid.New(),
		RequestID:       requestID,
		TaskType:        taskType,
		PIIEntityCounts: EntityCounts{},
		Status:          CompletionStatusFailed,
		CreatedAt:       time.Now().UTC(),
	}
}

// WithEntityCounts records how many spans of each type were redacted
func (r *CompletionRecord) WithEntityCounts(counts map[string]int) *CompletionRecord {
	r.PIIEntityCounts = EntityCounts{}
	for k, v := range counts {
		r.PIIEntityCounts[k] = v
	}
	return r
}

// WithResult marks the record succeeded with the serving provider's details
func (r *CompletionRecord) WithResult(provider, model string, latencyMs int64, usedFallback bool) *CompletionRecord {
	r.Provider = &provider
	r.Model = &model
	r.LatencyMs = latencyMs
	r.UsedFallback = usedFallback
	r.Status = CompletionStatusSucceeded
	r.ErrorClass = nil
	return r
}

// WithFailure marks the record failed. errorClass is a short category such as
// "configuration" or "providers_exhausted", never an upstream message.
func (r *CompletionRecord) WithFailure(errorClass string, latencyMs int64) *CompletionRecord {
	r.Status = CompletionStatusFailed
	r.ErrorClass = &errorClass
	r.LatencyMs = latencyMs
	return r
}

// Validate checks the record before it is written
func (r *CompletionRecord) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("completion record id is required")
	}
	if r.RequestID == "" {
		return errors.New("completion record request_id is required")
	}
	switch r.Status {
	case CompletionStatusSucceeded:
		if r.Provider == nil || *r.Provider == "" {
			return errors.New("succeeded completion record requires a provider")
		}
	case CompletionStatusFailed:
	default:
		return fmt.Errorf("invalid completion status: %s", r.Status)
	}
	return nil
}
