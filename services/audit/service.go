package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/repositories"
)

var (
	// ErrNotStarted is returned when recording before Start or after Stop
	ErrNotStarted = errors.New("audit service not running")

	// ErrBufferFull is returned when the event buffer cannot accept a record
	ErrBufferFull = errors.New("audit event buffer full")
)

// Recorder accepts completion records for persistence. Implementations must
// not block the request path.
type Recorder interface {
	Record(rec *models.CompletionRecord) error
}

// NopRecorder discards records. Used when no audit database is configured.
type NopRecorder struct{}

// Record implements Recorder
func (NopRecorder) Record(*models.CompletionRecord) error { return nil }

// AuditService writes completion records asynchronously through a buffered
// worker pool
type AuditService struct {
	repo        repositories.CompletionRecordRepository
	logger      *zap.Logger
	eventChan   chan *models.CompletionRecord
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	mu          sync.RWMutex
	started     bool
	closed      bool
}

// Config holds configuration for the AuditService
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 5,
	}
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repositories.CompletionRecordRepository, logger *zap.Logger, config Config) *AuditService {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultConfig().WorkerCount
	}

	return &AuditService{
		repo:        repo,
		logger:      logger,
		eventChan:   make(chan *models.CompletionRecord, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background workers
func (s *AuditService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting records and waits for pending ones to be written.
// Only the first call stops the service; later calls return ErrNotStarted.
func (s *AuditService) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.closed {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.closed = true
	pending := len(s.eventChan)
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", pending))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// Record queues a record without blocking. A full buffer drops the record.
func (s *AuditService) Record(rec *models.CompletionRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.closed {
		return ErrNotStarted
	}

	select {
	case s.eventChan <- rec:
		return nil
	default:
		s.logger.Warn("audit event channel full, dropping record",
			zap.String("request_id", rec.RequestID),
			zap.String("status", string(rec.Status)))
		return ErrBufferFull
	}
}

func (s *AuditService) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for rec := range s.eventChan {
		if err := s.process(rec); err != nil {
			s.logger.Error("failed to persist completion record",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("request_id", rec.RequestID))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *AuditService) process(rec *models.CompletionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.repo.Insert(ctx, rec)
}

// GetStats returns statistics about the audit service
func (s *AuditService) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.closed,
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int  `json:"buffer_size"`
	PendingEvents int  `json:"pending_events"`
	WorkerCount   int  `json:"worker_count"`
	Started       bool `json:"started"`
}
