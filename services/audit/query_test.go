package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willckim/ClaimInvestigator-AI/models"
	"github.com/willckim/ClaimInvestigator-AI/repositories"
	"github.com/willckim/ClaimInvestigator-AI/services"
)

func TestAuditService_Get(t *testing.T) {
	id := uuid.New()
	rec := newRecord("req-1")
	rec.ID = id

	tests := []struct {
		name      string
		repoRec   *models.CompletionRecord
		repoErr   error
		wantErr   bool
		checkType func(error) bool
	}{
		{name: "found", repoRec: rec},
		{name: "not found", repoErr: repositories.ErrNotFound, wantErr: true, checkType: services.IsNotFoundError},
		{name: "database error", repoErr: errors.New("connection reset"), wantErr: true, checkType: services.IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCompletionRecordRepository)
			mockRepo.On("GetByID", mock.Anything, id).Return(tt.repoRec, tt.repoErr)
			service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

			got, err := service.Get(context.Background(), id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tt.checkType(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuditService_List(t *testing.T) {
	recs := []*models.CompletionRecord{newRecord("req-1"), newRecord("req-2")}

	t.Run("recent with default limit", func(t *testing.T) {
		mockRepo := new(MockCompletionRecordRepository)
		mockRepo.On("ListRecent", mock.Anything, DefaultListLimit, 0).Return(recs, nil)
		service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

		got, err := service.List(context.Background(), ListQuery{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("paged", func(t *testing.T) {
		mockRepo := new(MockCompletionRecordRepository)
		mockRepo.On("ListRecent", mock.Anything, 10, 20).Return(recs[:1], nil)
		service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

		got, err := service.List(context.Background(), ListQuery{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("by request id", func(t *testing.T) {
		mockRepo := new(MockCompletionRecordRepository)
		mockRepo.On("GetByRequestID", mock.Anything, "req-1").Return(recs[:1], nil)
		service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

		got, err := service.List(context.Background(), ListQuery{RequestID: "req-1", Limit: 5})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		mockRepo.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		mockRepo := new(MockCompletionRecordRepository)
		mockRepo.On("GetByRequestID", mock.Anything, "missing").Return(nil, nil)
		service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

		got, err := service.List(context.Background(), ListQuery{RequestID: "missing"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("database error", func(t *testing.T) {
		mockRepo := new(MockCompletionRecordRepository)
		mockRepo.On("ListRecent", mock.Anything, DefaultListLimit, 0).Return(nil, errors.New("connection reset"))
		service := NewAuditService(mockRepo, zap.NewNop(), DefaultConfig())

		_, err := service.List(context.Background(), ListQuery{})
		require.Error(t, err)
		assert.True(t, services.IsInternalError(err))
	})
}

func TestListQuery_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		wantLimit int
		wantErr   bool
	}{
		{"default limit", ListQuery{}, DefaultListLimit, false},
		{"max limit", ListQuery{Limit: MaxListLimit}, MaxListLimit, false},
		{"limit too large", ListQuery{Limit: MaxListLimit + 1}, 0, true},
		{"negative limit", ListQuery{Limit: -1}, 0, true},
		{"negative offset", ListQuery{Limit: 10, Offset: -5}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			err := q.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, services.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}
