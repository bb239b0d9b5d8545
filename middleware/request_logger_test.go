package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"success", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusBadRequest, zapcore.WarnLevel},
		{"upstream error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			}))

			body := strings.NewReader(`{"text":"SSN 123-45-6789"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/redact", body)
			req = req.WithContext(WithRequestID(req.Context(), "req-42"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)

			fields := entry.ContextMap()
			assert.Equal(t, "req-42", fields["request_id"])
			assert.Equal(t, "/api/v1/redact", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])
			for _, v := range fields {
				if s, ok := v.(string); ok {
					assert.NotContains(t, s, "123-45-6789")
				}
			}
		})
	}
}

func TestGetRequestIDFromContext(t *testing.T) {
	t.Run("explicit id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "abc")
		assert.Equal(t, "abc", GetRequestIDFromContext(ctx))
	})

	t.Run("chi generated id", func(t *testing.T) {
		var got string
		handler := chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetRequestIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(chimw.RequestIDHeader, "from-header")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "from-header", got)
	})

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, GetRequestIDFromContext(context.Background()))
	})
}
