package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/amortization-engine/internal/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(&mocks.MockCalculationRepository{}, &mocks.MockScheduleCache{}, time.Second)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		dbErr          error
		cacheErr       error
		expectedStatus int
		expectedChecks map[string]string
	}{
		{
			name:           "all dependencies up",
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:           "database down",
			dbErr:          errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "failed: connection refused", "redis": "ok"},
		},
		{
			name:           "redis down",
			cacheErr:       errors.New("i/o timeout"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "ok", "redis": "failed: i/o timeout"},
		},
		{
			name:           "both down, each failure reported",
			dbErr:          errors.New("connection refused"),
			cacheErr:       errors.New("i/o timeout"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "failed: connection refused", "redis": "failed: i/o timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockCalculationRepository{}
			cache := &mocks.MockScheduleCache{}
			repo.On("Ping", mock.Anything).Return(tt.dbErr)
			cache.On("Ping", mock.Anything).Return(tt.cacheErr)

			h := NewHealthHandler(repo, cache, time.Second)
			w := httptest.NewRecorder()
			h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body struct {
				Success bool         `json:"success"`
				Data    HealthStatus `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedStatus == http.StatusOK, body.Success)
			assert.Equal(t, tt.expectedChecks, body.Data.Checks)

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
