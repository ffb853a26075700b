package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Check(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all healthy",
			checks:     map[string]Pinger{"database": up, "redis": up},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"healthy","dependencies":{"database":"healthy","redis":"healthy"}}`,
		},
		{
			name:       "redis down",
			checks:     map[string]Pinger{"database": up, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unhealthy","dependencies":{"database":"healthy","redis":"unhealthy"}}`,
		},
		{
			name:       "no dependencies",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"healthy","dependencies":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.checks).Check)

			w := doJSON(r, http.MethodGet, "/health", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHealthHandler_CheckHonoursTimeout(t *testing.T) {
	blocked := PingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h := NewHealthHandler(map[string]Pinger{"database": blocked})
	h.timeout = 10 * time.Millisecond

	r := gin.New()
	r.GET("/health", h.Check)

	w := doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
