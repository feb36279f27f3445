package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendcli/internal/config"
	"trendcli/internal/infrastructure"
)

func testApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 5 * time.Second
	cfg.Server.IdleTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Server.MaxUploadBytes = 8 << 20
	cfg.Analysis.Mode = "strict"
	cfg.Analysis.SlopeThreshold = 1.0
	cfg.Analysis.CloseDays = 5
	cfg.Analysis.HeaderRows = 1
	cfg.Analysis.ConceptColumn = "所属概念"
	cfg.Paths.ReportsDir = t.TempDir()
	cfg.Paths.HistoryFile = "history.csv"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	require.NoError(t, err)
	return newApplication(cfg, logger)
}

func TestApplication_RoutesMounted(t *testing.T) {
	app := testApplication(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/trend/history", http.StatusOK},
		{http.MethodGet, "/api/v1/trend/concepts", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	app := testApplication(t)
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
