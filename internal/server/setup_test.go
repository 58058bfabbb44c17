package server

import (
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/kosmonet/neon-sub001/internal/engine"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitWithOutput(io.Discard)
	os.Exit(m.Run())
}

// newTestServer поднимает сервис с двумя мирами (поверхность + уровень 1)
func newTestServer(t *testing.T) (*engine.Service, *httptest.Server) {
	t.Helper()

	cfg := engine.NewConfig()
	cfg.Seed = 7
	cfg.Worlds = 1
	cfg.TickInterval = time.Hour
	cfg.PointFill = 4

	service := engine.NewService(cfg)
	require.NoError(t, service.Bootstrap())

	ts := httptest.NewServer(New(service, "0").Handler())
	t.Cleanup(ts.Close)
	return service, ts
}
