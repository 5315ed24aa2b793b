package service

import (
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, env string) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary:  config.Primary{Env: env},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth: config.AuthConfig{
			SecretKey: "test-secret",
			TokenTTL:  30 * 24 * time.Hour,
		},
	}
	return server.NewWithDatabase(cfg, &logger, nil)
}
