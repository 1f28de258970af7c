package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
	"github.com/prohmpiriya/lensdesk/pkg/config"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "lensdesk", Environment: "development", Version: "test"},
		Server:  config.ServerConfig{Port: 8080},
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		Session: config.SessionConfig{
			Store: config.SessionStoreMemory, Secret: "di-test-secret", Issuer: "lensdesk", TTL: time.Hour,
			CookieName: "lensdesk_session",
		},
		Auth:   config.AuthConfig{BcryptCost: 4, LoginRatePerMinute: 10, LoginBurst: 5},
		Worker: config.WorkerConfig{OverdueEnabled: true, OverdueSchedule: "@every 1h"},
	}
}

func TestNewContainer_Memory(t *testing.T) {
	c, err := NewContainer(context.Background(), memoryConfig(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	assert.IsType(t, &repository.MemoryStore{}, c.Store)
	assert.IsType(t, &repository.MemorySessionStore{}, c.Sessions)
	assert.IsType(t, sheets.Noop{}, c.Mirror)
	assert.Nil(t, c.Producer)
	require.NotNil(t, c.OverdueWorker)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.OverdueWorker.GetStats().IsRunning)

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/firms"} {
		w := httptest.NewRecorder()
		c.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestNewContainer_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Session.Store = config.SessionStoreRedis
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port())}

	c, err := NewContainer(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	assert.IsType(t, &repository.RedisSessionStore{}, c.Sessions)
	require.NotNil(t, c.Redis)
}

func TestNewContainer_NoFallback(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{name: "unknown storage driver", mutate: func(cfg *config.Config) { cfg.Storage.Driver = "sqlite" }},
		{name: "unknown session store", mutate: func(cfg *config.Config) { cfg.Session.Store = "file" }},
		{name: "unreachable redis", mutate: func(cfg *config.Config) {
			cfg.Session.Store = config.SessionStoreRedis
			cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig()
			tt.mutate(cfg)
			_, err := NewContainer(context.Background(), cfg, logger.NewNop())
			assert.Error(t, err)
		})
	}
}

func mustPort(t *testing.T, s string) int {
	t.Helper()
	port, err := strconv.Atoi(s)
	require.NoError(t, err)
	return port
}
