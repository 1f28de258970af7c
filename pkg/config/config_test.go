package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT",
		"STORAGE_DRIVER",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"SESSION_STORE", "SESSION_SECRET", "SESSION_TTL",
		"KAFKA_ENABLED", "KAFKA_BROKERS",
		"CORS_ALLOW_ORIGINS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "lensdesk" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "lensdesk")
	}

	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}

	if cfg.Storage.Driver != StorageDriverPostgres {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverPostgres)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}

	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}

	if cfg.Session.TTL != 168*time.Hour {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 168*time.Hour)
	}

	if cfg.Worker.OverdueSchedule != "*/15 * * * *" {
		t.Errorf("Worker.OverdueSchedule = %q", cfg.Worker.OverdueSchedule)
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}

	if cfg.Storage.Driver != StorageDriverMemory {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverMemory)
	}

	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://b.example.com" {
		t.Errorf("CORS.AllowOrigins = %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoadWithPath(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "APP_NAME=from-file\nSTORAGE_DRIVER=memory\nSESSION_STORE=memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath() failed: %v", err)
	}

	if cfg.App.Name != "from-file" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "from-file")
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Errorf("Session.Store = %q, want %q", cfg.Session.Store, SessionStoreMemory)
	}
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	if _, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing file")
	}
}

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Name: "lensdesk", Environment: "development"},
		Server:   ServerConfig{Port: 8080},
		Storage:  StorageConfig{Driver: StorageDriverMemory},
		Session:  SessionConfig{Store: SessionStoreMemory, Secret: "s3cret", TTL: time.Hour},
		Database: DatabaseConfig{Host: "localhost", DBName: "lensdesk"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing app name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "unknown storage driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) {
			c.Storage.Driver = StorageDriverPostgres
			c.Database.Host = ""
		}, wantErr: true},
		{name: "unknown session store", mutate: func(c *Config) { c.Session.Store = "file" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.Session.Secret = "" }, wantErr: true},
		{name: "default secret in production", mutate: func(c *Config) {
			c.App.Environment = "production"
			c.Session.Secret = defaultSessionSecret
		}, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }, wantErr: true},
		{name: "zero session ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddrHelpers(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Redis = RedisConfig{Host: "redis", Port: 6380}
	cfg.Database = DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	if got := cfg.Server.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Server.Addr() = %q", got)
	}
	if got := cfg.Redis.Addr(); got != "redis:6380" {
		t.Errorf("Redis.Addr() = %q", got)
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("Database.DSN() = %q, want %q", got, want)
	}
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("environment helpers disagree with development")
	}
}
