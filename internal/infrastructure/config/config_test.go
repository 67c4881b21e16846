package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/cashflow/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StoreBackend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend by default, got %s", cfg.StoreBackend)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("expected default Gemini model, got %s", cfg.GeminiModel)
	}

	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 default CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example,https://c.example")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StoreBackend != config.BackendRedis {
		t.Fatalf("expected redis backend, got %s", cfg.StoreBackend)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if len(cfg.CORSAllowedOrigins) != 3 {
		t.Fatalf("expected 3 CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BACKUP_DIR=/var/backups/ttg\nHTTP_PORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("HTTP_PORT", "9999")
	// godotenv sets variables it loads; restore them after the test
	t.Setenv("BACKUP_DIR", "")
	os.Unsetenv("BACKUP_DIR")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.BackupDir != "/var/backups/ttg" {
		t.Fatalf("expected BACKUP_DIR from .env, got %s", cfg.BackupDir)
	}

	if cfg.HTTPPort != "9999" {
		t.Fatalf("expected environment to win over .env, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{StoreBackend: config.BackendMemory}, false},
		{"unknown backend", config.Config{StoreBackend: "mongo"}, true},
		{"auth without secret", config.Config{StoreBackend: config.BackendSQLite, AuthEnabled: true}, true},
		{"auth with secret", config.Config{StoreBackend: config.BackendSQLite, AuthEnabled: true, JWTSecret: "s"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
