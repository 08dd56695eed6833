package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("BROADCAST_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected AppEnv: got=%s want=%s", cfg.AppEnv, EnvDev)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected StorageDriver: got=%s want=%s", cfg.StorageDriver, StorageMemory)
	}
	if cfg.Broadcast.Driver != BroadcastNone {
		t.Fatalf("unexpected broadcast driver: got=%s want=%s", cfg.Broadcast.Driver, BroadcastNone)
	}
	if cfg.ScoringWorkers != 4 {
		t.Fatalf("unexpected ScoringWorkers: got=%d want=%d", cfg.ScoringWorkers, 4)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
	if !cfg.Broadcast.Circuit.Enabled || cfg.Broadcast.Circuit.FailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg.Broadcast.Circuit)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdRequiresAdminToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ADMIN_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without ADMIN_TOKEN")
	}

	t.Setenv("ADMIN_TOKEN", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AdminToken != "s3cret" {
		t.Fatalf("unexpected AdminToken: %q", cfg.AdminToken)
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BroadcastWebhook(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BROADCAST_DRIVER", "webhook")
	t.Setenv("WEBHOOK_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BROADCAST_DRIVER=webhook without WEBHOOK_URL")
	}

	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/matches")
	t.Setenv("WEBHOOK_TIMEOUT", "2s")
	t.Setenv("WEBHOOK_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "1m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Broadcast.WebhookTimeout != 2*time.Second {
		t.Fatalf("unexpected WebhookTimeout: %s", cfg.Broadcast.WebhookTimeout)
	}
	if cfg.Broadcast.Circuit.FailureCount != 3 || cfg.Broadcast.Circuit.OpenTimeout != time.Minute {
		t.Fatalf("unexpected circuit config: %+v", cfg.Broadcast.Circuit)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "storage driver", key: "STORAGE_DRIVER", value: "mysql"},
		{name: "broadcast driver", key: "BROADCAST_DRIVER", value: "kafka"},
		{name: "log level", key: "APP_LOG_LEVEL", value: "verbose"},
		{name: "cache ttl", key: "CACHE_TTL", value: "-1s"},
		{name: "read timeout", key: "APP_READ_TIMEOUT", value: "soon"},
		{name: "scoring workers", key: "SCORING_WORKERS", value: "0"},
		{name: "cache enabled", key: "CACHE_ENABLED", value: "maybe"},
		{name: "redis db", key: "REDIS_DB", value: "-2"},
		{name: "circuit half open", key: "WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example.com, ,https://b.example.com ")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Fatalf("unexpected split: %v", got)
	}
}

func TestLoadMigration(t *testing.T) {
	t.Setenv("DB_URL", "")
	if _, err := LoadMigration(); err == nil {
		t.Fatalf("expected error without DB_URL")
	}

	t.Setenv("DB_URL", "postgres://localhost:5432/score_predictor")
	t.Setenv("MIGRATIONS_DIR", "/srv/migrations")
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")
	cfg, err := LoadMigration()
	if err != nil {
		t.Fatalf("load migration config: %v", err)
	}
	if cfg.DBDisablePreparedBinary {
		t.Fatalf("expected prepared binary flag to be off")
	}
	if len(cfg.MigrationsDirs) != 3 || cfg.MigrationsDirs[0] != "/srv/migrations" {
		t.Fatalf("unexpected migration dirs: %v", cfg.MigrationsDirs)
	}
}
