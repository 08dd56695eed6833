package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

const (
	BroadcastNone    = "none"
	BroadcastLog     = "log"
	BroadcastRedis   = "redis"
	BroadcastWebhook = "webhook"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	CORSAllowedOrigins []string
	AdminToken         string
	ScoringWorkers     int
	MetricsEnabled     bool

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	Broadcast BroadcastConfig
}

type BroadcastConfig struct {
	Driver         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	StreamPrefix   string
	StreamMaxLen   int64
	WebhookURL     string
	WebhookToken   string
	WebhookTimeout time.Duration
	Circuit        CircuitConfig
}

type CircuitConfig struct {
	Enabled        bool
	FailureCount   int
	OpenTimeout    time.Duration
	HalfOpenMaxReq int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	if storageDriver != StorageMemory && storageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbDisablePreparedBinary, err := getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := getEnvAsBool("CACHE_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	adminToken := strings.TrimSpace(getEnv("ADMIN_TOKEN", ""))
	if appEnv == EnvProd && adminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	scoringWorkers, err := getEnvAsInt("SCORING_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_WORKERS: %w", err)
	}
	if scoringWorkers < 1 {
		return Config{}, fmt.Errorf("SCORING_WORKERS must be >= 1")
	}
	metricsEnabled, err := getEnvAsBool("METRICS_ENABLED", true)
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	broadcast, err := loadBroadcast()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "score-predictor-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logLevel,
		StorageDriver:              storageDriver,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		CORSAllowedOrigins:         corsAllowedOrigins,
		AdminToken:                 adminToken,
		ScoringWorkers:             scoringWorkers,
		MetricsEnabled:             metricsEnabled,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		Broadcast:                  broadcast,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

// MigrationConfig is the subset of settings the migration command reads.
type MigrationConfig struct {
	DBURL                   string
	DBDisablePreparedBinary bool
	// MigrationsDirs are tried in order; the first existing directory wins.
	MigrationsDirs []string
	LogLevel       logging.Level
}

func LoadMigration() (MigrationConfig, error) {
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return MigrationConfig{}, fmt.Errorf("DB_URL is required")
	}
	disablePreparedBinary, err := getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	if err != nil {
		return MigrationConfig{}, err
	}
	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return MigrationConfig{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	dirs := make([]string, 0, 3)
	if dir := strings.TrimSpace(getEnv("MIGRATIONS_DIR", "")); dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, "./db/migrations", "/app/db/migrations")

	return MigrationConfig{
		DBURL:                   dbURL,
		DBDisablePreparedBinary: disablePreparedBinary,
		MigrationsDirs:          dirs,
		LogLevel:                logLevel,
	}, nil
}

func loadBroadcast() (BroadcastConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(getEnv("BROADCAST_DRIVER", BroadcastNone)))
	switch driver {
	case BroadcastNone, BroadcastLog, BroadcastRedis, BroadcastWebhook:
	default:
		return BroadcastConfig{}, fmt.Errorf("invalid BROADCAST_DRIVER %q: valid values are %s, %s, %s, %s",
			driver, BroadcastNone, BroadcastLog, BroadcastRedis, BroadcastWebhook)
	}

	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return BroadcastConfig{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if redisDB < 0 {
		return BroadcastConfig{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	streamMaxLen, err := getEnvAsInt("BROADCAST_STREAM_MAX_LEN", 10000)
	if err != nil {
		return BroadcastConfig{}, fmt.Errorf("parse BROADCAST_STREAM_MAX_LEN: %w", err)
	}
	if streamMaxLen < 1 {
		return BroadcastConfig{}, fmt.Errorf("BROADCAST_STREAM_MAX_LEN must be >= 1")
	}
	webhookTimeout, err := getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return BroadcastConfig{}, err
	}
	circuit, err := loadCircuit("WEBHOOK_CIRCUIT")
	if err != nil {
		return BroadcastConfig{}, err
	}

	out := BroadcastConfig{
		Driver:         driver,
		RedisAddr:      strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379")),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		StreamPrefix:   strings.TrimSpace(getEnv("BROADCAST_STREAM_PREFIX", "matches.updates")),
		StreamMaxLen:   int64(streamMaxLen),
		WebhookURL:     strings.TrimSpace(getEnv("WEBHOOK_URL", "")),
		WebhookToken:   strings.TrimSpace(getEnv("WEBHOOK_TOKEN", "")),
		WebhookTimeout: webhookTimeout,
		Circuit:        circuit,
	}
	if driver == BroadcastRedis && out.RedisAddr == "" {
		return BroadcastConfig{}, fmt.Errorf("REDIS_ADDR is required when BROADCAST_DRIVER=%s", BroadcastRedis)
	}
	if driver == BroadcastWebhook && out.WebhookURL == "" {
		return BroadcastConfig{}, fmt.Errorf("WEBHOOK_URL is required when BROADCAST_DRIVER=%s", BroadcastWebhook)
	}
	return out, nil
}

// loadCircuit reads <prefix>_ENABLED, _FAILURE_COUNT, _OPEN_TIMEOUT and
// _HALF_OPEN_MAX_REQ.
func loadCircuit(prefix string) (CircuitConfig, error) {
	enabled, err := getEnvAsBool(prefix+"_ENABLED", true)
	if err != nil {
		return CircuitConfig{}, err
	}
	failureCount, err := getEnvAsInt(prefix+"_FAILURE_COUNT", 5)
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s_FAILURE_COUNT: %w", prefix, err)
	}
	if failureCount < 1 {
		return CircuitConfig{}, fmt.Errorf("%s_FAILURE_COUNT must be >= 1", prefix)
	}
	openTimeout, err := getEnvAsDuration(prefix+"_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return CircuitConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsInt(prefix+"_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("parse %s_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpenMaxReq < 1 {
		return CircuitConfig{}, fmt.Errorf("%s_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return CircuitConfig{
		Enabled:        enabled,
		FailureCount:   failureCount,
		OpenTimeout:    openTimeout,
		HalfOpenMaxReq: halfOpenMaxReq,
	}, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects non-positive durations.
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
