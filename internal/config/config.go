package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

// Config stores runtime configuration for the engine.
type Config struct {
	AppEnv                    string
	ServiceName               string
	ServiceVersion            string
	LogLevel                  logging.Level
	DBURL                     string
	DBDisablePreparedBinary   bool
	DBMaxOpenConns            int
	DBMaxIdleConns            int
	DBConnMaxLifetime         time.Duration
	CacheEnabled              bool
	CacheTTL                  time.Duration
	RosterMatchThreshold      float64
	ProjectorWorkers          int
	ProjectorInterval         time.Duration
	ProjectorLeagueIDs        []string
	NATSEnabled               bool
	NATSURL                   string
	NATSSubjectPrefix         string
	NATSCircuitEnabled        bool
	NATSCircuitFailureCount   int
	NATSCircuitOpenTimeout    time.Duration
	NATSCircuitHalfOpenMaxReq int
	UptraceEnabled            bool
	UptraceDSN                string
	UptraceLogsEnabled        bool
	PyroscopeEnabled          bool
	PyroscopeServerAddress    string
	PyroscopeAppName          string
	PyroscopeAuthToken        string
	PyroscopeUploadRate       time.Duration
	MetricsEnabled            bool
	MetricsAddr               string
}

// MemoryMode reports whether the engine runs on in-memory repositories.
func (c Config) MemoryMode() bool {
	return strings.TrimSpace(c.DBURL) == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	dbMaxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if dbMaxIdleConns < 0 || dbMaxIdleConns > dbMaxOpenConns {
		return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	dbConnMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
	}
	if dbConnMaxLifetime <= 0 {
		return Config{}, fmt.Errorf("DB_CONN_MAX_LIFETIME must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	rosterMatchThreshold, err := strconv.ParseFloat(strings.TrimSpace(getEnv("ROSTER_MATCH_THRESHOLD", "0.8")), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_MATCH_THRESHOLD: %w", err)
	}
	if rosterMatchThreshold <= 0 || rosterMatchThreshold > 1 {
		return Config{}, fmt.Errorf("ROSTER_MATCH_THRESHOLD must be in (0, 1]")
	}

	projectorWorkers, err := getEnvAsInt("PROJECTOR_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROJECTOR_WORKERS: %w", err)
	}
	if projectorWorkers < 1 {
		return Config{}, fmt.Errorf("PROJECTOR_WORKERS must be >= 1")
	}
	projectorInterval, err := time.ParseDuration(getEnv("PROJECTOR_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROJECTOR_INTERVAL: %w", err)
	}
	if projectorInterval <= 0 {
		return Config{}, fmt.Errorf("PROJECTOR_INTERVAL must be > 0")
	}

	natsEnabled, err := strconv.ParseBool(getEnv("NATS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_ENABLED: %w", err)
	}
	natsURL := strings.TrimSpace(getEnv("NATS_URL", "nats://127.0.0.1:4222"))
	if natsEnabled && natsURL == "" {
		return Config{}, fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	natsCircuitEnabled, err := strconv.ParseBool(getEnv("NATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_CIRCUIT_ENABLED: %w", err)
	}
	natsCircuitFailureCount, err := getEnvAsInt("NATS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if natsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	natsCircuitOpenTimeout, err := time.ParseDuration(getEnv("NATS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if natsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	natsCircuitHalfOpenMaxReq, err := getEnvAsInt("NATS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if natsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	metricsAddr := strings.TrimSpace(getEnv("METRICS_ADDR", ""))
	if metricsEnabled && metricsAddr == "" {
		metricsAddr = ":9090"
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "league-engine"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                  parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                     strings.TrimSpace(os.Getenv("DB_URL")),
		DBDisablePreparedBinary:   dbDisablePreparedBinary,
		DBMaxOpenConns:            dbMaxOpenConns,
		DBMaxIdleConns:            dbMaxIdleConns,
		DBConnMaxLifetime:         dbConnMaxLifetime,
		CacheEnabled:              cacheEnabled,
		CacheTTL:                  cacheTTL,
		RosterMatchThreshold:      rosterMatchThreshold,
		ProjectorWorkers:          projectorWorkers,
		ProjectorInterval:         projectorInterval,
		ProjectorLeagueIDs:        splitCSV(getEnv("PROJECTOR_LEAGUE_IDS", "")),
		NATSEnabled:               natsEnabled,
		NATSURL:                   natsURL,
		NATSSubjectPrefix:         strings.TrimSpace(getEnv("NATS_SUBJECT_PREFIX", "league-engine")),
		NATSCircuitEnabled:        natsCircuitEnabled,
		NATSCircuitFailureCount:   natsCircuitFailureCount,
		NATSCircuitOpenTimeout:    natsCircuitOpenTimeout,
		NATSCircuitHalfOpenMaxReq: natsCircuitHalfOpenMaxReq,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		UptraceLogsEnabled:        uptraceLogsEnabled,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    pyroscopeServerAddress,
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
		MetricsEnabled:            metricsEnabled,
		MetricsAddr:               metricsAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
