package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SaloAlex/clasharena/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	DBURL          string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	RiotBaseURL             string
	RiotAPIKey              string
	RiotTimeout             time.Duration
	RiotMaxRetries          int
	RiotRateLimit           int
	RiotRateWindow          time.Duration
	RiotCircuitEnabled      bool
	RiotCircuitFailureCount int
	RiotCircuitOpenTimeout  time.Duration
	RiotCircuitProbeBudget  int

	ScanIDPageSize    int
	ScanDetailWorkers int
	InternalJobToken  string

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	riotAPIKey := strings.TrimSpace(getEnv("RIOT_API_KEY", ""))
	riotTimeout, err := time.ParseDuration(getEnv("RIOT_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_TIMEOUT: %w", err)
	}
	if riotTimeout <= 0 {
		return Config{}, fmt.Errorf("RIOT_TIMEOUT must be > 0")
	}
	riotMaxRetries, err := getEnvAsInt("RIOT_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_MAX_RETRIES: %w", err)
	}
	if riotMaxRetries < 0 {
		return Config{}, fmt.Errorf("RIOT_MAX_RETRIES must be >= 0")
	}

	riotRateLimit, err := getEnvAsInt("RIOT_RATE_LIMIT", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_RATE_LIMIT: %w", err)
	}
	if riotRateLimit <= 0 {
		return Config{}, fmt.Errorf("RIOT_RATE_LIMIT must be > 0")
	}
	riotRateWindow, err := time.ParseDuration(getEnv("RIOT_RATE_WINDOW", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_RATE_WINDOW: %w", err)
	}
	if riotRateWindow <= 0 {
		return Config{}, fmt.Errorf("RIOT_RATE_WINDOW must be > 0")
	}

	riotCircuitEnabled, err := strconv.ParseBool(getEnv("RIOT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_ENABLED: %w", err)
	}
	riotCircuitFailureCount, err := getEnvAsInt("RIOT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	riotCircuitOpenTimeout, err := time.ParseDuration(getEnv("RIOT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	riotCircuitProbeBudget, err := getEnvAsInt("RIOT_CIRCUIT_PROBE_BUDGET", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_PROBE_BUDGET: %w", err)
	}

	scanIDPageSize, err := getEnvAsInt("SCAN_ID_PAGE_SIZE", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCAN_ID_PAGE_SIZE: %w", err)
	}
	if scanIDPageSize <= 0 || scanIDPageSize > 100 {
		return Config{}, fmt.Errorf("SCAN_ID_PAGE_SIZE must be in 1..100")
	}
	scanDetailWorkers, err := getEnvAsInt("SCAN_DETAIL_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCAN_DETAIL_WORKERS: %w", err)
	}
	if scanDetailWorkers <= 0 {
		return Config{}, fmt.Errorf("SCAN_DETAIL_WORKERS must be > 0")
	}

	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if appEnv == EnvProd && internalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required in prod")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "clasharena-api"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBURL:          strings.TrimSpace(getEnv("DATABASE_URL", "")),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		RiotBaseURL:             strings.TrimSpace(getEnv("RIOT_BASE_URL", "")),
		RiotAPIKey:              riotAPIKey,
		RiotTimeout:             riotTimeout,
		RiotMaxRetries:          riotMaxRetries,
		RiotRateLimit:           riotRateLimit,
		RiotRateWindow:          riotRateWindow,
		RiotCircuitEnabled:      riotCircuitEnabled,
		RiotCircuitFailureCount: riotCircuitFailureCount,
		RiotCircuitOpenTimeout:  riotCircuitOpenTimeout,
		RiotCircuitProbeBudget:  riotCircuitProbeBudget,

		ScanIDPageSize:    scanIDPageSize,
		ScanDetailWorkers: scanDetailWorkers,
		InternalJobToken:  internalJobToken,

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceCaptureRequestBody:  uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes: uptraceRequestBodyMaxBytes,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "clasharena-api"),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	return cfg, nil
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
