package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Product store
	Store StoreConfig

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Scoring model
	Scoring ScoringConfig

	// Rating recorder
	Recorder RecorderConfig

	// Alerts
	Notifier NotifierConfig

	// Scheduler
	Scheduler SchedulerConfig

	// HTTP API
	API APIConfig

	// Demo data
	Demo DemoConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   LogFileConfig
}

// StoreConfig selects the product repository implementation
type StoreConfig struct {
	Driver string // memory, postgres
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// 캐시/레이트리밋 전용이라 짧은 타임아웃 사용
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// pgx tracelog (debug 용)
	TraceQueries bool
}

// ScoringConfig points at an optional YAML scoring model
type ScoringConfig struct {
	ModelPath string // empty → 내장 기본 모델 사용
}

// RecorderConfig holds rating recorder configuration
type RecorderConfig struct {
	SQLitePath    string // empty → noop recorder
	RetentionDays int    // 이보다 오래된 스냅샷은 정리 작업에서 삭제 (0 = 보존)
}

// NotifierConfig holds status-change alert configuration
type NotifierConfig struct {
	TelegramToken  string
	TelegramChatID int64
	WebhookURL     string
}

// SchedulerConfig holds rescoring schedule configuration
type SchedulerConfig struct {
	Enabled         bool
	RescoreSchedule string // cron (seconds field 포함)
	RetryDelay      time.Duration
}

// APIConfig holds HTTP API configuration
type APIConfig struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// DemoConfig controls demo catalog seeding
type DemoConfig struct {
	Seed  bool
	Count int
}

// LogFileConfig holds rotating log file configuration
type LogFileConfig struct {
	Enabled       bool
	Path          string // logs directory
	MaxSizeMB     int
	RetentionDays int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
			TraceQueries:    getEnvAsBool("DB_TRACE_QUERIES", false),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),

			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", "2s"),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", "500ms"),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", "500ms"),
		},

		Scoring: ScoringConfig{
			ModelPath: getEnv("SCORING_MODEL_PATH", ""),
		},

		Recorder: RecorderConfig{
			SQLitePath:    getEnv("RECORDER_SQLITE_PATH", ""),
			RetentionDays: getEnvAsInt("RECORDER_RETENTION_DAYS", 180),
		},

		Notifier: NotifierConfig{
			TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID: getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
			WebhookURL:     getEnv("ALERT_WEBHOOK_URL", ""),
		},

		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", false),
			RescoreSchedule: getEnv("RESCORE_SCHEDULE", "0 0 */6 * * *"),
			RetryDelay:      getEnvAsDuration("SCHEDULER_RETRY_DELAY", "1m"),
		},

		API: APIConfig{
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"}),
			RateLimitPerMinute: getEnvAsInt("API_RATE_LIMIT_PER_MINUTE", 120),
		},

		Demo: DemoConfig{
			Seed:  getEnvAsBool("DEMO_SEED", false),
			Count: getEnvAsInt("DEMO_SEED_COUNT", 15),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile: LogFileConfig{
			Enabled:       getEnvAsBool("LOG_FILE_ENABLED", false),
			Path:          getEnv("LOG_FILE_PATH", "logs"),
			MaxSizeMB:     getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100),
			RetentionDays: getEnvAsInt("LOG_FILE_RETENTION_DAYS", 30),
		},
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		// Database URL is required for postgres store
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: memory, postgres")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Redis.Enabled && c.Redis.PoolSize < 1 {
		return fmt.Errorf("REDIS_POOL_SIZE must be at least 1 when REDIS_ENABLED=true")
	}

	if c.API.RateLimitPerMinute < 0 {
		return fmt.Errorf("API_RATE_LIMIT_PER_MINUTE must not be negative")
	}

	if c.Notifier.TelegramToken != "" && c.Notifier.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}

	return values
}
