package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Storage      StorageConfig
	JWT          JWTConfig
	Notification NotificationConfig
	Policy       PolicyConfig
	Cron         CronConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// StorageConfig picks the repository backend.
type StorageConfig struct {
	Driver string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type NotificationConfig struct {
	WorkerCount   int
	BatchSize     int
	FlushInterval time.Duration
	QueueSize     int
}

// PolicyConfig carries the business knobs of the time-off rules.
type PolicyConfig struct {
	OvertimeMultiplier decimal.Decimal
}

type CronConfig struct {
	Enabled             bool
	OnLeaveSyncInterval time.Duration
}

// Load reads the environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hris_timeoff"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		AutoMigrate: autoMigrate,
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	workers, err := getEnvInt("NOTIFICATION_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("NOTIFICATION_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("NOTIFICATION_QUEUE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	flushInterval, err := getEnvDuration("NOTIFICATION_FLUSH_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}
	config.Notification = NotificationConfig{
		WorkerCount:   workers,
		BatchSize:     batchSize,
		FlushInterval: flushInterval,
		QueueSize:     queueSize,
	}

	multiplier, err := decimal.NewFromString(getEnv("OVERTIME_MULTIPLIER", "1.5"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_MULTIPLIER: %w", err)
	}
	config.Policy = PolicyConfig{OvertimeMultiplier: multiplier}

	cronEnabled, err := getEnvBool("CRON_ENABLED", true)
	if err != nil {
		return nil, err
	}
	syncInterval, err := getEnvDuration("CRON_ON_LEAVE_SYNC_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		Enabled:             cronEnabled,
		OnLeaveSyncInterval: syncInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if !c.Policy.OvertimeMultiplier.IsPositive() {
		return fmt.Errorf("OVERTIME_MULTIPLIER must be positive")
	}
	if c.Notification.WorkerCount < 1 || c.Notification.BatchSize < 1 || c.Notification.QueueSize < 1 {
		return fmt.Errorf("notification workers, batch size and queue size must be positive")
	}
	if c.Cron.Enabled && c.Cron.OnLeaveSyncInterval <= 0 {
		return fmt.Errorf("CRON_ON_LEAVE_SYNC_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
