package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Region    RegionConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	RetryAttempts       int
	RetryBackoff        time.Duration
	HealthProbeInterval time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port          int
	Env           string
	LogLevel      string
	Timezone      string
	DefaultLocale string
	CORSOrigins   []string
}

// StorageConfig describes where uploaded photos live and how they are served.
type StorageConfig struct {
	Type          string
	BasePath      string
	BaseURL       string
	MaxUploadSize int64
}

// KafkaConfig enables attendance event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	retryAttempts, err := strconv.Atoi(getEnv("DB_RETRY_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RETRY_ATTEMPTS: %w", err)
	}
	retryBackoff, err := getDurationEnv("DB_RETRY_BACKOFF", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	probeInterval, err := getDurationEnv("HEALTH_PROBE_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:                getEnv("DB_HOST", "localhost"),
		Port:                dbPort,
		User:                getEnv("DB_USER", "postgres"),
		Password:            getEnv("DB_PASSWORD", ""),
		Name:                getEnv("DB_NAME", "attendance"),
		SSLMode:             getEnv("DB_SSL_MODE", "disable"),
		RetryAttempts:       retryAttempts,
		RetryBackoff:        retryBackoff,
		HealthProbeInterval: probeInterval,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:          appPort,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		DefaultLocale: getEnv("APP_DEFAULT_LOCALE", "id"),
		CORSOrigins:   getEnvSlice("APP_CORS_ORIGINS"),
	}
	if len(config.App.CORSOrigins) == 0 {
		config.App.CORSOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Storage configuration
	maxUpload, err := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "5242880"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_MAX_UPLOAD_SIZE: %w", err)
	}
	config.Storage = StorageConfig{
		Type:          getEnv("STORAGE_TYPE", "local"),
		BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		MaxUploadSize: maxUpload,
	}

	// Operating region
	region, err := loadRegion()
	if err != nil {
		return nil, err
	}
	config.Region = region

	// Kafka
	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_ATTENDANCE_TOPIC", "attendance.events"),
	}

	// Rate limiting for public auth endpoints
	rps, err := getFloatEnv("RATE_LIMIT_RPS", 1)
	if err != nil {
		return nil, err
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Database.RetryAttempts < 1 {
		return fmt.Errorf("DB_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_UPLOAD_SIZE must be positive")
	}
	if err := c.Region.Validate(); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
