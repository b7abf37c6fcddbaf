package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Jobs     JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL           string
	Password      string
	SignerViewTTL time.Duration
}

// JWTConfig holds staff JWT configuration
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// SecurityConfig holds the bcrypt hash of the admin API key
// (generate with cmd/hash-gen)
type SecurityConfig struct {
	AdminAPIKeyHash string
}

// JobsConfig holds background job tuning
type JobsConfig struct {
	ExpirySweepInterval time.Duration
	ExpirySweepBatch    int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "charterops"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			SignerViewTTL: getEnvAsDuration("SIGNER_VIEW_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Security: SecurityConfig{
			AdminAPIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Jobs: JobsConfig{
			ExpirySweepInterval: getEnvAsDuration("CONTRACT_EXPIRY_SWEEP_INTERVAL", 30*time.Second),
			ExpirySweepBatch:    getEnvAsInt("CONTRACT_EXPIRY_SWEEP_BATCH", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
