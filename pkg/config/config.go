package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	MailAPI   MailAPIConfig
	Matching  MatchingConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// ReplicaDSNs lists read-replica connection strings. Empty means all
	// reads go to the primary.
	ReplicaDSNs []string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// MailAPIConfig holds the external mail provider API configuration
type MailAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MatchingConfig holds matching pipeline configuration
type MatchingConfig struct {
	// MinScore is the minimum similarity for a candidate to become a match
	MinScore float64
	// TopK caps how many matches one run keeps
	TopK int
	// CandidateLimit caps the candidate pool read from storage
	CandidateLimit int
	// ScoringWorkers bounds the concurrent scoring fan-out within one run
	ScoringWorkers int
	// IgnoreListTTL is how long an ignore-list snapshot is served before a
	// refresh is forced
	IgnoreListTTL time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "freightquote"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			ReplicaDSNs: getEnvAsSlice("DB_REPLICA_DSNS"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		MailAPI: MailAPIConfig{
			BaseURL: getEnv("MAIL_API_URL", "http://localhost:9200"),
			APIKey:  getEnv("MAIL_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("MAIL_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Matching: MatchingConfig{
			MinScore:       getEnvAsFloat("MATCH_MIN_SCORE", 0.4),
			TopK:           getEnvAsInt("MATCH_TOP_K", 10),
			CandidateLimit: getEnvAsInt("MATCH_CANDIDATE_LIMIT", 500),
			ScoringWorkers: getEnvAsInt("MATCH_SCORING_WORKERS", 8),
			IgnoreListTTL:  time.Duration(getEnvAsInt("IGNORE_LIST_TTL_SECONDS", 300)) * time.Second,
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "freightquote-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
