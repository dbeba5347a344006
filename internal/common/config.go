package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDocumentPath is used when neither an argument nor DOCUMENT_PATH names a proposal.
const DefaultDocumentPath = "proposal.pdf"

// Config holds all application configuration
type Config struct {
	Document DocumentConfig
	Model    ModelConfig
	Database DatabaseConfig
	Server   ServerConfig
	Export   ExportConfig
	LogLevel slog.Level
}

// DocumentConfig holds proposal-document related configuration
type DocumentConfig struct {
	Path      string
	Pdftotext string
	MaxPages  int // 0 reads every page
}

// ModelConfig holds regression-model training configuration
type ModelConfig struct {
	Seed      int64
	Epochs    int
	BatchSize int
	Samples   int
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr        string
	ShutdownTimeout time.Duration
}

// ExportConfig holds export-related configuration
type ExportConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Path:      getEnv("DOCUMENT_PATH", DefaultDocumentPath),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxPages:  getEnvAsInt("DOCUMENT_MAX_PAGES", 0),
		},
		Model: ModelConfig{
			Seed:      getEnvAsInt64("MODEL_SEED", 0),
			Epochs:    getEnvAsInt("TRAIN_EPOCHS", 10),
			BatchSize: getEnvAsInt("TRAIN_BATCH_SIZE", 8),
			Samples:   getEnvAsInt("TRAIN_SAMPLES", 100),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_CONNS", 4),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr:        getEnv("GRPC_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("GRPC_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Export: ExportConfig{
			Path: getEnv("EXPORT_PATH", "quotations.xlsx"),
		},
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
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

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(value))); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Document.Path) == "" {
		return NewAppError("CONFIG_ERROR", "DOCUMENT_PATH is required", ErrInvalidInput)
	}
	if c.Document.MaxPages < 0 {
		return NewAppError("CONFIG_ERROR", "DOCUMENT_MAX_PAGES must not be negative", ErrInvalidInput)
	}
	if c.Model.Epochs <= 0 {
		return NewAppError("CONFIG_ERROR", "TRAIN_EPOCHS must be positive", ErrInvalidInput)
	}
	if c.Model.BatchSize <= 0 {
		return NewAppError("CONFIG_ERROR", "TRAIN_BATCH_SIZE must be positive", ErrInvalidInput)
	}
	if c.Model.Samples < 2 {
		return NewAppError("CONFIG_ERROR", "TRAIN_SAMPLES must be at least 2", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}

// NewLogger builds the JSON slog logger every binary uses. Output goes to stderr so
// stdout stays reserved for the quotation line.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
