package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"data/farmquest.db"`
	StorageBackend  string        `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	QuestionDataset string        `env:"QUESTION_DATASET" envDefault:"default"`
	QuestionLatency time.Duration `env:"QUESTION_LATENCY" envDefault:"0s"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"es"`
	LockGuard       bool          `env:"LOCK_GUARD" envDefault:"true"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	WebDir          string        `env:"WEB_DIR"`
}

// Load reads a .env file from the working directory when one exists, then
// parses the environment. Variables already set win over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.QuestionLatency < 0 {
		return fmt.Errorf("QUESTION_LATENCY must not be negative")
	}
	return nil
}
