package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Port           string   `validate:"required,numeric"`
	Env            string   `validate:"required"`
	ReviewRoute    string   `validate:"required,startswith=/"`
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type ProviderConfig struct {
	Name    string        `validate:"required,oneof=openrouter gemini"`
	APIKey  string        `validate:"required"`
	Model   string        `validate:"required"`
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type StorageConfig struct {
	MaxFileSize int64 `validate:"gt=0"`
}

type WorkerConfig struct {
	Concurrency       int `validate:"gt=0"`
	QueueSize         int `validate:"gte=0"`
	RetryMaxAttempts  int `validate:"gt=0"`
	RetryInitialDelay time.Duration
}

type ClientConfig struct {
	RevealInterval time.Duration `validate:"gt=0"`
}

// Load reads the environment (and .env when present) and fails fast on
// missing credentials or origins.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using environment and default values.")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("ENV", "development"),
			ReviewRoute:    getEnv("REVIEW_ROUTE", "/api/review"),
			AllowedOrigins: getEnvAsList("CORS_URL"),
		},
		Provider: ProviderConfig{
			Name:    strings.ToLower(getEnv("LLM_PROVIDER", "openrouter")),
			APIKey:  getEnv("API_KEY", ""),
			Model:   getEnv("MODEL", "openai/gpt-4o"),
			BaseURL: getEnv("PROVIDER_BASE_URL", "https://openrouter.ai/api/v1"),
			Timeout: getEnvAsDuration("PROVIDER_TIMEOUT", "60s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 4),
			QueueSize:         getEnvAsInt("WORKER_QUEUE_SIZE", 16),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 2),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "1s"),
		},
		Client: ClientConfig{
			RevealInterval: getEnvAsDuration("REVEAL_INTERVAL", "10ms"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, origin := range c.Server.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid configuration: CORS_URL entry %q is not an http(s) origin", origin)
		}
		if u.Path != "" && u.Path != "/" {
			return fmt.Errorf("invalid configuration: CORS_URL entry %q must not contain a path", origin)
		}
	}

	return nil
}

// reviewOverhead covers upload parsing and extraction around the provider call.
const reviewOverhead = 15 * time.Second

// ReviewTimeout bounds one review request end to end. PROVIDER_TIMEOUT is a
// single budget shared by every retry attempt, so it is not multiplied.
func (c *Config) ReviewTimeout() time.Duration {
	return c.Provider.Timeout + reviewOverhead
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// CORSOrigins renders the allowed origins in the comma-separated form fiber's
// cors middleware expects.
func (c *Config) CORSOrigins() string {
	origins := make([]string, 0, len(c.Server.AllowedOrigins))
	for _, origin := range c.Server.AllowedOrigins {
		origins = append(origins, strings.TrimSuffix(origin, "/"))
	}
	return strings.Join(origins, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var values []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
