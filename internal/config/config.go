package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from an optional YAML
// file (CONFIG_FILE) overridden by environment variables.
type Config struct {
	DatabaseURL      string `yaml:"database_url"`
	ServerPort       string `yaml:"server_port"`
	FrontendURL      string `yaml:"frontend_url"`
	OpenAIKey        string `yaml:"openai_api_key"`
	AIModel          string `yaml:"ai_model"`
	AIBaseURL        string `yaml:"ai_base_url"`
	OIDCIssuer       string `yaml:"oidc_issuer"`
	OIDCAudience     string `yaml:"oidc_audience"`
	JWKSURL          string `yaml:"jwks_url"`
	RedisURL         string `yaml:"redis_url"`
	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQPrefetch int    `yaml:"rabbitmq_prefetch"`
	RateLimit        string `yaml:"rate_limit"`
	EnableHSTS       bool   `yaml:"enable_hsts"`
	ServerDebugMode  bool   `yaml:"server_debug_mode"`
	WorkerDebugMode  bool   `yaml:"worker_debug_mode"`
	OTELEnabled      bool   `yaml:"otel_enabled"`
	OTELEndpoint     string `yaml:"otel_endpoint"`
}

// Load builds configuration from the optional config file plus environment
// overrides and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       "8080",
		FrontendURL:      "http://localhost:3000",
		RedisURL:         "redis://localhost:6379/0",
		RabbitMQPrefetch: 1,
		RateLimit:        "5-S",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.OIDCIssuer = getEnv("OIDC_ISSUER", cfg.OIDCIssuer)
	cfg.OIDCAudience = getEnv("OIDC_AUDIENCE", cfg.OIDCAudience)
	cfg.JWKSURL = getEnv("JWKS_URL", cfg.JWKSURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.RabbitMQPrefetch = getEnvInt("RABBITMQ_PREFETCH", cfg.RabbitMQPrefetch)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.WorkerDebugMode = getEnvBool("WORKER_DEBUG_MODE", cfg.WorkerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OIDCIssuer == "" {
		return nil, fmt.Errorf("OIDC_ISSUER is required")
	}
	if cfg.JWKSURL == "" {
		// Cognito and most providers publish keys at the standard location.
		cfg.JWKSURL = cfg.OIDCIssuer + "/.well-known/jwks.json"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
