// Package config handles loading and validating proxy configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides. Nested keys
// are separated by a double underscore:
//
//	CREATORPROXY_SERVER__PORT            -> server.port
//	CREATORPROXY_PROVIDERS__GROQ__MODEL  -> providers.groq.model
const EnvPrefix = "CREATORPROXY_"

// Config is the top-level configuration for the creatorproxy server.
type Config struct {
	Server     ServerConfig              `koanf:"server"`
	Logging    LoggingConfig             `koanf:"logging"`
	Upstream   UpstreamConfig            `koanf:"upstream"`
	Generation GenerationConfig          `koanf:"generation"`
	Providers  map[string]ProviderConfig `koanf:"providers"`
	YouTube    YouTubeConfig             `koanf:"youtube"`
	Speech     SpeechConfig              `koanf:"speech"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig controls the slog level: debug, info, warn or error.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// UpstreamConfig holds settings shared by every outbound call.
type UpstreamConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// GenerationConfig holds the text-generation defaults applied to every
// provider unless a provider entry overrides them.
type GenerationConfig struct {
	// DefaultSystem is the persona used when the caller sends no system
	// instruction.
	DefaultSystem string `koanf:"default_system"`
	MaxTokens     int    `koanf:"max_tokens"`
}

// ProviderConfig overrides the connection settings for one LLM provider,
// keyed by provider id (gemini, groq, openai, claude, ollama). Zero values
// keep the provider's built-in defaults.
type ProviderConfig struct {
	BaseURL   string `koanf:"base_url"`
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"max_tokens"`
}

// YouTubeConfig holds YouTube Data API settings.
type YouTubeConfig struct {
	BaseURL     string `koanf:"base_url"`
	SearchOrder string `koanf:"search_order"`
}

// SpeechConfig holds ElevenLabs settings.
type SpeechConfig struct {
	BaseURL string `koanf:"base_url"`
	ModelID string `koanf:"model_id"`
}

// defaults is the bottom layer of every load. Keys use koanf's "." paths.
func defaults() map[string]any {
	return map[string]any{
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "150s",
		"server.shutdown_timeout": "10s",

		"logging.level": "info",

		"upstream.timeout": "2m",

		"generation.default_system": "You are an expert YouTube content strategist.",
		"generation.max_tokens":     4000,

		"youtube.base_url":     "https://www.googleapis.com/youtube/v3",
		"youtube.search_order": "viewCount",

		"speech.base_url": "https://api.elevenlabs.io/v1",
		"speech.model_id": "eleven_monolingual_v1",
	}
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	k := koanf.New(".")
	// confmap over a literal map cannot fail.
	_ = k.Load(confmap.Provider(defaults(), "."), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

// Load layers the built-in defaults, an optional YAML file, a .env file and
// CREATORPROXY_ environment variables, in that order, and returns the
// resulting Config. An empty path skips the YAML layer.
func Load(path string) (*Config, error) {
	// Load .env file into the process environment (ignored if not present).
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Expand ${VAR_NAME} placeholders in any string value. koanf doesn't do
	// this automatically.
	for _, key := range k.Keys() {
		s, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
			continue
		}
		if err := k.Set(key, os.Getenv(s[2:len(s)-1])); err != nil {
			return nil, fmt.Errorf("expanding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration values that would make the server unusable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
