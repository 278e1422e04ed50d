// Package config loads the application's configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	LLMProvider        string
	OllamaHost         string
	GeminiAPIKey       string
	GeneratorModelName string
	MaxTokens          int
	Temperature        float64
	LogLevel           slog.Level
	LogFormat          string
	ReviewTimeout      time.Duration
	PersonasFile       string
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("LLM_PROVIDER", "ollama")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("GENERATOR_MODEL_NAME", "gemma3:latest")
	viper.SetDefault("MAX_TOKENS", 2000)
	viper.SetDefault("TEMPERATURE", 0.1)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("REVIEW_TIMEOUT", "2m")
	viper.SetDefault("PERSONAS_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	provider := strings.ToLower(viper.GetString("LLM_PROVIDER"))
	if provider != "ollama" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %q (expected ollama or gemini)", provider)
	}

	// Special handling for Gemini generator model name.
	generatorModel := viper.GetString("GENERATOR_MODEL_NAME")
	if provider == "gemini" {
		if viper.GetString("GEMINI_API_KEY") == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY must be set for the gemini provider")
		}
		geminiModel := viper.GetString("GEMINI_GENERATOR_MODEL_NAME")
		if geminiModel != "" {
			generatorModel = geminiModel
		} else if generatorModel == "gemma3:latest" {
			generatorModel = "gemini-2.5-flash"
		}
	}

	maxTokens := viper.GetInt("MAX_TOKENS")
	if maxTokens <= 0 {
		return nil, fmt.Errorf("MAX_TOKENS must be a positive integer, got %q", viper.GetString("MAX_TOKENS"))
	}
	temperature := viper.GetFloat64("TEMPERATURE")
	if temperature < 0 {
		return nil, fmt.Errorf("TEMPERATURE must not be negative, got %q", viper.GetString("TEMPERATURE"))
	}

	timeout := viper.GetDuration("REVIEW_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("REVIEW_TIMEOUT must be a positive duration, got %q", viper.GetString("REVIEW_TIMEOUT"))
	}

	return &Config{
		LLMProvider:        provider,
		OllamaHost:         viper.GetString("OLLAMA_HOST"),
		GeminiAPIKey:       viper.GetString("GEMINI_API_KEY"),
		GeneratorModelName: generatorModel,
		MaxTokens:          maxTokens,
		Temperature:        temperature,
		LogLevel:           parseLogLevel(viper.GetString("LOG_LEVEL")),
		LogFormat:          viper.GetString("LOG_FORMAT"),
		ReviewTimeout:      timeout,
		PersonasFile:       viper.GetString("PERSONAS_FILE"),
	}, nil
}

// parseLogLevel parses the log level string into a slog.Level type.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}
