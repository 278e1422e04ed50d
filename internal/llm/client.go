// Package llm provides the generation backend client used to run review
// personas and the parser that turns their raw output into structured
// findings.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/review-council/internal/config"
)

// Client wraps a goframe LLM model behind a single prompt-completion call.
type Client struct {
	model   llms.Model
	genOpts []llms.CallOption
	logger  *slog.Logger
}

// NewClient creates the appropriate LLM client based on the configured
// provider. The configured generation parameters (max tokens, temperature)
// are applied to every completion call.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	model, err := createModel(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Client{
		model: model,
		genOpts: []llms.CallOption{
			llms.WithMaxTokens(cfg.MaxTokens),
			llms.WithTemperature(cfg.Temperature),
		},
		logger: logger,
	}, nil
}

// NewClientWithModel wraps an existing model with the provider's own default
// generation parameters. Used by tests and callers that manage provider setup
// themselves.
func NewClientWithModel(model llms.Model, logger *slog.Logger) *Client {
	return &Client{model: model, logger: logger}
}

// Complete sends a single prompt to the backend and returns its raw text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.genOpts...)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	return response, nil
}

// newGenerationHTTPClient creates an HTTP client with longer timeouts for
// generation requests. Local models can take a while to produce a full
// review, so we need more generous timeouts.
func newGenerationHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}

// createModel creates the configured LLM provider.
func createModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "gemini":
		logger.Info("using Gemini LLM provider", "model", cfg.GeneratorModelName)
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.GeneratorModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)

	case "ollama":
		logger.Info("using Ollama LLM provider", "model", cfg.GeneratorModelName, "host", cfg.OllamaHost)
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithModel(cfg.GeneratorModelName),
			ollama.WithHTTPClient(newGenerationHTTPClient()),
			ollama.WithLogger(logger),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
