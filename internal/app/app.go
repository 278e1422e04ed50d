// Package app initializes and orchestrates the main components of the
// application. It wires together configuration, the generation backend, the
// persona registry, and the review engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/review-council/internal/config"
	"github.com/sevigo/review-council/internal/llm"
	"github.com/sevigo/review-council/internal/persona"
	"github.com/sevigo/review-council/internal/review"
)

// App holds the main application components.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   *llm.Client
	Registry *persona.Registry
	Engine   *review.Engine
}

// NewApp sets up the application with all its dependencies: the configured
// LLM backend, the built-in personas (plus any from the optional personas
// file), and the review engine over them.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing review council",
		"provider", cfg.LLMProvider,
		"generator_model", cfg.GeneratorModelName,
		"review_timeout", cfg.ReviewTimeout,
	)

	client, err := llm.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	registry, err := persona.Defaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in personas: %w", err)
	}

	if cfg.PersonasFile != "" {
		extras, err := persona.LoadFile(cfg.PersonasFile)
		switch {
		case errors.Is(err, persona.ErrPersonasFileNotFound):
			logger.Warn("personas file not found, using built-ins only", "path", cfg.PersonasFile)
		case err != nil:
			return nil, fmt.Errorf("failed to load personas file: %w", err)
		default:
			for _, p := range extras {
				registry, err = registry.With(p)
				if err != nil {
					return nil, err
				}
			}
			logger.Info("loaded custom personas", "path", cfg.PersonasFile, "count", len(extras))
		}
	}

	a := &App{
		Cfg:    cfg,
		Logger: logger,
		Client: client,
	}
	a.rebuild(registry)
	return a, nil
}

// WithRegistry swaps the active persona registry and rewires the engine over
// it. Used by the CLI for persona selection and dynamic personas.
func (a *App) WithRegistry(registry *persona.Registry) *App {
	a.rebuild(registry)
	return a
}

func (a *App) rebuild(registry *persona.Registry) {
	a.Registry = registry
	generator := llm.NewGenerator(a.Client, registry, a.Logger)
	runner := review.NewRunner(generator, a.Cfg.ReviewTimeout, a.Logger)
	a.Engine = review.NewEngine(registry, runner, a.Logger)
}
