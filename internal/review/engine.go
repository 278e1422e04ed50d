package review

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/review-council/internal/core"
	"github.com/sevigo/review-council/internal/persona"
)

// Engine dispatches one review run: every registered persona is launched
// concurrently against the same code unit, each with the full per-persona
// deadline, and their results are joined back in registry order.
type Engine struct {
	registry *persona.Registry
	runner   *Runner
	logger   *slog.Logger
}

// NewEngine creates an Engine over a registry and a persona runner.
func NewEngine(registry *persona.Registry, runner *Runner, logger *slog.Logger) *Engine {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Engine{registry: registry, runner: runner, logger: logger}
}

// Review runs all registered personas concurrently against the code unit and
// aggregates their results into a single report. A persona's failure or
// timeout never cancels or blocks its siblings; each goroutine owns its own
// result slot, so the join is the only synchronization point. Result order is
// always registry order, independent of completion order.
func (e *Engine) Review(ctx context.Context, code string) (*core.ReviewReport, error) {
	descriptors := e.registry.List()
	e.logger.Info("starting review run", "personas", len(descriptors))

	start := time.Now()
	results := make([]core.PersonaResult, len(descriptors))

	// Plain errgroup, not WithContext: one persona failing must not signal
	// the others, and the runner never returns an error anyway.
	var g errgroup.Group
	for i, desc := range descriptors {
		g.Go(func() error {
			results[i] = e.runner.Run(ctx, desc, code)
			return nil
		})
	}
	_ = g.Wait()

	report, err := Aggregate(descriptors, results)
	if err != nil {
		return nil, err
	}

	e.logger.Info("review run finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}
