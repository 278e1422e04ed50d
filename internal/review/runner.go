// Package review implements the orchestration pipeline: running personas
// concurrently against one code unit, aggregating their results, and
// rendering the final report.
package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/review-council/internal/core"
	"github.com/sevigo/review-council/internal/llm"
)

// Runner executes a single persona review with a per-call deadline and error
// capture. It invokes the generation backend exactly once per call; retry
// policy, if ever needed, belongs to a decorator around it.
type Runner struct {
	gen     core.Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a Runner. If timeout is 0 or negative it defaults to
// 2 minutes.
func NewRunner(gen core.Generator, timeout time.Duration, logger *slog.Logger) *Runner {
	if gen == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Runner{gen: gen, timeout: timeout, logger: logger}
}

// Run invokes the backend for one persona and converts the outcome into a
// PersonaResult. Failures are classified and isolated here; Run never returns
// an error, so one persona's trouble cannot leak out of its own result.
func (r *Runner) Run(ctx context.Context, persona core.PersonaDescriptor, code string) core.PersonaResult {
	result := core.PersonaResult{Persona: persona}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	raw, err := r.gen.Invoke(callCtx, persona, code)
	if err != nil {
		kind, reason := classifyFailure(ctx, callCtx, err)
		r.logger.Warn("persona review failed",
			"persona", persona.Name,
			"kind", string(kind),
			"error", err,
		)
		result.FailureKind = kind
		result.FailureReason = reason
		return result
	}

	if strings.TrimSpace(raw) == "" {
		result.FailureKind = core.FailureEmpty
		result.FailureReason = "backend returned an empty response"
		return result
	}

	findings, stats := llm.ParseFindings(raw)
	result.Findings = findings
	result.Degraded = stats.Degraded

	r.logger.Info("persona review completed",
		"persona", persona.Name,
		"findings", len(findings),
		"skipped_blocks", stats.Skipped,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result
}

// classifyFailure maps an invocation error onto the failure taxonomy. Any
// ended outer context means the whole run stopped, whether by Ctrl-C or a
// caller deadline, and is reported as cancelled; only the per-persona
// deadline counts as a timeout.
func classifyFailure(outer, call context.Context, err error) (core.FailureKind, string) {
	switch {
	case outer.Err() != nil:
		return core.FailureCancelled, "review run was cancelled"
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(call.Err(), context.DeadlineExceeded):
		return core.FailureTimeout, "backend call exceeded the review deadline"
	case errors.Is(err, context.Canceled):
		return core.FailureCancelled, "review run was cancelled"
	default:
		return core.FailureBackend, err.Error()
	}
}
