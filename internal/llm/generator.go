package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/review-council/internal/core"
)

// PromptRenderer builds the full prompt for a persona and a code unit.
// The persona registry satisfies it.
type PromptRenderer interface {
	Render(persona core.PersonaDescriptor, code string) (string, error)
}

// Generator implements core.Generator on top of the LLM client: it renders
// the persona's prompt template around the code under review and performs a
// single completion call.
type Generator struct {
	client  *Client
	prompts PromptRenderer
	logger  *slog.Logger
}

// NewGenerator creates a Generator backed by the given client and prompt
// renderer.
func NewGenerator(client *Client, prompts PromptRenderer, logger *slog.Logger) *Generator {
	return &Generator{client: client, prompts: prompts, logger: logger}
}

// Invoke produces the raw review text for one persona and one code unit.
func (g *Generator) Invoke(ctx context.Context, persona core.PersonaDescriptor, code string) (string, error) {
	prompt, err := g.prompts.Render(persona, code)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	g.logger.Debug("invoking generation backend", "persona", persona.Name)
	return g.client.Complete(ctx, prompt)
}
