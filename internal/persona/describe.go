package persona

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/sevigo/review-council/internal/core"
)

// Completer is the raw prompt-completion capability used for meta-prompting.
// The LLM client satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// metaPrompt asks the backend to synthesize a full review prompt template
// from a natural-language persona description.
const metaPrompt = `You are a helpful AI assistant skilled in prompt engineering.
Given this persona description, generate a step by step code review prompt template.
Persona description: %s

The template must contain the literal placeholder {{.Code}} exactly once where the code under review belongs.
Make sure to include sections like focus areas, methodology, output format, and examples.`

// Describe synthesizes a dynamic persona from a free-text description by
// meta-prompting the generation backend, then parses the produced text as a
// prompt template.
func Describe(ctx context.Context, completer Completer, name, focus, description string) (Persona, error) {
	raw, err := completer.Complete(ctx, fmt.Sprintf(metaPrompt, description))
	if err != nil {
		return Persona{}, fmt.Errorf("failed to generate prompt template for persona %q: %w", name, err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Persona{}, fmt.Errorf("backend returned an empty prompt template for persona %q", name)
	}
	if !strings.Contains(raw, "{{.Code}}") {
		// Some models describe the placeholder instead of emitting it.
		// Append a review section so the template is still usable.
		raw += "\n\nCode Under Review:\n{{.Code}}\n"
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return Persona{}, fmt.Errorf("generated prompt template for persona %q is invalid: %w", name, err)
	}

	p := Persona{Template: tmpl}
	p.PersonaDescriptor = core.PersonaDescriptor{Name: name, Focus: focus}
	return p, nil
}
