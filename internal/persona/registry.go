// Package persona defines the review personas and the registry that fixes
// their identity and ordering for a review run.
package persona

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/sevigo/review-council/internal/core"
)

// Persona couples a descriptor with the prompt template used to instruct the
// generation backend. The template receives a single field, Code.
type Persona struct {
	core.PersonaDescriptor
	Template *template.Template
}

// Registry is an immutable, ordered collection of personas. Order is the
// registration order and determines the order of results in the final report.
type Registry struct {
	personas []Persona
	byName   map[string]int // lowercased name -> index
}

// NewRegistry builds a registry from the given personas. Duplicate names
// (case-insensitive) fail fast with a ConfigurationError; dispatch never sees
// an ambiguous registry.
func NewRegistry(personas ...Persona) (*Registry, error) {
	r := &Registry{
		personas: make([]Persona, 0, len(personas)),
		byName:   make(map[string]int, len(personas)),
	}
	for _, p := range personas {
		if err := r.add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(p Persona) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return &core.ConfigurationError{Reason: "persona name cannot be empty"}
	}
	if p.Template == nil {
		return &core.ConfigurationError{Reason: fmt.Sprintf("persona %q has no prompt template", name)}
	}
	key := strings.ToLower(name)
	if _, exists := r.byName[key]; exists {
		return &core.ConfigurationError{Reason: fmt.Sprintf("duplicate persona name: %q", name)}
	}
	r.byName[key] = len(r.personas)
	r.personas = append(r.personas, p)
	return nil
}

// With returns a new registry extended by the given persona, leaving the
// receiver untouched.
func (r *Registry) With(p Persona) (*Registry, error) {
	return NewRegistry(append(append([]Persona{}, r.personas...), p)...)
}

// List returns the persona descriptors in registration order. The returned
// slice is a copy; the registry itself never changes after construction.
func (r *Registry) List() []core.PersonaDescriptor {
	descs := make([]core.PersonaDescriptor, len(r.personas))
	for i, p := range r.personas {
		descs[i] = p.PersonaDescriptor
	}
	return descs
}

// Len returns the number of registered personas.
func (r *Registry) Len() int {
	return len(r.personas)
}

// Select returns a sub-registry containing only the named personas,
// matched case-insensitively against full names or leading substrings
// (so "bug hunter" and "code quality" both resolve). Registration order is
// preserved regardless of the order names are given in.
func (r *Registry) Select(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	selected := make([]Persona, 0, len(names))
	for _, p := range r.personas {
		lower := strings.ToLower(p.Name)
		for _, want := range names {
			if strings.HasPrefix(lower, strings.ToLower(strings.TrimSpace(want))) {
				selected = append(selected, p)
				break
			}
		}
	}
	if len(selected) == 0 {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("no matching personas found for %v", names)}
	}
	return NewRegistry(selected...)
}

// Render executes the named persona's prompt template against the code under
// review and returns the full prompt text.
func (r *Registry) Render(desc core.PersonaDescriptor, code string) (string, error) {
	idx, ok := r.byName[strings.ToLower(desc.Name)]
	if !ok {
		return "", fmt.Errorf("unknown persona: %q", desc.Name)
	}
	var buf strings.Builder
	if err := r.personas[idx].Template.Execute(&buf, struct{ Code string }{Code: code}); err != nil {
		return "", fmt.Errorf("failed to render prompt for persona %q: %w", desc.Name, err)
	}
	return buf.String(), nil
}
