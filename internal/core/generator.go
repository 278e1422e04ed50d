package core

import "context"

// Generator is the single capability required from the outside world: produce
// the raw review text for one persona and one code unit. Its implementation
// (model backend, static tool, human reviewer) is irrelevant to the pipeline.
type Generator interface {
	Invoke(ctx context.Context, persona PersonaDescriptor, code string) (string, error)
}
