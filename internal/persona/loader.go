package persona

import (
	"errors"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/review-council/internal/core"
)

// ErrPersonasFileNotFound is returned when the optional personas file does
// not exist. Callers treat it as "use the built-ins only".
var ErrPersonasFileNotFound = errors.New("personas file not found")

// personaFile is the on-disk shape of a custom personas file.
type personaFile struct {
	Personas []struct {
		Name   string `yaml:"name"`
		Focus  string `yaml:"focus"`
		Prompt string `yaml:"prompt"`
	} `yaml:"personas"`
}

// LoadFile reads additional personas from a YAML file and returns them ready
// for registration. Each entry needs a name, a focus label, and a prompt
// template body; the template receives {{.Code}}.
func LoadFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPersonasFileNotFound
		}
		return nil, fmt.Errorf("failed to read personas file %s: %w", path, err)
	}

	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse personas file %s: %w", path, err)
	}

	personas := make([]Persona, 0, len(file.Personas))
	for _, entry := range file.Personas {
		if entry.Prompt == "" {
			return nil, &core.ConfigurationError{
				Reason: fmt.Sprintf("persona %q in %s has no prompt", entry.Name, path),
			}
		}
		tmpl, err := template.New(entry.Name).Parse(entry.Prompt)
		if err != nil {
			return nil, &core.ConfigurationError{
				Reason: fmt.Sprintf("persona %q in %s has an invalid prompt template: %v", entry.Name, path, err),
			}
		}
		p := Persona{Template: tmpl}
		p.Name = entry.Name
		p.Focus = entry.Focus
		personas = append(personas, p)
	}
	return personas, nil
}
