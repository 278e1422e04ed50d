package persona

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// Built-in persona names. The registry keys built-ins by these names; the
// prompt file for each is prompts/<snake_case_name>.prompt.
const (
	CodeQualitySpecialist = "Code Quality Specialist"
	BugHunter             = "Bug Hunter"
)

var builtinFocus = map[string]string{
	CodeQualitySpecialist: "Code maintainability and best practices",
	BugHunter:             "Potential bugs and edge cases",
}

// Defaults builds the registry of built-in personas from the embedded prompt
// templates. Registration order is fixed: Code Quality Specialist first,
// then Bug Hunter.
func Defaults() (*Registry, error) {
	personas := make([]Persona, 0, len(builtinFocus))
	for _, name := range []string{CodeQualitySpecialist, BugHunter} {
		tmpl, err := loadPromptTemplate(name)
		if err != nil {
			return nil, err
		}
		p := Persona{Template: tmpl}
		p.Name = name
		p.Focus = builtinFocus[name]
		personas = append(personas, p)
	}
	return NewRegistry(personas...)
}

// loadPromptTemplate reads and parses the embedded prompt file for a persona.
func loadPromptTemplate(name string) (*template.Template, error) {
	fileName := promptFileName(name)
	content, err := promptFiles.ReadFile("prompts/" + fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", fileName, err)
	}
	tmpl, err := template.New(fileName).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("could not parse prompt template %s: %w", fileName, err)
	}
	return tmpl, nil
}

func promptFileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".prompt"
}
