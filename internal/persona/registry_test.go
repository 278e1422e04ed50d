package persona

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-council/internal/core"
)

func testPersona(t *testing.T, name, focus string) Persona {
	t.Helper()
	p := Persona{Template: template.Must(template.New(name).Parse("review this:\n{{.Code}}"))}
	p.Name = name
	p.Focus = focus
	return p
}

func TestNewRegistry_DuplicateNameFailsFast(t *testing.T) {
	_, err := NewRegistry(
		testPersona(t, "Bug Hunter", "bugs"),
		testPersona(t, "bug hunter", "more bugs"),
	)
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "duplicate persona name")
}

func TestNewRegistry_RejectsInvalidPersonas(t *testing.T) {
	_, err := NewRegistry(testPersona(t, "  ", "empty name"))
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	noTemplate := Persona{}
	noTemplate.Name = "Ghost"
	_, err = NewRegistry(noTemplate)
	require.ErrorAs(t, err, &cfgErr)
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	reg, err := NewRegistry(
		testPersona(t, "Alpha", "a"),
		testPersona(t, "Beta", "b"),
		testPersona(t, "Gamma", "c"),
	)
	require.NoError(t, err)

	descs := reg.List()
	require.Len(t, descs, 3)
	assert.Equal(t, "Alpha", descs[0].Name)
	assert.Equal(t, "Beta", descs[1].Name)
	assert.Equal(t, "Gamma", descs[2].Name)

	// The returned slice is a copy.
	descs[0].Name = "mutated"
	assert.Equal(t, "Alpha", reg.List()[0].Name)
}

func TestRegistry_Select(t *testing.T) {
	reg, err := NewRegistry(
		testPersona(t, "Code Quality Specialist", "quality"),
		testPersona(t, "Bug Hunter", "bugs"),
	)
	require.NoError(t, err)

	t.Run("case-insensitive prefix match", func(t *testing.T) {
		sub, err := reg.Select([]string{"code quality"})
		require.NoError(t, err)
		require.Equal(t, 1, sub.Len())
		assert.Equal(t, "Code Quality Specialist", sub.List()[0].Name)
	})

	t.Run("registry order wins over selection order", func(t *testing.T) {
		sub, err := reg.Select([]string{"bug hunter", "code quality"})
		require.NoError(t, err)
		require.Equal(t, 2, sub.Len())
		assert.Equal(t, "Code Quality Specialist", sub.List()[0].Name)
	})

	t.Run("no selection returns full registry", func(t *testing.T) {
		sub, err := reg.Select(nil)
		require.NoError(t, err)
		assert.Equal(t, 2, sub.Len())
	})

	t.Run("no match is a configuration error", func(t *testing.T) {
		_, err := reg.Select([]string{"style guru"})
		var cfgErr *core.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestRegistry_Render(t *testing.T) {
	reg, err := NewRegistry(testPersona(t, "Alpha", "a"))
	require.NoError(t, err)

	prompt, err := reg.Render(core.PersonaDescriptor{Name: "alpha"}, "func main() {}")
	require.NoError(t, err)
	assert.Contains(t, prompt, "func main() {}")

	_, err = reg.Render(core.PersonaDescriptor{Name: "Unknown"}, "x")
	assert.Error(t, err)
}

func TestRegistry_With(t *testing.T) {
	reg, err := NewRegistry(testPersona(t, "Alpha", "a"))
	require.NoError(t, err)

	extended, err := reg.With(testPersona(t, "Beta", "b"))
	require.NoError(t, err)
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, 1, reg.Len())

	_, err = extended.With(testPersona(t, "alpha", "dup"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	reg, err := Defaults()
	require.NoError(t, err)

	descs := reg.List()
	require.Len(t, descs, 2)
	assert.Equal(t, CodeQualitySpecialist, descs[0].Name)
	assert.Equal(t, BugHunter, descs[1].Name)

	prompt, err := reg.Render(descs[1], "def f(): pass")
	require.NoError(t, err)
	assert.Contains(t, prompt, "def f(): pass")
	assert.Contains(t, prompt, "SEVERITY CLASSIFICATION")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "personas.yaml")
		content := `personas:
  - name: Style Guru
    focus: Formatting and naming
    prompt: |
      Review the following code for style only.
      {{.Code}}
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		personas, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, personas, 1)
		assert.Equal(t, "Style Guru", personas[0].Name)
		assert.Equal(t, "Formatting and naming", personas[0].Focus)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, ErrPersonasFileNotFound)
	})

	t.Run("missing prompt", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("personas:\n  - name: Empty\n    focus: x\n"), 0o600))
		_, err := LoadFile(path)
		var cfgErr *core.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestDescribe(t *testing.T) {
	t.Run("template with placeholder", func(t *testing.T) {
		completer := &fakeCompleter{response: "Review carefully.\n\nCode Under Review:\n{{.Code}}"}
		p, err := Describe(context.Background(), completer, "Perf Nerd", "Hot paths", "a performance-obsessed reviewer")
		require.NoError(t, err)
		assert.Equal(t, "Perf Nerd", p.Name)
		assert.Equal(t, "Hot paths", p.Focus)
		require.Len(t, completer.prompts, 1)
		assert.Contains(t, completer.prompts[0], "a performance-obsessed reviewer")

		reg, err := NewRegistry(p)
		require.NoError(t, err)
		prompt, err := reg.Render(p.PersonaDescriptor, "x := 1")
		require.NoError(t, err)
		assert.Contains(t, prompt, "x := 1")
	})

	t.Run("placeholder appended when missing", func(t *testing.T) {
		completer := &fakeCompleter{response: "Review carefully and report issues."}
		p, err := Describe(context.Background(), completer, "X", "y", "desc")
		require.NoError(t, err)

		reg, err := NewRegistry(p)
		require.NoError(t, err)
		prompt, err := reg.Render(p.PersonaDescriptor, "payload")
		require.NoError(t, err)
		assert.Contains(t, prompt, "payload")
	})

	t.Run("backend error propagates", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("boom")}
		_, err := Describe(context.Background(), completer, "X", "y", "desc")
		assert.Error(t, err)
	})

	t.Run("empty template rejected", func(t *testing.T) {
		completer := &fakeCompleter{response: "   "}
		_, err := Describe(context.Background(), completer, "X", "y", "desc")
		assert.Error(t, err)
	})
}
