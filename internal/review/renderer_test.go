package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-council/internal/core"
)

func sampleReport() *core.ReviewReport {
	return &core.ReviewReport{
		TotalPersonas: 2,
		Succeeded:     1,
		Failed:        1,
		Results: []core.PersonaResult{
			{
				Persona: core.PersonaDescriptor{Name: "Bug Hunter", Focus: "Logic errors"},
				Findings: []core.Finding{{
					Title:              "Missing error check",
					Severity:           core.SeverityCritical,
					Confidence:         95,
					Category:           "Bug",
					Explanation:        "the error is discarded.",
					Impact:             "failures go unnoticed.",
					Remediation:        "handle the error.",
					Example:            "if err != nil {\n\treturn err\n}",
					ValidationQuestion: "What happens when the call fails?",
				}},
			},
			{
				Persona:       core.PersonaDescriptor{Name: "Style Guru", Focus: "Formatting"},
				FailureKind:   core.FailureBackend,
				FailureReason: "model unavailable",
			},
		},
	}
}

const renderedSampleReport = `# 🔍 Multi-Persona Code Review Report

📊 **Review Summary:**
- ✅ Successful reviews: 1
- ❌ Failed reviews: 1

---

## 🤖 Bug Hunter - Logic errors

### 1. Missing error check

- **Severity:** 🔴 Critical
- **Confidence:** 95%
- **Category:** Bug
- **Explanation:** the error is discarded.
- **Impact:** failures go unnoticed.
- **Remediation:** handle the error.

**Example:**

` + "```" + `
if err != nil {
	return err
}
` + "```" + `

**Validation Question:** What happens when the call fails?

---

## ❌ Style Guru - ERROR

Review failed (backend_error): model unavailable

---

`

func TestRenderReport_Layout(t *testing.T) {
	assert.Equal(t, renderedSampleReport, RenderReport(sampleReport()))
}

// Equal reports render to byte-identical text.
func TestRenderReport_Deterministic(t *testing.T) {
	first := RenderReport(sampleReport())
	second := RenderReport(sampleReport())
	assert.Equal(t, first, second)
}

func TestRenderReport_DegradedCaveat(t *testing.T) {
	report := &core.ReviewReport{
		TotalPersonas: 1,
		Succeeded:     1,
		Results: []core.PersonaResult{{
			Persona:  core.PersonaDescriptor{Name: "Bug Hunter", Focus: "Logic errors"},
			Findings: []core.Finding{{Title: "Vague output", Severity: core.SeverityInfo}},
			Degraded: true,
		}},
	}

	rendered := RenderReport(report)
	assert.Contains(t, rendered, "> ⚠️ Some fields could not be fully parsed")
}

func TestRenderReport_NoFindings(t *testing.T) {
	report := &core.ReviewReport{
		TotalPersonas: 1,
		Succeeded:     1,
		Results: []core.PersonaResult{{
			Persona: core.PersonaDescriptor{Name: "Bug Hunter", Focus: "Logic errors"},
		}},
	}

	rendered := RenderReport(report)
	assert.Contains(t, rendered, "_No findings reported._")
	assert.NotContains(t, rendered, "### ")
}

// Field values spanning several source lines stay on their bullet's single
// line so the Markdown list is not broken apart.
func TestRenderReport_MultilineValuesStayInline(t *testing.T) {
	report := &core.ReviewReport{
		TotalPersonas: 1,
		Succeeded:     1,
		Results: []core.PersonaResult{{
			Persona: core.PersonaDescriptor{Name: "Bug Hunter", Focus: "Logic errors"},
			Findings: []core.Finding{{
				Title:       "Wrapped output",
				Severity:    core.SeverityWarning,
				Explanation: "first line of the explanation\ncontinues on a second line.",
				Remediation: "step one\nstep two",
			}},
		}},
	}

	rendered := RenderReport(report)
	assert.Contains(t, rendered, "- **Explanation:** first line of the explanation continues on a second line.\n")
	assert.Contains(t, rendered, "- **Remediation:** step one step two\n")
	assert.NotContains(t, rendered, "\ncontinues on a second line.")
}

// Optional finding fields are omitted entirely rather than rendered empty.
func TestRenderReport_OmitsEmptyFields(t *testing.T) {
	report := &core.ReviewReport{
		TotalPersonas: 1,
		Succeeded:     1,
		Results: []core.PersonaResult{{
			Persona: core.PersonaDescriptor{Name: "Bug Hunter", Focus: "Logic errors"},
			Findings: []core.Finding{{
				Title:    "Bare minimum",
				Severity: core.SeverityWarning,
			}},
		}},
	}

	rendered := RenderReport(report)
	require.Contains(t, rendered, "- **Severity:** 🟡 Warning")
	assert.Contains(t, rendered, "- **Confidence:** 0%")
	assert.NotContains(t, rendered, "**Category:**")
	assert.NotContains(t, rendered, "**Example:**")
	assert.NotContains(t, rendered, "**Validation Question:**")
}
