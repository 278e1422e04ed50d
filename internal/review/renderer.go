package review

import (
	"fmt"
	"strings"

	"github.com/sevigo/review-council/internal/core"
)

// RenderReport serializes a report into its fixed Markdown layout. It is a
// pure function and deterministic: equal reports render to byte-identical
// text, regardless of the order persona tasks completed in.
func RenderReport(report *core.ReviewReport) string {
	var b strings.Builder

	b.WriteString("# 🔍 Multi-Persona Code Review Report\n\n")
	b.WriteString("📊 **Review Summary:**\n")
	fmt.Fprintf(&b, "- ✅ Successful reviews: %d\n", report.Succeeded)
	fmt.Fprintf(&b, "- ❌ Failed reviews: %d\n\n", report.Failed)
	b.WriteString("---\n\n")

	for _, result := range report.Results {
		if result.Succeeded() {
			renderSuccess(&b, result)
		} else {
			renderFailure(&b, result)
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

func renderSuccess(b *strings.Builder, result core.PersonaResult) {
	fmt.Fprintf(b, "## 🤖 %s - %s\n\n", result.Persona.Name, result.Persona.Focus)

	if result.Degraded {
		b.WriteString("> ⚠️ Some fields could not be fully parsed from this persona's output.\n\n")
	}
	if len(result.Findings) == 0 {
		b.WriteString("_No findings reported._\n\n")
		return
	}

	for i, finding := range result.Findings {
		renderFinding(b, i+1, finding)
	}
}

// renderFinding writes one finding with its labeled fields in fixed order:
// title, severity marker, confidence, category, explanation, impact,
// remediation, optional fenced example, optional validation question.
func renderFinding(b *strings.Builder, number int, f core.Finding) {
	fmt.Fprintf(b, "### %d. %s\n\n", number, f.Title)
	fmt.Fprintf(b, "- **Severity:** %s %s\n", f.Severity.Glyph(), f.Severity)
	fmt.Fprintf(b, "- **Confidence:** %d%%\n", f.Confidence)
	if f.Category != "" {
		fmt.Fprintf(b, "- **Category:** %s\n", inlineValue(f.Category))
	}
	if f.Explanation != "" {
		fmt.Fprintf(b, "- **Explanation:** %s\n", inlineValue(f.Explanation))
	}
	if f.Impact != "" {
		fmt.Fprintf(b, "- **Impact:** %s\n", inlineValue(f.Impact))
	}
	if f.Remediation != "" {
		fmt.Fprintf(b, "- **Remediation:** %s\n", inlineValue(f.Remediation))
	}
	b.WriteString("\n")

	if f.Example != "" {
		b.WriteString("**Example:**\n\n```\n")
		b.WriteString(f.Example)
		b.WriteString("\n```\n\n")
	}
	if f.ValidationQuestion != "" {
		fmt.Fprintf(b, "**Validation Question:** %s\n\n", f.ValidationQuestion)
	}
}

// inlineValue keeps a multi-line field value on its bullet's single line so
// the surrounding Markdown list stays intact when rendered.
func inlineValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func renderFailure(b *strings.Builder, result core.PersonaResult) {
	fmt.Fprintf(b, "## ❌ %s - ERROR\n\n", result.Persona.Name)
	fmt.Fprintf(b, "Review failed (%s): %s\n\n", result.FailureKind, result.FailureReason)
}
