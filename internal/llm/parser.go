package llm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/review-council/internal/core"
)

// ParseStats carries parser bookkeeping alongside the extracted findings.
type ParseStats struct {
	// Skipped counts candidate issue blocks dropped for missing a title or
	// any severity label. The parser never invents data for them.
	Skipped int
	// Degraded is set when the parser had to fall back to a default for any
	// field, or when blocks were skipped. Surfaced as a report caveat.
	Degraded bool
}

var (
	// Matches: "## Issue 3: title", "### Finding 1 - title", "**Defect 2** title"
	keywordHeadingRegex = regexp.MustCompile(`(?i)^(?:#{1,6}\s*)?(?:\*\*)?\s*(?:issue|defect|finding|problem|vulnerability)\s*#?\s*\d+\s*(?:\*\*)?\s*[:.\-]?\s*(.*)$`)
	// Matches: "### 1. title" style markdown headings
	numberedMarkdownHeadingRegex = regexp.MustCompile(`^#{1,6}\s*\d+[.)]?\s+(.+?)\s*$`)
	// Matches: "1. title", "2) title", "**3.** title"
	numberedHeadingRegex = regexp.MustCompile(`^\s*(?:\*\*)?\d+[.)]\s*(?:\*\*)?\s*(.+?)\s*$`)

	confidencePercentRegex = regexp.MustCompile(`(\d{1,3})\s*%`)
	bareIntRegex           = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// fieldKind identifies one canonical field of the Finding schema. Labels are
// matched case-insensitively by keyword containment so that wording drift
// across personas ("Remediation" vs "Recommended Solution", "Impact" vs
// "Business Impact Assessment") still resolves to the same field.
type fieldKind int

const (
	fieldNone fieldKind = iota
	fieldSeverity
	fieldConfidence
	fieldCategory
	fieldExplanation
	fieldImpact
	fieldRemediation
	fieldExample
	fieldQuestion
)

// ParseFindings extracts structured findings from a persona's raw textual
// response. It is tolerant of format drift: missing optional fields fall back
// to defaults with the degraded marker, and a response with no recognizable
// issue headings is preserved as a single general finding rather than being
// discarded. Empty input yields an empty sequence.
func ParseFindings(raw string) ([]core.Finding, ParseStats) {
	var stats ParseStats

	text := stripMarkdownFence(raw)
	if strings.TrimSpace(text) == "" {
		return nil, stats
	}

	var findings []core.Finding
	var block *issueBlock
	inFence := false
	fenceField := fieldNone
	var fenceBuilder strings.Builder

	flush := func() {
		if block == nil {
			return
		}
		if f, ok, degraded := block.finalize(); ok {
			findings = append(findings, f)
			stats.Degraded = stats.Degraded || degraded
		} else {
			stats.Skipped++
			stats.Degraded = true
		}
		block = nil
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		// Fenced code is captured verbatim as the example when it follows a
		// remediation or example label; fence content is never label-scanned.
		if strings.HasPrefix(line, "```") {
			if inFence {
				if block != nil && (fenceField == fieldRemediation || fenceField == fieldExample) && block.finding.Example == "" {
					block.finding.Example = strings.TrimRight(fenceBuilder.String(), "\n")
				}
				inFence = false
				fenceBuilder.Reset()
			} else {
				inFence = true
				fenceField = fieldNone
				if block != nil {
					fenceField = block.current
				}
			}
			continue
		}
		if inFence {
			fenceBuilder.WriteString(rawLine + "\n")
			continue
		}

		if title, ok := matchIssueHeading(line); ok {
			flush()
			block = newIssueBlock(title)
			continue
		}
		if block != nil {
			block.scanLine(line)
		}
	}
	flush()

	// A response with prose but no recognizable issue headings still carries
	// signal; keep it as one general informational finding.
	if len(findings) == 0 && stats.Skipped == 0 {
		stats.Degraded = true
		findings = append(findings, core.Finding{
			Title:       "General Feedback",
			Severity:    core.SeverityInfo,
			Category:    "general",
			Explanation: strings.TrimSpace(text),
		})
	}

	return findings, stats
}

// matchIssueHeading reports whether a line introduces a new issue block and
// returns its title. Numbered lines only count as headings when they do not
// carry a field label, so "1. SEVERITY CLASSIFICATION: ..." stays inside the
// current block.
func matchIssueHeading(line string) (string, bool) {
	if m := keywordHeadingRegex.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), true
	}
	if classifyLabel(line) != fieldNone {
		return "", false
	}
	if m := numberedMarkdownHeadingRegex.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), true
	}
	if m := numberedHeadingRegex.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), true
	}
	return "", false
}

// classifyLabel maps a line to the canonical field it labels, or fieldNone.
// Only the label part of the line is inspected: the text before the first
// colon, or the whole line when it is short enough to be a bare label. This
// keeps prose like "this has a serious impact on throughput" from being
// mistaken for an Impact label.
func classifyLabel(line string) fieldKind {
	labelPart := line
	if idx := strings.Index(line, ":"); idx >= 0 {
		labelPart = line[:idx]
	} else if len(line) > 80 {
		return fieldNone
	}

	lower := strings.ToLower(labelPart)
	switch {
	case strings.Contains(lower, "severity"):
		return fieldSeverity
	case strings.Contains(lower, "confidence"):
		return fieldConfidence
	case strings.Contains(lower, "category"):
		return fieldCategory
	case strings.Contains(lower, "explanation"):
		return fieldExplanation
	case strings.Contains(lower, "impact"):
		return fieldImpact
	case strings.Contains(lower, "remediation"), strings.Contains(lower, "solution"),
		strings.Contains(lower, "recommended fix"), strings.Contains(lower, "suggested fix"):
		return fieldRemediation
	case strings.Contains(lower, "example"):
		return fieldExample
	case strings.Contains(lower, "validation question"), strings.Contains(lower, "knowledge question"),
		strings.Contains(lower, "knowledge validation"), strings.Contains(lower, "question"):
		return fieldQuestion
	default:
		return fieldNone
	}
}

// issueBlock accumulates one candidate finding while its lines are scanned.
type issueBlock struct {
	title       string
	sawSeverity bool
	confSet     bool
	finding     core.Finding
	builders    map[fieldKind]*strings.Builder
	seen        map[fieldKind]bool
	current     fieldKind // target of unlabeled continuation lines
}

func newIssueBlock(title string) *issueBlock {
	return &issueBlock{
		title:    title,
		builders: make(map[fieldKind]*strings.Builder),
		seen:     make(map[fieldKind]bool),
	}
}

// scanLine assigns labeled lines to canonical fields. The first occurrence of
// a label wins; later repeats in the same block are ignored and do not error.
func (b *issueBlock) scanLine(line string) {
	// Blank lines are skipped rather than ending the current field, so a
	// fenced example separated from its remediation label by one blank line
	// is still attributed correctly.
	if line == "" {
		return
	}

	kind := classifyLabel(line)
	if kind == fieldNone {
		if b.current != fieldNone {
			b.appendTo(b.current, line)
		}
		return
	}

	first := !b.seen[kind]
	b.seen[kind] = true
	b.current = fieldNone

	switch kind {
	case fieldSeverity:
		if !b.sawSeverity {
			b.sawSeverity = true
			b.finding.Severity = normalizeSeverity(line)
			// Confidence often rides on the severity line,
			// e.g. "SEVERITY: 🔴 Critical (Confidence: 90%)".
			if c, ok := lastPercent(line); ok && !b.confSet {
				b.finding.Confidence = c
				b.confSet = true
			}
		}
	case fieldConfidence:
		if !b.confSet {
			if c, ok := extractConfidence(line); ok {
				b.finding.Confidence = c
				b.confSet = true
			}
		}
	case fieldExample:
		// Bare label; the fenced block that follows is captured verbatim.
		b.current = fieldExample
	default:
		if first {
			b.appendTo(kind, valueAfterLabel(line))
			b.current = kind
		}
	}
}

func (b *issueBlock) appendTo(kind fieldKind, value string) {
	builder := b.builders[kind]
	if builder == nil {
		builder = &strings.Builder{}
		b.builders[kind] = builder
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if builder.Len() > 0 {
		builder.WriteString("\n")
	}
	builder.WriteString(value)
}

// finalize turns the accumulated block into a Finding. Blocks missing a title
// or any severity label are dropped; the parser never invents data for them.
// The last return reports whether defaults had to be applied.
func (b *issueBlock) finalize() (core.Finding, bool, bool) {
	if b.title == "" || !b.sawSeverity {
		return core.Finding{}, false, false
	}

	degraded := false
	f := b.finding
	f.Title = b.title

	if f.Severity == "" {
		f.Severity = core.SeverityInfo
		degraded = true
	}
	if !b.confSet {
		// Confidence is advisory, not a correctness gate.
		f.Confidence = 0
		degraded = true
	}

	f.Category = b.builderValue(fieldCategory)
	f.Explanation = b.builderValue(fieldExplanation)
	f.Impact = b.builderValue(fieldImpact)
	f.Remediation = b.builderValue(fieldRemediation)
	f.ValidationQuestion = b.builderValue(fieldQuestion)

	if f.Category == "" {
		f.Category = "general"
		degraded = true
	}
	return f, true, degraded
}

func (b *issueBlock) builderValue(kind fieldKind) string {
	if builder := b.builders[kind]; builder != nil {
		return strings.TrimSpace(builder.String())
	}
	return ""
}

// normalizeSeverity maps free-form severity text onto the three-level enum by
// keyword containment. Unrecognized text maps to the empty severity, which
// finalize defaults to Info with the degraded marker; parsing never fails on
// a strange severity.
func normalizeSeverity(value string) core.Severity {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "critical"), strings.Contains(lower, "high"),
		strings.Contains(value, "🔴"):
		return core.SeverityCritical
	case strings.Contains(lower, "warning"), strings.Contains(lower, "medium"),
		strings.Contains(lower, "moderate"), strings.Contains(value, "🟡"):
		return core.SeverityWarning
	case strings.Contains(lower, "info"), strings.Contains(lower, "low"),
		strings.Contains(value, "ℹ"):
		return core.SeverityInfo
	default:
		return ""
	}
}

// lastPercent returns the last "N%" value on a line, clamped to 0-100.
func lastPercent(line string) (int, bool) {
	matches := confidencePercentRegex.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return clampPercent(matches[len(matches)-1][1])
}

// extractConfidence pulls a confidence value from a confidence-labeled line:
// the last percentage wins, falling back to the last bare integer after the
// label's colon.
func extractConfidence(line string) (int, bool) {
	if c, ok := lastPercent(line); ok {
		return c, true
	}
	value := valueAfterLabel(line)
	matches := bareIntRegex.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return clampPercent(matches[len(matches)-1][1])
}

func clampPercent(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n > 100 {
		n = 100
	}
	return n, true
}

// valueAfterLabel returns the remainder of a "Label: value" line, or "" when
// the label stands alone and its value follows on later lines.
func valueAfterLabel(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 && idx < len(line)-1 {
		return strings.TrimSpace(strings.Trim(line[idx+1:], "*_ "))
	}
	return ""
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, "*_#")
	return strings.TrimSpace(strings.TrimSuffix(title, ":"))
}

// stripMarkdownFence removes ```markdown ... ``` wrapping that some LLMs add
// around their entire output.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```markdown") || strings.HasPrefix(trimmed, "```md") {
		idx := strings.Index(trimmed, "\n")
		if idx < 0 {
			return s
		}
		inner := trimmed[idx+1:]
		if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
			inner = inner[:lastFence]
		}
		return strings.TrimSpace(inner)
	}
	return s
}
