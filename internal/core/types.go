// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the review pipeline.
package core

// PersonaDescriptor identifies one review persona. Identity is the Name,
// which is unique within a registry.
type PersonaDescriptor struct {
	Name  string `yaml:"name" json:"name"`
	Focus string `yaml:"focus" json:"focus"`
}

// Severity is the three-level classification assigned to a finding.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
)

// Glyph returns the fixed marker rendered next to the severity label.
func (s Severity) Glyph() string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityWarning:
		return "🟡"
	default:
		return "ℹ️"
	}
}

// Finding is one structured issue extracted from a persona's raw output.
// Ordering within a persona's findings preserves the order issues appeared
// in the raw text.
type Finding struct {
	Title              string   `json:"title"`
	Severity           Severity `json:"severity"`
	Confidence         int      `json:"confidence"` // 0-100, advisory
	Category           string   `json:"category"`
	Explanation        string   `json:"explanation"`
	Impact             string   `json:"impact"`
	Remediation        string   `json:"remediation"`
	Example            string   `json:"example,omitempty"`
	ValidationQuestion string   `json:"validation_question,omitempty"`
}

// FailureKind classifies why a single persona's review failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureBackend   FailureKind = "backend_error"
	FailureEmpty     FailureKind = "empty_response"
	FailureCancelled FailureKind = "cancelled"
)

// PersonaResult is the outcome of running one persona against the code under
// review. Exactly one outcome applies: either the persona succeeded and
// Findings holds its ordered findings, or FailureKind is set and Findings is
// nil. Results are never mutated after creation.
type PersonaResult struct {
	Persona       PersonaDescriptor `json:"persona"`
	Findings      []Finding         `json:"findings,omitempty"`
	FailureKind   FailureKind       `json:"failure_kind,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	// Degraded marks a successful result whose raw output could not be fully
	// mapped to the Finding schema. Surfaced as a caveat, never as an error.
	Degraded bool `json:"degraded,omitempty"`
}

// Succeeded reports whether the persona produced a usable review.
func (r PersonaResult) Succeeded() bool {
	return r.FailureKind == ""
}

// ReviewReport is the aggregated outcome of one review run.
// Invariant: Succeeded+Failed == TotalPersonas == len(Results), and Results
// is ordered by persona registration order, not completion order.
type ReviewReport struct {
	TotalPersonas int             `json:"total_personas"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	Results       []PersonaResult `json:"results"`
}
