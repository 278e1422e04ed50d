package core

import "fmt"

// ConfigurationError reports invalid persona registration or configuration.
// It is fatal and surfaced before any dispatch begins.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// InternalConsistencyError reports an aggregation invariant violation.
// It indicates a wiring bug and aborts the run rather than emitting a
// misleading report.
type InternalConsistencyError struct {
	Detail string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error: %s", e.Detail)
}
