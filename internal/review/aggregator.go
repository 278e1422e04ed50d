package review

import (
	"fmt"

	"github.com/sevigo/review-council/internal/core"
)

// Aggregate folds completed persona results into a ReviewReport. It is a pure
// function: counters are derived from the immutable results, never mutated in
// place by concurrent tasks. A violated invariant means a wiring bug and
// aborts the run with an InternalConsistencyError rather than emitting a
// misleading report.
func Aggregate(descriptors []core.PersonaDescriptor, results []core.PersonaResult) (*core.ReviewReport, error) {
	if len(descriptors) != len(results) {
		return nil, &core.InternalConsistencyError{
			Detail: fmt.Sprintf("expected %d results, got %d", len(descriptors), len(results)),
		}
	}

	report := &core.ReviewReport{
		TotalPersonas: len(results),
		Results:       results,
	}
	for i, result := range results {
		if result.Persona.Name != descriptors[i].Name {
			return nil, &core.InternalConsistencyError{
				Detail: fmt.Sprintf("result %d belongs to persona %q, expected %q",
					i, result.Persona.Name, descriptors[i].Name),
			}
		}
		if result.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if report.Succeeded+report.Failed != report.TotalPersonas {
		return nil, &core.InternalConsistencyError{
			Detail: fmt.Sprintf("counts do not reconcile: %d succeeded + %d failed != %d total",
				report.Succeeded, report.Failed, report.TotalPersonas),
		}
	}
	return report, nil
}
