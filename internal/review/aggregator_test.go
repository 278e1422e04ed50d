package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-council/internal/core"
)

func TestAggregate_Counts(t *testing.T) {
	descriptors := []core.PersonaDescriptor{
		{Name: "Alpha", Focus: "a"},
		{Name: "Beta", Focus: "b"},
		{Name: "Gamma", Focus: "c"},
	}
	results := []core.PersonaResult{
		{Persona: descriptors[0], Findings: []core.Finding{{Title: "x", Severity: core.SeverityInfo}}},
		{Persona: descriptors[1], FailureKind: core.FailureTimeout, FailureReason: "too slow"},
		{Persona: descriptors[2]},
	}

	report, err := Aggregate(descriptors, results)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalPersonas)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, results, report.Results)
}

func TestAggregate_LengthMismatch(t *testing.T) {
	descriptors := []core.PersonaDescriptor{{Name: "Alpha"}, {Name: "Beta"}}
	results := []core.PersonaResult{{Persona: descriptors[0]}}

	_, err := Aggregate(descriptors, results)
	var consistencyErr *core.InternalConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
}

func TestAggregate_OrderMismatch(t *testing.T) {
	descriptors := []core.PersonaDescriptor{{Name: "Alpha"}, {Name: "Beta"}}
	results := []core.PersonaResult{
		{Persona: descriptors[1]},
		{Persona: descriptors[0]},
	}

	_, err := Aggregate(descriptors, results)
	var consistencyErr *core.InternalConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Contains(t, err.Error(), "Beta")
}

func TestAggregate_Empty(t *testing.T) {
	report, err := Aggregate(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, report.TotalPersonas)
	assert.Zero(t, report.Succeeded)
	assert.Zero(t, report.Failed)
}
