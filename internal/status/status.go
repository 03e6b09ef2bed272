// Package status computes pass/fail results for executed scenarios and test
// case groups.
//
// A step container fails when any of its steps failed or was not performed.
// A scenario with an examples table fails when any row fails, and a group
// fails when any member scenario fails.
package status

import (
	"strings"

	"github.com/mrz1836/jiraexport/internal/domain"
)

// Status is the computed result of a test case.
type Status string

// Computed results. The names match tracker transition names case-insensitively.
const (
	Passed Status = "PASSED"
	Failed Status = "FAILED"
)

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Matches reports whether name refers to this status, ignoring case.
func (s Status) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), string(s))
}

// OfSteps returns Failed when any step failed or was not performed.
func OfSteps(steps []domain.Step) Status {
	for _, step := range steps {
		if step.Outcome.IsFailure() {
			return Failed
		}
	}
	return Passed
}

// OfContainer returns the status of a scenario's or example row's steps,
// including before and after steps.
func OfContainer(c domain.StepContainer) Status {
	return OfSteps(c.All())
}

// OfScenario returns the scenario status. Scenarios with examples are
// evaluated per row; an examples table without rows counts as no examples.
func OfScenario(sc *domain.Scenario) Status {
	if !sc.HasExamples() {
		return OfContainer(sc.StepContainer)
	}
	for _, example := range sc.Examples.Examples {
		if OfContainer(example.StepContainer) == Failed {
			return Failed
		}
	}
	return Passed
}

// OfScenarios returns Failed when any scenario failed.
func OfScenarios(scenarios []*domain.Scenario) Status {
	for _, sc := range scenarios {
		if OfScenario(sc) == Failed {
			return Failed
		}
	}
	return Passed
}
