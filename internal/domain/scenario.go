package domain

import "strings"

// Outcome is the result of a single executed step.
type Outcome string

// Step outcomes reported by the runner.
const (
	OutcomeSuccessful   Outcome = "successful"
	OutcomeFailed       Outcome = "failed"
	OutcomeNotPerformed Outcome = "not-performed"
	OutcomeComment      Outcome = "comment"
	OutcomePending      Outcome = "pending"
	OutcomeIgnorable    Outcome = "ignorable"
	OutcomeSkipped      Outcome = "skipped"
)

// IsFailure reports whether the outcome fails its step container.
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed || o == OutcomeNotPerformed
}

// Step is one executed step.
type Step struct {
	Outcome Outcome `json:"outcome"`
	Value   string  `json:"value"`
}

// StepContainer holds the before, main and after steps of a scenario or an
// example row. Status is computed per container.
type StepContainer struct {
	BeforeSteps []Step `json:"beforeSteps,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
	AfterSteps  []Step `json:"afterSteps,omitempty"`
}

// All returns before, main and after steps in execution order.
func (s StepContainer) All() []Step {
	all := make([]Step, 0, len(s.BeforeSteps)+len(s.Steps)+len(s.AfterSteps))
	all = append(all, s.BeforeSteps...)
	all = append(all, s.Steps...)
	return append(all, s.AfterSteps...)
}

// Example is one executed row of a scenario examples table.
type Example struct {
	StepContainer

	// Parameters maps column names to the row's values.
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Examples is a scenario examples table together with its executed rows.
type Examples struct {
	// Steps are the step templates, before parameter substitution.
	Steps []string `json:"steps,omitempty"`

	Parameters *Parameters `json:"parameters,omitempty"`
	Examples   []Example   `json:"examples,omitempty"`
}

// Scenario is one executed scenario.
//
// A scenario with an examples table has no status of its own: every row in
// Examples.Examples carries its own steps.
type Scenario struct {
	StepContainer

	Title        string        `json:"title"`
	Meta         []Meta        `json:"meta,omitempty"`
	GivenStories *GivenStories `json:"givenStories,omitempty"`
	Examples     *Examples     `json:"examples,omitempty"`

	// Start and End are epoch milliseconds.
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// MetaValues returns the scenario-level values for name.
func (s *Scenario) MetaValues(name string) []string {
	return metaValues(s.Meta, name)
}

// HasMeta reports whether the scenario carries a tag called name.
func (s *Scenario) HasMeta(name string) bool {
	return hasMeta(s.Meta, name)
}

// HasExamples reports whether the scenario was executed per examples row.
func (s *Scenario) HasExamples() bool {
	return s.Examples != nil && len(s.Examples.Examples) > 0
}

// CollectSteps returns every executed step: the rows' steps for a scenario
// with examples, the scenario's own steps otherwise.
func (s *Scenario) CollectSteps() []Step {
	if !s.HasExamples() {
		return s.All()
	}
	var steps []Step
	for _, example := range s.Examples.Examples {
		steps = append(steps, example.All()...)
	}
	return steps
}

// StepTexts returns the step texts used to describe the scenario. Scenarios
// with examples use the templates, others the first occurrence of each step.
func (s *Scenario) StepTexts() []string {
	if s.Examples != nil && len(s.Examples.Steps) > 0 {
		return s.Examples.Steps
	}
	steps := s.Steps
	if s.HasExamples() {
		steps = s.Examples.Examples[0].Steps
	}
	texts := make([]string, 0, len(steps))
	for _, step := range steps {
		texts = append(texts, strings.TrimSpace(step.Value))
	}
	return texts
}
