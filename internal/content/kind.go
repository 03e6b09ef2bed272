// Package content builds tracker test case content from grouped scenarios:
// the scenario description, the manual or automated test case variant, and
// the JSON update request sent to the tracker.
package content

import "github.com/mrz1836/jiraexport/internal/domain"

// Kind tells manual and automated test cases apart.
type Kind int

// Test case kinds.
const (
	// Automated test cases carry a Gherkin-like scenario description.
	Automated Kind = iota

	// Manual test cases carry Step/Data/Result steps written as comments.
	Manual
)

// String returns the value written to the test case type field.
func (k Kind) String() string {
	switch k {
	case Automated:
		return "Automated"
	case Manual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// KindOf classifies a scenario. A scenario is manual when it has steps and
// every one of them is a comment.
func KindOf(sc *domain.Scenario) Kind {
	steps := sc.CollectSteps()
	if len(steps) == 0 {
		return Automated
	}
	for _, step := range steps {
		if step.Outcome != domain.OutcomeComment {
			return Automated
		}
	}
	return Manual
}

// TestCase is the content of one test case update. It is either a
// *ManualTestCase or an *AutomatedTestCase.
type TestCase interface {
	Kind() Kind
	Common() *Fields
}

// Fields are shared by both test case kinds.
type Fields struct {
	ID         string
	ProjectKey string
	AssigneeID string
	Summary    string
	Labels     []string
	Components []string

	// Requirements are keys the test case is linked to after an update.
	Requirements []string
}

// ManualTestCase is a test case described by manual steps.
type ManualTestCase struct {
	Fields
	Steps []ManualStep
}

// Kind implements TestCase.
func (*ManualTestCase) Kind() Kind { return Manual }

// Common implements TestCase.
func (t *ManualTestCase) Common() *Fields { return &t.Fields }

// AutomatedTestCase is a test case described by scenario text.
type AutomatedTestCase struct {
	Fields

	// ScenarioType is "Scenario" or "Scenario Outline".
	ScenarioType string

	// Scenario is the rendered description of every story of the group.
	Scenario string
}

// Kind implements TestCase.
func (*AutomatedTestCase) Kind() Kind { return Automated }

// Common implements TestCase.
func (t *AutomatedTestCase) Common() *Fields { return &t.Fields }
