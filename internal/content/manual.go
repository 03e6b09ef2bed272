package content

import (
	"fmt"
	"strings"

	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Manual step comment prefixes.
const (
	commentPrefix = "!--"
	stepPrefix    = "Step:"
	dataPrefix    = "Data:"
	resultPrefix  = "Result:"
)

// ManualStep is one manual test step.
type ManualStep struct {
	Action         string `json:"Action"`
	Data           string `json:"Data,omitempty"`
	ExpectedResult string `json:"Expected Result,omitempty"`
}

// ParseManualSteps converts comment steps written as
//
//	!-- Step: Open the login page
//	!-- Data: user=alice
//	!-- Result: The form is shown
//
// into manual steps. Data and Result lines attach to the preceding Step line;
// lines without a known prefix continue the previous section.
func ParseManualSteps(storyPath, title string, steps []domain.Step) ([]ManualStep, error) {
	var (
		out     []ManualStep
		current *string
	)
	for _, step := range steps {
		if step.Outcome != domain.OutcomeComment {
			continue
		}
		for _, line := range strings.Split(step.Value, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), commentPrefix))
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, stepPrefix):
				out = append(out, ManualStep{Action: strings.TrimSpace(strings.TrimPrefix(line, stepPrefix))})
				current = &out[len(out)-1].Action
			case strings.HasPrefix(line, dataPrefix):
				if len(out) == 0 {
					return nil, syntaxError(storyPath, title, dataPrefix)
				}
				out[len(out)-1].Data = strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
				current = &out[len(out)-1].Data
			case strings.HasPrefix(line, resultPrefix):
				if len(out) == 0 {
					return nil, syntaxError(storyPath, title, resultPrefix)
				}
				out[len(out)-1].ExpectedResult = strings.TrimSpace(strings.TrimPrefix(line, resultPrefix))
				current = &out[len(out)-1].ExpectedResult
			default:
				if current == nil {
					continue
				}
				*current = strings.TrimSpace(*current + "\n" + line)
			}
		}
	}
	return out, nil
}

func syntaxError(storyPath, title, prefix string) error {
	return fmt.Errorf("%w: %q before any %q in scenario %q of %s",
		errors.ErrManualStepSyntax, prefix, stepPrefix, title, storyPath)
}
