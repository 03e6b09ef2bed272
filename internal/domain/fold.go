package domain

import (
	"fmt"

	"github.com/mrz1836/jiraexport/internal/errors"
)

// FoldedScenarios returns the story's unique scenarios.
//
// A story with a lifecycle table repeats its scenario list once per table row.
// Folding merges the repetitions of each scenario back into one scenario whose
// examples table is the cross join of its own rows with the lifecycle rows
// (or the lifecycle rows alone when the scenario had none). Without a
// lifecycle table the scenarios are returned unchanged.
//
// The story is never modified; folded scenarios are copies.
func (s *Story) FoldedScenarios() []*Scenario {
	if s.Lifecycle == nil || s.Lifecycle.Parameters == nil || len(s.Lifecycle.Parameters.Values) == 0 {
		return s.Scenarios
	}
	if len(s.Scenarios) == 0 {
		return nil
	}

	lifecycle := s.Lifecycle.Parameters
	partition := partitionSize(len(s.Scenarios), len(lifecycle.Values))

	var chunks [][]*Scenario
	for start := 0; start < len(s.Scenarios); start += partition {
		end := min(start+partition, len(s.Scenarios))
		chunks = append(chunks, s.Scenarios[start:end])
	}

	folded := make([]*Scenario, 0, partition)
	for i := 0; i < partition; i++ {
		var merged *Scenario
		for _, chunk := range chunks {
			if i >= len(chunk) {
				continue
			}
			if merged == nil {
				merged = cloneForFold(chunk[i])
				continue
			}
			if chunk[i].Examples != nil {
				merged.Examples.Examples = append(merged.Examples.Examples, chunk[i].Examples.Examples...)
			}
		}
		if merged == nil {
			continue
		}
		joinLifecycle(merged.Examples.Parameters, lifecycle)
		folded = append(folded, merged)
	}
	return folded
}

// CheckLifecycle returns ErrUnevenLifecycle when the scenario count is not a
// multiple of the lifecycle row count. Folding still truncates in that case.
func (s *Story) CheckLifecycle() error {
	if s.Lifecycle == nil || s.Lifecycle.Parameters == nil {
		return nil
	}
	rows := len(s.Lifecycle.Parameters.Values)
	count := len(s.Scenarios)
	if rows == 0 || count <= 1 || count%rows == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d scenarios, %d lifecycle rows in %s", errors.ErrUnevenLifecycle, count, rows, s.Path)
}

func partitionSize(scenarios, rows int) int {
	if scenarios <= 1 {
		return 1
	}
	return max(1, scenarios/rows)
}

// cloneForFold copies the parts of a scenario folding writes to.
func cloneForFold(src *Scenario) *Scenario {
	dst := *src
	examples := &Examples{Parameters: &Parameters{}}
	if src.Examples != nil {
		examples.Steps = src.Examples.Steps
		examples.Examples = append([]Example(nil), src.Examples.Examples...)
		if src.Examples.Parameters != nil {
			examples.Parameters.Names = append([]string(nil), src.Examples.Parameters.Names...)
			examples.Parameters.Values = append([][]string(nil), src.Examples.Parameters.Values...)
		}
	}
	dst.Examples = examples
	return &dst
}

func joinLifecycle(params, lifecycle *Parameters) {
	params.Names = append(params.Names, lifecycle.Names...)

	if len(params.Values) == 0 {
		params.Values = append(params.Values, lifecycle.Values...)
		return
	}

	joined := make([][]string, 0, len(params.Values)*len(lifecycle.Values))
	for _, base := range params.Values {
		for _, extra := range lifecycle.Values {
			row := make([]string, 0, len(base)+len(extra))
			row = append(row, base...)
			joined = append(joined, append(row, extra...))
		}
	}
	params.Values = joined
}
