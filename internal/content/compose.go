package content

import (
	"fmt"
	"strings"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Member is one scenario of a test case group together with its story.
type Member struct {
	Story    *domain.Story
	Scenario *domain.Scenario
}

// Options hold the configuration defaults used while composing.
type Options struct {
	// ProjectKey and AssigneeID are used when no scenario sets them through meta.
	ProjectKey string
	AssigneeID string

	// RequireAutomated rejects groups without any automated scenario.
	RequireAutomated bool
}

// Blocks partitions members by story, keeping first-seen story order and the
// member order within each story.
func Blocks(members []Member) []StoryBlock {
	var blocks []StoryBlock
	index := make(map[*domain.Story]int)
	for _, m := range members {
		i, ok := index[m.Story]
		if !ok {
			i = len(blocks)
			index[m.Story] = i
			blocks = append(blocks, StoryBlock{Story: m.Story})
		}
		blocks[i].Scenarios = append(blocks[i].Scenarios, m.Scenario)
	}
	return blocks
}

// Compose builds the test case content of the group identified by id.
//
// It fails with ErrNonScenarios when the group has nothing to render, with
// ErrNonAutomatedTypes when automated content is required but every scenario
// is manual, and with ErrNotSingleUniqueValue when scenarios disagree on the
// project key or assignee.
func Compose(id string, members []Member, opts Options) (TestCase, error) {
	blocks := Blocks(members)
	rendered := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if len(block.Scenarios) == 0 {
			continue
		}
		text, err := RenderStory(block)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, text)
	}
	if len(rendered) == 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrNonScenarios, id)
	}

	kind := Manual
	for _, m := range members {
		if KindOf(m.Scenario) == Automated {
			kind = Automated
			break
		}
	}
	if kind == Manual && opts.RequireAutomated {
		return nil, fmt.Errorf("%w: %s", errors.ErrNonAutomatedTypes, id)
	}

	fields, err := commonFields(id, members, opts)
	if err != nil {
		return nil, err
	}

	switch kind {
	case Manual:
		tc := &ManualTestCase{Fields: fields}
		for _, m := range members {
			steps, err := ParseManualSteps(m.Story.Path, m.Scenario.Title, m.Scenario.CollectSteps())
			if err != nil {
				return nil, err
			}
			tc.Steps = append(tc.Steps, steps...)
		}
		return tc, nil
	case Automated:
		scenarioType := ScenarioTypePlain
		for _, m := range members {
			if ScenarioType(m.Scenario) == ScenarioTypeOutline {
				scenarioType = ScenarioTypeOutline
				break
			}
		}
		return &AutomatedTestCase{
			Fields:       fields,
			ScenarioType: scenarioType,
			Scenario:     strings.Join(rendered, "\n"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown test case kind %d", kind)
	}
}

func commonFields(id string, members []Member, opts Options) (Fields, error) {
	projectKey, err := singleValue(id, members, constants.MetaProjectKey, opts.ProjectKey)
	if err != nil {
		return Fields{}, err
	}
	assigneeID, err := singleValue(id, members, constants.MetaAssigneeID, opts.AssigneeID)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		ID:           id,
		ProjectKey:   projectKey,
		AssigneeID:   assigneeID,
		Summary:      members[0].Scenario.Title,
		Labels:       union(members, constants.MetaLabels),
		Components:   union(members, constants.MetaComponents),
		Requirements: union(members, constants.MetaRequirementID),
	}, nil
}

// memberValues returns the scenario values for name, or the story values when
// the scenario sets none.
func memberValues(m Member, name string) []string {
	if values := m.Scenario.MetaValues(name); len(values) > 0 {
		return values
	}
	return m.Story.MetaValues(name)
}

func singleValue(id string, members []Member, name, fallback string) (string, error) {
	values := union(members, name)
	switch len(values) {
	case 0:
		return fallback, nil
	case 1:
		return values[0], nil
	default:
		return "", fmt.Errorf("%w: %s has %s values %s",
			errors.ErrNotSingleUniqueValue, id, name, strings.Join(values, ", "))
	}
}

func union(members []Member, name string) []string {
	values := []string{}
	seen := make(map[string]struct{})
	for _, m := range members {
		for _, v := range memberValues(m, name) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	return values
}
