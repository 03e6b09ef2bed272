package content

import (
	"encoding/json"
	"fmt"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// FieldMapping maps logical field names such as "test-case-type" to tracker
// field ids such as "customfield_10001".
type FieldMapping map[string]string

// Field returns the tracker field id for key.
func (m FieldMapping) Field(key string) (string, error) {
	field, ok := m[key]
	if !ok || field == "" {
		return "", fmt.Errorf("%w: field mapping for %q is not set", errors.ErrTrackerConfiguration, key)
	}
	return field, nil
}

type named struct {
	Name string `json:"name"`
}

type valued struct {
	Value string `json:"value"`
}

// Body builds the JSON update request for a test case:
//
//	{"fields": {"project": {"key": ...}, "summary": ..., "issuetype": {"name": ...}, ...}}
func Body(tc TestCase, issueType string, mapping FieldMapping) ([]byte, error) {
	common := tc.Common()

	typeField, err := mapping.Field(constants.FieldTestCaseType)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]string{"key": common.ProjectKey},
		"issuetype": named{Name: issueType},
		typeField:   valued{Value: tc.Kind().String()},
		"labels":    nonNil(common.Labels),
	}
	if common.AssigneeID != "" {
		fields["assignee"] = map[string]string{"id": common.AssigneeID}
	}
	if common.Summary != "" {
		fields["summary"] = common.Summary
	}
	components := make([]named, 0, len(common.Components))
	for _, c := range common.Components {
		components = append(components, named{Name: c})
	}
	fields["components"] = components

	switch t := tc.(type) {
	case *ManualTestCase:
		stepsField, err := mapping.Field(constants.FieldManualSteps)
		if err != nil {
			return nil, err
		}
		fields[stepsField] = manualStepsValue(t.Steps)
	case *AutomatedTestCase:
		scenarioTypeField, err := mapping.Field(constants.FieldCucumberScenarioType)
		if err != nil {
			return nil, err
		}
		scenarioField, err := mapping.Field(constants.FieldCucumberScenario)
		if err != nil {
			return nil, err
		}
		fields[scenarioTypeField] = valued{Value: t.ScenarioType}
		fields[scenarioField] = t.Scenario
	default:
		return nil, fmt.Errorf("unsupported test case type %T", tc)
	}

	return json.Marshal(map[string]any{"fields": fields})
}

type manualStepEntry struct {
	Index  int        `json:"index"`
	Fields ManualStep `json:"fields"`
}

func manualStepsValue(steps []ManualStep) map[string]any {
	entries := make([]manualStepEntry, 0, len(steps))
	for i, step := range steps {
		entries = append(entries, manualStepEntry{Index: i + 1, Fields: step})
	}
	return map[string]any{"steps": entries}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
