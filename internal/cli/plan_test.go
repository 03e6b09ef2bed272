package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_JSON(t *testing.T) {
	setupCLIEnv(t)
	results := writeReport(t, "login.json", passingReport)

	out, err := runCLI(t, "plan", "--results-dir", results, "-o", "json")
	require.NoError(t, err)

	var result planResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.WithoutID)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, "TC-1", result.Groups[0].TestCaseID)
	assert.Equal(t, "PASSED", result.Groups[0].Status)
	assert.Equal(t, "TC-2", result.Groups[1].TestCaseID)
	assert.Equal(t, "FAILED", result.Groups[1].Status)
	require.Len(t, result.Groups[1].Scenarios, 1)
	assert.Equal(t, "stories/login.story", result.Groups[1].Scenarios[0].Story)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "TEST_CASE_IS_NULL", result.Errors[0].Kind)
}

func TestPlan_Text(t *testing.T) {
	setupCLIEnv(t)
	results := writeReport(t, "login.json", passingReport)

	out, err := runCLI(t, "plan", "--results-dir", results)
	require.NoError(t, err)
	assert.Contains(t, out, "Export Plan")
	assert.Contains(t, out, "Valid login")
	assert.Contains(t, out, "Failed")
}

func TestPlan_OutputFromEnv(t *testing.T) {
	setupCLIEnv(t)
	t.Setenv("JIRAEXPORT_OUTPUT", "json")
	results := writeReport(t, "login.json", trackedReport)

	out, err := runCLI(t, "plan", "--results-dir", results)
	require.NoError(t, err)

	var result planResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Groups, 2)
}
