package stats

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/export"
	"github.com/mrz1836/jiraexport/internal/status"
)

func TestStatusName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Passed", StatusName(status.Passed))
	assert.Equal(t, "Failed", StatusName(status.Failed))
	assert.Equal(t, "-", StatusName(""))
}

func TestRender(t *testing.T) {
	t.Parallel()

	summary := &export.Summary{
		InfoEnabled:   true,
		StatusEnabled: true,
		WithoutID:     1,
		TestCases: []export.TestCaseSummary{
			{TestCaseID: "TC-1", Scenarios: 2, Passed: 1, Failed: 1, Exported: true, InfoUpdated: true, ExportedStatus: status.Failed},
			{TestCaseID: "TC-2", Scenarios: 1, Passed: 1, Exported: true, Reasons: []errcollect.Kind{errcollect.KindTestCaseIsMissed}},
			{TestCaseID: "TC-3", Scenarios: 1, Skipped: 1},
		},
	}

	var buf bytes.Buffer
	Render(&buf, summary, Options{})
	out := buf.String()

	assert.Contains(t, out, "Execution Export Info: Details")
	assert.Contains(t, out, "TC-1")
	assert.Contains(t, out, "1/1/0")
	assert.Contains(t, out, "Test Case does not exist within Test Run")
	assert.Contains(t, out, "'testCaseId' is null")
	assert.Contains(t, out, "Without 'testCaseId'")
	assert.Contains(t, out, "Execution Export Status: Total")
	assert.Contains(t, out, "Not exported")
	assert.NotContains(t, out, SwitchedOff)
}

func TestRender_SwitchedOff(t *testing.T) {
	t.Parallel()

	summary := &export.Summary{
		StatusEnabled: true,
		TestCases: []export.TestCaseSummary{
			{TestCaseID: "TC-1", Scenarios: 1, Passed: 1, Exported: true, ExportedStatus: status.Passed},
		},
	}

	var buf bytes.Buffer
	Render(&buf, summary, Options{})
	out := buf.String()

	assert.Contains(t, out, "Execution Export Info: Total: Switch off")
	assert.Contains(t, out, "Passed")
	assert.NotContains(t, out, "Execution Export Status: Total: Switch off")
}

func TestRenderPlan(t *testing.T) {
	t.Parallel()

	plan := &export.Plan{
		Groups: []*export.Group{{
			TestCaseID: "TC-1",
			Status:     status.Passed,
			Associations: []export.Association{{
				TestCaseID: "TC-1",
				Story:      &domain.Story{Path: "stories/login.story"},
				Scenario:   &domain.Scenario{Title: "Valid login"},
			}},
		}},
		Errors: errcollect.New(zerolog.Nop()),
	}

	var buf bytes.Buffer
	RenderPlan(&buf, plan, Options{})
	out := buf.String()
	assert.Contains(t, out, "Export Plan")
	assert.Contains(t, out, "TC-1")
	assert.Contains(t, out, "stories/login.story")
	assert.Contains(t, out, "Valid login")
}
