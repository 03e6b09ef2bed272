package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/jiraexport/internal/clock"
	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/content"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/errors"
	"github.com/mrz1836/jiraexport/internal/status"
	"github.com/mrz1836/jiraexport/internal/testutil"
	"github.com/mrz1836/jiraexport/internal/tracker"
)

type staticReader struct {
	stories []*domain.Story
	err     error
}

func (r staticReader) ReadDir(context.Context, string) ([]*domain.Story, error) {
	return r.stories, r.err
}

func newScenario(title, ids string, outcomes ...domain.Outcome) *domain.Scenario {
	sc := &domain.Scenario{Title: title}
	if ids != "" {
		sc.Meta = append(sc.Meta, domain.Meta{Name: constants.MetaTestCaseID, Value: ids})
	}
	for _, o := range outcomes {
		sc.Steps = append(sc.Steps, domain.Step{Outcome: o, Value: "When step of " + title})
	}
	return sc
}

func newStory(path string, scenarios ...*domain.Scenario) *domain.Story {
	return &domain.Story{Path: path, Scenarios: scenarios}
}

func newTrackerFake(statusName string, testCaseIDs ...string) *testutil.FakeTracker {
	fake := testutil.NewFakeTracker()
	fake.AddRun("RUN-1")
	for _, id := range testCaseIDs {
		fake.AddRunCopy("RUN-1", id, statusName)
		fake.AddTransitions(id,
			tracker.Transition{ID: "21", Name: "Passed"},
			tracker.Transition{ID: "31", Name: "Failed"},
		)
	}
	return fake
}

func newFacade(fake *testutil.FakeTracker) *tracker.Facade {
	return tracker.NewFacade(fake, tracker.FacadeConfig{
		TestRunID:            "RUN-1",
		EditableStatuses:     []string{"Open"},
		InitialTestCaseField: testutil.FakeInitialTestCaseField,
	}, zerolog.Nop())
}

func testOptions(info, statusEnabled bool) Options {
	return Options{
		Workers: 4,
		Info: InfoOptions{
			Enabled:   info,
			IssueType: constants.DefaultTestIssueType,
			Mapping: content.FieldMapping{
				constants.FieldTestCaseType:         "customfield_type",
				constants.FieldCucumberScenarioType: "customfield_scenario_type",
				constants.FieldCucumberScenario:     "customfield_scenario",
				constants.FieldManualSteps:          "customfield_manual",
			},
			Compose: content.Options{ProjectKey: "PRJ", RequireAutomated: true},
		},
		StatusEnabled: statusEnabled,
	}
}

func kinds(records []errcollect.Record) []errcollect.Kind {
	out := make([]errcollect.Kind, 0, len(records))
	for _, r := range records {
		out = append(out, r.Kind)
	}
	return out
}

func TestResolve_FanOut(t *testing.T) {
	t.Parallel()

	multi := newScenario("multi", "A;B", domain.OutcomeSuccessful)
	orphan := newScenario("orphan", "", domain.OutcomeSuccessful)
	errs := errcollect.New(zerolog.Nop())

	res := Resolve([]*domain.Story{newStory("s.story", multi, orphan)}, errs)

	require.Len(t, res.All, 3)
	require.Len(t, res.Exportable, 2)
	assert.Equal(t, 1, res.WithoutID())

	groups := GroupBy(res.All)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].TestCaseID)
	assert.Equal(t, "B", groups[1].TestCaseID)
	assert.Same(t, multi, groups[0].Associations[0].Scenario)
	assert.Same(t, multi, groups[1].Associations[0].Scenario)

	records := errs.Records()
	require.Len(t, records, 1)
	assert.Equal(t, errcollect.KindTestCaseIsNull, records[0].Kind)
	assert.Equal(t, "orphan", records[0].ScenarioTitle)
	assert.Empty(t, records[0].TestCaseID)
}

func TestResolve_SkipExport(t *testing.T) {
	t.Parallel()

	skipped := newScenario("skipped", "A;B", domain.OutcomeSuccessful)
	skipped.Meta = append(skipped.Meta, domain.Meta{Name: constants.MetaSkipExport})
	kept := newScenario("kept", "A", domain.OutcomeSuccessful)
	errs := errcollect.New(zerolog.Nop())

	res := Resolve([]*domain.Story{newStory("s.story", skipped, kept)}, errs)

	assert.Len(t, res.All, 3)
	assert.Equal(t, 2, res.Skipped())
	require.Len(t, res.Exportable, 1)
	assert.Same(t, kept, res.Exportable[0].Scenario)
	assert.Equal(t, []errcollect.Kind{errcollect.KindTestCaseHasMetaSkipExport, errcollect.KindTestCaseHasMetaSkipExport}, kinds(errs.Records()))
}

func TestResolve_UnevenLifecycleIsRecorded(t *testing.T) {
	t.Parallel()

	story := newStory("l.story",
		newScenario("a", "A", domain.OutcomeSuccessful),
		newScenario("a", "A", domain.OutcomeSuccessful),
		newScenario("a", "A", domain.OutcomeSuccessful),
	)
	story.Lifecycle = &domain.Lifecycle{Parameters: &domain.Parameters{Names: []string{"env"}, Values: [][]string{{"dev"}, {"qa"}}}}
	errs := errcollect.New(zerolog.Nop())

	res := Resolve([]*domain.Story{story}, errs)

	assert.Len(t, res.Exportable, 1)
	assert.Equal(t, []errcollect.Kind{errcollect.KindUnevenLifecycle}, kinds(errs.Records()))
}

func TestGroupBy_StatusAggregation(t *testing.T) {
	t.Parallel()

	story := newStory("s.story",
		newScenario("pass-1", "A;B", domain.OutcomeSuccessful),
		newScenario("fail", "B", domain.OutcomeSuccessful, domain.OutcomeNotPerformed),
		newScenario("pass-2", "A", domain.OutcomeComment, domain.OutcomeSuccessful),
	)
	res := Resolve([]*domain.Story{story}, errcollect.New(zerolog.Nop()))

	groups := GroupBy(res.Exportable)
	require.Len(t, groups, 2)
	assert.Equal(t, status.Passed, groups[0].Status)
	assert.Len(t, groups[0].Associations, 2)
	assert.Equal(t, status.Failed, groups[1].Status)
}

func TestPipeline_StatusOnlyEndToEnd(t *testing.T) {
	t.Parallel()

	story := newStory("login.story",
		newScenario("passes", "TC-1", domain.OutcomeSuccessful),
		newScenario("fails", "TC-1", domain.OutcomeFailed),
	)
	fake := newTrackerFake("Open", "TC-1")
	fake.AddTransitions("TC-1", tracker.Transition{ID: "99", Name: "FAILED"})

	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, newFacade(fake), testOptions(false, true), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, fake.Updates())
	assert.Equal(t, []testutil.StatusUpdate{{Key: "TC-1-RUN", TransitionID: "31"}}, fake.StatusUpdates())
	assert.Empty(t, summary.Records)
	require.Len(t, summary.TestCases, 1)
	assert.Equal(t, status.Failed, summary.TestCases[0].ExportedStatus)
	assert.False(t, summary.TestCases[0].InfoUpdated)
	assert.Equal(t, 1, summary.TestCases[0].Passed)
	assert.Equal(t, 1, summary.TestCases[0].Failed)
}

func TestPipeline_ErrorIsolation(t *testing.T) {
	t.Parallel()

	story := newStory("s.story",
		newScenario("one", "TC-1", domain.OutcomeSuccessful),
		newScenario("two", "TC-2", domain.OutcomeFailed),
	)
	fake := newTrackerFake("Open", "TC-1", "TC-2")
	fake.FailOn(testutil.OpUpdateIssue, "TC-1-RUN", testutil.ErrMockNetwork)

	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, newFacade(fake), testOptions(true, true), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.ErrorIs(t, err, errors.ErrExportFailed)
	require.NotNil(t, summary)

	updates := fake.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "TC-2-RUN", updates[0].Key)

	assert.ElementsMatch(t, []testutil.StatusUpdate{
		{Key: "TC-1-RUN", TransitionID: "21"},
		{Key: "TC-2-RUN", TransitionID: "31"},
	}, fake.StatusUpdates())

	require.Len(t, summary.Records, 1)
	rec := summary.Records[0]
	assert.Equal(t, errcollect.PhaseInfoExport, rec.Phase)
	assert.Equal(t, "TC-1", rec.TestCaseID)
	assert.Equal(t, errcollect.KindUnknown, rec.Kind)

	require.Len(t, summary.TestCases, 2)
	assert.False(t, summary.TestCases[0].InfoUpdated)
	assert.Equal(t, status.Passed, summary.TestCases[0].ExportedStatus)
	assert.Equal(t, []errcollect.Kind{errcollect.KindUnknown}, summary.TestCases[0].Reasons)
	assert.True(t, summary.TestCases[1].InfoUpdated)
}

func TestPipeline_PreconditionFailures(t *testing.T) {
	t.Parallel()

	story := newStory("s.story",
		newScenario("locked", "TC-1", domain.OutcomeSuccessful),
		newScenario("missing", "TC-2", domain.OutcomeSuccessful),
	)
	fake := newTrackerFake("Done", "TC-1")

	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, newFacade(fake), testOptions(true, true), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.ErrorIs(t, err, errors.ErrExportFailed)

	assert.Empty(t, fake.Updates())
	assert.Empty(t, fake.StatusUpdates())
	assert.Equal(t, []errcollect.Kind{
		errcollect.KindTestCaseStatusIsNotEditable,
		errcollect.KindTestCaseIsMissed,
		errcollect.KindTestCaseStatusIsNotEditable,
		errcollect.KindStatusTransitionUnavailable,
	}, kinds(summary.Records))
}

func TestPipeline_RunNotFound(t *testing.T) {
	t.Parallel()

	story := newStory("s.story", newScenario("one", "TC-1", domain.OutcomeSuccessful))
	fake := testutil.NewFakeTracker()
	fake.AddTransitions("TC-1", tracker.Transition{ID: "21", Name: "Passed"})

	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, newFacade(fake), testOptions(true, true), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.ErrorIs(t, err, errors.ErrExportFailed)
	assert.Equal(t, []errcollect.Kind{errcollect.KindTestRunIsNotEditable, errcollect.KindTestRunIsNotEditable}, kinds(summary.Records))
}

func TestPipeline_InfoUpdateBodyAndLinks(t *testing.T) {
	t.Parallel()

	sc := newScenario("Login works", "TC-1", domain.OutcomeSuccessful)
	sc.Meta = append(sc.Meta,
		domain.Meta{Name: constants.MetaRequirementID, Value: "REQ-1;REQ-2"},
		domain.Meta{Name: constants.MetaLabels, Value: "smoke"},
	)
	fake := newTrackerFake("Open", "TC-1")
	fake.AddLink("TC-1-RUN", tracker.Link{Type: constants.TestsLinkType, Outward: "REQ-1"})

	p := NewPipeline(staticReader{stories: []*domain.Story{newStory("login.story", sc)}}, newFacade(fake), testOptions(true, false), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TestCases[0].InfoUpdated)
	assert.Empty(t, fake.StatusUpdates())

	updates := fake.Updates()
	require.Len(t, updates, 1)
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(updates[0].Body, &body))
	assert.Equal(t, "Login works", body.Fields["summary"])
	assert.Equal(t, map[string]any{"key": "PRJ"}, body.Fields["project"])
	assert.Equal(t, map[string]any{"value": "Automated"}, body.Fields["customfield_type"])
	assert.Contains(t, body.Fields["customfield_scenario"], "Story: login.story")
	assert.Equal(t, []any{"smoke"}, body.Fields["labels"])

	assert.Equal(t, []testutil.LinkCall{{From: "TC-1-RUN", To: "REQ-2", Type: constants.TestsLinkType}}, fake.Links())
}

func TestPipeline_IdenticalRunsRecordIdenticalErrors(t *testing.T) {
	t.Parallel()

	stories := []*domain.Story{
		newStory("a.story",
			newScenario("no id", "", domain.OutcomeSuccessful),
			newScenario("ok", "TC-1;TC-2", domain.OutcomeSuccessful),
			newScenario("missing", "TC-3", domain.OutcomeFailed),
		),
		newStory("b.story",
			newScenario("other", "TC-4", domain.OutcomeFailed),
		),
	}
	fake := newTrackerFake("Open", "TC-1", "TC-2")
	fake.FailOn(testutil.OpUpdateIssue, "TC-2-RUN", testutil.ErrMockUnauthorized)

	run := func() []errcollect.Record {
		p := NewPipeline(staticReader{stories: stories}, newFacade(fake), testOptions(true, true), zerolog.Nop())
		summary, err := p.Run(context.Background())
		require.ErrorIs(t, err, errors.ErrExportFailed)
		return summary.Records
	}

	first := run()
	second := run()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestPipeline_BothPassesDisabled(t *testing.T) {
	t.Parallel()

	story := newStory("s.story", newScenario("one", "TC-1", domain.OutcomeSuccessful))
	start := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, nil, testOptions(false, false), zerolog.Nop(),
		WithClock(clock.NewStepping(start, 2*time.Second)))
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2*time.Second, summary.Duration)
	assert.False(t, summary.InfoEnabled)
	assert.False(t, summary.StatusEnabled)
	assert.Equal(t, StatusTotals{NotExported: 1, Total: 1}, summary.StatusTotals())
}

func TestPipeline_ReadFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline(staticReader{err: errors.ErrNoReports}, nil, testOptions(true, true), zerolog.Nop())
	summary, err := p.Run(context.Background())
	require.ErrorIs(t, err, errors.ErrNoReports)
	assert.Nil(t, summary)
}

func TestPipeline_Plan(t *testing.T) {
	t.Parallel()

	story := newStory("s.story",
		newScenario("one", "TC-1;TC-2", domain.OutcomeSuccessful),
		newScenario("none", "", domain.OutcomeSuccessful),
	)
	p := NewPipeline(staticReader{stories: []*domain.Story{story}}, nil, testOptions(true, true), zerolog.Nop())

	plan, err := p.Plan(context.Background())
	require.NoError(t, err)
	assert.Len(t, plan.Groups, 2)
	assert.Equal(t, 1, plan.Errors.Len())
}

func TestSummary_Totals(t *testing.T) {
	t.Parallel()

	s := &Summary{
		WithoutID: 2,
		TestCases: []TestCaseSummary{
			{TestCaseID: "A", Exported: true, InfoUpdated: true, ExportedStatus: status.Passed},
			{TestCaseID: "B", Exported: true, ExportedStatus: status.Failed},
			{TestCaseID: "C", Exported: true},
			{TestCaseID: "D"},
		},
	}

	assert.Equal(t, InfoTotals{Updated: 1, Failed: 2, Skipped: 1, WithoutID: 2, Total: 6}, s.InfoTotals())
	assert.Equal(t, StatusTotals{Passed: 1, Failed: 1, NotExported: 1, Skipped: 1, Total: 4}, s.StatusTotals())
}
