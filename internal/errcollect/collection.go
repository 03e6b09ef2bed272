// Package errcollect accumulates the non-fatal errors of an export run.
//
// Every error is recorded with its phase and the test case, story and
// scenario it belongs to. Recording never fails and is safe for concurrent
// use by export workers.
package errcollect

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/domain"
)

// Phase is the export stage an error was recorded in.
type Phase string

// Export phases, in run order.
const (
	PhaseReader       Phase = "Reader"
	PhaseInfoExport   Phase = "Test Case Info Export"
	PhaseStatusExport Phase = "Test Case Status Export"
)

func (p Phase) order() int {
	switch p {
	case PhaseReader:
		return 0
	case PhaseInfoExport:
		return 1
	case PhaseStatusExport:
		return 2
	default:
		return 3
	}
}

// Record is one recorded error.
type Record struct {
	Phase Phase
	Kind  Kind

	// TestCaseID is empty when the scenario has no identifier.
	TestCaseID    string
	StoryPath     string
	ScenarioTitle string
	Message       string
}

// String formats the record as a multi-line report entry.
func (r Record) String() string {
	id := r.TestCaseID
	if id == "" {
		id = "null"
	}
	return fmt.Sprintf("TestCaseId: %s\nStory: %s\nScenario: %s\nError [%s]: %s",
		id, r.StoryPath, r.ScenarioTitle, r.Phase, r.Message)
}

// Collection is a concurrency-safe, append-only error store.
type Collection struct {
	mu      sync.Mutex
	records []Record
	logger  zerolog.Logger
}

// New creates an empty collection that logs every recorded error.
func New(logger zerolog.Logger) *Collection {
	return &Collection{logger: logger}
}

// AddReaderError records an error raised while reading or resolving a
// scenario. scenario may be nil for story-level errors.
func (c *Collection) AddReaderError(err error, testCaseID string, story *domain.Story, scenario *domain.Scenario) {
	c.add(PhaseReader, err, testCaseID, story, scenario)
}

// AddInfoExportError records an error raised while exporting test case content.
func (c *Collection) AddInfoExportError(err error, testCaseID string, story *domain.Story, scenario *domain.Scenario) {
	c.add(PhaseInfoExport, err, testCaseID, story, scenario)
}

// AddStatusExportError records an error raised while exporting a test case status.
func (c *Collection) AddStatusExportError(err error, testCaseID string, story *domain.Story, scenario *domain.Scenario) {
	c.add(PhaseStatusExport, err, testCaseID, story, scenario)
}

func (c *Collection) add(phase Phase, err error, testCaseID string, story *domain.Story, scenario *domain.Scenario) {
	if err == nil {
		return
	}
	rec := Record{
		Phase:      phase,
		Kind:       KindOf(err),
		TestCaseID: testCaseID,
		Message:    err.Error(),
	}
	if story != nil {
		rec.StoryPath = story.Path
	}
	if scenario != nil {
		rec.ScenarioTitle = scenario.Title
	}

	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()

	c.logger.Error().
		Err(err).
		Str("phase", string(phase)).
		Str("kind", string(rec.Kind)).
		Str("test_case_id", testCaseID).
		Str("story", rec.StoryPath).
		Str("scenario", rec.ScenarioTitle).
		Msg("export error recorded")
}

// Len returns the number of recorded errors.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Records returns a sorted copy of the recorded errors. The order depends only
// on record contents, so identical runs yield identical slices.
func (c *Collection) Records() []Record {
	c.mu.Lock()
	records := slices.Clone(c.records)
	c.mu.Unlock()

	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Phase.order(), b.Phase.order()),
			cmp.Compare(a.TestCaseID, b.TestCaseID),
			cmp.Compare(a.StoryPath, b.StoryPath),
			cmp.Compare(a.ScenarioTitle, b.ScenarioTitle),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return records
}

// Report renders the numbered error report, or "" when nothing was recorded.
func (c *Collection) Report() string {
	records := c.Records()
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "Error #%d\n%s\n", i+1, rec)
	}
	return b.String()
}

// Publish logs the report as an export failure, or logs success when nothing
// was recorded.
func (c *Collection) Publish(logger zerolog.Logger) {
	report := c.Report()
	if report == "" {
		logger.Info().Msg("Export successful")
		return
	}
	logger.Error().Int("errors", c.Len()).Msg("Export failed:\n" + report)
}
