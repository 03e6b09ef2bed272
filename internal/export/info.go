package export

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/content"
	"github.com/mrz1836/jiraexport/internal/errcollect"
)

// InfoOptions configure the info pass.
type InfoOptions struct {
	Enabled   bool
	IssueType string
	Mapping   content.FieldMapping
	Compose   content.Options
}

// InfoExporter updates test case content for every group.
type InfoExporter struct {
	tracker TrackerUpdater
	opts    InfoOptions
	errs    *errcollect.Collection
	logger  zerolog.Logger
}

// NewInfoExporter creates the info pass.
func NewInfoExporter(tracker TrackerUpdater, opts InfoOptions, errs *errcollect.Collection, logger zerolog.Logger) *InfoExporter {
	return &InfoExporter{tracker: tracker, opts: opts, errs: errs, logger: logger}
}

// Export updates every group concurrently. Failures are recorded for every
// association of the failing group.
func (e *InfoExporter) Export(ctx context.Context, groups []*Group, workers int) {
	if !e.opts.Enabled {
		e.logger.Info().Msg("test case info export is switched off")
		return
	}
	forEachGroup(ctx, groups, workers, e.exportGroup)
}

func (e *InfoExporter) exportGroup(ctx context.Context, g *Group) {
	logger := e.logger.With().Str("test_case_id", g.TestCaseID).Logger()
	logger.Info().Int("scenarios", len(g.Associations)).Msg("exporting test case info")

	tc, key, err := e.update(ctx, g)
	if err != nil {
		e.record(g, err)
		return
	}
	g.InfoUpdated = true

	for _, requirement := range tc.Common().Requirements {
		if err := e.tracker.CreateTestsLink(ctx, key, requirement); err != nil {
			e.record(g, err)
		}
	}
}

func (e *InfoExporter) update(ctx context.Context, g *Group) (content.TestCase, string, error) {
	tc, err := content.Compose(g.TestCaseID, g.Members(), e.opts.Compose)
	if err != nil {
		return nil, "", err
	}
	body, err := content.Body(tc, e.opts.IssueType, e.opts.Mapping)
	if err != nil {
		return nil, "", err
	}
	key, err := e.tracker.UpdateTestCase(ctx, g.TestCaseID, body)
	if err != nil {
		return nil, "", err
	}
	return tc, key, nil
}

func (e *InfoExporter) record(g *Group, err error) {
	for _, a := range g.Associations {
		e.errs.AddInfoExportError(err, g.TestCaseID, a.Story, a.Scenario)
	}
}
