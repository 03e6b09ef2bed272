package export

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/errcollect"
)

// StatusExporter moves every group's test case to its computed status.
type StatusExporter struct {
	tracker TrackerUpdater
	enabled bool
	errs    *errcollect.Collection
	logger  zerolog.Logger
}

// NewStatusExporter creates the status pass.
func NewStatusExporter(tracker TrackerUpdater, enabled bool, errs *errcollect.Collection, logger zerolog.Logger) *StatusExporter {
	return &StatusExporter{tracker: tracker, enabled: enabled, errs: errs, logger: logger}
}

// Export transitions every group concurrently. Failures are recorded for
// every association of the failing group.
func (e *StatusExporter) Export(ctx context.Context, groups []*Group, workers int) {
	if !e.enabled {
		e.logger.Info().Msg("test case status export is switched off")
		return
	}
	forEachGroup(ctx, groups, workers, e.exportGroup)
}

func (e *StatusExporter) exportGroup(ctx context.Context, g *Group) {
	e.logger.Info().
		Str("test_case_id", g.TestCaseID).
		Str("status", g.Status.String()).
		Msg("exporting test case status")

	transition, err := e.tracker.TransitionFor(ctx, g.TestCaseID, g.Status.String())
	if err == nil {
		_, err = e.tracker.UpdateStatus(ctx, g.TestCaseID, transition)
	}
	if err != nil {
		for _, a := range g.Associations {
			e.errs.AddStatusExportError(err, g.TestCaseID, a.Story, a.Scenario)
		}
		return
	}
	g.ExportedStatus = g.Status
}
