package export

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/jiraexport/internal/tracker"
)

// TrackerUpdater is the part of tracker.Facade used by the passes.
type TrackerUpdater interface {
	UpdateTestCase(ctx context.Context, testCaseID string, body []byte) (string, error)
	TransitionFor(ctx context.Context, testCaseID, name string) (tracker.Transition, error)
	UpdateStatus(ctx context.Context, testCaseID string, transition tracker.Transition) (string, error)
	CreateTestsLink(ctx context.Context, issueKey, requirementID string) error
}

// forEachGroup runs fn for every group on at most workers goroutines. fn
// handles its own errors, so every group is processed. Groups not yet
// started when ctx is canceled are skipped.
func forEachGroup(ctx context.Context, groups []*Group, workers int, fn func(context.Context, *Group)) {
	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for _, group := range groups {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fn(ctx, group)
			return nil
		})
	}
	_ = g.Wait()
}
