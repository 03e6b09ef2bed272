package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/clock"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// StoryReader loads the story reports of a run.
type StoryReader interface {
	ReadDir(ctx context.Context, dir string) ([]*domain.Story, error)
}

// Options configure a run.
type Options struct {
	ResultsDir string
	Workers    int
	Info       InfoOptions

	StatusEnabled bool
}

// Pipeline runs an export.
type Pipeline struct {
	reader  StoryReader
	tracker TrackerUpdater
	opts    Options
	logger  zerolog.Logger
	clock   clock.Clock
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock replaces the clock used for run timing.
func WithClock(c clock.Clock) PipelineOption {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// NewPipeline creates a pipeline. tracker may be nil when both passes are
// disabled.
func NewPipeline(reader StoryReader, tracker TrackerUpdater, opts Options, logger zerolog.Logger, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reader:  reader,
		tracker: tracker,
		opts:    opts,
		logger:  logger,
		clock:   clock.RealClock{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Plan is the grouping of a run before anything is sent to the tracker.
type Plan struct {
	RunID      string
	Stories    []*domain.Story
	Resolution Resolution
	Groups     []*Group
	Errors     *errcollect.Collection
}

// Plan reads, folds, resolves and groups the stories without contacting the
// tracker. Only failing to read the reports is returned as an error.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()

	stories, err := p.reader.ReadDir(ctx, p.opts.ResultsDir)
	if err != nil {
		return nil, err
	}

	errs := errcollect.New(logger)
	res := Resolve(stories, errs)
	groups := GroupBy(res.Exportable)

	logger.Info().
		Int("stories", len(stories)).
		Int("associations", len(res.All)).
		Int("groups", len(groups)).
		Msg("export planned")

	return &Plan{
		RunID:      runID,
		Stories:    stories,
		Resolution: res,
		Groups:     groups,
		Errors:     errs,
	}, nil
}

// Run executes the export. The summary is returned whenever the reports could
// be read; the error is ErrExportFailed when any error was recorded.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := p.clock.Now()

	plan, err := p.Plan(ctx)
	if err != nil {
		return nil, err
	}
	logger := p.logger.With().Str("run_id", plan.RunID).Logger()

	NewInfoExporter(p.tracker, p.opts.Info, plan.Errors, logger).Export(ctx, plan.Groups, p.opts.Workers)
	NewStatusExporter(p.tracker, p.opts.StatusEnabled, plan.Errors, logger).Export(ctx, plan.Groups, p.opts.Workers)

	plan.Errors.Publish(logger)

	summary := NewSummary(plan, p.opts, p.clock.Now().Sub(started))
	logger.Info().
		Int("groups", len(plan.Groups)).
		Int("errors", len(summary.Records)).
		Dur("duration", summary.Duration.Round(time.Millisecond)).
		Msg("export finished")

	if len(summary.Records) > 0 {
		return summary, fmt.Errorf("%w: %d error(s)", errors.ErrExportFailed, len(summary.Records))
	}
	return summary, nil
}
