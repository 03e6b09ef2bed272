package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/export"
	"github.com/mrz1836/jiraexport/internal/signal"
	"github.com/mrz1836/jiraexport/internal/stats"
)

// AddExportCommand adds the export command to the root command.
func AddExportCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export run results to the tracker",
		Long: `Read the story JSON reports, group scenarios by testCaseId and update the
test case copies of the configured test run.

The info pass rewrites test case content, the status pass moves each copy to
Passed or Failed. Both passes are switched by configuration or --info/--status.

Examples:
  jiraexport export --run RUN-42 --status
  jiraexport export --results-dir output/results/jbehave --info --status --workers 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, cmd.OutOrStdout(), flags, global)
		},
	}
	addRunFlags(cmd, flags)
	root.AddCommand(cmd)
}

// exportResult is the JSON document printed by export --output json.
type exportResult struct {
	RunID     string               `json:"run_id"`
	Success   bool                 `json:"success"`
	Duration  string               `json:"duration"`
	Info      *export.InfoTotals   `json:"info,omitempty"`
	Status    *export.StatusTotals `json:"status,omitempty"`
	TestCases []testCaseResult     `json:"test_cases"`
	WithoutID int                  `json:"without_test_case_id"`
	Errors    []errorResult        `json:"errors,omitempty"`
}

type testCaseResult struct {
	TestCaseID     string   `json:"test_case_id"`
	Scenarios      int      `json:"scenarios"`
	Passed         int      `json:"passed"`
	Failed         int      `json:"failed"`
	Skipped        int      `json:"skipped"`
	Exported       bool     `json:"exported"`
	Status         string   `json:"status,omitempty"`
	InfoUpdated    bool     `json:"info_updated"`
	ExportedStatus string   `json:"exported_status,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
}

type errorResult struct {
	Phase      string `json:"phase"`
	Kind       string `json:"kind"`
	TestCaseID string `json:"test_case_id,omitempty"`
	Story      string `json:"story,omitempty"`
	Scenario   string `json:"scenario,omitempty"`
	Message    string `json:"message"`
}

// runExport executes the export command.
func runExport(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *RunFlags, global *GlobalFlags) error {
	logger := GetLogger()
	defer CloseLogFile()

	cfg, err := loadRunConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}
	logSettings(cfg, logger)

	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()

	summary, runErr := pipeline.Run(h.Context())
	if sig := h.Signal(); sig != nil {
		logger.Warn().Str("signal", sig.String()).Msg("export interrupted, remaining groups were not exported")
		runErr = stderrors.Join(runErr, context.Cause(h.Context()))
	}
	if summary == nil {
		return runErr
	}

	if global.Output == OutputJSON {
		if err := writeJSON(w, newExportResult(summary, runErr == nil)); err != nil {
			return err
		}
		return runErr
	}

	stats.Render(w, summary, stats.Options{Color: colorEnabled()})
	return runErr
}

func newExportResult(s *export.Summary, success bool) exportResult {
	result := exportResult{
		RunID:     s.RunID,
		Success:   success,
		Duration:  s.Duration.Round(time.Millisecond).String(),
		TestCases: make([]testCaseResult, 0, len(s.TestCases)),
		WithoutID: s.WithoutID,
	}
	if s.InfoEnabled {
		totals := s.InfoTotals()
		result.Info = &totals
	}
	if s.StatusEnabled {
		totals := s.StatusTotals()
		result.Status = &totals
	}
	for _, tc := range s.TestCases {
		row := testCaseResult{
			TestCaseID:     tc.TestCaseID,
			Scenarios:      tc.Scenarios,
			Passed:         tc.Passed,
			Failed:         tc.Failed,
			Skipped:        tc.Skipped,
			Exported:       tc.Exported,
			Status:         tc.Status.String(),
			InfoUpdated:    tc.InfoUpdated,
			ExportedStatus: tc.ExportedStatus.String(),
		}
		for _, k := range tc.Reasons {
			row.Reasons = append(row.Reasons, string(k))
		}
		result.TestCases = append(result.TestCases, row)
	}
	result.Errors = newErrorResults(s.Records)
	return result
}

// colorEnabled reports whether stdout is a TTY and NO_COLOR is unset.
func colorEnabled() bool {
	return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
}

func newErrorResults(records []errcollect.Record) []errorResult {
	results := make([]errorResult, 0, len(records))
	for _, r := range records {
		results = append(results, errorResult{
			Phase:      string(r.Phase),
			Kind:       string(r.Kind),
			TestCaseID: r.TestCaseID,
			Story:      r.StoryPath,
			Scenario:   r.ScenarioTitle,
			Message:    r.Message,
		})
	}
	return results
}
