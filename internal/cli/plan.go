package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/jiraexport/internal/export"
	"github.com/mrz1836/jiraexport/internal/report"
	"github.com/mrz1836/jiraexport/internal/stats"
	"github.com/mrz1836/jiraexport/internal/status"
)

// AddPlanCommand adds the plan command to the root command.
func AddPlanCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how scenarios group into test cases without contacting the tracker",
		Long: `Read, fold, resolve and group the story JSON reports and print each test case
group with its computed status. Nothing is sent to the tracker.

Examples:
  jiraexport plan
  jiraexport plan --results-dir output/results/jbehave --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd, cmd.OutOrStdout(), flags, global)
		},
	}
	addRunFlags(cmd, flags)
	root.AddCommand(cmd)
}

type planResult struct {
	RunID     string        `json:"run_id"`
	Groups    []planGroup   `json:"groups"`
	WithoutID int           `json:"without_test_case_id"`
	Skipped   int           `json:"skipped"`
	Errors    []errorResult `json:"errors,omitempty"`
}

type planGroup struct {
	TestCaseID string         `json:"test_case_id"`
	Status     string         `json:"status"`
	Scenarios  []planScenario `json:"scenarios"`
}

type planScenario struct {
	Story  string `json:"story"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// runPlan executes the plan command.
func runPlan(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *RunFlags, global *GlobalFlags) error {
	logger := GetLogger()
	defer CloseLogFile()

	cfg, err := loadRunConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}
	logSettings(cfg, logger)

	plan, err := export.NewPipeline(report.NewReader(logger), nil, exportOptions(cfg), logger).Plan(ctx)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return writeJSON(w, newPlanResult(plan))
	}
	stats.RenderPlan(w, plan, stats.Options{Color: colorEnabled()})
	return nil
}

func newPlanResult(plan *export.Plan) planResult {
	result := planResult{
		RunID:     plan.RunID,
		Groups:    make([]planGroup, 0, len(plan.Groups)),
		WithoutID: plan.Resolution.WithoutID(),
		Skipped:   plan.Resolution.Skipped(),
	}
	for _, g := range plan.Groups {
		group := planGroup{TestCaseID: g.TestCaseID, Status: g.Status.String()}
		for _, a := range g.Associations {
			group.Scenarios = append(group.Scenarios, planScenario{
				Story:  a.Story.Path,
				Title:  a.Scenario.Title,
				Status: status.OfScenario(a.Scenario).String(),
			})
		}
		result.Groups = append(result.Groups, group)
	}
	result.Errors = newErrorResults(plan.Errors.Records())
	return result
}
