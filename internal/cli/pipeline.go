package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/jiraexport/internal/config"
	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/content"
	"github.com/mrz1836/jiraexport/internal/errors"
	"github.com/mrz1836/jiraexport/internal/export"
	"github.com/mrz1836/jiraexport/internal/logging"
	"github.com/mrz1836/jiraexport/internal/report"
	"github.com/mrz1836/jiraexport/internal/tracker"
)

// RunFlags are the run settings shared by export and plan.
type RunFlags struct {
	ResultsDir string
	TestRunID  string
	Workers    int
	Info       bool
	Status     bool
}

// addRunFlags registers the flags shared by export and plan.
func addRunFlags(cmd *cobra.Command, flags *RunFlags) {
	cmd.Flags().StringVar(&flags.ResultsDir, "results-dir", "", "directory holding the story JSON reports")
	cmd.Flags().StringVar(&flags.TestRunID, "run", "", "key of the test run issue")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "groups exported concurrently per pass (1-64)")
	cmd.Flags().BoolVar(&flags.Info, "info", false, "update test case content")
	cmd.Flags().BoolVar(&flags.Status, "status", false, "update test case status")
}

// loadRunConfig loads the layered configuration and applies the run flags.
// Boolean switches only apply when given on the command line.
func loadRunConfig(ctx context.Context, cmd *cobra.Command, flags *RunFlags) (*config.Config, error) {
	return config.LoadWithOverrides(ctx, &config.Config{
		Exporter: config.ExporterConfig{
			ResultsDir: flags.ResultsDir,
			TestRunID:  flags.TestRunID,
			Workers:    flags.Workers,
		},
	}, func(cfg *config.Config) {
		if cmd.Flags().Changed("info") {
			cfg.Exporter.InfoUpdatesEnabled = flags.Info
		}
		if cmd.Flags().Changed("status") {
			cfg.Exporter.StatusUpdatesEnabled = flags.Status
		}
	})
}

// exportOptions translates configuration into pipeline options.
func exportOptions(cfg *config.Config) export.Options {
	return export.Options{
		ResultsDir: cfg.Exporter.ResultsDir,
		Workers:    cfg.Exporter.Workers,
		Info: export.InfoOptions{
			Enabled:   cfg.Exporter.InfoUpdatesEnabled,
			IssueType: cfg.Exporter.TestIssueType,
			Mapping:   content.FieldMapping(cfg.Exporter.FieldsMapping),
			Compose: content.Options{
				ProjectKey:       cfg.Exporter.ProjectKey,
				AssigneeID:       cfg.Exporter.AssigneeID,
				RequireAutomated: cfg.Exporter.RequireAutomated,
			},
		},
		StatusEnabled: cfg.Exporter.StatusUpdatesEnabled,
	}
}

// newTrackerFacade connects to the tracker. It returns nil when no pass
// contacts the tracker.
func newTrackerFacade(cfg *config.Config, logger zerolog.Logger) (export.TrackerUpdater, error) {
	if !cfg.Exporter.UpdatesEnabled() {
		return nil, nil //nolint:nilnil // no tracker is a valid result
	}

	token := cfg.Tracker.Token()
	if token == "" {
		return nil, fmt.Errorf("%w: %s is empty", errors.ErrTokenMissing, cfg.Tracker.TokenEnvVar)
	}

	client := tracker.NewHTTPClient(cfg.Tracker.Endpoint, cfg.Tracker.Timeout,
		tracker.WithCredentials(cfg.Tracker.Username, token),
		tracker.WithLogger(logger),
	)
	return tracker.NewFacade(client, tracker.FacadeConfig{
		TestRunID:            cfg.Exporter.TestRunID,
		EditableStatuses:     cfg.Exporter.EditableStatuses,
		InitialTestCaseField: cfg.Exporter.FieldsMapping[constants.FieldInitialTestCase],
	}, logger), nil
}

// newPipeline builds the export pipeline for cfg.
func newPipeline(cfg *config.Config, logger zerolog.Logger) (*export.Pipeline, error) {
	facade, err := newTrackerFacade(cfg, logger)
	if err != nil {
		return nil, err
	}
	return export.NewPipeline(report.NewReader(logger), facade, exportOptions(cfg), logger), nil
}

// logSettings logs the effective configuration with secrets masked.
func logSettings(cfg *config.Config, logger zerolog.Logger) {
	settings, err := settingsMap(cfg)
	if err != nil {
		return
	}
	logger.Debug().Interface("settings", logging.RedactSettings(settings)).Msg("effective configuration")
}
