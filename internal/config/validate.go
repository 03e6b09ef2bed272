package config

import (
	"strings"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - tracker timeout must be positive
//   - exporter workers must be between 1 and 64
//   - when any update pass is enabled, the tracker endpoint, the test run id,
//     the editable statuses and the initial-test-case field mapping must be set
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateTrackerConfig(&cfg.Tracker); err != nil {
		return err
	}

	if err := validateExporterConfig(&cfg.Exporter); err != nil {
		return err
	}

	if cfg.Exporter.UpdatesEnabled() && strings.TrimSpace(cfg.Tracker.Endpoint) == "" {
		return errors.Wrap(errors.ErrConfigInvalidTracker,
			"tracker.endpoint must be set when updates are enabled")
	}

	return nil
}

// validateTrackerConfig checks tracker connection values.
func validateTrackerConfig(cfg *TrackerConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidTracker,
			"tracker.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// validateExporterConfig checks exporter values.
func validateExporterConfig(cfg *ExporterConfig) error {
	if cfg.Workers < 1 || cfg.Workers > constants.MaxWorkers {
		return errors.Wrapf(errors.ErrConfigInvalidExporter,
			"exporter.workers must be between 1 and %d, got %d", constants.MaxWorkers, cfg.Workers)
	}

	if !cfg.UpdatesEnabled() {
		return nil
	}

	if strings.TrimSpace(cfg.TestRunID) == "" {
		return errors.Wrap(errors.ErrConfigInvalidExporter,
			"exporter.test_run_id must be set when updates are enabled")
	}
	if len(cfg.EditableStatuses) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidExporter,
			"exporter.editable_statuses must not be empty when updates are enabled")
	}
	if strings.TrimSpace(cfg.FieldsMapping[constants.FieldInitialTestCase]) == "" {
		return errors.Wrapf(errors.ErrConfigInvalidExporter,
			"exporter.fields_mapping.%s must be set when updates are enabled", constants.FieldInitialTestCase)
	}
	return nil
}
