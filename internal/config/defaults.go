package config

import (
	"github.com/mrz1836/jiraexport/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// Both passes are off until switched on by config, env or flags.
func DefaultConfig() *Config {
	return &Config{
		Tracker: TrackerConfig{
			TokenEnvVar: constants.DefaultTokenEnvVar,
			Timeout:     constants.DefaultTrackerTimeout,
		},
		Exporter: ExporterConfig{
			ResultsDir:       constants.DefaultResultsDir,
			TestIssueType:    constants.DefaultTestIssueType,
			RequireAutomated: true,
			Workers:          constants.DefaultWorkers,
		},
	}
}
