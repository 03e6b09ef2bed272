// Package config provides configuration management for jiraexport with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides or applied by the command)
//  2. Environment variables (JIRAEXPORT_* prefix)
//  3. Project config (.jiraexport/config.yaml)
//  4. Global config (~/.jiraexport/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for jiraexport.
type Config struct {
	// Tracker contains the connection settings of the issue tracker.
	Tracker TrackerConfig `yaml:"tracker" mapstructure:"tracker" json:"tracker"`

	// Exporter contains the settings of the export passes.
	Exporter ExporterConfig `yaml:"exporter" mapstructure:"exporter" json:"exporter"`
}

// TrackerConfig contains the issue tracker connection settings.
type TrackerConfig struct {
	// Endpoint is the base URL of the tracker, e.g. https://jira.example.com.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`

	// Username selects basic authentication. Empty means bearer token authentication.
	Username string `yaml:"username" mapstructure:"username" json:"username"`

	// TokenEnvVar names the environment variable holding the API token.
	// The token itself never lives in config files.
	// Default: JIRA_API_TOKEN
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var" json:"token_env_var"`

	// Timeout bounds every tracker request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// Token returns the API token read from TokenEnvVar.
func (c TrackerConfig) Token() string {
	if c.TokenEnvVar == "" {
		return ""
	}
	return os.Getenv(c.TokenEnvVar)
}

// ExporterConfig contains the settings of the info and status passes.
type ExporterConfig struct {
	// ResultsDir is the directory holding the story JSON reports.
	ResultsDir string `yaml:"results_dir" mapstructure:"results_dir" json:"results_dir"`

	// ProjectKey is the fallback project of exported test cases.
	ProjectKey string `yaml:"project_key" mapstructure:"project_key" json:"project_key"`

	// AssigneeID is the fallback assignee of exported test cases.
	AssigneeID string `yaml:"assignee_id" mapstructure:"assignee_id" json:"assignee_id"`

	// TestRunID is the key of the test run issue whose sub-tasks are updated.
	TestRunID string `yaml:"test_run_id" mapstructure:"test_run_id" json:"test_run_id"`

	// TestIssueType is the issue type name written into test case bodies.
	// Default: Test
	TestIssueType string `yaml:"test_issue_type" mapstructure:"test_issue_type" json:"test_issue_type"`

	// InfoUpdatesEnabled switches the test case content pass on.
	InfoUpdatesEnabled bool `yaml:"info_updates_enabled" mapstructure:"info_updates_enabled" json:"info_updates_enabled"`

	// StatusUpdatesEnabled switches the status transition pass on.
	StatusUpdatesEnabled bool `yaml:"status_updates_enabled" mapstructure:"status_updates_enabled" json:"status_updates_enabled"`

	// EditableStatuses lists the workflow statuses a run copy may be updated in.
	EditableStatuses []string `yaml:"editable_statuses" mapstructure:"editable_statuses" json:"editable_statuses"`

	// RequireAutomated fails groups whose scenarios are all manual.
	// Default: true
	RequireAutomated bool `yaml:"require_automated" mapstructure:"require_automated" json:"require_automated"`

	// Workers is the number of groups exported concurrently per pass.
	// Default: 4, Valid range: 1-64
	Workers int `yaml:"workers" mapstructure:"workers" json:"workers"`

	// FieldsMapping maps logical field names to tracker field ids.
	FieldsMapping map[string]string `yaml:"fields_mapping" mapstructure:"fields_mapping" json:"fields_mapping"`
}

// UpdatesEnabled reports whether any pass contacts the tracker.
func (c ExporterConfig) UpdatesEnabled() bool {
	return c.InfoUpdatesEnabled || c.StatusUpdatesEnabled
}
