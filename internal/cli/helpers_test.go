package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupCLIEnv isolates a test from the user's home and working directory
// and returns the project directory it switched to.
func setupCLIEnv(t *testing.T) string {
	t.Helper()

	t.Setenv("JIRAEXPORT_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("JIRA_API_TOKEN", "")
	t.Setenv("JIRAEXPORT_OUTPUT", "")
	project := t.TempDir()
	t.Chdir(project)
	return project
}

// writeProjectConfig writes .jiraexport/config.yaml below dir.
func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()

	configDir := filepath.Join(dir, ".jiraexport")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o600))
}

// writeReport writes a story report into a fresh results directory.
func writeReport(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	return dir
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// trackedReport holds one passing and one failing test case.
const trackedReport = `{
	"path": "stories/login.story",
	"scenarios": [
		{
			"title": "Valid login",
			"meta": [{"name": "testCaseId", "value": "TC-1"}],
			"steps": [{"outcome": "successful", "value": "Given a user"}]
		},
		{
			"title": "Invalid login",
			"meta": [{"name": "testCaseId", "value": "TC-2"}],
			"steps": [{"outcome": "failed", "value": "Then an error is shown"}]
		}
	]
}`

// passingReport adds a scenario without testCaseId to trackedReport.
const passingReport = `{
	"path": "stories/login.story",
	"scenarios": [
		{
			"title": "Valid login",
			"meta": [{"name": "testCaseId", "value": "TC-1"}],
			"steps": [
				{"outcome": "successful", "value": "Given a user"},
				{"outcome": "successful", "value": "Then the user is logged in"}
			]
		},
		{
			"title": "Invalid login",
			"meta": [{"name": "testCaseId", "value": "TC-2"}],
			"steps": [{"outcome": "failed", "value": "Then an error is shown"}]
		},
		{
			"title": "Untracked",
			"steps": [{"outcome": "successful", "value": "Given nothing"}]
		}
	]
}`
