package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/jiraexport/internal/errors"
)

// fakeJira serves the issue, field and transition endpoints used by a
// status export of RUN-1 with copies TC-1-RUN and TC-2-RUN.
type fakeJira struct {
	mu          sync.Mutex
	transitions map[string]string
	runMissing  bool
}

func (f *fakeJira) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		path := strings.TrimPrefix(r.URL.Path, "/rest/api/2/issue/")
		switch {
		case r.Method == http.MethodGet && path == "RUN-1":
			if f.runMissing {
				http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
				return
			}
			_, _ = io.WriteString(w, `{"key": "RUN-1", "fields": {"status": {"name": "Open"}, "subtasks": [
				{"key": "TC-1-RUN", "fields": {"status": {"name": "Open"}}},
				{"key": "TC-2-RUN", "fields": {"status": {"name": "Open"}}}
			]}}`)
		case r.Method == http.MethodGet && strings.HasSuffix(path, "-RUN"):
			id := strings.TrimSuffix(path, "-RUN")
			_, _ = io.WriteString(w, `{"fields": {"customfield_1": "`+id+`"}}`)
		case r.Method == http.MethodGet && strings.HasSuffix(path, "/transitions"):
			_, _ = io.WriteString(w, `{"transitions": [{"id": "31", "name": "Passed"}, {"id": "41", "name": "Failed"}]}`)
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/transitions"):
			var body struct {
				Transition struct {
					ID string `json:"id"`
				} `json:"transition"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.mu.Lock()
			f.transitions[strings.TrimSuffix(path, "/transitions")] = body.Transition.ID
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func (f *fakeJira) recorded() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.transitions))
	for k, v := range f.transitions {
		out[k] = v
	}
	return out
}

func setupStatusExport(t *testing.T, jira *fakeJira, report string) string {
	t.Helper()

	project := setupCLIEnv(t)
	t.Setenv("JIRA_API_TOKEN", "test-token")
	srv := httptest.NewServer(jira.handler(t))
	t.Cleanup(srv.Close)

	writeProjectConfig(t, project, `
tracker:
  endpoint: `+srv.URL+`
exporter:
  status_updates_enabled: true
  test_run_id: RUN-1
  editable_statuses: [Open]
  fields_mapping:
    initial-test-case: customfield_1
`)
	return writeReport(t, "login.json", report)
}

func TestExport_StatusPass(t *testing.T) {
	jira := &fakeJira{transitions: map[string]string{}}
	results := setupStatusExport(t, jira, trackedReport)

	out, err := runCLI(t, "export", "--results-dir", results, "--workers", "2")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"TC-1-RUN": "31", "TC-2-RUN": "41"}, jira.recorded())
	assert.Contains(t, out, "Execution Export Info: Details")
	assert.Contains(t, out, "TC-1")
	assert.Contains(t, out, "Execution Export Info: Total: Switch off")
	assert.Contains(t, out, "Execution Export Status: Total")
}

func TestExport_JSONOutputOnFailure(t *testing.T) {
	jira := &fakeJira{transitions: map[string]string{}, runMissing: true}
	results := setupStatusExport(t, jira, passingReport)

	out, err := runCLI(t, "export", "--results-dir", results, "--output", "json")
	require.ErrorIs(t, err, errors.ErrExportFailed)
	assert.Equal(t, ExitError, ExitCodeForError(err))
	assert.Empty(t, jira.recorded())

	var result exportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.WithoutID)
	require.NotNil(t, result.Status)
	assert.Nil(t, result.Info)
	assert.Equal(t, 2, result.Status.NotExported)
	kinds := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{"TEST_CASE_IS_NULL", "TEST_RUN_IS_NOT_EDITABLE", "TEST_RUN_IS_NOT_EDITABLE"}, kinds)
}

func TestExport_StatusFlagOverridesConfig(t *testing.T) {
	jira := &fakeJira{transitions: map[string]string{}}
	results := setupStatusExport(t, jira, trackedReport)

	out, err := runCLI(t, "export", "--results-dir", results, "--status=false")
	require.NoError(t, err)
	assert.Empty(t, jira.recorded())
	assert.Contains(t, out, "Execution Export Status: Total: Switch off")
}

func TestExport_StatusFlagDisablesIncompleteConfig(t *testing.T) {
	project := setupCLIEnv(t)
	writeProjectConfig(t, project, `
exporter:
  status_updates_enabled: true
`)
	results := writeReport(t, "login.json", trackedReport)

	_, err := runCLI(t, "export", "--results-dir", results)
	require.ErrorIs(t, err, errors.ErrConfigInvalidExporter)

	out, err := runCLI(t, "export", "--results-dir", results, "--status=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Execution Export Status: Total: Switch off")
}

func TestExport_MissingToken(t *testing.T) {
	jira := &fakeJira{transitions: map[string]string{}}
	results := setupStatusExport(t, jira, trackedReport)
	t.Setenv("JIRA_API_TOKEN", "")

	_, err := runCLI(t, "export", "--results-dir", results)
	require.ErrorIs(t, err, errors.ErrTokenMissing)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExport_InvalidConfiguration(t *testing.T) {
	setupCLIEnv(t)
	results := writeReport(t, "login.json", passingReport)

	_, err := runCLI(t, "export", "--results-dir", results, "--info")
	require.ErrorIs(t, err, errors.ErrConfigInvalidExporter)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExport_NoReports(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "export", "--results-dir", t.TempDir())
	require.ErrorIs(t, err, errors.ErrNoReports)
}
