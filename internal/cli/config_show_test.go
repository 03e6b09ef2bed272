package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/jiraexport/internal/errors"
)

func TestRunConfigShow_JSONSources(t *testing.T) {
	project := setupCLIEnv(t)
	writeProjectConfig(t, project, `
tracker:
  endpoint: https://jira.example.com
exporter:
  fields_mapping:
    initial-test-case: customfield_1
`)
	t.Setenv("JIRAEXPORT_EXPORTER_PROJECT_KEY", "ENV")

	var buf bytes.Buffer
	require.NoError(t, runConfigShow(context.Background(), &buf, &ConfigShowFlags{OutputFormat: "json"}))

	var annotated AnnotatedConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &annotated))

	assert.Equal(t, ConfigValueWithSource{Value: "https://jira.example.com", Source: SourceProject}, annotated["tracker"]["endpoint"])
	assert.Equal(t, ConfigValueWithSource{Value: "ENV", Source: SourceEnv}, annotated["exporter"]["project_key"])
	assert.Equal(t, SourceDefault, annotated["tracker"]["token_env_var"].Source)
	assert.Equal(t, "30s", annotated["tracker"]["timeout"].Value)
	assert.Equal(t, map[string]any{"initial-test-case": "customfield_1"}, annotated["exporter"]["fields_mapping"].Value)
}

func TestRunConfigShow_YAML(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Effective jiraexport Configuration")
	assert.Contains(t, out, "tracker:")
	assert.Contains(t, out, "exporter:")
	assert.Contains(t, out, "JIRA_API_TOKEN")
	assert.Contains(t, out, "(not found)")
}

func TestRunConfigShow_UnsupportedFormat(t *testing.T) {
	setupCLIEnv(t)

	var buf bytes.Buffer
	err := runConfigShow(context.Background(), &buf, &ConfigShowFlags{OutputFormat: "toml"})
	require.ErrorIs(t, err, errors.ErrUnsupportedOutputFormat)
}

func TestRunConfigShow_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runConfigShow(ctx, &bytes.Buffer{}, &ConfigShowFlags{OutputFormat: "yaml"})
	require.ErrorIs(t, err, context.Canceled)
}
