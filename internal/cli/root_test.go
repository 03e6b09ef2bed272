package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/jiraexport/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "jiraexport")
	assert.Contains(t, output, "export")
	assert.Contains(t, output, "plan")
	assert.Contains(t, output, "config")
	assert.Contains(t, output, "--output")
	assert.Contains(t, output, "--verbose")
	assert.Contains(t, output, "--quiet")
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-01"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1.2.3 (commit: abc1234, built: 2026-01-01)")
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "2.0.0 (commit: none, built: unknown)", formatVersion(BuildInfo{Version: "2.0.0"}))
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "plan", "--output", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseQuietMutuallyExclusive(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "plan", "--verbose", "--quiet")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
