package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, false))
	assert.Equal(t, zerolog.WarnLevel, selectLevel(false, true))
	assert.Equal(t, zerolog.InfoLevel, selectLevel(false, false))
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JIRAEXPORT_HOME", home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "jiraexport.log"), path)
}

func TestInitLogger_RedactsSensitiveDataInFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JIRAEXPORT_HOME", home)
	t.Setenv("NO_COLOR", "1")

	logger := InitLogger(false, false)
	secret := "Bearer " + "TESTONLYbearer" + "token1234567890"
	logger.Info().Str("header", secret).Msg("request")
	CloseLogFile()

	data, err := os.ReadFile(filepath.Join(home, "logs", "jiraexport.log")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Contains(t, string(data), "request")
	assert.NotContains(t, string(data), "TESTONLYbearer")
}

func TestCloseLogFile_NoOpWhenNil(_ *testing.T) {
	logFileWriter = nil
	CloseLogFile()
}
