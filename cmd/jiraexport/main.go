// Package main provides the entry point for the jiraexport CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/jiraexport/internal/cli"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Set via ldflags at build time.
var (
	version = "" //nolint:gochecknoglobals // ldflags target
	commit  = "" //nolint:gochecknoglobals // ldflags target
	date    = "" //nolint:gochecknoglobals // ldflags target
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		message, action := errors.Actionable(err)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		if message != err.Error() {
			_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err)
		}
		if action != "" {
			_, _ = fmt.Fprintf(os.Stderr, "  %s\n", action)
		}
	}
	os.Exit(cli.ExitCodeForError(err))
}
