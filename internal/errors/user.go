package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() needs chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Export outcome
	// ===================
	{
		err: ErrExportFailed,
		info: ErrorInfo{
			Message: "Export finished, but some scenarios could not be reconciled.",
			Action:  "Review the numbered error report above and fix the listed scenarios or tracker issues.",
		},
	},
	{
		err: ErrNoReports,
		info: ErrorInfo{
			Message: "The results directory does not contain any JSON report files.",
			Action:  "Point --results-dir at the directory holding the story JSON reports.",
		},
	},
	{
		err: ErrReportInvalid,
		info: ErrorInfo{
			Message: "A report file could not be parsed.",
			Action:  "Regenerate the reports; files must be story JSON documents.",
		},
	},

	// ===================
	// Tracker
	// ===================
	{
		err: ErrTokenMissing,
		info: ErrorInfo{
			Message: "The tracker API token is not set.",
			Action:  "Export the variable named by tracker.token_env_var (default JIRA_API_TOKEN).",
		},
	},
	{
		err: ErrTrackerRequest,
		info: ErrorInfo{
			Message: "A request to the tracker failed.",
			Action:  "Check tracker.endpoint, credentials and network access.",
		},
	},
	{
		err: ErrTrackerConfiguration,
		info: ErrorInfo{
			Message: "The tracker field mapping is incomplete.",
			Action:  "Add the missing key under exporter.fields_mapping.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .jiraexport/config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidTracker,
		info: ErrorInfo{
			Message: "Invalid tracker configuration.",
			Action:  "Run 'jiraexport config show' and fix the tracker section.",
		},
	},
	{
		err: ErrConfigInvalidExporter,
		info: ErrorInfo{
			Message: "Invalid exporter configuration.",
			Action:  "Run 'jiraexport config show' and fix the exporter section.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error using errors.Is()
// traversal. Returns an ErrorInfo with the original message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when no clear remedy exists.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
