// Package errors provides centralized error handling for jiraexport.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors raised while reading and resolving report scenarios.
var (
	// ErrIdentifierMissing indicates a scenario carries no test case identifier meta.
	ErrIdentifierMissing = errors.New("test case identifier is missing")

	// ErrSkipRequested indicates a scenario is tagged to be skipped during export.
	ErrSkipRequested = errors.New("scenario export skip requested")

	// ErrUnevenLifecycle indicates the scenario count of a story is not a multiple
	// of its lifecycle example rows, so folding truncated the result.
	ErrUnevenLifecycle = errors.New("scenario count does not divide by lifecycle rows")

	// ErrGivenStoryCycle indicates given stories nest deeper than allowed or
	// reference themselves.
	ErrGivenStoryCycle = errors.New("given stories nest too deep or form a cycle")

	// ErrNoReports indicates the results directory holds no JSON report files.
	ErrNoReports = errors.New("no JSON report files found")

	// ErrReportInvalid indicates a report file could not be decoded.
	ErrReportInvalid = errors.New("invalid report file")
)

// Sentinel errors raised while exporting a test case group.
var (
	// ErrNonEditableTestRun indicates the configured test run could not be looked up.
	ErrNonEditableTestRun = errors.New("test run is not editable")

	// ErrNonEditableIssueStatus indicates the test case workflow status is not in
	// the configured allow-list.
	ErrNonEditableIssueStatus = errors.New("test case status is not editable")

	// ErrNonTestCaseWithinRun indicates the test run has no sub-task for the test case.
	ErrNonTestCaseWithinRun = errors.New("test case does not exist within test run")

	// ErrNonScenarios indicates a group yields no renderable scenario content.
	ErrNonScenarios = errors.New("test case has no scenarios")

	// ErrNonAutomatedTypes indicates automated content is required but no
	// scenario of the group is automated.
	ErrNonAutomatedTypes = errors.New("test case has no automated scenarios")

	// ErrNotSingleUniqueValue indicates scenarios of one group disagree on a
	// field that must hold a single value.
	ErrNotSingleUniqueValue = errors.New("field value is not single and unique")

	// ErrStatusTransitionUnavailable indicates the tracker exposes no transition
	// named after the computed status.
	ErrStatusTransitionUnavailable = errors.New("status transition is unavailable")

	// ErrManualStepSyntax indicates a manual step comment is malformed,
	// e.g. a Data or Result line before any Step line.
	ErrManualStepSyntax = errors.New("invalid manual step syntax")

	// ErrTrackerConfiguration indicates the tracker field mapping lacks a required field.
	ErrTrackerConfiguration = errors.New("tracker configuration is incomplete")

	// ErrTrackerRequest indicates a tracker HTTP request failed or returned an
	// unexpected status code.
	ErrTrackerRequest = errors.New("tracker request failed")

	// ErrExportFailed indicates the run finished but recorded at least one error.
	ErrExportFailed = errors.New("export finished with errors")
)

// Sentinel errors for configuration and CLI handling.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidTracker indicates an invalid tracker configuration value.
	ErrConfigInvalidTracker = errors.New("invalid tracker configuration")

	// ErrConfigInvalidExporter indicates an invalid exporter configuration value.
	ErrConfigInvalidExporter = errors.New("invalid exporter configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnsupportedOutputFormat indicates that an unsupported output format was specified.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrTokenMissing indicates the tracker API token environment variable is empty.
	ErrTokenMissing = errors.New("tracker API token is not set")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
