package errcollect

import (
	stderrors "errors"

	"github.com/mrz1836/jiraexport/internal/errors"
)

// Kind classifies a recorded error.
type Kind string

// Error kinds. The set is closed; unrecognized errors are Unknown.
const (
	KindUnknown                     Kind = "UNKNOWN"
	KindTestCaseIsNull              Kind = "TEST_CASE_IS_NULL"
	KindTestCaseHasMetaSkipExport   Kind = "TEST_CASE_HAS_META_SKIP_EXPORT"
	KindTestRunIsNotEditable        Kind = "TEST_RUN_IS_NOT_EDITABLE"
	KindTestCaseStatusIsNotEditable Kind = "TEST_CASE_STATUS_IS_NOT_EDITABLE"
	KindTestCaseIsMissed            Kind = "TEST_CASE_IS_MISSED"
	KindNoScenarios                 Kind = "NO_SCENARIOS"
	KindNoAutomatedScenarios        Kind = "NO_AUTOMATED_SCENARIOS"
	KindNotSingleUniqueValue        Kind = "NOT_SINGLE_UNIQUE_VALUE"
	KindStatusTransitionUnavailable Kind = "STATUS_TRANSITION_UNAVAILABLE"
	KindUnevenLifecycle             Kind = "UNEVEN_LIFECYCLE"
	KindGivenStoryCycle             Kind = "GIVEN_STORY_CYCLE"
	KindTrackerConfiguration        Kind = "TRACKER_CONFIGURATION"
	KindTrackerRequest              Kind = "TRACKER_REQUEST"
)

type kindEntry struct {
	kind     Kind
	sentinel error
	comment  string
}

// kinds is checked in order. Precondition errors wrap the tracker error that
// caused them, so they come before KindTrackerRequest.
var kinds = []kindEntry{
	{KindTestCaseIsNull, errors.ErrIdentifierMissing, "'testCaseId' is null"},
	{KindTestCaseHasMetaSkipExport, errors.ErrSkipRequested, "Test Case has Meta: jira.skip-export"},
	{KindTestRunIsNotEditable, errors.ErrNonEditableTestRun, "Test Run is not editable"},
	{KindTestCaseStatusIsNotEditable, errors.ErrNonEditableIssueStatus, "Test Case status is not editable"},
	{KindTestCaseIsMissed, errors.ErrNonTestCaseWithinRun, "Test Case does not exist within Test Run"},
	{KindNoScenarios, errors.ErrNonScenarios, "Test Case has no scenarios to export"},
	{KindNoAutomatedScenarios, errors.ErrNonAutomatedTypes, "Test Case has no automated scenarios"},
	{KindNotSingleUniqueValue, errors.ErrNotSingleUniqueValue, "Scenarios disagree on a single-value field"},
	{KindStatusTransitionUnavailable, errors.ErrStatusTransitionUnavailable, "Status transition is unavailable"},
	{KindUnevenLifecycle, errors.ErrUnevenLifecycle, "Scenarios do not divide by lifecycle rows"},
	{KindGivenStoryCycle, errors.ErrGivenStoryCycle, "Given stories nest too deep or form a cycle"},
	{KindTrackerConfiguration, errors.ErrTrackerConfiguration, "Tracker field mapping is incomplete"},
	{KindTrackerRequest, errors.ErrTrackerRequest, "Tracker request failed"},
}

// KindOf classifies err.
func KindOf(err error) Kind {
	for _, entry := range kinds {
		if stderrors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}
	return KindUnknown
}

// Comment returns the human readable description of the kind.
func (k Kind) Comment() string {
	for _, entry := range kinds {
		if entry.kind == k {
			return entry.comment
		}
	}
	return "Unknown error"
}
