package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// FacadeConfig holds the test run settings the facade enforces.
type FacadeConfig struct {
	// TestRunID is the issue whose sub-tasks are the run copies of test cases.
	TestRunID string

	// EditableStatuses lists the workflow statuses that allow updates.
	EditableStatuses []string

	// InitialTestCaseField is the tracker field of a sub-task that holds the
	// identifier of the test case it was copied from.
	InitialTestCaseField string
}

// Facade applies test case updates to the run copies of test cases, after
// checking that the run exists and the copy is editable.
type Facade struct {
	client Client
	config FacadeConfig
	logger zerolog.Logger
}

// NewFacade creates a facade over client.
func NewFacade(client Client, cfg FacadeConfig, logger zerolog.Logger) *Facade {
	return &Facade{client: client, config: cfg, logger: logger}
}

// CheckRunEditable looks up the configured test run. Any lookup failure is
// reported as ErrNonEditableTestRun.
func (f *Facade) CheckRunEditable(ctx context.Context) (*Entity, error) {
	run, err := f.client.GetIssue(ctx, f.config.TestRunID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrNonEditableTestRun, f.config.TestRunID, err)
	}
	return run, nil
}

// CheckIssueEditable returns the sub-task of run copied from testCaseID. It
// fails with ErrNonTestCaseWithinRun when the run has no such sub-task and
// with ErrNonEditableIssueStatus when the sub-task status is not editable.
func (f *Facade) CheckIssueEditable(ctx context.Context, run *Entity, testCaseID string) (*Entity, error) {
	if f.config.InitialTestCaseField == "" {
		return nil, fmt.Errorf("%w: field mapping for %q is not set",
			errors.ErrTrackerConfiguration, constants.FieldInitialTestCase)
	}

	var copyOf *Entity
	for i := range run.Subtasks {
		sub := &run.Subtasks[i]
		initial, err := f.client.GetIssueField(ctx, sub.Key, f.config.InitialTestCaseField)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(initial) == testCaseID {
			copyOf = sub
			break
		}
	}
	if copyOf == nil {
		return nil, fmt.Errorf("%w: %s has no sub-task for %s", errors.ErrNonTestCaseWithinRun, run.Key, testCaseID)
	}

	for _, editable := range f.config.EditableStatuses {
		if strings.EqualFold(strings.TrimSpace(editable), copyOf.Status) {
			return copyOf, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (copy of %s) is in status %q",
		errors.ErrNonEditableIssueStatus, copyOf.Key, testCaseID, copyOf.Status)
}

// TransitionFor returns the transition of testCaseID whose name equals name,
// ignoring case.
func (f *Facade) TransitionFor(ctx context.Context, testCaseID, name string) (Transition, error) {
	transitions, err := f.client.GetIssueTransitions(ctx, testCaseID)
	if err != nil {
		return Transition{}, err
	}
	for _, t := range transitions {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return Transition{}, fmt.Errorf("%w: %s has no %q transition", errors.ErrStatusTransitionUnavailable, testCaseID, name)
}

// UpdateTestCase checks the preconditions and applies body to the run copy of
// testCaseID. It returns the key of the updated copy.
func (f *Facade) UpdateTestCase(ctx context.Context, testCaseID string, body []byte) (string, error) {
	run, copyOf, err := f.checkEditable(ctx, testCaseID)
	if err != nil {
		return "", err
	}

	f.logger.Debug().
		Str("test_case_id", testCaseID).
		Str("issue_key", copyOf.Key).
		Str("test_run_id", run.Key).
		RawJSON("request", body).
		Msg("updating test case")
	if err := f.client.UpdateIssue(ctx, copyOf.Key, body); err != nil {
		return "", err
	}
	f.logger.Info().
		Str("test_case_id", testCaseID).
		Str("issue_key", copyOf.Key).
		Str("test_run_id", run.Key).
		Msg("test case updated")
	return copyOf.Key, nil
}

// UpdateStatus checks the preconditions and performs transition on the run
// copy of testCaseID. It returns the key of the transitioned copy.
func (f *Facade) UpdateStatus(ctx context.Context, testCaseID string, transition Transition) (string, error) {
	run, copyOf, err := f.checkEditable(ctx, testCaseID)
	if err != nil {
		return "", err
	}

	if err := f.client.UpdateIssueStatus(ctx, copyOf.Key, transition.ID); err != nil {
		return "", err
	}
	f.logger.Info().
		Str("test_case_id", testCaseID).
		Str("issue_key", copyOf.Key).
		Str("test_run_id", run.Key).
		Str("status", transition.Name).
		Msg("test case status updated")
	return copyOf.Key, nil
}

// CreateTestsLink links issueKey to requirementID with a "Tests" link unless
// such a link already exists.
func (f *Facade) CreateTestsLink(ctx context.Context, issueKey, requirementID string) error {
	issue, err := f.client.GetIssue(ctx, issueKey)
	if err != nil {
		return err
	}
	for _, link := range issue.Links {
		if link.Type == constants.TestsLinkType && link.Outward == requirementID {
			f.logger.Debug().
				Str("issue_key", issueKey).
				Str("requirement_id", requirementID).
				Msg("tests link already exists")
			return nil
		}
	}

	if err := f.client.CreateIssueLink(ctx, issueKey, requirementID, constants.TestsLinkType); err != nil {
		return err
	}
	f.logger.Info().
		Str("issue_key", issueKey).
		Str("requirement_id", requirementID).
		Msg("tests link created")
	return nil
}

func (f *Facade) checkEditable(ctx context.Context, testCaseID string) (*Entity, *Entity, error) {
	run, err := f.CheckRunEditable(ctx)
	if err != nil {
		return nil, nil, err
	}
	copyOf, err := f.CheckIssueEditable(ctx, run, testCaseID)
	if err != nil {
		return nil, nil, err
	}
	return run, copyOf, nil
}
