package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrz1836/jiraexport/internal/tracker"
)

// FakeInitialTestCaseField is the field FakeTracker stores the initial test
// case identifier of a run copy in.
const FakeInitialTestCaseField = "customfield_initial"

// Tracker operations that can be made to fail with FailOn.
const (
	OpGetIssue            = "GetIssue"
	OpGetIssueField       = "GetIssueField"
	OpGetIssueTransitions = "GetIssueTransitions"
	OpUpdateIssue         = "UpdateIssue"
	OpUpdateIssueStatus   = "UpdateIssueStatus"
	OpCreateIssueLink     = "CreateIssueLink"
)

// IssueUpdate records an UpdateIssue call.
type IssueUpdate struct {
	Key  string
	Body []byte
}

// StatusUpdate records an UpdateIssueStatus call.
type StatusUpdate struct {
	Key          string
	TransitionID string
}

// LinkCall records a CreateIssueLink call.
type LinkCall struct {
	From string
	To   string
	Type string
}

// FakeTracker is an in-memory tracker.Client that records write calls.
// It is safe for concurrent use.
type FakeTracker struct {
	mu          sync.Mutex
	issues      map[string]*tracker.Entity
	fields      map[string]map[string]string
	transitions map[string][]tracker.Transition
	failures    map[string]error

	updates       []IssueUpdate
	statusUpdates []StatusUpdate
	links         []LinkCall
}

var _ tracker.Client = (*FakeTracker)(nil)

// NewFakeTracker creates an empty fake tracker.
func NewFakeTracker() *FakeTracker {
	return &FakeTracker{
		issues:      make(map[string]*tracker.Entity),
		fields:      make(map[string]map[string]string),
		transitions: make(map[string][]tracker.Transition),
		failures:    make(map[string]error),
	}
}

// AddRun registers an empty test run.
func (f *FakeTracker) AddRun(runID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[runID] = &tracker.Entity{Key: runID, Status: "Open"}
}

// AddRunCopy registers a sub-task of runID copied from testCaseID. The copy
// key is testCaseID + "-RUN".
func (f *FakeTracker) AddRunCopy(runID, testCaseID, status string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := testCaseID + "-RUN"
	run, ok := f.issues[runID]
	if !ok {
		run = &tracker.Entity{Key: runID, Status: "Open"}
		f.issues[runID] = run
	}
	copyOf := tracker.Entity{Key: key, Status: status}
	run.Subtasks = append(run.Subtasks, copyOf)
	f.issues[key] = &tracker.Entity{Key: key, Status: status}
	f.fields[key] = map[string]string{FakeInitialTestCaseField: " " + testCaseID + " "}
	return key
}

// AddTransitions registers the transitions available on key.
func (f *FakeTracker) AddTransitions(key string, transitions ...tracker.Transition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions[key] = append(f.transitions[key], transitions...)
}

// AddLink registers an existing link on key.
func (f *FakeTracker) AddLink(key string, link tracker.Link) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[key]
	if !ok {
		issue = &tracker.Entity{Key: key}
		f.issues[key] = issue
	}
	issue.Links = append(issue.Links, link)
}

// FailOn makes op fail with err for key.
func (f *FakeTracker) FailOn(op, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+":"+key] = err
}

// Updates returns the recorded UpdateIssue calls.
func (f *FakeTracker) Updates() []IssueUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IssueUpdate(nil), f.updates...)
}

// StatusUpdates returns the recorded UpdateIssueStatus calls.
func (f *FakeTracker) StatusUpdates() []StatusUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]StatusUpdate(nil), f.statusUpdates...)
}

// Links returns the recorded CreateIssueLink calls.
func (f *FakeTracker) Links() []LinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LinkCall(nil), f.links...)
}

// GetIssue implements tracker.Client.
func (f *FakeTracker) GetIssue(_ context.Context, key string) (*tracker.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpGetIssue, key); err != nil {
		return nil, err
	}
	issue, ok := f.issues[key]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", key, ErrMockNotFound)
	}
	clone := *issue
	clone.Subtasks = append([]tracker.Entity(nil), issue.Subtasks...)
	clone.Links = append([]tracker.Link(nil), issue.Links...)
	return &clone, nil
}

// GetIssueField implements tracker.Client.
func (f *FakeTracker) GetIssueField(_ context.Context, key, field string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpGetIssueField, key); err != nil {
		return "", err
	}
	return f.fields[key][field], nil
}

// GetIssueTransitions implements tracker.Client.
func (f *FakeTracker) GetIssueTransitions(_ context.Context, key string) ([]tracker.Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpGetIssueTransitions, key); err != nil {
		return nil, err
	}
	return append([]tracker.Transition(nil), f.transitions[key]...), nil
}

// UpdateIssue implements tracker.Client.
func (f *FakeTracker) UpdateIssue(_ context.Context, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpUpdateIssue, key); err != nil {
		return err
	}
	f.updates = append(f.updates, IssueUpdate{Key: key, Body: append([]byte(nil), body...)})
	return nil
}

// UpdateIssueStatus implements tracker.Client. The issue status itself is
// left unchanged.
func (f *FakeTracker) UpdateIssueStatus(_ context.Context, key, transitionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpUpdateIssueStatus, key); err != nil {
		return err
	}
	f.statusUpdates = append(f.statusUpdates, StatusUpdate{Key: key, TransitionID: transitionID})
	return nil
}

// CreateIssueLink implements tracker.Client.
func (f *FakeTracker) CreateIssueLink(_ context.Context, fromKey, toKey, linkType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpCreateIssueLink, fromKey); err != nil {
		return err
	}
	f.links = append(f.links, LinkCall{From: fromKey, To: toKey, Type: linkType})
	return nil
}

func (f *FakeTracker) failure(op, key string) error {
	return f.failures[op+":"+key]
}
