// Package tracker talks to the issue tracker holding test runs and test cases.
//
// Client is the narrow set of tracker operations the exporter depends on.
// HTTPClient implements it against the Jira REST API; Facade layers the
// test run preconditions on top of any Client.
//
// Import rules:
//   - CAN import: internal/constants, internal/errors, std lib
//   - MUST NOT import: internal/export, internal/cli
package tracker

import "context"

// Entity is an issue as seen by the exporter.
type Entity struct {
	Key      string
	Status   string
	Subtasks []Entity
	Links    []Link
}

// Link is an issue link. Inward and Outward hold the linked issue keys; only
// the side that is not the owning issue is set.
type Link struct {
	Type    string
	Inward  string
	Outward string
}

// Transition is a workflow transition available on an issue.
type Transition struct {
	ID   string
	Name string
}

// Client is the set of tracker operations used by the exporter.
type Client interface {
	// GetIssue returns the issue with its status, sub-tasks and links.
	GetIssue(ctx context.Context, key string) (*Entity, error)

	// GetIssueField returns the string value of a single field.
	GetIssueField(ctx context.Context, key, field string) (string, error)

	// GetIssueTransitions returns the transitions available on the issue.
	GetIssueTransitions(ctx context.Context, key string) ([]Transition, error)

	// UpdateIssue applies a JSON update request to the issue.
	UpdateIssue(ctx context.Context, key string, body []byte) error

	// UpdateIssueStatus performs a workflow transition on the issue.
	UpdateIssueStatus(ctx context.Context, key, transitionID string) error

	// CreateIssueLink links fromKey to toKey with the given link type.
	CreateIssueLink(ctx context.Context, fromKey, toKey, linkType string) error
}
