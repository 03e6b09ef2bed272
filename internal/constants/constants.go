// Package constants provides centralized constant values used throughout jiraexport.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
package constants

import "time"

// Meta names read from story and scenario metadata.
const (
	// MetaTestCaseID holds one or more tracker identifiers separated by ';'.
	MetaTestCaseID = "testCaseId"

	// MetaLabels holds tracker labels for the exported test case.
	MetaLabels = "jira.labels"

	// MetaComponents holds tracker components for the exported test case.
	MetaComponents = "jira.components"

	// MetaSkipExport excludes a scenario from export when present.
	MetaSkipExport = "jira.skip-export"

	// MetaProjectKey overrides the configured project key for a scenario.
	MetaProjectKey = "jira.project-key"

	// MetaAssigneeID overrides the configured assignee for a scenario.
	MetaAssigneeID = "jira.assignee-id"

	// MetaRequirementID holds requirement keys the test case should be linked to.
	MetaRequirementID = "requirementId"

	// MetaValueSeparator separates multiple values inside one meta value.
	MetaValueSeparator = ";"
)

// Field mapping keys resolved through exporter.fields_mapping.
const (
	FieldInitialTestCase      = "initial-test-case"
	FieldTestCaseType         = "test-case-type"
	FieldManualSteps          = "manual-steps"
	FieldCucumberScenarioType = "cucumber-scenario-type"
	FieldCucumberScenario     = "cucumber-scenario"
)

// TestsLinkType is the tracker link type created between a test case and a requirement.
const TestsLinkType = "Test"

// Default exporter settings.
const (
	// DefaultTestIssueType is the tracker issue type name for test cases.
	DefaultTestIssueType = "Test"

	// DefaultWorkers is the number of groups exported concurrently per pass.
	DefaultWorkers = 4

	// MaxWorkers bounds exporter.workers.
	MaxWorkers = 64

	// DefaultTrackerTimeout is the per-request timeout of the tracker client.
	DefaultTrackerTimeout = 30 * time.Second

	// DefaultTokenEnvVar names the environment variable holding the tracker API token.
	DefaultTokenEnvVar = "JIRA_API_TOKEN"

	// DefaultResultsDir is where story JSON reports are read from.
	DefaultResultsDir = "output/results/jbehave"

	// MaxGivenStoryDepth bounds the nesting of given stories during rendering.
	MaxGivenStoryDepth = 32
)
