// Package domain provides the report model shared by the jiraexport packages:
// stories, scenarios, steps and their metadata, as produced by a BDD run.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// JSON field names follow the camelCase layout of the story report files.
package domain

import (
	"strings"

	"github.com/mrz1836/jiraexport/internal/constants"
)

// Story is one executed story report.
//
// Example JSON representation:
//
//	{
//	    "path": "story/login.story",
//	    "meta": [{"name": "testCaseId", "value": "TC-1"}],
//	    "lifecycle": {"parameters": {"names": ["env"], "values": [["dev"], ["qa"]]}},
//	    "givenStories": {"stories": [...]},
//	    "scenarios": [...]
//	}
type Story struct {
	// Path is the story location relative to the story root, always '/' separated.
	Path string `json:"path"`

	// Meta holds the story-level metadata tags.
	Meta []Meta `json:"meta,omitempty"`

	// Lifecycle holds the optional story-level examples table.
	Lifecycle *Lifecycle `json:"lifecycle,omitempty"`

	// GivenStories are executed before the story's scenarios.
	GivenStories *GivenStories `json:"givenStories,omitempty"`

	// Scenarios in execution order. When a lifecycle table is present every
	// iteration of the table repeats the scenario list.
	Scenarios []*Scenario `json:"scenarios,omitempty"`
}

// Lifecycle wraps the story-level examples table.
type Lifecycle struct {
	Parameters *Parameters `json:"parameters,omitempty"`
}

// GivenStories lists nested stories executed as preconditions.
type GivenStories struct {
	Keyword string   `json:"keyword,omitempty"`
	Stories []*Story `json:"stories,omitempty"`
}

// Parameters is an examples table: ordered column names and value rows.
type Parameters struct {
	Names  []string   `json:"names"`
	Values [][]string `json:"values"`
}

// Meta is a single metadata tag. Value may be empty for flag-like tags.
type Meta struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// MetaValues returns the story-level values for name.
func (s *Story) MetaValues(name string) []string {
	return metaValues(s.Meta, name)
}

// HasMeta reports whether the story carries a tag called name.
func (s *Story) HasMeta(name string) bool {
	return hasMeta(s.Meta, name)
}

// List returns the given stories, or nil when there are none.
func (g *GivenStories) List() []*Story {
	if g == nil {
		return nil
	}
	return g.Stories
}

// metaValues collects the values of every tag called name. Each value is split
// on ';', trimmed, and empty parts are dropped. The result is deduplicated and
// keeps first-seen order.
func metaValues(meta []Meta, name string) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, m := range meta {
		if m.Name != name {
			continue
		}
		for _, part := range strings.Split(m.Value, constants.MetaValueSeparator) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func hasMeta(meta []Meta, name string) bool {
	for _, m := range meta {
		if m.Name == name {
			return true
		}
	}
	return false
}
