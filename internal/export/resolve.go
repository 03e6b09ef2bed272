// Package export reconciles story reports with tracker test cases.
//
// A run reads the stories, folds lifecycle iterations, fans every scenario out
// to one Association per test case identifier, groups the associations by
// identifier and then runs two independent passes over the groups: the info
// pass updates test case content, the status pass moves the test case to the
// computed status. Every error is recorded per group; no group's failure
// stops another group or the other pass.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, internal/status,
//     internal/content, internal/errcollect, internal/tracker, internal/clock, std lib
//   - MUST NOT import: internal/cli, internal/config
package export

import (
	"fmt"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Association ties a scenario to one test case identifier.
type Association struct {
	// TestCaseID is empty when the scenario has no identifier.
	TestCaseID string
	Story      *domain.Story
	Scenario   *domain.Scenario

	// Skipped is set for scenarios tagged to be skipped.
	Skipped bool
}

// HasID reports whether the association carries an identifier.
func (a Association) HasID() bool {
	return a.TestCaseID != ""
}

// Resolution is the result of identifier fan-out.
type Resolution struct {
	// All holds every association, in story and scenario order.
	All []Association

	// Exportable holds the associations with an identifier that are not skipped.
	Exportable []Association
}

// WithoutID counts associations without an identifier.
func (r Resolution) WithoutID() int {
	n := 0
	for _, a := range r.All {
		if !a.HasID() {
			n++
		}
	}
	return n
}

// Skipped counts skipped associations.
func (r Resolution) Skipped() int {
	n := 0
	for _, a := range r.All {
		if a.Skipped {
			n++
		}
	}
	return n
}

// Resolve folds every story and fans its scenarios out by identifier.
//
// A scenario without identifier yields one association without identifier and
// an ErrIdentifierMissing record. A scenario with identifiers yields one
// association per distinct identifier; when it is tagged to be skipped each of
// them records ErrSkipRequested and none is exportable. Stories whose scenario
// count does not divide by their lifecycle rows record ErrUnevenLifecycle.
func Resolve(stories []*domain.Story, errs *errcollect.Collection) Resolution {
	var res Resolution
	for _, story := range stories {
		if err := story.CheckLifecycle(); err != nil {
			errs.AddReaderError(err, "", story, nil)
		}

		for _, sc := range story.FoldedScenarios() {
			ids := sc.MetaValues(constants.MetaTestCaseID)
			if len(ids) == 0 {
				errs.AddReaderError(fmt.Errorf("%w: scenario %q of %s", errors.ErrIdentifierMissing, sc.Title, story.Path), "", story, sc)
				res.All = append(res.All, Association{Story: story, Scenario: sc})
				continue
			}

			skip := sc.HasMeta(constants.MetaSkipExport)
			for _, id := range ids {
				a := Association{TestCaseID: id, Story: story, Scenario: sc, Skipped: skip}
				res.All = append(res.All, a)
				if skip {
					errs.AddReaderError(fmt.Errorf("%w: %s is tagged %s", errors.ErrSkipRequested, id, constants.MetaSkipExport), id, story, sc)
					continue
				}
				res.Exportable = append(res.Exportable, a)
			}
		}
	}
	return res
}
