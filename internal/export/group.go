package export

import (
	"github.com/mrz1836/jiraexport/internal/content"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/status"
)

// Group is the unit of export: every association sharing one identifier.
//
// InfoUpdated and ExportedStatus are written only by the worker that owns the
// group in the corresponding pass.
type Group struct {
	TestCaseID   string
	Associations []Association

	// Status is the aggregate status of the member scenarios.
	Status status.Status

	// InfoUpdated is set when the info pass updated the test case.
	InfoUpdated bool

	// ExportedStatus is the status applied by the status pass, empty if none.
	ExportedStatus status.Status
}

// Scenarios returns the member scenarios in association order.
func (g *Group) Scenarios() []*domain.Scenario {
	scenarios := make([]*domain.Scenario, 0, len(g.Associations))
	for _, a := range g.Associations {
		scenarios = append(scenarios, a.Scenario)
	}
	return scenarios
}

// Members returns the member scenarios with their stories.
func (g *Group) Members() []content.Member {
	members := make([]content.Member, 0, len(g.Associations))
	for _, a := range g.Associations {
		members = append(members, content.Member{Story: a.Story, Scenario: a.Scenario})
	}
	return members
}

// GroupBy groups associations with an identifier by that identifier, in
// first-seen order, and computes each group's status. Associations without
// identifier are ignored.
func GroupBy(associations []Association) []*Group {
	var groups []*Group
	index := make(map[string]*Group)
	for _, a := range associations {
		if !a.HasID() {
			continue
		}
		g, ok := index[a.TestCaseID]
		if !ok {
			g = &Group{TestCaseID: a.TestCaseID}
			index[a.TestCaseID] = g
			groups = append(groups, g)
		}
		g.Associations = append(g.Associations, a)
	}
	for _, g := range groups {
		g.Status = status.OfScenarios(g.Scenarios())
	}
	return groups
}
