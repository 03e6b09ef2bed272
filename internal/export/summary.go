package export

import (
	"slices"
	"time"

	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/status"
)

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Duration time.Duration

	InfoEnabled   bool
	StatusEnabled bool

	// TestCases has one row per identifier, in first-seen order, including
	// identifiers whose scenarios were all skipped.
	TestCases []TestCaseSummary

	// WithoutID counts scenarios without identifier.
	WithoutID int

	Records []errcollect.Record
}

// TestCaseSummary is the outcome of one identifier.
type TestCaseSummary struct {
	TestCaseID string
	Scenarios  int
	Passed     int
	Failed     int
	Skipped    int

	// Exported is false when every scenario of the identifier was skipped.
	Exported       bool
	Status         status.Status
	InfoUpdated    bool
	ExportedStatus status.Status

	// Reasons lists the distinct kinds recorded for the identifier.
	Reasons []errcollect.Kind
}

// NewSummary builds the summary of a run from its plan and recorded errors.
func NewSummary(plan *Plan, opts Options, duration time.Duration) *Summary {
	s := &Summary{
		RunID:         plan.RunID,
		Duration:      duration,
		InfoEnabled:   opts.Info.Enabled,
		StatusEnabled: opts.StatusEnabled,
		WithoutID:     plan.Resolution.WithoutID(),
		Records:       plan.Errors.Records(),
	}

	groups := make(map[string]*Group, len(plan.Groups))
	for _, g := range plan.Groups {
		groups[g.TestCaseID] = g
	}

	index := make(map[string]int)
	for _, a := range plan.Resolution.All {
		if !a.HasID() {
			continue
		}
		i, ok := index[a.TestCaseID]
		if !ok {
			i = len(s.TestCases)
			index[a.TestCaseID] = i
			row := TestCaseSummary{TestCaseID: a.TestCaseID}
			if g, ok := groups[a.TestCaseID]; ok {
				row.Exported = true
				row.Status = g.Status
				row.InfoUpdated = g.InfoUpdated
				row.ExportedStatus = g.ExportedStatus
			}
			s.TestCases = append(s.TestCases, row)
		}

		row := &s.TestCases[i]
		row.Scenarios++
		switch {
		case a.Skipped:
			row.Skipped++
		case status.OfScenario(a.Scenario) == status.Failed:
			row.Failed++
		default:
			row.Passed++
		}
	}

	for _, rec := range s.Records {
		i, ok := index[rec.TestCaseID]
		if !ok {
			continue
		}
		row := &s.TestCases[i]
		if !slices.Contains(row.Reasons, rec.Kind) {
			row.Reasons = append(row.Reasons, rec.Kind)
		}
	}
	return s
}

// InfoTotals counts test cases by info pass outcome.
type InfoTotals struct {
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	WithoutID int `json:"without_test_case_id"`
	Total     int `json:"total"`
}

// InfoTotals returns the info pass totals.
func (s *Summary) InfoTotals() InfoTotals {
	t := InfoTotals{WithoutID: s.WithoutID}
	for _, tc := range s.TestCases {
		switch {
		case !tc.Exported:
			t.Skipped++
		case tc.InfoUpdated:
			t.Updated++
		default:
			t.Failed++
		}
	}
	t.Total = len(s.TestCases) + s.WithoutID
	return t
}

// StatusTotals counts test cases by status pass outcome.
type StatusTotals struct {
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	NotExported int `json:"not_exported"`
	Skipped     int `json:"skipped"`
	Total       int `json:"total"`
}

// StatusTotals returns the status pass totals.
func (s *Summary) StatusTotals() StatusTotals {
	var t StatusTotals
	for _, tc := range s.TestCases {
		switch {
		case !tc.Exported:
			t.Skipped++
		case tc.ExportedStatus == status.Passed:
			t.Passed++
		case tc.ExportedStatus == status.Failed:
			t.Failed++
		default:
			t.NotExported++
		}
	}
	t.Total = len(s.TestCases)
	return t
}
