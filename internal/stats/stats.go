// Package stats renders run statistics as text tables.
package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/jiraexport/internal/errcollect"
	"github.com/mrz1836/jiraexport/internal/export"
	"github.com/mrz1836/jiraexport/internal/status"
)

// SwitchedOff is shown in place of values of a disabled pass.
const SwitchedOff = "Switch off"

const (
	notExported    = "-"
	reasonMaxWidth = 50
)

// Options control rendering.
type Options struct {
	// Color enables colored table styles.
	Color bool
}

var titleCaser = cases.Title(language.English)

// StatusName returns the display name of a status, e.g. "Passed".
func StatusName(s status.Status) string {
	if s == "" {
		return notExported
	}
	return titleCaser.String(strings.ToLower(s.String()))
}

// Render writes the details, info totals and status totals tables.
func Render(w io.Writer, s *export.Summary, opts Options) {
	renderDetails(w, s, opts)
	renderInfoTotals(w, s, opts)
	renderStatusTotals(w, s, opts)
}

func newTable(w io.Writer, title string, opts Options) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	if opts.Color {
		t.SetStyle(table.StyleColoredDark)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.Style().Title.Format = text.FormatDefault
	return t
}

func renderDetails(w io.Writer, s *export.Summary, opts Options) {
	t := newTable(w, "Execution Export Info: Details", opts)
	t.AppendHeader(table.Row{"TC id", "Scenarios", "TC info updated", "Status TC (exported)", "Passed/Failed/Skipped", "Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Scenarios", Align: text.AlignRight},
		{Name: "Reason", WidthMax: reasonMaxWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, tc := range s.TestCases {
		t.AppendRow(table.Row{
			tc.TestCaseID,
			tc.Scenarios,
			infoValue(s, tc),
			statusValue(s, tc),
			fmt.Sprintf("%d/%d/%d", tc.Passed, tc.Failed, tc.Skipped),
			reasons(tc.Reasons),
		})
	}
	if s.WithoutID > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{
			"null",
			s.WithoutID,
			onOff(s.InfoEnabled, "No"),
			onOff(s.StatusEnabled, "Skipped"),
			fmt.Sprintf("0/0/%d", s.WithoutID),
			reasons([]errcollect.Kind{errcollect.KindTestCaseIsNull}),
		})
	}
	t.Render()
}

func renderInfoTotals(w io.Writer, s *export.Summary, opts Options) {
	title := "Execution Export Info: Total"
	if !s.InfoEnabled {
		writeSwitchedOff(w, title)
		return
	}
	totals := s.InfoTotals()
	t := newTable(w, title, opts)
	t.AppendHeader(table.Row{"", "TCs"})
	t.AppendRows([]table.Row{
		{"Updated", totals.Updated},
		{"Failed", totals.Failed},
		{"Skipped", totals.Skipped},
		{"Without 'testCaseId'", totals.WithoutID},
	})
	t.AppendFooter(table.Row{"Total", totals.Total})
	t.Render()
}

func renderStatusTotals(w io.Writer, s *export.Summary, opts Options) {
	title := "Execution Export Status: Total"
	if !s.StatusEnabled {
		writeSwitchedOff(w, title)
		return
	}
	totals := s.StatusTotals()
	t := newTable(w, title, opts)
	t.AppendHeader(table.Row{"Status", "TCs"})
	t.AppendRows([]table.Row{
		{StatusName(status.Passed), totals.Passed},
		{StatusName(status.Failed), totals.Failed},
		{"Not exported", totals.NotExported},
		{"Skipped", totals.Skipped},
	})
	t.AppendFooter(table.Row{"Total", totals.Total})
	t.Render()
}

// RenderPlan writes the grouping of a planned run with computed statuses.
func RenderPlan(w io.Writer, plan *export.Plan, opts Options) {
	t := newTable(w, "Export Plan", opts)
	t.AppendHeader(table.Row{"TC id", "Status", "Story", "Scenario", "Scenario status"})
	for _, g := range plan.Groups {
		for i, a := range g.Associations {
			id, groupStatus := "", ""
			if i == 0 {
				id, groupStatus = g.TestCaseID, StatusName(g.Status)
			}
			t.AppendRow(table.Row{id, groupStatus, a.Story.Path, a.Scenario.Title, StatusName(status.OfScenario(a.Scenario))})
		}
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{"Groups", strconv.Itoa(len(plan.Groups)), "", "Recorded errors", strconv.Itoa(plan.Errors.Len())})
	t.Render()
}

func infoValue(s *export.Summary, tc export.TestCaseSummary) string {
	switch {
	case !s.InfoEnabled:
		return SwitchedOff
	case !tc.Exported:
		return "Skipped"
	case tc.InfoUpdated:
		return "Yes"
	default:
		return "No"
	}
}

func statusValue(s *export.Summary, tc export.TestCaseSummary) string {
	switch {
	case !s.StatusEnabled:
		return SwitchedOff
	case !tc.Exported:
		return "Skipped"
	default:
		return StatusName(tc.ExportedStatus)
	}
}

func onOff(enabled bool, value string) string {
	if !enabled {
		return SwitchedOff
	}
	return value
}

func reasons(kinds []errcollect.Kind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, k.Comment())
	}
	return strings.Join(parts, "; ")
}

func writeSwitchedOff(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "%s: %s\n", title, SwitchedOff)
}
