package geo

import (
	"strings"

	"github.com/intelligrit/gtd-map/internal/model"
)

const (
	// LineBreak separates hover text lines; the front end renders it as HTML.
	LineBreak = "<br>"
	// SummaryWidth is the column width summaries are wrapped to.
	SummaryWidth = 40
	// DateLayout formats incident dates as "15 Mar, 2006".
	DateLayout = "02 Jan, 2006"
)

// HoverLines returns the hover text of e line by line: location, date,
// perpetrator, target, deaths, injured, a blank separator and the wrapped
// summary. The summary section is a single empty line when there is none.
func HoverLines(e model.Event) []string {
	lines := []string{
		e.City.String() + ", " + e.Country,
		e.Date.Format(DateLayout),
		"Perpetrator: " + e.Actor,
		"Target: " + e.Target.String(),
		"Deaths: " + e.Kills.String(),
		"Injured: " + e.Wounded.String(),
		"",
	}

	var summary []string
	if e.Summary.Valid {
		summary = Wrap(e.Summary.Value, SummaryWidth)
	}
	if len(summary) == 0 {
		summary = []string{""}
	}
	return append(lines, summary...)
}

// HoverText joins HoverLines with LineBreak.
func HoverText(e model.Event) string {
	return strings.Join(HoverLines(e), LineBreak)
}
