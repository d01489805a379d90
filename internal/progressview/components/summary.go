package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering a run summary.
type SummaryData struct {
	Total     int
	Completed int
	Failed    int
	Finished  bool
	Cancelled bool
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Nodes: %d/%d completed", s.data.Completed, s.data.Total))
	}

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case s.data.Failed > 0:
		lines = append(lines, fmt.Sprintf("Run failed (%d node(s) failed)", s.data.Failed))
	case s.data.Finished && s.data.Total > 0:
		lines = append(lines, "Run finished successfully")
	}

	return strings.Join(lines, "\n")
}
