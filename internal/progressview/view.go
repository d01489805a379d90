package progressview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/signalmesh/dagengine/internal/executor"
	"github.com/signalmesh/dagengine/internal/progressview/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("dagengine • %s", m.title)))

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	list := components.NewNodeList(m.order, m.nodes)
	entries := list.Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Nodes"))
		sections = append(sections, renderNodeEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Failed:    m.failed,
		Finished:  m.finished,
		Cancelled: m.cancelled,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderNodeEntries(entries []components.NodeEntry) string {
	var lines []string
	for _, entry := range entries {
		ev := entry.Event
		icon := StatusIcon(ev.Status)
		name := ev.BlockName
		if name == "" {
			name = entry.InstanceID
		}
		line := fmt.Sprintf(" %s %s (%s)", icon, entry.InstanceID, name)
		if ev.Err != nil {
			line = fmt.Sprintf("%s — %s", line, ev.Err.Error())
		}
		if ev.Duration > 0 {
			line = fmt.Sprintf("%s [%s]", line, ev.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// StatusIcon returns the glyph representing a node's status.
func StatusIcon(status executor.NodeStatus) string {
	switch status {
	case executor.StatusSuccess:
		return successStyle.Render("✓")
	case executor.StatusRunning:
		return runningStyle.Render("⏳")
	case executor.StatusFailed:
		return failureStyle.Render("✗")
	case executor.StatusCancelled:
		return pendingStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
