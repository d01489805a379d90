package progressview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/signalmesh/dagengine/internal/executor"
)

// Update handles bubbletea messages and advances model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		id := msg.Event.InstanceID
		m.ensureNode(id)
		existing := m.nodes[id]
		previouslyTerminal := isTerminal(existing.Status)
		m.nodes[id] = msg.Event

		if !previouslyTerminal && isTerminal(msg.Event.Status) {
			m.completed++
		}
		if msg.Event.Status == executor.StatusFailed {
			m.failed++
		}
		if m.total > 0 && m.completed >= m.total {
			m.finished = true
		}
		return m, waitForEvent(m.events)
	case DoneMsg:
		m.finished = true
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func isTerminal(status executor.NodeStatus) bool {
	switch status {
	case executor.StatusSuccess, executor.StatusFailed, executor.StatusCancelled:
		return true
	default:
		return false
	}
}
