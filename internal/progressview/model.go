// Package progressview renders a run's progress as a bubbletea program,
// fed by the executor's NodeEvent stream instead of polling engine state
// directly.
package progressview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/signalmesh/dagengine/internal/executor"
)

// EventMsg wraps a single executor.NodeEvent for delivery into the
// bubbletea update loop.
type EventMsg struct {
	Event executor.NodeEvent
}

// DoneMsg signals the run has finished (the events channel closed).
type DoneMsg struct{}

// Model is the Bubbletea state for the run's progress view.
type Model struct {
	title          string
	nodes          map[string]executor.NodeEvent
	order          []string
	total          int
	completed      int
	failed         int
	finished       bool
	cancelled      bool
	nonInteractive bool

	events <-chan executor.NodeEvent
}

// NewModel constructs a progress view model that will track total nodes
// and consume events from the supplied channel as they arrive.
func NewModel(title string, total int, events <-chan executor.NodeEvent, nonInteractive bool) Model {
	return Model{
		title:          title,
		nodes:          make(map[string]executor.NodeEvent),
		order:          make([]string, 0, total),
		total:          total,
		events:         events,
		nonInteractive: nonInteractive,
	}
}

// Init starts listening for the first event.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// TotalNodes returns the total number of nodes tracked by the model.
func (m Model) TotalNodes() int { return m.total }

// CompletedNodes returns the number of nodes that reached a terminal state.
func (m Model) CompletedNodes() int { return m.completed }

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool { return m.finished }

func waitForEvent(events <-chan executor.NodeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return DoneMsg{}
		}
		return EventMsg{Event: ev}
	}
}

func (m *Model) ensureNode(id string) {
	if id == "" {
		return
	}
	if _, exists := m.nodes[id]; !exists {
		m.nodes[id] = executor.NodeEvent{InstanceID: id, Status: executor.StatusPending}
		m.order = append(m.order, id)
		if m.total < len(m.order) {
			m.total = len(m.order)
		}
	}
}
