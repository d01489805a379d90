package components

import "github.com/signalmesh/dagengine/internal/executor"

// NodeEntry represents a single node for rendering.
type NodeEntry struct {
	InstanceID string
	Event      executor.NodeEvent
}

// NodeList renders a list of nodes with their current status.
type NodeList struct {
	entries []NodeEntry
}

// NewNodeList constructs a node list component in insertion order, so
// the view stays stable even as events arrive out of order under
// parallel execution.
func NewNodeList(order []string, events map[string]executor.NodeEvent) NodeList {
	entries := make([]NodeEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, NodeEntry{InstanceID: id, Event: events[id]})
	}
	return NodeList{entries: entries}
}

// Entries returns the ordered node entries.
func (n NodeList) Entries() []NodeEntry {
	clone := make([]NodeEntry, len(n.entries))
	copy(clone, n.entries)
	return clone
}
