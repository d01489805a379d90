// Package compiler consumes a block-template registry and a schema
// document and emits a self-contained, topologically ordered execution
// plan (§4.3 of the engine design).
package compiler

import (
	"github.com/signalmesh/dagengine/pkg/block"
	"github.com/signalmesh/dagengine/pkg/engineerrors"
	"github.com/signalmesh/dagengine/pkg/schema"
)

// DiagnosticSink receives non-fatal warnings emitted during compilation
// (UnknownBlock, DanglingConnection). Any logger exposing a matching Warn
// method satisfies this, including *telemetry.Logger.
type DiagnosticSink interface {
	Warn(msg string, fields ...any)
}

type nopSink struct{}

func (nopSink) Warn(string, ...any) {}

type portRef struct {
	node string
	port string
}

// Compile instantiates every recognized node, resolves its ports and
// options, wires connections into a multigraph, rejects cycles, and emits a
// topologically ordered plan. Unknown block types and dangling connections
// are dropped with a logged warning rather than failing compilation
// (§7: UnknownBlock, DanglingConnection are non-fatal).
func Compile(registry *block.Registry, doc *schema.Schema, sink DiagnosticSink) (*Plan, error) {
	if sink == nil {
		sink = nopSink{}
	}

	instances := make(map[string]*block.Instance, len(doc.Nodes))
	graph := newMultigraph()

	// Step 1: instantiate.
	for _, node := range doc.Nodes {
		tmpl, ok := registry.Get(node.Type)
		if !ok {
			sink.Warn("dropping node with unknown block type", "node_id", node.ID, "type", node.Type)
			continue
		}
		inst := tmpl.Spawn(node.ID)
		instances[node.ID] = inst
		graph.addNode(node.ID)
	}

	outputIndex := make(map[string]portRef)
	inputIndex := make(map[string]portRef)

	// Step 2: resolve ports (and apply option overlays).
	for _, node := range doc.Nodes {
		inst, ok := instances[node.ID]
		if !ok {
			continue
		}
		for name, np := range node.Inputs {
			if inst.HasOption(name) {
				if err := inst.SetOption(name, np.Value); err != nil {
					sink.Warn("option assignment rejected", "node_id", node.ID, "option", name, "err", err.Error())
				}
				continue
			}
			if inst.HasInput(name) {
				inputIndex[np.ID] = portRef{node: node.ID, port: name}
			}
		}
		for name, np := range node.Outputs {
			if inst.HasOutput(name) {
				outputIndex[np.ID] = portRef{node: node.ID, port: name}
			}
		}
	}

	// Step 3: build edges, preserving per-connection incoming-transfer order.
	incoming := make(map[string][]Transfer, len(instances))
	for _, conn := range doc.Connections {
		src, srcOK := outputIndex[conn.From]
		dst, dstOK := inputIndex[conn.To]
		if !srcOK || !dstOK {
			sink.Warn("dropping dangling connection", "connection_id", conn.ID, "from", conn.From, "to", conn.To)
			continue
		}
		graph.addEdge(src.node, dst.node, src.port, dst.port)
		incoming[dst.node] = append(incoming[dst.node], Transfer{
			Source:  instances[src.node],
			SrcPort: src.port,
			DstPort: dst.port,
		})
	}

	// Steps 4-5: cycle detection + topological order.
	order, err := topoOrder(graph)
	if err != nil {
		return nil, err
	}

	// Step 6: emit plan.
	plan := &Plan{Steps: make([]Step, 0, len(order))}
	for _, id := range order {
		plan.Steps = append(plan.Steps, Step{
			Instance:  instances[id],
			Transfers: incoming[id],
		})
	}

	return plan, nil
}

// CompileStrict behaves like Compile but returns UnknownBlockError /
// DanglingConnectionError instead of swallowing them, for callers (such as
// editor-side validation) that want fail-fast behavior instead of the
// engine's normal best-effort semantics.
func CompileStrict(registry *block.Registry, doc *schema.Schema) (*Plan, error) {
	sink := &collectingSink{}
	plan, err := Compile(registry, doc, sink)
	if err != nil {
		return nil, err
	}
	if len(sink.errs) > 0 {
		return nil, sink.errs[0]
	}
	return plan, nil
}

type collectingSink struct {
	errs []error
}

func (s *collectingSink) Warn(msg string, fields ...any) {
	var nodeID, connID, typ, from, to string
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		val, _ := fields[i+1].(string)
		switch key {
		case "node_id":
			nodeID = val
		case "connection_id":
			connID = val
		case "type":
			typ = val
		case "from":
			from = val
		case "to":
			to = val
		}
	}
	switch msg {
	case "dropping node with unknown block type":
		s.errs = append(s.errs, engineerrors.NewUnknownBlock(nodeID, typ))
	case "dropping dangling connection":
		s.errs = append(s.errs, engineerrors.NewDanglingConnection(connID, from, to))
	}
}
