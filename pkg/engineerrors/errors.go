// Package engineerrors defines the typed error kinds raised across the
// dataflow compute engine: unknown businesses, unknown block types,
// dangling connections, cycles, and compute failures.
package engineerrors

import "fmt"

// UnknownBusinessError is returned when a business ID has not been
// registered with the EngineManager.
type UnknownBusinessError struct {
	BusinessID string
}

// NewUnknownBusiness constructs an UnknownBusinessError.
func NewUnknownBusiness(businessID string) error {
	return &UnknownBusinessError{BusinessID: businessID}
}

func (e *UnknownBusinessError) Error() string {
	return fmt.Sprintf("unknown business %q", e.BusinessID)
}

// UnknownBlockError is raised internally by the compiler when a schema node
// names a type absent from the registry. It is non-fatal: the compiler logs
// it as a diagnostic and drops the node rather than propagating it.
type UnknownBlockError struct {
	NodeID string
	Type   string
}

// NewUnknownBlock constructs an UnknownBlockError.
func NewUnknownBlock(nodeID, blockType string) error {
	return &UnknownBlockError{NodeID: nodeID, Type: blockType}
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("node %q: unknown block type %q", e.NodeID, e.Type)
}

// DanglingConnectionError is raised internally by the compiler when a
// connection references a port ID that does not resolve to any
// instantiated node. Non-fatal: the connection is dropped.
type DanglingConnectionError struct {
	ConnectionID string
	From         string
	To           string
}

// NewDanglingConnection constructs a DanglingConnectionError.
func NewDanglingConnection(connectionID, from, to string) error {
	return &DanglingConnectionError{ConnectionID: connectionID, From: from, To: to}
}

func (e *DanglingConnectionError) Error() string {
	return fmt.Sprintf("connection %q: unresolved endpoint (from=%q to=%q)", e.ConnectionID, e.From, e.To)
}

// CycleError is raised when the instance graph induced by connections
// contains a cycle. It is fatal: compilation fails.
type CycleError struct {
	Cycle []string
}

// NewCycleError constructs a CycleError naming the participating node IDs
// in cycle order.
func NewCycleError(cycle []string) error {
	return &CycleError{Cycle: append([]string(nil), cycle...)}
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "cycle detected in graph"
	}
	seq := append(append([]string{}, e.Cycle...), e.Cycle[0])
	out := "cycle detected:"
	for _, id := range seq {
		out += " " + id + " ->"
	}
	return out[:len(out)-3]
}

// ComputeError is raised by the executor when a block instance's compute
// call fails. It carries enough context to locate the offending node.
type ComputeError struct {
	InstanceID string
	BlockName  string
	Err        error
}

// NewComputeError constructs a ComputeError.
func NewComputeError(instanceID, blockName string, err error) error {
	return &ComputeError{InstanceID: instanceID, BlockName: blockName, Err: err}
}

func (e *ComputeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("compute error in %s (instance %s)", e.BlockName, e.InstanceID)
	}
	return fmt.Sprintf("compute error in %s (instance %s): %v", e.BlockName, e.InstanceID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ComputeError) Unwrap() error {
	return e.Err
}

// CompileError wraps a fatal compilation failure (currently always a
// CycleError) with the schema-level context the EngineManager needs to
// report to its caller.
type CompileError struct {
	BusinessID string
	Err        error
}

// NewCompileError constructs a CompileError.
func NewCompileError(businessID string, err error) error {
	return &CompileError{BusinessID: businessID, Err: err}
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error for business %q: %v", e.BusinessID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}
