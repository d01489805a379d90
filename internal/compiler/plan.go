package compiler

import "github.com/signalmesh/dagengine/pkg/block"

// Transfer describes copying a source instance's output port into a
// destination instance's input port immediately before the destination
// computes.
type Transfer struct {
	Source    *block.Instance
	SrcPort   string
	DstPort   string
}

// Step is one entry in a compiled Plan: the instance to run, plus the
// transfers that must happen immediately before it runs.
type Step struct {
	Instance  *block.Instance
	Transfers []Transfer
}

// Plan is the compiler's output: a topologically ordered, self-contained
// sequence of steps. Executing it requires no further lookups into the
// schema or registry (§4.3 guarantee).
type Plan struct {
	Steps []Step
}

// InstanceByID returns the plan's instance carrying the given ID, or nil.
func (p *Plan) InstanceByID(id string) *block.Instance {
	for _, step := range p.Steps {
		if step.Instance.InstanceID == id {
			return step.Instance
		}
	}
	return nil
}

// Clone returns a deep, independent copy of the plan: every instance is
// Clone()'d and transfers are re-pointed at the cloned instances, so the
// result shares no mutable state with p. Used by the engine manager when
// checking a fresh engine out of a cached blueprint.
func (p *Plan) Clone() *Plan {
	instanceByOld := make(map[*block.Instance]*block.Instance, len(p.Steps))
	for _, step := range p.Steps {
		instanceByOld[step.Instance] = step.Instance.Clone()
	}

	out := &Plan{Steps: make([]Step, len(p.Steps))}
	for i, step := range p.Steps {
		newStep := Step{Instance: instanceByOld[step.Instance]}
		for _, t := range step.Transfers {
			newStep.Transfers = append(newStep.Transfers, Transfer{
				Source:  instanceByOld[t.Source],
				SrcPort: t.SrcPort,
				DstPort: t.DstPort,
			})
		}
		out.Steps[i] = newStep
	}
	return out
}

// Reset clears every instance's port buffers, leaving options and wiring
// untouched (lifecycle §3, property P5).
func (p *Plan) Reset() {
	for _, step := range p.Steps {
		step.Instance.Reset()
	}
}
