package manager

import "github.com/signalmesh/dagengine/internal/compiler"

// enginePool is a bounded FIFO of ready-to-run plan clones for a single
// cache key, implemented as a buffered channel per the design notes'
// preference for channel-backed pools over a mutex-guarded slice. Pop
// never blocks: an empty pool just means the caller clones fresh from
// the blueprint (§4.5.2).
type enginePool struct {
	ch chan *compiler.Plan
}

func newEnginePool(capacity int) *enginePool {
	return &enginePool{ch: make(chan *compiler.Plan, capacity)}
}

// pop returns a pooled plan, or nil if the pool is currently empty.
func (p *enginePool) pop() *compiler.Plan {
	select {
	case plan := <-p.ch:
		return plan
	default:
		return nil
	}
}

// push returns a plan to the pool. If the pool is already at capacity the
// plan is discarded rather than the push blocking (P7: the pool bound is
// never exceeded).
func (p *enginePool) push(plan *compiler.Plan) {
	select {
	case p.ch <- plan:
	default:
	}
}
