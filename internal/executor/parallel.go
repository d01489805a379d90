package executor

import (
	"context"
	"sync"
	"time"

	"github.com/signalmesh/dagengine/internal/compiler"
	"github.com/signalmesh/dagengine/pkg/block"
	"github.com/signalmesh/dagengine/pkg/engineerrors"
)

// DefaultWorkers is the parallel-threads mode's default worker-pool size
// (§5).
const DefaultWorkers = 4

// Parallel runs a compiled plan with maximum data-driven parallelism: each
// node waits only on its own predecessors, not on a level barrier. It uses
// the counter-based scheduler form the design notes prefer over per-node
// signal polling — an in-degree counter per node, decremented under a
// single lock as each dependency completes, with a goroutine launched the
// instant a counter reaches zero. Every node's terminal state fires exactly
// once regardless of outcome, so no downstream dependent ever deadlocks
// (§4.4.2-§4.4.3).
//
// Already-running compute is not forcibly aborted on cancellation; the
// engine does not own thread-interruption semantics (§9 open question,
// resolved toward "let in-flight compute finish, drop its outputs").
func Parallel(ctx context.Context, plan *compiler.Plan, workers int, events chan<- NodeEvent) Result {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	n := len(plan.Steps)
	if n == 0 {
		return Result{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	instanceStep := make(map[*block.Instance]int, n)
	for i, step := range plan.Steps {
		instanceStep[step.Instance] = i
	}

	inDegree := make([]int, n)
	dependents := make([][]int, n)
	for i, step := range plan.Steps {
		seen := make(map[int]bool)
		for _, t := range step.Transfers {
			srcIdx, ok := instanceStep[t.Source]
			if !ok || seen[srcIdx] {
				continue
			}
			seen[srcIdx] = true
			inDegree[i]++
			dependents[srcIdx] = append(dependents[srcIdx], i)
		}
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		firstErr  error
		sem       = make(chan struct{}, workers)
		eventsMu  sync.Mutex
		collected []NodeEvent
	)

	record := func(ev NodeEvent) {
		emit(events, ev)
		eventsMu.Lock()
		collected = append(collected, ev)
		eventsMu.Unlock()
	}

	var runStep func(i int)
	runStep = func(i int) {
		defer wg.Done()

		step := plan.Steps[i]
		inst := step.Instance

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		case <-runCtx.Done():
			record(NodeEvent{InstanceID: inst.InstanceID, BlockName: inst.Name(), Status: StatusCancelled, Timestamp: time.Now()})
			completeStep(i, dependents, &mu, inDegree, &wg, runStep)
			return
		}

		if runCtx.Err() != nil {
			record(NodeEvent{InstanceID: inst.InstanceID, BlockName: inst.Name(), Status: StatusCancelled, Timestamp: time.Now()})
			completeStep(i, dependents, &mu, inDegree, &wg, runStep)
			return
		}

		for _, t := range step.Transfers {
			_ = inst.SetInput(t.DstPort, t.Source.OutputValue(t.SrcPort).Clone())
		}

		start := time.Now()
		record(NodeEvent{InstanceID: inst.InstanceID, BlockName: inst.Name(), Status: StatusRunning, Timestamp: start})

		err := inst.AsyncOnCompute(runCtx, func(f func()) { go f() })
		duration := time.Since(start)

		if err != nil {
			computeErr := engineerrors.NewComputeError(inst.InstanceID, inst.Name(), err)
			record(NodeEvent{InstanceID: inst.InstanceID, BlockName: inst.Name(), Status: StatusFailed, Err: computeErr, Duration: duration, Timestamp: time.Now()})
			mu.Lock()
			if firstErr == nil {
				firstErr = computeErr
			}
			mu.Unlock()
			cancel()
		} else {
			record(NodeEvent{InstanceID: inst.InstanceID, BlockName: inst.Name(), Status: StatusSuccess, Duration: duration, Timestamp: time.Now()})
		}

		completeStep(i, dependents, &mu, inDegree, &wg, runStep)
	}

	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			wg.Add(1)
			go runStep(i)
		}
	}

	wg.Wait()

	return Result{Events: collected, Err: firstErr}
}

// completeStep decrements the in-degree counter of every dependent of step
// i under the shared lock, launching any dependent whose counter reaches
// zero. This is the "always set the completion signal" step (§4.4.2.4):
// it runs regardless of the step's own outcome.
func completeStep(i int, dependents [][]int, mu *sync.Mutex, inDegree []int, wg *sync.WaitGroup, runStep func(int)) {
	mu.Lock()
	var ready []int
	for _, dep := range dependents[i] {
		inDegree[dep]--
		if inDegree[dep] == 0 {
			ready = append(ready, dep)
		}
	}
	mu.Unlock()

	for _, dep := range ready {
		wg.Add(1)
		go runStep(dep)
	}
}
