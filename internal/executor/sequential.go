package executor

import (
	"context"
	"time"

	"github.com/signalmesh/dagengine/internal/compiler"
	"github.com/signalmesh/dagengine/pkg/engineerrors"
)

// Sequential walks the plan in strict topological order (§4.4.1). On the
// first compute failure it aborts immediately without executing later
// steps; partially produced outputs are left on the instances for the pool
// to reset on return.
func Sequential(ctx context.Context, plan *compiler.Plan, events chan<- NodeEvent) Result {
	var result Result

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			emit(events, NodeEvent{InstanceID: step.Instance.InstanceID, BlockName: step.Instance.Name(), Status: StatusCancelled, Timestamp: time.Now()})
			result.Err = err
			return result
		}

		for _, t := range step.Transfers {
			_ = step.Instance.SetInput(t.DstPort, t.Source.OutputValue(t.SrcPort).Clone())
		}

		start := time.Now()
		emit(events, NodeEvent{InstanceID: step.Instance.InstanceID, BlockName: step.Instance.Name(), Status: StatusRunning, Timestamp: start})

		err := step.Instance.OnCompute(ctx)
		duration := time.Since(start)

		if err != nil {
			computeErr := engineerrors.NewComputeError(step.Instance.InstanceID, step.Instance.Name(), err)
			ev := NodeEvent{InstanceID: step.Instance.InstanceID, BlockName: step.Instance.Name(), Status: StatusFailed, Err: computeErr, Duration: duration, Timestamp: time.Now()}
			emit(events, ev)
			result.Events = append(result.Events, ev)
			result.Err = computeErr
			return result
		}

		ev := NodeEvent{InstanceID: step.Instance.InstanceID, BlockName: step.Instance.Name(), Status: StatusSuccess, Duration: duration, Timestamp: time.Now()}
		emit(events, ev)
		result.Events = append(result.Events, ev)
	}

	return result
}
