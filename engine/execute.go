package engine

import (
	"errors"
	"time"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
	"github.com/Skryldev/imagegraph/render"
	"github.com/Skryldev/imagegraph/walker"
)

// Cancellable is polled between node visits so a long execution can be
// aborted promptly without every kernel threading a context through
// (spec §4.A "cancellable serialized operations").
type Cancellable interface {
	Cancelled() bool
}

// NodeHook observes each primitive node's execution (package hooks
// implements this structurally; engine never imports it to avoid a
// dependency on logging/metrics concerns it has no business knowing
// about). A nil NodeHook disables observation entirely.
type NodeHook interface {
	BeforeNode(jobID uint64, nodeID int, nodeType graph.NodeType)
	AfterNode(jobID uint64, nodeID int, nodeType graph.NodeType, d time.Duration, err error)
}

// Execute walks g dependency-wise and runs nodedef.Execute on every live
// primitive whose state has reached ReadyForExecution, the analogue of
// job_execution.c's execution walk. A primitive that isn't ready yet —
// the flatten/optimize phases haven't caught up — is skipped along with
// everything downstream of it (without error), while the walk goes on
// with the rest of the graph; the fixpoint loop retries the skipped part
// next pass.
func Execute(g *graph.Graph, kernels render.Kernels, io nodedef.ResourceIO, cancel Cancellable, jobID uint64, hook NodeHook) error {
	return walker.Walk(g, func(g *graph.Graph, nodeID int, quit, skipOutbound *bool, rewalk *bool) error {
		if cancel != nil && cancel.Cancelled() {
			*quit = true
			return apperrors.New(apperrors.KindOperationCancelled, "engine.execute", errors.New("cancellation requested"))
		}
		n := &g.Nodes[nodeID]
		if !n.Type.IsPrimitive() {
			return nil
		}
		if err := g.UpdateState(nodeID); err != nil {
			return err
		}
		if n.State&graph.ReadyForExecution != graph.ReadyForExecution {
			*skipOutbound = true
			return nil
		}
		if n.State&graph.StateExecuted != 0 {
			return nil
		}
		if hook != nil {
			hook.BeforeNode(jobID, nodeID, n.Type)
		}
		start := time.Now()
		err := nodedef.Execute(g, nodeID, kernels, io)
		if hook != nil {
			hook.AfterNode(jobID, nodeID, n.Type, time.Since(start), err)
		}
		if err != nil {
			return apperrors.Wrap(apperrors.KindInternalError, "engine.execute", err)
		}
		n.State |= graph.StateExecuted
		return g.UpdateState(nodeID)
	}, nil, nil)
}
