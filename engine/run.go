package engine

import (
	"errors"
	"fmt"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
	"github.com/Skryldev/imagegraph/render"
)

// Recorder observes each pass of Run for offline debugging (package
// debugdump implements this; a nil Recorder disables recording
// entirely, which is the zero-cost default).
type Recorder interface {
	RecordPass(g *graph.Graph, pass int)
}

// Run drives the fixpoint loop of spec §4.E/§4.H, mirroring
// flow_job_execute's pass body exactly: each outer pass repropagates
// dimensions between every phase — propagate, pre-optimize-flatten,
// propagate, optimize, propagate, post-optimize-flatten, propagate,
// execute — rather than propagating once and betting that a single
// flatten sweep left every edge dimensioned. Newly lowered nodes from
// pre-optimize-flatten (e.g. Rotate90 into Transpose+FlipVertical) are
// then immediately re-propagated so optimize and post-optimize-flatten
// see their dimensions the same pass, instead of waiting an extra
// outer iteration — this is what lets ordinary chains (four stacked
// Rotate90 nodes, say) converge well inside the default maxPasses.
// Termination is checked at the top of each pass, exactly like
// flow_job_graph_fully_executed: once every live node has reached
// Executed, Run returns without spending another pass.
func Run(g *graph.Graph, resolver nodedef.DimensionResolver, kernels render.Kernels, io nodedef.ResourceIO, cancel Cancellable, maxPasses int, rec Recorder, jobID uint64, hook NodeHook) error {
	if maxPasses <= 0 {
		maxPasses = 6
	}
	for pass := 0; !allTerminal(g); pass++ {
		if pass >= maxPasses {
			return apperrors.New(apperrors.KindMaximumGraphPassesExceeded, "engine.run", fmt.Errorf("graph not fully executed after %d passes", maxPasses))
		}
		if cancel != nil && cancel.Cancelled() {
			return apperrors.New(apperrors.KindOperationCancelled, "engine.run", errors.New("cancellation requested"))
		}

		if err := PropagateDimensions(g, resolver); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidGraph, "engine.run.propagate", err)
		}

		if _, err := PreOptimizeFlattenPass(g); err != nil {
			return err
		}

		if err := PropagateDimensions(g, resolver); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidGraph, "engine.run.propagate", err)
		}

		if err := Optimize(g); err != nil {
			return err
		}

		if err := PropagateDimensions(g, resolver); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidGraph, "engine.run.propagate", err)
		}

		if _, err := PostOptimizeFlattenPass(g); err != nil {
			return err
		}

		if err := PropagateDimensions(g, resolver); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidGraph, "engine.run.propagate", err)
		}

		if err := Execute(g, kernels, io, cancel, jobID, hook); err != nil {
			return err
		}

		if rec != nil {
			rec.RecordPass(g, pass)
		}
	}
	return nil
}

// allTerminal reports whether every live node has reached Executed,
// the analogue of flow_job_graph_fully_executed. Only primitive nodes
// ever gain the Executed bit (Execute skips non-primitive types), so a
// graph still holding un-flattened high-level or lowerable nodes always
// reports non-terminal — exactly like the original, whose node loop
// checks the Executed bit on every non-tombstoned node regardless of
// type. A node stuck un-lowered for lack of upstream dimensions simply
// keeps the loop going until the caller's maxPasses ceiling fires.
func allTerminal(g *graph.Graph) bool {
	for id := range g.Nodes {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) {
			continue
		}
		if n.State&graph.StateExecuted == 0 {
			return false
		}
	}
	return true
}
