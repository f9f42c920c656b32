package engine

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
)

// PreOptimizeFlattenPass lowers every live high-level node whose input
// dimensions are already known (Scale into a Render1D pair, Rotate90
// into Transpose+FlipVertical, Clone into CreateCanvas+CopyRectToCanvas,
// and so on), the analogue of flow_graph_pre_optimize_flatten. New nodes
// append to g.Nodes, so a plain index loop (not a walker visit) safely
// picks up nodes created by earlier iterations of this same sweep. It
// reports whether it changed the graph at all.
func PreOptimizeFlattenPass(g *graph.Graph) (bool, error) {
	changed := false
	for id := 0; id < len(g.Nodes); id++ {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) || !n.Type.IsHighLevel() {
			continue
		}
		if err := g.UpdateState(id); err != nil {
			return changed, err
		}
		if n.State&graph.StateInputDimensionsKnown == 0 {
			continue
		}
		did, err := nodedef.PreOptimizeFlatten(g, id)
		if err != nil {
			return changed, apperrors.Wrap(apperrors.KindInvalidGraph, "engine.pre_optimize_flatten", err)
		}
		if did {
			changed = true
		}
	}
	return changed, nil
}

// PostOptimizeFlattenPass lowers every live lowerable node already marked
// Optimized (FlipHorizontal/Vertical into *Mutate with a defensive Clone,
// Transpose/Render1D into RenderToCanvas1D+Canvas, Crop into
// CropMutateAlias with a defensive Clone, and so on), the analogue of
// flow_graph_post_optimize_flatten. It reports whether it changed the
// graph at all.
func PostOptimizeFlattenPass(g *graph.Graph) (bool, error) {
	changed := false
	for id := 0; id < len(g.Nodes); id++ {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) || !n.Type.IsLowerable() {
			continue
		}
		if n.State&graph.StateOptimized == 0 {
			continue
		}
		did, err := nodedef.PostOptimizeFlatten(g, id)
		if err != nil {
			return changed, apperrors.Wrap(apperrors.KindInvalidGraph, "engine.post_optimize_flatten", err)
		}
		if did {
			changed = true
		}
	}
	return changed, nil
}
