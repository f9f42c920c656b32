package engine

import "github.com/Skryldev/imagegraph/graph"

// Optimize marks every live optimizable node (primitive or lowerable
// tier) Optimized once its PreOptimizeFlattened bit is set, cascading
// the rest of the state ladder via UpdateState — the generalized form
// of the original's set_node_optimized_and_update_state, applied graph-
// wide rather than one canvas node at a time. Real rewrite-based
// optimization (operator fusion, redundant-canvas elision) is the
// original engine's unimplemented stub and stays out of scope here too
// (see DESIGN.md).
func Optimize(g *graph.Graph) error {
	for id := range g.Nodes {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) || !n.Type.IsOptimizable() {
			continue
		}
		if n.State&graph.StatePreOptimizeFlattened == 0 || n.State&graph.StateOptimized != 0 {
			continue
		}
		n.State |= graph.StateOptimized
		if err := g.UpdateState(id); err != nil {
			return err
		}
	}
	return nil
}
