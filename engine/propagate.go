// Package engine runs the graph pipeline of spec §4.E/§4.H: propagate
// dimensions where certain, lower the graph in two flatten phases,
// execute ready primitives, and repeat until a fixpoint — the direct
// successor to the original engine's job_execution.c orchestration,
// rebuilt around package walker's generic traversal.
package engine

import (
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
	"github.com/Skryldev/imagegraph/walker"
)

// PropagateDimensions walks g, setting every outbound edge's dimension
// annotations wherever its source node's inputs are already known,
// exactly mirroring flow_job_populate_dimensions_where_certain. It never
// forces an estimate — a decode node with an unresolved resource leaves
// its outbound edges undimensioned until a later pass.
func PropagateDimensions(g *graph.Graph, resolver nodedef.DimensionResolver) error {
	return walker.Walk(g, nil, func(g *graph.Graph, edgeID int, quit, skipOutbound *bool, rewalk *bool) error {
		e := &g.Edges[edgeID]
		if e.HasDimensions() {
			return nil
		}
		if err := g.UpdateState(e.From); err != nil {
			return err
		}
		if g.Nodes[e.From].State&graph.StateInputDimensionsKnown == 0 {
			return nil
		}
		if err := nodedef.PopulateDimensionsToEdge(g, e.From, edgeID, false, resolver); err != nil {
			return err
		}
		if !e.HasDimensions() {
			*skipOutbound = true
		}
		return nil
	}, new(bool))
}
