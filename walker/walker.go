// Package walker implements the generic dependency-wise DAG traversal used
// by the dimension propagator, flattener, optimizer, and executor (spec
// §4.J). It knows nothing about node types or execution semantics; it only
// knows how to visit nodes (and edges) after their predecessors.
package walker

import "github.com/Skryldev/imagegraph/graph"

// NodeVisitor is called once per live node, in dependency order. Setting
// *quit aborts the whole traversal. Setting *skipOutbound prevents the
// walker from descending into this node's outbound edges/nodes this pass.
// rewalk is a shared cell visitors use to request a full restart after a
// structural edit (spec §4.E: "a rewrite that produces any new node
// requires re-walking the graph from scratch").
type NodeVisitor func(g *graph.Graph, nodeID int, quit, skipOutbound *bool, rewalk *bool) error

// EdgeVisitor is called once per live edge, after the edge's source node
// has been visited; edges leaving a skipped node (or one whose visitor set
// *skipOutbound) are not visited.
type EdgeVisitor func(g *graph.Graph, edgeID int, quit, skipOutbound *bool, rewalk *bool) error

// Walk performs one dependency-wise traversal of g, calling nodeVisitor and
// edgeVisitor (either may be nil) in an order where every node is visited
// only after all of its live predecessors have been visited or caused
// skip-outbound. It tolerates visitors requesting a full restart via
// rewalk: Walk itself does not loop — callers (flatten.go, propagate.go)
// own the re-walk loop, since only they know when to stop retrying.
func Walk(g *graph.Graph, nodeVisitor NodeVisitor, edgeVisitor EdgeVisitor, rewalk *bool) error {
	visited := make([]bool, len(g.Nodes))
	skipped := make([]bool, len(g.Nodes))
	quit := false

	var visit func(id int) error
	visit = func(id int) error {
		if quit || visited[id] {
			return nil
		}
		if !g.IsLiveNode(id) {
			visited[id] = true
			return nil
		}
		// Visit predecessors first (dependency-wise ordering).
		for i := range g.Edges {
			e := &g.Edges[i]
			if e.Kind == graph.EdgeNull || e.To != id {
				continue
			}
			if err := visit(e.From); err != nil {
				return err
			}
			if quit {
				return nil
			}
			if skipped[e.From] {
				skipped[id] = true
			}
		}
		if skipped[id] {
			visited[id] = true
			return nil
		}

		skipOutbound := false
		if nodeVisitor != nil {
			if err := nodeVisitor(g, id, &quit, &skipOutbound, rewalk); err != nil {
				return err
			}
		}
		visited[id] = true
		if quit {
			return nil
		}
		if skipOutbound {
			skipped[id] = true
			return nil
		}

		if edgeVisitor != nil {
			for i := range g.Edges {
				e := &g.Edges[i]
				if e.Kind == graph.EdgeNull || e.From != id {
					continue
				}
				edgeSkip := false
				if err := edgeVisitor(g, i, &quit, &edgeSkip, rewalk); err != nil {
					return err
				}
				if quit {
					return nil
				}
				if edgeSkip {
					skipped[e.To] = true
				}
			}
		}
		return nil
	}

	for id := range g.Nodes {
		if err := visit(id); err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return nil
}
