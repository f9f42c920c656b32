package graph

import "github.com/Skryldev/imagegraph/apperrors"

// InputEdgesHaveDimensions reports whether every live inbound edge (input
// or canvas) of node has been dimension-annotated. A node with no inbound
// edges trivially qualifies.
func (g *Graph) InputEdgesHaveDimensions(node int) bool {
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind != EdgeNull && e.To == node && !e.HasDimensions() {
			return false
		}
	}
	return true
}

// allInputsExecuted reports whether every live inbound edge's source node
// has been Executed.
func (g *Graph) allInputsExecuted(node int) bool {
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind != EdgeNull && e.To == node {
			if g.Nodes[e.From].State&StateExecuted == 0 {
				return false
			}
		}
	}
	return true
}

// UpdateState recomputes node id's state bitmask from graph facts — never
// trusted across structural edits (spec §3, §4.H). This is a direct port
// of the original engine's flow_node_update_state: each rung of the ladder
// below is only reachable if every rung before it held, and an Executed
// node that fails a lower rung is itself an InvalidInternalState.
func (g *Graph) UpdateState(id int) error {
	n := &g.Nodes[id]

	inputDimsKnown := g.InputEdgesHaveDimensions(id)
	optimizationAllowed := n.Type.IsOptimizable()
	wasOptimized := n.State&StateOptimized != 0
	isPrimitive := n.Type.IsPrimitive()
	wasExecuted := n.State&StateExecuted != 0

	n.State = StateBlank

	// #1: no input dimensions means nothing else can hold, and an
	// already-Executed node without them is an integrity violation.
	if !inputDimsKnown {
		if wasExecuted {
			return invalidInternalState(id, "executed without input dimensions")
		}
		return nil
	}
	n.State |= StateInputDimensionsKnown

	// #2: non-optimizable, non-primitive (high-level) nodes never climb
	// past InputDimensionsKnown.
	if !optimizationAllowed {
		if wasOptimized || wasExecuted || isPrimitive {
			return invalidInternalState(id, "high-level node carries optimize/execute bits")
		}
		return nil
	}
	n.State |= StatePreOptimizeFlattened

	// #3: optimizable nodes that haven't been marked Optimized stop here.
	if !wasOptimized {
		if wasExecuted {
			return invalidInternalState(id, "executed without being optimized")
		}
		return nil
	}
	n.State |= StateOptimized

	// #4: only primitives may reach PostOptimizeFlattened/Executed.
	if !isPrimitive {
		if wasExecuted {
			return invalidInternalState(id, "non-primitive node executed")
		}
		return nil
	}
	n.State |= StatePostOptimizeFlattened

	// #5: Executed requires every predecessor to already be Executed.
	inputsExecuted := g.allInputsExecuted(id)
	if !inputsExecuted {
		if wasExecuted {
			return invalidInternalState(id, "executed with unexecuted inputs")
		}
		return nil
	}
	n.State |= StateInputsExecuted

	if !wasExecuted {
		return nil
	}
	n.State |= StateExecuted
	return nil
}

func invalidInternalState(node int, why string) error {
	return apperrors.New(apperrors.KindInvalidInternalState, "graph.update_state", &stateErr{node: node, why: why})
}

type stateErr struct {
	node int
	why  string
}

func (e *stateErr) Error() string { return e.why }
