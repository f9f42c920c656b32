package graph

import "github.com/Skryldev/imagegraph/apperrors"

// maxNodes bounds graph growth; exceeding it is a programmer error per
// spec §4.B ("capacity never exceeds a configured ceiling").
const maxNodes = 1 << 20

// Graph is the append-only node/edge store of spec §4.B. Node indices are
// stable after creation; deletion tombstones rather than compacts so
// existing info-byte slices and edge references stay valid.
type Graph struct {
	Nodes     []Node
	Edges     []Edge
	InfoBytes []byte
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// CreateNode appends a node with an info_bytes slice of infoBytes bytes,
// returning its stable index.
func (g *Graph) CreateNode(t NodeType, infoBytes int) (int, error) {
	if len(g.Nodes) >= maxNodes {
		return -1, apperrors.New(apperrors.KindInvalidInternalState, "graph.create_node", apperrors.ErrArityMismatch)
	}
	idx := len(g.InfoBytes)
	if infoBytes > 0 {
		g.InfoBytes = append(g.InfoBytes, make([]byte, infoBytes)...)
	}
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{
		Type:          t,
		InfoByteIndex: idx,
		InfoByteLen:   infoBytes,
	})
	return id, nil
}

// InfoBytesFor returns the mutable info-bytes slice for node id.
func (g *Graph) InfoBytesFor(id int) []byte {
	n := &g.Nodes[id]
	return g.InfoBytes[n.InfoByteIndex : n.InfoByteIndex+n.InfoByteLen]
}

// CreateEdge appends an edge from -> to of the given kind.
func (g *Graph) CreateEdge(from, to int, kind EdgeKind) (int, error) {
	if from < 0 || from >= len(g.Nodes) || to < 0 || to >= len(g.Nodes) {
		return -1, apperrors.New(apperrors.KindInvalidInternalState, "graph.create_edge", apperrors.ErrArityMismatch)
	}
	id := len(g.Edges)
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: kind})
	return id, nil
}

// DeleteNode tombstones node id; live edges still referencing it become
// dangling and must be deleted by the caller (the flatten/bind rewrites
// always delete or re-splice edges before deleting the node they connect).
func (g *Graph) DeleteNode(id int) {
	g.Nodes[id].Type = NTNull
	g.Nodes[id].State = StateBlank
}

// DeleteEdge tombstones edge id.
func (g *Graph) DeleteEdge(id int) {
	g.Edges[id].Kind = EdgeNull
}

// IsLiveNode reports whether node id has not been tombstoned.
func (g *Graph) IsLiveNode(id int) bool { return g.Nodes[id].Type != NTNull }

// IsLiveEdge reports whether edge id has not been tombstoned.
func (g *Graph) IsLiveEdge(id int) bool { return g.Edges[id].Kind != EdgeNull }

// InboundEdges returns the ids of all live edges of the given kind whose To
// == node. kind == -1 matches both kinds.
func (g *Graph) InboundEdges(node int, kind EdgeKind) []int {
	var out []int
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind == EdgeNull || e.To != node {
			continue
		}
		if kind >= 0 && e.Kind != kind {
			continue
		}
		out = append(out, i)
	}
	return out
}

// OutboundEdges returns the ids of all live edges of the given kind whose
// From == node. kind == -1 matches both kinds.
func (g *Graph) OutboundEdges(node int, kind EdgeKind) []int {
	var out []int
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind == EdgeNull || e.From != node {
			continue
		}
		if kind >= 0 && e.Kind != kind {
			continue
		}
		out = append(out, i)
	}
	return out
}

// FirstInboundEdgeOfKind returns the first live inbound edge of kind, or -1.
func (g *Graph) FirstInboundEdgeOfKind(node int, kind EdgeKind) int {
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind == kind && e.To == node {
			return i
		}
	}
	return -1
}

// DuplicateEdgesToAnotherNode splices src's inbound and/or outbound edges
// onto dst, used by the flatten/resource-bind rewrites to replace a node
// with a subgraph in place (spec §4.B).
func (g *Graph) DuplicateEdgesToAnotherNode(src, dst int, inbound, outbound bool) error {
	if src == dst {
		return nil
	}
	if inbound {
		for i := range g.Edges {
			e := &g.Edges[i]
			if e.Kind != EdgeNull && e.To == src {
				e.To = dst
			}
		}
	}
	if outbound {
		for i := range g.Edges {
			e := &g.Edges[i]
			if e.Kind != EdgeNull && e.From == src {
				e.From = dst
			}
		}
	}
	return nil
}

// InputEdgeCount/CanvasEdgeCount report arity for validation against a
// node type's declared counts (-1 means "any").
func (g *Graph) InputEdgeCount(node int) int { return len(g.InboundEdges(node, EdgeInput)) }
func (g *Graph) CanvasEdgeCount(node int) int { return len(g.InboundEdges(node, EdgeCanvas)) }
