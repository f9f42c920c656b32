package walker

import (
	"testing"

	"github.com/Skryldev/imagegraph/graph"
)

func chain(t *testing.T) (*graph.Graph, []int) {
	t.Helper()
	g := graph.New()
	ids := make([]int, 3)
	var err error
	ids[0], err = g.CreateNode(graph.NTCreateCanvas, 0)
	if err != nil {
		t.Fatalf("create node 0: %v", err)
	}
	ids[1], err = g.CreateNode(graph.NTFlipHorizontal, 0)
	if err != nil {
		t.Fatalf("create node 1: %v", err)
	}
	ids[2], err = g.CreateNode(graph.NTFlipVertical, 0)
	if err != nil {
		t.Fatalf("create node 2: %v", err)
	}
	if _, err := g.CreateEdge(ids[0], ids[1], graph.EdgeInput); err != nil {
		t.Fatalf("edge 0->1: %v", err)
	}
	if _, err := g.CreateEdge(ids[1], ids[2], graph.EdgeInput); err != nil {
		t.Fatalf("edge 1->2: %v", err)
	}
	return g, ids
}

func TestWalkVisitsInDependencyOrder(t *testing.T) {
	g, ids := chain(t)
	pos := map[int]int{}
	order := 0
	rewalk := false
	err := Walk(g, func(g *graph.Graph, nodeID int, quit, skipOutbound, rewalk *bool) error {
		pos[nodeID] = order
		order++
		return nil
	}, nil, &rewalk)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if pos[ids[0]] >= pos[ids[1]] || pos[ids[1]] >= pos[ids[2]] {
		t.Fatalf("expected visit order %v < %v < %v, got %v", ids[0], ids[1], ids[2], pos)
	}
}

func TestWalkQuitStopsTraversal(t *testing.T) {
	g, ids := chain(t)
	visited := map[int]bool{}
	rewalk := false
	err := Walk(g, func(g *graph.Graph, nodeID int, quit, skipOutbound, rewalk *bool) error {
		visited[nodeID] = true
		if nodeID == ids[0] {
			*quit = true
		}
		return nil
	}, nil, &rewalk)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !visited[ids[0]] {
		t.Fatalf("expected the first node to be visited before quitting")
	}
	if visited[ids[1]] || visited[ids[2]] {
		t.Fatalf("expected traversal to stop after quit, got %v", visited)
	}
}

func TestWalkSkipOutboundPropagatesToDescendants(t *testing.T) {
	g, ids := chain(t)
	visited := map[int]bool{}
	rewalk := false
	err := Walk(g, func(g *graph.Graph, nodeID int, quit, skipOutbound, rewalk *bool) error {
		visited[nodeID] = true
		if nodeID == ids[0] {
			*skipOutbound = true
		}
		return nil
	}, nil, &rewalk)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !visited[ids[0]] {
		t.Fatalf("expected node 0 to be visited")
	}
	if visited[ids[1]] || visited[ids[2]] {
		t.Fatalf("expected descendants of a skip-outbound node to be skipped, got %v", visited)
	}
}

func TestWalkIgnoresTombstonedNodes(t *testing.T) {
	g, ids := chain(t)
	g.DeleteNode(ids[1])
	visited := map[int]bool{}
	rewalk := false
	err := Walk(g, func(g *graph.Graph, nodeID int, quit, skipOutbound, rewalk *bool) error {
		visited[nodeID] = true
		return nil
	}, nil, &rewalk)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if visited[ids[1]] {
		t.Fatalf("expected tombstoned node to be skipped")
	}
}
