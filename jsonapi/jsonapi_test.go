package jsonapi

import (
	"encoding/json"
	"testing"

	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
)

func TestApplyBuildCreatesNodesAndEdges(t *testing.T) {
	g := graph.New()
	req := BuildRequest{
		Nodes: []Node{
			{ID: 1, Type: "create_canvas", Info: json.RawMessage(`{"format":1,"width":64,"height":32}`)},
			{ID: 2, Type: "crop", Info: json.RawMessage(`{"x1":0,"y1":0,"x2":32,"y2":32}`)},
			{ID: 3, Type: "resource_placeholder", Info: json.RawMessage(`{"io_id":7}`)},
		},
		Edges: []Edge{
			{From: 1, To: 2, Kind: "input"},
		},
	}

	placeholders, err := ApplyBuild(g, req)
	if err != nil {
		t.Fatalf("ApplyBuild: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	if len(placeholders) != 1 || placeholders[0] != 7 {
		t.Fatalf("expected placeholder [7], got %v", placeholders)
	}

	info := nodedef.UnmarshalCrop(g.InfoBytesFor(1))
	if info.X2 != 32 || info.Y2 != 32 {
		t.Fatalf("crop info not marshaled correctly: %+v", info)
	}
}

func TestApplyBuildUnknownNodeTypeErrors(t *testing.T) {
	g := graph.New()
	req := BuildRequest{Nodes: []Node{{ID: 1, Type: "not_a_real_type"}}}
	if _, err := ApplyBuild(g, req); err == nil {
		t.Fatalf("expected an error for an unknown node type")
	}
}

func TestApplyBuildEdgeReferencingUnknownNodeErrors(t *testing.T) {
	g := graph.New()
	req := BuildRequest{
		Nodes: []Node{{ID: 1, Type: "flip_horizontal"}},
		Edges: []Edge{{From: 1, To: 99, Kind: "input"}},
	}
	if _, err := ApplyBuild(g, req); err == nil {
		t.Fatalf("expected an error for an edge referencing an unregistered node id")
	}
}

func TestApplyBuildCanvasEdgeKind(t *testing.T) {
	g := graph.New()
	req := BuildRequest{
		Nodes: []Node{
			{ID: 1, Type: "create_canvas", Info: json.RawMessage(`{"format":1,"width":16,"height":16}`)},
			{ID: 2, Type: "render1d"},
		},
		Edges: []Edge{{From: 1, To: 2, Kind: "canvas"}},
	}
	if _, err := ApplyBuild(g, req); err != nil {
		t.Fatalf("ApplyBuild: %v", err)
	}
	if g.Edges[0].Kind != graph.EdgeCanvas {
		t.Fatalf("expected EdgeCanvas, got %v", g.Edges[0].Kind)
	}
}
