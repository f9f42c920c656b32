package graph

import "testing"

func TestCreateNodeStableIndices(t *testing.T) {
	g := New()
	a, err := g.CreateNode(NTCreateCanvas, 16)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := g.CreateNode(NTFlipHorizontal, 0)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a != 0 || b != 1 {
		t.Fatalf("expected stable sequential indices, got a=%d b=%d", a, b)
	}

	g.DeleteNode(a)
	if g.IsLiveNode(a) {
		t.Fatalf("deleted node should not be live")
	}
	// b's index must still resolve to the same node after a's tombstone.
	if g.Nodes[b].Type != NTFlipHorizontal {
		t.Fatalf("tombstoning a node must not shift other node indices")
	}

	c, err := g.CreateNode(NTCrop, 0)
	if err != nil {
		t.Fatalf("create c: %v", err)
	}
	if c != 2 {
		t.Fatalf("append-only store must keep growing past tombstones, got c=%d", c)
	}
}

func TestEdgeDimensionsSetOnce(t *testing.T) {
	g := New()
	a, _ := g.CreateNode(NTCreateCanvas, 0)
	b, _ := g.CreateNode(NTFlipHorizontal, 0)
	eid, err := g.CreateEdge(a, b, EdgeInput)
	if err != nil {
		t.Fatalf("create edge: %v", err)
	}
	e := &g.Edges[eid]
	if e.HasDimensions() {
		t.Fatalf("freshly created edge must not carry dimensions")
	}
	e.FromWidth, e.FromHeight = 100, 50
	if !e.HasDimensions() {
		t.Fatalf("edge with FromWidth set must report HasDimensions")
	}
}

func TestUpdateStateLadder(t *testing.T) {
	g := New()
	canvas, _ := g.CreateNode(NTCreateCanvas, 0) // primitive, no inputs
	if err := g.UpdateState(canvas); err != nil {
		t.Fatalf("update_state: %v", err)
	}
	n := &g.Nodes[canvas]
	// A primitive with no inbound edges trivially has input dimensions
	// known, but has not been optimized/executed yet.
	if n.State&StateInputDimensionsKnown == 0 {
		t.Fatalf("expected StateInputDimensionsKnown")
	}
	if n.State&StateExecuted != 0 {
		t.Fatalf("fresh node must not be Executed")
	}

	n.State |= StateExecuted // simulate Executed without ever being Optimized
	if err := g.UpdateState(canvas); err == nil {
		t.Fatalf("expected invalid-internal-state error for a ladder violation")
	}
}

func TestHighLevelNodeNeverClimbsPastInputDimensionsKnown(t *testing.T) {
	g := New()
	scale, _ := g.CreateNode(NTScale, 0)
	if err := g.UpdateState(scale); err != nil {
		t.Fatalf("update_state: %v", err)
	}
	n := &g.Nodes[scale]
	if n.State&StatePreOptimizeFlattened != 0 {
		t.Fatalf("high-level node must not reach PreOptimizeFlattened")
	}
}

func TestDuplicateEdgesToAnotherNode(t *testing.T) {
	g := New()
	a, _ := g.CreateNode(NTCreateCanvas, 0)
	b, _ := g.CreateNode(NTFlipHorizontal, 0)
	c, _ := g.CreateNode(NTCrop, 0)
	eid, _ := g.CreateEdge(a, b, EdgeInput)

	if err := g.DuplicateEdgesToAnotherNode(b, c, true, false); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if g.Edges[eid].To != c {
		t.Fatalf("expected inbound edge re-targeted to c, got To=%d", g.Edges[eid].To)
	}
}

func TestNodeTypePartition(t *testing.T) {
	if !NTCreateCanvas.IsPrimitive() {
		t.Fatalf("create_canvas must be primitive")
	}
	if !NTFlipHorizontal.IsLowerable() {
		t.Fatalf("flip_horizontal must be lowerable (optimizable, not primitive)")
	}
	if !NTScale.IsHighLevel() {
		t.Fatalf("scale must be high-level")
	}
	if NTNull.IsHighLevel() {
		t.Fatalf("null must not classify as high-level")
	}
}
