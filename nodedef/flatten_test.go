package nodedef

import (
	"testing"

	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
)

func TestPreOptimizeFlattenRotate90LowersToTransposeThenFlipVertical(t *testing.T) {
	g := graph.New()
	n := mustNode(t, g, graph.NTRotate90, 0)

	changed, err := PreOptimizeFlatten(g, n)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !changed {
		t.Fatalf("expected the graph to change")
	}
	if g.IsLiveNode(n) {
		t.Fatalf("expected the original rotate90 node to be tombstoned")
	}

	var transpose, flipVert = -1, -1
	for i := range g.Nodes {
		if !g.IsLiveNode(i) {
			continue
		}
		switch g.Nodes[i].Type {
		case graph.NTTranspose:
			transpose = i
		case graph.NTFlipVertical:
			flipVert = i
		}
	}
	if transpose < 0 || flipVert < 0 {
		t.Fatalf("expected a live transpose and flip_vertical node, got transpose=%d flipVert=%d", transpose, flipVert)
	}
	if g.FirstInboundEdgeOfKind(flipVert, graph.EdgeInput) < 0 {
		t.Fatalf("expected flip_vertical to have an input edge from transpose")
	}
}

func TestPreOptimizeFlattenDecoderRetypesInPlace(t *testing.T) {
	g := graph.New()
	n := mustNode(t, g, graph.NTDecoder, codecInfoBytes)
	InfoCodec{Direction: CodecDirectionDecode, GraphPlaceholderID: 3}.Marshal(g.InfoBytesFor(n))

	changed, err := PreOptimizeFlatten(g, n)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !changed {
		t.Fatalf("expected the graph to change")
	}
	if g.Nodes[n].Type != graph.NTPrimitiveDecoder {
		t.Fatalf("expected the node to retype to NTPrimitiveDecoder in place, got %v", g.Nodes[n].Type)
	}
	if !g.IsLiveNode(n) {
		t.Fatalf("expected the in-place-retyped node to stay live, not tombstoned")
	}
}

func TestPreOptimizeFlattenCloneWaitsForDimensions(t *testing.T) {
	g := graph.New()
	src := mustNode(t, g, graph.NTCreateCanvas, createCanvasInfoBytes)
	clone := mustNode(t, g, graph.NTClone, 0)
	if _, err := g.CreateEdge(src, clone, graph.EdgeInput); err != nil {
		t.Fatalf("create edge: %v", err)
	}

	changed, err := PreOptimizeFlatten(g, clone)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if changed {
		t.Fatalf("expected no rewrite before the input edge is dimensioned")
	}
}

func TestPreOptimizeFlattenCloneLowersToCanvasAndCopyRect(t *testing.T) {
	g := graph.New()
	src := mustNode(t, g, graph.NTCreateCanvas, createCanvasInfoBytes)
	clone := mustNode(t, g, graph.NTClone, 0)
	edgeID, err := g.CreateEdge(src, clone, graph.EdgeInput)
	if err != nil {
		t.Fatalf("create edge: %v", err)
	}
	g.Edges[edgeID].FromWidth = 10
	g.Edges[edgeID].FromHeight = 20
	g.Edges[edgeID].FromFormat = bitmap.FormatBGRA32

	changed, err := PreOptimizeFlatten(g, clone)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !changed {
		t.Fatalf("expected clone to lower once dimensions are known")
	}
	if g.IsLiveNode(clone) {
		t.Fatalf("expected the clone node to be tombstoned")
	}

	foundCanvas, foundCopy := false, false
	for i := range g.Nodes {
		if !g.IsLiveNode(i) {
			continue
		}
		switch g.Nodes[i].Type {
		case graph.NTCreateCanvas:
			if i != src {
				foundCanvas = true
			}
		case graph.NTCopyRectToCanvas:
			foundCopy = true
		}
	}
	if !foundCanvas || !foundCopy {
		t.Fatalf("expected a new canvas and a copy_rect_to_canvas node, foundCanvas=%v foundCopy=%v", foundCanvas, foundCopy)
	}
}

func TestPostOptimizeFlattenFlipHorizontalInsertsDefensiveClone(t *testing.T) {
	g := graph.New()
	src := mustNode(t, g, graph.NTCreateCanvas, createCanvasInfoBytes)
	flip := mustNode(t, g, graph.NTFlipHorizontal, 0)
	if _, err := g.CreateEdge(src, flip, graph.EdgeInput); err != nil {
		t.Fatalf("create edge: %v", err)
	}

	changed, err := PostOptimizeFlatten(g, flip)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !changed {
		t.Fatalf("expected the graph to change")
	}

	foundClone, foundMutate := false, false
	for i := range g.Nodes {
		if !g.IsLiveNode(i) {
			continue
		}
		switch g.Nodes[i].Type {
		case graph.NTClone:
			foundClone = true
		case graph.NTFlipHorizontalMutate:
			foundMutate = true
		}
	}
	if !foundClone || !foundMutate {
		t.Fatalf("expected a defensive clone before the in-place mutate (always-true nodeHasOtherDependents), foundClone=%v foundMutate=%v", foundClone, foundMutate)
	}
}

func TestPostOptimizeFlattenCropLowersToCropMutateAlias(t *testing.T) {
	g := graph.New()
	src := mustNode(t, g, graph.NTCreateCanvas, createCanvasInfoBytes)
	crop := mustNode(t, g, graph.NTCrop, cropInfoBytes)
	InfoCrop{X1: 1, Y1: 1, X2: 9, Y2: 9}.Marshal(g.InfoBytesFor(crop))
	if _, err := g.CreateEdge(src, crop, graph.EdgeInput); err != nil {
		t.Fatalf("create edge: %v", err)
	}

	changed, err := PostOptimizeFlatten(g, crop)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !changed {
		t.Fatalf("expected the graph to change")
	}
	foundCropAlias := false
	for i := range g.Nodes {
		if g.IsLiveNode(i) && g.Nodes[i].Type == graph.NTCropMutateAlias {
			foundCropAlias = true
		}
	}
	if !foundCropAlias {
		t.Fatalf("expected a live crop_mutate_alias node")
	}
}

func TestPostOptimizeFlattenMissingInputEdgeErrors(t *testing.T) {
	g := graph.New()
	n := mustNode(t, g, graph.NTCrop, cropInfoBytes)
	if _, err := PostOptimizeFlatten(g, n); err == nil {
		t.Fatalf("expected an arity error for a node with no input edge")
	}
}
