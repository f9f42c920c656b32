package nodedef

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
)

// node_has_other_dependents is never actually implemented by the original
// engine either (graph_node_defs.c leaves it a stub that always answers
// true); every flip/crop lowering therefore unconditionally clones its
// input rather than risk aliasing a bitmap two live nodes both read. We
// keep that conservative behavior rather than invent dependency tracing
// the original itself never shipped (see DESIGN.md).
func nodeHasOtherDependents(g *graph.Graph, sourceNodeID, excludingDependentNodeID int) bool {
	return true
}

func createCanvas(g *graph.Graph, format bitmap.Format, w, h int32) (int, error) {
	id, err := g.CreateNode(graph.NTCreateCanvas, createCanvasInfoBytes)
	if err != nil {
		return -1, err
	}
	InfoCreateCanvas{Format: format, Width: w, Height: h}.Marshal(g.InfoBytesFor(id))
	return id, nil
}

func createGeneric(g *graph.Graph, t graph.NodeType) (int, error) {
	return g.CreateNode(t, 0)
}

func createCrop(g *graph.Graph, t graph.NodeType, x1, y1, x2, y2 int32) (int, error) {
	id, err := g.CreateNode(t, cropInfoBytes)
	if err != nil {
		return -1, err
	}
	InfoCrop{X1: x1, Y1: y1, X2: x2, Y2: y2}.Marshal(g.InfoBytesFor(id))
	return id, nil
}

func createRender1D(g *graph.Graph, t graph.NodeType, scaleToWidth int32, transpose bool, filter Filter) (int, error) {
	id, err := g.CreateNode(t, render1DInfoBytes)
	if err != nil {
		return -1, err
	}
	InfoRenderToCanvas1D{ScaleToWidth: scaleToWidth, TransposeOnWrite: transpose, Filter: filter}.Marshal(g.InfoBytesFor(id))
	return id, nil
}

func createCopyRect(g *graph.Graph, x, y, fromX, fromY, w, h int32) (int, error) {
	id, err := g.CreateNode(graph.NTCopyRectToCanvas, copyRectInfoBytes)
	if err != nil {
		return -1, err
	}
	InfoCopyRectToCanvas{X: x, Y: y, FromX: fromX, FromY: fromY, Width: w, Height: h}.Marshal(g.InfoBytesFor(id))
	return id, nil
}

// replaceNode splices nodeID's single inbound input edge onto firstNode
// and every outbound edge onto lastNode, then tombstones nodeID — unless
// firstNode (and therefore lastNode) is nodeID itself, the in-place
// retyping flatten_decode/flatten_encode use.
func replaceNode(g *graph.Graph, nodeID, firstNode, lastNode int) error {
	if firstNode == nodeID && lastNode == nodeID {
		return nil
	}
	inputEdge := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeInput)
	if inputEdge >= 0 {
		g.Edges[inputEdge].To = firstNode
	}
	if err := g.DuplicateEdgesToAnotherNode(nodeID, lastNode, false, true); err != nil {
		return err
	}
	g.DeleteNode(nodeID)
	return nil
}

// PreOptimizeFlatten lowers a single high-level node (Scale, Rotate90/
// 180/270, Clone, Decoder, Encoder) into its optimizable/primitive
// replacement subgraph, the analogue of the pre_optimize_flatten
// shorthand callbacks in graph_node_defs.c. It reports whether it
// changed the graph (callers re-walk on true, per spec §4.E).
func PreOptimizeFlatten(g *graph.Graph, nodeID int) (bool, error) {
	n := &g.Nodes[nodeID]
	inputEdgeIdx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeInput)

	switch n.Type {
	case graph.NTScale:
		info := UnmarshalScale(g.InfoBytesFor(nodeID))
		first, err := createRender1D(g, graph.NTRender1D, info.Width, true, info.Filter)
		if err != nil {
			return false, err
		}
		last, err := createRender1D(g, graph.NTRender1D, info.Height, true, info.Filter)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(first, last, graph.EdgeInput); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, first, last); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTRotate90:
		first, err := createGeneric(g, graph.NTTranspose)
		if err != nil {
			return false, err
		}
		last, err := createGeneric(g, graph.NTFlipVertical)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(first, last, graph.EdgeInput); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, first, last); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTRotate270:
		first, err := createGeneric(g, graph.NTFlipVertical)
		if err != nil {
			return false, err
		}
		last, err := createGeneric(g, graph.NTTranspose)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(first, last, graph.EdgeInput); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, first, last); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTRotate180:
		first, err := createGeneric(g, graph.NTFlipVertical)
		if err != nil {
			return false, err
		}
		last, err := createGeneric(g, graph.NTFlipHorizontal)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(first, last, graph.EdgeInput); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, first, last); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTClone:
		if inputEdgeIdx < 0 {
			return false, apperrors.New(apperrors.KindInvalidGraph, "nodedef.flatten_clone", apperrors.ErrArityMismatch)
		}
		ie := &g.Edges[inputEdgeIdx]
		if !ie.HasDimensions() {
			return false, nil
		}
		canvas, err := createCanvas(g, ie.FromFormat, int32(ie.FromWidth), int32(ie.FromHeight))
		if err != nil {
			return false, err
		}
		copyNode, err := createCopyRect(g, 0, 0, 0, 0, int32(ie.FromWidth), int32(ie.FromHeight))
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(canvas, copyNode, graph.EdgeCanvas); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, copyNode, copyNode); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTDecoder:
		n.Type = graph.NTPrimitiveDecoder
		return true, nil

	case graph.NTEncoder:
		n.Type = graph.NTPrimitiveEncoder
		return true, nil

	default:
		return false, nil
	}
}

// PostOptimizeFlatten lowers a single optimizable node (FlipHorizontal/
// Vertical, Transpose, Crop, Render1D) into its primitive replacement,
// the analogue of the post_optimize_flatten shorthand callbacks.
func PostOptimizeFlatten(g *graph.Graph, nodeID int) (bool, error) {
	n := &g.Nodes[nodeID]
	inputEdgeIdx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeInput)
	if inputEdgeIdx < 0 {
		return false, apperrors.New(apperrors.KindInvalidGraph, "nodedef.post_optimize_flatten", apperrors.ErrArityMismatch)
	}
	ie := &g.Edges[inputEdgeIdx]

	switch n.Type {
	case graph.NTFlipVertical, graph.NTFlipHorizontal:
		mutateType := graph.NTFlipVerticalMutate
		if n.Type == graph.NTFlipHorizontal {
			mutateType = graph.NTFlipHorizontalMutate
		}
		if nodeHasOtherDependents(g, ie.From, nodeID) {
			clone, err := createGeneric(g, graph.NTClone)
			if err != nil {
				return false, err
			}
			mutate, err := createGeneric(g, mutateType)
			if err != nil {
				return false, err
			}
			if _, err := g.CreateEdge(clone, mutate, graph.EdgeInput); err != nil {
				return false, err
			}
			if err := replaceNode(g, nodeID, clone, mutate); err != nil {
				return false, err
			}
			return true, nil
		}
		mutate, err := createGeneric(g, mutateType)
		if err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, mutate, mutate); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTTranspose:
		if !ie.HasDimensions() {
			return false, nil
		}
		canvas, err := createCanvas(g, ie.FromFormat, int32(ie.FromHeight), int32(ie.FromWidth))
		if err != nil {
			return false, err
		}
		render, err := createRender1D(g, graph.NTRenderToCanvas1D, int32(ie.FromHeight), true, FilterRobidoux)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(canvas, render, graph.EdgeCanvas); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, render, render); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTCrop:
		info := UnmarshalCrop(g.InfoBytesFor(nodeID))
		if nodeHasOtherDependents(g, ie.From, nodeID) {
			clone, err := createGeneric(g, graph.NTClone)
			if err != nil {
				return false, err
			}
			crop, err := createCrop(g, graph.NTCropMutateAlias, info.X1, info.Y1, info.X2, info.Y2)
			if err != nil {
				return false, err
			}
			if _, err := g.CreateEdge(clone, crop, graph.EdgeInput); err != nil {
				return false, err
			}
			if err := replaceNode(g, nodeID, clone, crop); err != nil {
				return false, err
			}
			return true, nil
		}
		crop, err := createCrop(g, graph.NTCropMutateAlias, info.X1, info.Y1, info.X2, info.Y2)
		if err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, crop, crop); err != nil {
			return false, err
		}
		return true, nil

	case graph.NTRender1D:
		if !ie.HasDimensions() {
			return false, nil
		}
		info := UnmarshalRenderToCanvas1D(g.InfoBytesFor(nodeID))
		cw, ch := int32(info.ScaleToWidth), int32(ie.FromHeight)
		if info.TransposeOnWrite {
			cw, ch = int32(ie.FromHeight), info.ScaleToWidth
		}
		canvas, err := createCanvas(g, ie.FromFormat, cw, ch)
		if err != nil {
			return false, err
		}
		render, err := createRender1D(g, graph.NTRenderToCanvas1D, info.ScaleToWidth, info.TransposeOnWrite, info.Filter)
		if err != nil {
			return false, err
		}
		if _, err := g.CreateEdge(canvas, render, graph.EdgeCanvas); err != nil {
			return false, err
		}
		if err := replaceNode(g, nodeID, render, render); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, nil
	}
}
