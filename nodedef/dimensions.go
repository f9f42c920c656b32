package nodedef

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
)

// DimensionResolver answers "what are this resource's frame dimensions"
// for the two node types whose size isn't derivable from the graph alone
// (decoders and bound external bitmaps) — backed by job.Job + an opened
// codec.Decoder in the engine layer. Kept as an interface here so
// nodedef never imports job or jobctx (spec §4.A/§4.D stay decoupled).
type DimensionResolver interface {
	ResourceFrameInfo(graphPlaceholderID int32) (width, height int, format bitmap.Format, alphaMeaningful bool, err error)
}

// PopulateDimensionsToEdge sets outbound edge edgeID's From* fields from
// node nodeID's type-specific rule, the analogue of
// flow_node_populate_dimensions_to_edge. It is only ever called once
// nodeID's own inbound edges (if any) already carry dimensions — the
// walker's dependency-wise ordering guarantees that.
func PopulateDimensionsToEdge(g *graph.Graph, nodeID, edgeID int, forceEstimate bool, resolver DimensionResolver) error {
	n := &g.Nodes[nodeID]
	e := &g.Edges[edgeID]

	setFrom := func(w, h int, format bitmap.Format, alpha bool) {
		e.FromWidth, e.FromHeight, e.FromFormat, e.FromAlphaMeaningful = w, h, format, alpha
	}

	switch n.Type {
	case graph.NTCreateCanvas:
		info := UnmarshalCreateCanvas(g.InfoBytesFor(nodeID))
		setFrom(int(info.Width), int(info.Height), info.Format, false)
		return nil

	case graph.NTFlipHorizontal, graph.NTFlipVertical, graph.NTFlipHorizontalMutate, graph.NTFlipVerticalMutate,
		graph.NTClone, graph.NTRotate180:
		iw, ih, ifmt, ialpha, ok := inputDims(g, nodeID)
		if !ok {
			return nil
		}
		setFrom(iw, ih, ifmt, ialpha)
		return nil

	case graph.NTTranspose, graph.NTRotate90, graph.NTRotate270:
		iw, ih, ifmt, ialpha, ok := inputDims(g, nodeID)
		if !ok {
			return nil
		}
		setFrom(ih, iw, ifmt, ialpha)
		return nil

	case graph.NTCrop, graph.NTCropMutateAlias:
		info := UnmarshalCrop(g.InfoBytesFor(nodeID))
		iw, ih, ifmt, ialpha, ok := inputDims(g, nodeID)
		if !ok {
			return nil
		}
		if info.X1 >= info.X2 || info.X2 > int32(iw) || info.Y1 >= info.Y2 || info.Y2 > int32(ih) {
			return apperrors.New(apperrors.KindInvalidArgument, "nodedef.populate_dimensions.crop", apperrors.ErrCropOutOfBounds)
		}
		setFrom(int(info.X2-info.X1), int(info.Y2-info.Y1), ifmt, ialpha)
		return nil

	case graph.NTScale:
		info := UnmarshalScale(g.InfoBytesFor(nodeID))
		_, _, ifmt, ialpha, ok := inputDims(g, nodeID)
		if !ok {
			return nil
		}
		setFrom(int(info.Width), int(info.Height), ifmt, ialpha)
		return nil

	case graph.NTRender1D, graph.NTRenderToCanvas1D:
		// Dimensions come from the sibling canvas edge, already sized by
		// the flatten rewrite that created both nodes together. A plain
		// NTRender1D has no canvas edge until post-optimize flatten lowers
		// it, so its outbound dimensions stay unknown until then.
		canvasEdge := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeCanvas)
		if canvasEdge < 0 {
			return nil
		}
		ce := &g.Edges[canvasEdge]
		if !ce.HasDimensions() {
			return nil
		}
		setFrom(ce.FromWidth, ce.FromHeight, ce.FromFormat, ce.FromAlphaMeaningful)
		return nil

	case graph.NTCopyRectToCanvas:
		canvasEdge := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeCanvas)
		if canvasEdge < 0 {
			return nil
		}
		ce := &g.Edges[canvasEdge]
		if !ce.HasDimensions() {
			return nil
		}
		setFrom(ce.FromWidth, ce.FromHeight, ce.FromFormat, ce.FromAlphaMeaningful)
		return nil

	case graph.NTDecoder, graph.NTPrimitiveDecoder:
		info := UnmarshalCodec(g.InfoBytesFor(nodeID))
		if resolver == nil {
			return nil
		}
		w, h, format, alpha, err := resolver.ResourceFrameInfo(info.GraphPlaceholderID)
		if err != nil {
			return apperrors.Wrap(apperrors.KindImageMalformed, "nodedef.populate_dimensions.decoder", err)
		}
		setFrom(w, h, format, alpha)
		return nil

	case graph.NTEncoder, graph.NTPrimitiveEncoder:
		// Encoders are sinks; their one outbound edge (if any, e.g. when
		// re-used as an input elsewhere) just forwards input dims.
		iw, ih, ifmt, ialpha, ok := inputDims(g, nodeID)
		if !ok {
			return nil
		}
		setFrom(iw, ih, ifmt, ialpha)
		return nil

	case graph.NTBitmapBGRAPointer, graph.NTResourcePlaceholder:
		info := UnmarshalResourcePlaceholder(g.InfoBytesFor(nodeID))
		if resolver == nil {
			return nil
		}
		w, h, format, alpha, err := resolver.ResourceFrameInfo(info.GraphPlaceholderID)
		if err != nil {
			return apperrors.Wrap(apperrors.KindImageMalformed, "nodedef.populate_dimensions.resource", err)
		}
		setFrom(w, h, format, alpha)
		return nil

	default:
		return apperrors.New(apperrors.KindInvalidGraph, "nodedef.populate_dimensions", apperrors.ErrUnknownNodeType)
	}
}

// inputDims reads the single input edge's From* fields, reporting false
// if that edge hasn't been dimensioned yet.
func inputDims(g *graph.Graph, nodeID int) (w, h int, format bitmap.Format, alpha bool, ok bool) {
	idx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeInput)
	if idx < 0 {
		return 0, 0, 0, false, false
	}
	e := &g.Edges[idx]
	if !e.HasDimensions() {
		return 0, 0, 0, false, false
	}
	return e.FromWidth, e.FromHeight, e.FromFormat, e.FromAlphaMeaningful, true
}
