package nodedef

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/render"
)

// ResourceIO resolves a codec.Decoder/Encoder for a bound job resource
// and exposes the caller-supplied bitmap for NTBitmapBGRAPointer, kept
// as an interface so nodedef never imports job or jobctx directly.
type ResourceIO interface {
	DecodeInto(graphPlaceholderID int32, dst *bitmap.Bitmap) error
	EncodeFrom(graphPlaceholderID int32, quality int32, src *bitmap.Bitmap) error
	BoundBitmap(graphPlaceholderID int32) (*bitmap.Bitmap, error)
}

// Execute runs the primitive execute kernel for node nodeID, the
// analogue of the execute_* functions in graph_node_defs.c. It is only
// ever called once the node's state is ReadyForExecution (spec §4.H).
func Execute(g *graph.Graph, nodeID int, kernels render.Kernels, io ResourceIO) error {
	n := &g.Nodes[nodeID]

	switch n.Type {
	case graph.NTCreateCanvas:
		info := UnmarshalCreateCanvas(g.InfoBytesFor(nodeID))
		bm, err := bitmap.New(int(info.Width), int(info.Height), info.Format)
		if err != nil {
			return apperrors.Wrap(apperrors.KindOutOfMemory, "nodedef.execute.create_canvas", err)
		}
		n.Result = bm
		return nil

	case graph.NTFlipVerticalMutate:
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		if err := kernels.FlipVertical(in); err != nil {
			return apperrors.Wrap(apperrors.KindInternalError, "nodedef.execute.flip_vertical", err)
		}
		n.Result = in
		return nil

	case graph.NTFlipHorizontalMutate:
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		if err := kernels.FlipHorizontal(in); err != nil {
			return apperrors.Wrap(apperrors.KindInternalError, "nodedef.execute.flip_horizontal", err)
		}
		n.Result = in
		return nil

	case graph.NTCropMutateAlias:
		info := UnmarshalCrop(g.InfoBytesFor(nodeID))
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		alias, err := in.AliasRect(int(info.X1), int(info.Y1), int(info.X2), int(info.Y2))
		if err != nil {
			return apperrors.Wrap(apperrors.KindNodeArgInvalid, "nodedef.execute.crop", err)
		}
		n.Result = alias
		return nil

	case graph.NTBitmapBGRAPointer:
		info := UnmarshalResourcePlaceholder(g.InfoBytesFor(nodeID))
		if g.InputEdgeCount(nodeID) == 1 {
			in, err := inputResult(g, nodeID)
			if err != nil {
				return err
			}
			n.Result = in
			return nil
		}
		bm, err := io.BoundBitmap(info.GraphPlaceholderID)
		if err != nil {
			return apperrors.Wrap(apperrors.KindNodeArgInvalid, "nodedef.execute.bitmap_pointer", err)
		}
		n.Result = bm
		return nil

	case graph.NTRenderToCanvas1D:
		info := UnmarshalRenderToCanvas1D(g.InfoBytesFor(nodeID))
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		canvasIdx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeCanvas)
		if canvasIdx < 0 {
			return apperrors.New(apperrors.KindInvalidGraph, "nodedef.execute.render1d", apperrors.ErrArityMismatch)
		}
		canvas := g.Nodes[g.Edges[canvasIdx].From].Result
		if err := kernels.Render1D(canvas, in, int(info.ScaleToWidth), info.TransposeOnWrite, int32(info.Filter)); err != nil {
			return apperrors.Wrap(apperrors.KindInternalError, "nodedef.execute.render1d", err)
		}
		n.Result = canvas
		return nil

	case graph.NTCopyRectToCanvas:
		info := UnmarshalCopyRectToCanvas(g.InfoBytesFor(nodeID))
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		canvasIdx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeCanvas)
		if canvasIdx < 0 {
			return apperrors.New(apperrors.KindInvalidGraph, "nodedef.execute.copy_rect", apperrors.ErrArityMismatch)
		}
		canvas := g.Nodes[g.Edges[canvasIdx].From].Result
		if err := kernels.CopyRect(canvas, in, int(info.X), int(info.Y), int(info.FromX), int(info.FromY), int(info.Width), int(info.Height)); err != nil {
			return apperrors.Wrap(apperrors.KindNodeArgInvalid, "nodedef.execute.copy_rect", err)
		}
		n.Result = canvas
		return nil

	case graph.NTPrimitiveDecoder:
		info := UnmarshalCodec(g.InfoBytesFor(nodeID))
		w, h := 0, 0
		for i := range g.Edges {
			e := &g.Edges[i]
			if e.Kind != graph.EdgeNull && e.From == nodeID {
				w, h = e.FromWidth, e.FromHeight
			}
		}
		if w == 0 || h == 0 {
			return apperrors.New(apperrors.KindInvalidInternalState, "nodedef.execute.decode", apperrors.ErrArityMismatch)
		}
		bm, err := bitmap.New(w, h, bitmap.FormatBGRA32)
		if err != nil {
			return apperrors.Wrap(apperrors.KindOutOfMemory, "nodedef.execute.decode", err)
		}
		if err := io.DecodeInto(info.GraphPlaceholderID, bm); err != nil {
			return apperrors.Wrap(apperrors.KindImageMalformed, "nodedef.execute.decode", err)
		}
		n.Result = bm
		return nil

	case graph.NTPrimitiveEncoder:
		info := UnmarshalCodec(g.InfoBytesFor(nodeID))
		in, err := inputResult(g, nodeID)
		if err != nil {
			return err
		}
		if err := io.EncodeFrom(info.GraphPlaceholderID, info.Quality, in); err != nil {
			return apperrors.Wrap(apperrors.KindIOError, "nodedef.execute.encode", err)
		}
		n.Result = in
		return nil

	default:
		return apperrors.New(apperrors.KindInvalidGraph, "nodedef.execute", apperrors.ErrNotImplemented)
	}
}

func inputResult(g *graph.Graph, nodeID int) (*bitmap.Bitmap, error) {
	idx := g.FirstInboundEdgeOfKind(nodeID, graph.EdgeInput)
	if idx < 0 {
		return nil, apperrors.New(apperrors.KindInvalidGraph, "nodedef.execute", apperrors.ErrArityMismatch)
	}
	res := g.Nodes[g.Edges[idx].From].Result
	if res == nil {
		return nil, apperrors.New(apperrors.KindInvalidInternalState, "nodedef.execute", apperrors.ErrArityMismatch)
	}
	return res, nil
}
