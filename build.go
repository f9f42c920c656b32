package imagegraph

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
	"github.com/Skryldev/imagegraph/utils"
)

// NodeRef is a handle to a node already appended to a Context's graph,
// returned by every builder method below so callers can chain operations
// without reaching into graph.Graph node indices directly.
type NodeRef int

func (c *Context) newNode(t graph.NodeType) (NodeRef, error) {
	def, ok := nodedef.Lookup(t)
	if !ok {
		return -1, apperrors.New(apperrors.KindInvalidGraph, "imagegraph.build", apperrors.ErrUnknownNodeType)
	}
	id, err := c.job.Graph.CreateNode(t, def.FixedInfoBytes)
	if err != nil {
		return -1, err
	}
	c.job.Touch()
	return NodeRef(id), nil
}

func (c *Context) wireInput(in NodeRef, out NodeRef) error {
	_, err := c.job.Graph.CreateEdge(int(in), int(out), graph.EdgeInput)
	return err
}

// Decode creates a decode node that reads the resource registered under
// ioID by AddInputBuffer.
func (c *Context) Decode(ioID int32) (NodeRef, error) {
	n, err := c.newNode(graph.NTDecoder)
	if err != nil {
		return -1, err
	}
	nodedef.InfoCodec{Direction: nodedef.CodecDirectionDecode, GraphPlaceholderID: ioID}.Marshal(c.job.Graph.InfoBytesFor(int(n)))
	return n, nil
}

// ResourcePlaceholder creates a placeholder later spliced by
// engine.BindResources into a concrete bitmap pointer, for a resource
// registered by AddInputBitmap.
func (c *Context) ResourcePlaceholder(ioID int32) (NodeRef, error) {
	n, err := c.newNode(graph.NTResourcePlaceholder)
	if err != nil {
		return -1, err
	}
	nodedef.InfoResourcePlaceholder{GraphPlaceholderID: ioID}.Marshal(c.job.Graph.InfoBytesFor(int(n)))
	return n, nil
}

// Encode creates an encode node that writes in's result to the resource
// registered under ioID by AddOutputBuffer, in the given format and
// quality (1-100; ignored by lossless formats).
func (c *Context) Encode(in NodeRef, ioID int32, format codec.Format, quality int) (NodeRef, error) {
	n, err := c.newNode(graph.NTEncoder)
	if err != nil {
		return -1, err
	}
	if err := c.wireInput(in, n); err != nil {
		return -1, err
	}
	nodedef.InfoCodec{Direction: nodedef.CodecDirectionEncode, GraphPlaceholderID: ioID, Quality: int32(quality)}.Marshal(c.job.Graph.InfoBytesFor(int(n)))
	if res := c.job.FindResourceByPlaceholder(int(ioID)); res != nil {
		res.Format = string(format)
	}
	return n, nil
}

// Scale creates a node that resizes in to width x height using filter.
func (c *Context) Scale(in NodeRef, width, height int, filter nodedef.Filter) (NodeRef, error) {
	n, err := c.newNode(graph.NTScale)
	if err != nil {
		return -1, err
	}
	if err := c.wireInput(in, n); err != nil {
		return -1, err
	}
	nodedef.InfoScale{Width: int32(width), Height: int32(height), Filter: filter}.Marshal(c.job.Graph.InfoBytesFor(int(n)))
	return n, nil
}

// ScaleToFit creates a Scale node from srcWidth/srcHeight and the target
// axes — pass 0 for either target axis to derive it from the other,
// preserving the source aspect ratio; when both targets are non-zero they
// are used as given, without fitting to the aspect ratio — mirroring the
// teacher's aspect-ratio convenience for callers that already know the
// source frame's dimensions (e.g. from a prior ResourceFrameInfo query).
func (c *Context) ScaleToFit(in NodeRef, srcWidth, srcHeight, targetWidth, targetHeight int, filter nodedef.Filter) (NodeRef, error) {
	w, h := utils.ScaleDimensions(srcWidth, srcHeight, targetWidth, targetHeight)
	return c.Scale(in, w, h, filter)
}

// Crop creates a node that crops in to the rectangle [x1,y1)-[x2,y2).
func (c *Context) Crop(in NodeRef, x1, y1, x2, y2 int) (NodeRef, error) {
	n, err := c.newNode(graph.NTCrop)
	if err != nil {
		return -1, err
	}
	if err := c.wireInput(in, n); err != nil {
		return -1, err
	}
	nodedef.InfoCrop{X1: int32(x1), Y1: int32(y1), X2: int32(x2), Y2: int32(y2)}.Marshal(c.job.Graph.InfoBytesFor(int(n)))
	return n, nil
}

func (c *Context) unaryOp(in NodeRef, t graph.NodeType) (NodeRef, error) {
	n, err := c.newNode(t)
	if err != nil {
		return -1, err
	}
	if err := c.wireInput(in, n); err != nil {
		return -1, err
	}
	return n, nil
}

// Rotate90 creates a 90-degree counter-clockwise rotation node
// (lowered to Transpose then FlipVertical).
func (c *Context) Rotate90(in NodeRef) (NodeRef, error) { return c.unaryOp(in, graph.NTRotate90) }

// Rotate180 creates a 180-degree rotation node.
func (c *Context) Rotate180(in NodeRef) (NodeRef, error) { return c.unaryOp(in, graph.NTRotate180) }

// Rotate270 creates a 90-degree clockwise (270-degree counter-clockwise)
// rotation node (lowered to FlipVertical then Transpose).
func (c *Context) Rotate270(in NodeRef) (NodeRef, error) { return c.unaryOp(in, graph.NTRotate270) }

// FlipHorizontal creates a horizontal (left-right) flip node.
func (c *Context) FlipHorizontal(in NodeRef) (NodeRef, error) {
	return c.unaryOp(in, graph.NTFlipHorizontal)
}

// FlipVertical creates a vertical (top-bottom) flip node.
func (c *Context) FlipVertical(in NodeRef) (NodeRef, error) {
	return c.unaryOp(in, graph.NTFlipVertical)
}

// Transpose creates a transpose (flip across the main diagonal) node.
func (c *Context) Transpose(in NodeRef) (NodeRef, error) { return c.unaryOp(in, graph.NTTranspose) }

// Clone creates a node producing an independent copy of in's result, used
// to fan a single upstream result out to multiple mutating consumers
// (spec §4.C "Clone lowers to Canvas+CopyRectToCanvas").
func (c *Context) Clone(in NodeRef) (NodeRef, error) { return c.unaryOp(in, graph.NTClone) }

// Pixel format constants re-exported so callers building graphs don't
// need to import package bitmap for common values.
const (
	FormatBGR24  = bitmap.FormatBGR24
	FormatBGRA32 = bitmap.FormatBGRA32
	FormatBGR32  = bitmap.FormatBGR32
	FormatGray8  = bitmap.FormatGray8
)
