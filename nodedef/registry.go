package nodedef

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/graph"
)

// Definition is the static shape of a node type: its declared arity and
// fixed info-byte payload size, mirroring the non-callback fields of the
// original's flow_node_definition (input_count, canvas_count,
// nodeinfo_bytes_fixed).
type Definition struct {
	Type           graph.NodeType
	Name           string
	InputCount     int // -1 = variable
	CanvasCount    int
	FixedInfoBytes int
}

var definitions = map[graph.NodeType]Definition{
	graph.NTCreateCanvas:          {graph.NTCreateCanvas, "create_canvas", 0, 0, createCanvasInfoBytes},
	graph.NTFlipHorizontalMutate:  {graph.NTFlipHorizontalMutate, "flip_horizontal_mutate", 1, 0, 0},
	graph.NTFlipVerticalMutate:    {graph.NTFlipVerticalMutate, "flip_vertical_mutate", 1, 0, 0},
	graph.NTCropMutateAlias:       {graph.NTCropMutateAlias, "crop_mutate_alias", 1, 0, cropInfoBytes},
	graph.NTCopyRectToCanvas:      {graph.NTCopyRectToCanvas, "copy_rect_to_canvas", 1, 1, copyRectInfoBytes},
	graph.NTRenderToCanvas1D:      {graph.NTRenderToCanvas1D, "render_to_canvas_1d", 1, 1, render1DInfoBytes},
	graph.NTPrimitiveDecoder:      {graph.NTPrimitiveDecoder, "primitive_decoder", 0, 0, codecInfoBytes},
	graph.NTPrimitiveEncoder:      {graph.NTPrimitiveEncoder, "primitive_encoder", 1, 0, codecInfoBytes},
	graph.NTBitmapBGRAPointer:     {graph.NTBitmapBGRAPointer, "bitmap_bgra_pointer", -1, 0, resourcePlaceholderInfoBytes},
	graph.NTFlipHorizontal:        {graph.NTFlipHorizontal, "flip_horizontal", 1, 0, 0},
	graph.NTFlipVertical:          {graph.NTFlipVertical, "flip_vertical", 1, 0, 0},
	graph.NTTranspose:             {graph.NTTranspose, "transpose", 1, 0, 0},
	graph.NTCrop:                  {graph.NTCrop, "crop", 1, 0, cropInfoBytes},
	graph.NTRender1D:               {graph.NTRender1D, "render1d", 1, 0, render1DInfoBytes},
	graph.NTScale:                  {graph.NTScale, "scale", 1, 0, scaleInfoBytes},
	graph.NTRotate90:               {graph.NTRotate90, "rotate90", 1, 0, 0},
	graph.NTRotate180:              {graph.NTRotate180, "rotate180", 1, 0, 0},
	graph.NTRotate270:              {graph.NTRotate270, "rotate270", 1, 0, 0},
	graph.NTClone:                  {graph.NTClone, "clone", 1, 0, 0},
	graph.NTDecoder:                {graph.NTDecoder, "decoder", 0, 0, codecInfoBytes},
	graph.NTEncoder:                {graph.NTEncoder, "encoder", 1, 0, codecInfoBytes},
	graph.NTResourcePlaceholder:    {graph.NTResourcePlaceholder, "resource_placeholder", -1, 0, resourcePlaceholderInfoBytes},
}

// Lookup returns the static Definition for t.
func Lookup(t graph.NodeType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// ValidateInputs checks node id's actual inbound edge counts against its
// type's declared arity, the direct analogue of flow_node_validate_inputs.
func ValidateInputs(g *graph.Graph, nodeID int) error {
	n := &g.Nodes[nodeID]
	def, ok := Lookup(n.Type)
	if !ok {
		return apperrors.New(apperrors.KindInvalidGraph, "nodedef.validate_inputs", apperrors.ErrUnknownNodeType)
	}
	if def.InputCount >= 0 && g.InputEdgeCount(nodeID) != def.InputCount {
		return apperrors.New(apperrors.KindNodeArgInvalid, "nodedef.validate_inputs", apperrors.ErrArityMismatch)
	}
	if def.CanvasCount >= 0 && g.CanvasEdgeCount(nodeID) != def.CanvasCount {
		return apperrors.New(apperrors.KindNodeArgInvalid, "nodedef.validate_inputs", apperrors.ErrArityMismatch)
	}
	return nil
}

// Stringify renders a short human-readable label for a node, the
// analogue of flow_node_stringify — used only by debugdump and error
// messages, never by engine logic.
func Stringify(g *graph.Graph, nodeID int) string {
	n := &g.Nodes[nodeID]
	def, ok := Lookup(n.Type)
	if !ok {
		return n.Type.String()
	}
	return def.Name
}
