// Package graph implements the append-only node/edge store described in
// spec §3–§4.B/§4.H: the typed AST the engine repeatedly rewrites, plus the
// state machine that is the single source of truth every phase consults.
package graph

import "github.com/Skryldev/imagegraph/bitmap"

// NodeType tags a node. The three contiguous ranges below let a single
// integer comparison answer "is primitive?" / "is optimizable?" (spec
// §3 "Node Types", design note "Deep dispatch tables").
type NodeType int

const (
	// Primitive range: executable, may mutate inputs.
	NTCreateCanvas NodeType = iota
	NTFlipHorizontalMutate
	NTFlipVerticalMutate
	NTCropMutateAlias
	NTCopyRectToCanvas
	NTRenderToCanvas1D
	NTPrimitiveDecoder
	NTPrimitiveEncoder
	NTBitmapBGRAPointer

	ntNonPrimitiveNodesBegin // sentinel: types >= this are not primitives

	// Optimizable range: non-mutating, still lowerable.
	NTFlipHorizontal
	NTFlipVertical
	NTTranspose
	NTCrop
	NTRender1D

	ntNonOptimizableNodesBegin // sentinel: types >= this can't be optimized/executed

	// High-level range: non-optimizable, lowered in the pre-optimize pass.
	NTScale
	NTRotate90
	NTRotate180
	NTRotate270
	NTClone
	NTDecoder
	NTEncoder
	NTResourcePlaceholder

	// NTNull marks a tombstoned node or edge.
	NTNull
)

// IsPrimitive reports whether t is in the executable-primitive range.
func (t NodeType) IsPrimitive() bool { return t < ntNonPrimitiveNodesBegin }

// IsOptimizable reports whether t may carry the Optimized bit: true for
// primitives and the lowerable tier, false for high-level nodes.
func (t NodeType) IsOptimizable() bool { return t < ntNonOptimizableNodesBegin }

// IsLowerable reports whether t is in the "optimizable but not
// primitive" tier (FlipHorizontal, FlipVertical, Transpose, Crop,
// Render1D) — the only nodes whose post_optimize_flatten rewrite is
// mandatory for their state to ever reach PostOptimizeFlattened.
func (t NodeType) IsLowerable() bool {
	return t >= ntNonPrimitiveNodesBegin && t < ntNonOptimizableNodesBegin
}

// IsHighLevel reports whether t is in the non-optimizable tier (Scale,
// Rotate90/180/270, Clone, Decoder, Encoder, ResourcePlaceholder) — these
// must be lowered by pre_optimize_flatten before they can progress past
// InputDimensionsKnown.
func (t NodeType) IsHighLevel() bool { return !t.IsOptimizable() && t != NTNull }

func (t NodeType) String() string {
	switch t {
	case NTCreateCanvas:
		return "create_canvas"
	case NTFlipHorizontalMutate:
		return "flip_horizontal_mutate"
	case NTFlipVerticalMutate:
		return "flip_vertical_mutate"
	case NTCropMutateAlias:
		return "crop_mutate_alias"
	case NTCopyRectToCanvas:
		return "copy_rect_to_canvas"
	case NTRenderToCanvas1D:
		return "render_to_canvas_1d"
	case NTPrimitiveDecoder:
		return "primitive_decoder"
	case NTPrimitiveEncoder:
		return "primitive_encoder"
	case NTBitmapBGRAPointer:
		return "bitmap_bgra_pointer"
	case NTFlipHorizontal:
		return "flip_horizontal"
	case NTFlipVertical:
		return "flip_vertical"
	case NTTranspose:
		return "transpose"
	case NTCrop:
		return "crop"
	case NTRender1D:
		return "render1d"
	case NTScale:
		return "scale"
	case NTRotate90:
		return "rotate90"
	case NTRotate180:
		return "rotate180"
	case NTRotate270:
		return "rotate270"
	case NTClone:
		return "clone"
	case NTDecoder:
		return "decoder"
	case NTEncoder:
		return "encoder"
	case NTResourcePlaceholder:
		return "resource_placeholder"
	case NTNull:
		return "null"
	default:
		return "unknown"
	}
}

// State is the per-node progress bitmask of spec §3 "Node State". Bits are
// monotonic within the lifetime of a node — never cleared except by a
// rewrite that deletes the node (invariant 1, spec §8).
type State uint8

const (
	StateBlank State = 0
)

const (
	StateInputDimensionsKnown State = 1 << iota
	StatePreOptimizeFlattened
	StateOptimized
	StatePostOptimizeFlattened
	StateInputsExecuted
	StateExecuted
)

// ReadyForExecution is the state a primitive must hold before Execute may
// run: all flatten+optimize bits set and every predecessor Executed.
const ReadyForExecution = StateInputDimensionsKnown | StatePreOptimizeFlattened | StateOptimized | StatePostOptimizeFlattened | StateInputsExecuted

// ReadyForPreOptimizeFlatten is the state at which a high-level node is
// eligible for its pre_optimize_flatten callback.
const ReadyForPreOptimizeFlatten = StateInputDimensionsKnown

// EdgeKind distinguishes the two edge roles of spec §3.
type EdgeKind int

const (
	EdgeInput EdgeKind = iota
	EdgeCanvas
	EdgeNull // tombstoned
)

// Edge carries propagated dimension annotations once its source node has
// InputDimensionsKnown (spec §4.D). Per the dimension-immutability
// invariant, From*/FromFormat/FromAlphaMeaningful are set at most once.
type Edge struct {
	From, To          int
	Kind              EdgeKind
	FromWidth         int
	FromHeight        int
	FromFormat        bitmap.Format
	FromAlphaMeaningful bool
}

// HasDimensions reports whether this edge's annotations have been
// populated (spec invariant 2: dimension immutability).
func (e *Edge) HasDimensions() bool { return e.FromWidth > 0 }

// Node is one vertex: a typed operation with an info-bytes slice, a
// progress state, and (once executed) a result bitmap.
type Node struct {
	Type           NodeType
	InfoByteIndex  int
	InfoByteLen    int
	State          State
	Result         *bitmap.Bitmap
	TicksElapsed   int64
}
