// Package jsonapi implements the deliberately minimal send_json graph
// grammar of spec.md §6: enough JSON to build and run a graph.Graph end
// to end. The full JSON grammar is explicitly out of scope (spec.md §1);
// this package covers exactly the node type partition of §3 and nothing
// beyond.
package jsonapi

import (
	"encoding/json"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/nodedef"
)

// Node is one entry in a BuildRequest's node list. Info's legal keys and
// ranges depend on Type and match §4.C's dimension-rule field names
// exactly (e.g. "width"/"height"/"format" for create_canvas).
type Node struct {
	ID   int             `json:"id"`
	Type string          `json:"type"`
	Info json.RawMessage `json:"info,omitempty"`
}

// Edge is one entry in a BuildRequest's edge list, referencing node list
// indices by their declared ID.
type Edge struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Kind string `json:"kind"` // "input" or "canvas"
}

// Binding maps a caller-assigned placeholder id to an io_id a Context's
// AddInputBuffer/AddInputBitmap/AddOutputBuffer call must have already
// registered.
type Binding struct {
	PlaceholderID int32 `json:"placeholder_id"`
	IOID          int32 `json:"io_id"`
}

// BuildRequest is the v1/build request body.
type BuildRequest struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Bindings []Binding `json:"bindings"`
}

// typeByName inverts nodedef's type->name table for JSON dispatch.
var typeByName = map[string]graph.NodeType{
	"create_canvas":         graph.NTCreateCanvas,
	"flip_horizontal":       graph.NTFlipHorizontal,
	"flip_vertical":         graph.NTFlipVertical,
	"transpose":             graph.NTTranspose,
	"crop":                  graph.NTCrop,
	"render1d":              graph.NTRender1D,
	"scale":                 graph.NTScale,
	"rotate90":              graph.NTRotate90,
	"rotate180":             graph.NTRotate180,
	"rotate270":             graph.NTRotate270,
	"clone":                 graph.NTClone,
	"decoder":               graph.NTDecoder,
	"encoder":               graph.NTEncoder,
	"resource_placeholder":  graph.NTResourcePlaceholder,
}

// createCanvasInfo/cropInfo/etc. mirror the field names §4.C assigns
// each node type's dimension rule, so the wire format is self-describing
// without duplicating nodedef's binary layouts.
type createCanvasInfo struct {
	Format int32 `json:"format"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

type cropInfo struct {
	X1 int32 `json:"x1"`
	Y1 int32 `json:"y1"`
	X2 int32 `json:"x2"`
	Y2 int32 `json:"y2"`
}

type scaleInfo struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
	Filter int32 `json:"filter"`
}

type codecInfo struct {
	IOID    int32 `json:"io_id"`
	Quality int32 `json:"quality"`
}

type resourcePlaceholderInfo struct {
	IOID int32 `json:"io_id"`
}

// ApplyBuild creates nodes and edges in g per req, returning the io_id of
// every resource_placeholder node it created (req.Bindings is not read)
// so the caller can cross-check them against resources already registered
// on its Context. Node list
// order must be a valid topological order (dependencies first) since
// edges reference already-created node ids.
func ApplyBuild(g *graph.Graph, req BuildRequest) ([]int32, error) {
	idMap := make(map[int]int, len(req.Nodes))
	var placeholders []int32

	for _, jn := range req.Nodes {
		t, ok := typeByName[jn.Type]
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidArgument, "jsonapi.build", apperrors.ErrUnknownNodeType)
		}
		def, ok := nodedef.Lookup(t)
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidArgument, "jsonapi.build", apperrors.ErrUnknownNodeType)
		}
		id, err := g.CreateNode(t, def.FixedInfoBytes)
		if err != nil {
			return nil, err
		}
		idMap[jn.ID] = id

		if err := marshalInfo(g, id, t, jn.Info); err != nil {
			return nil, err
		}
		if t == graph.NTResourcePlaceholder {
			var info resourcePlaceholderInfo
			if err := json.Unmarshal(jn.Info, &info); err == nil {
				placeholders = append(placeholders, info.IOID)
			}
		}
	}

	for _, je := range req.Edges {
		from, ok := idMap[je.From]
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidArgument, "jsonapi.build", apperrors.ErrArityMismatch)
		}
		to, ok := idMap[je.To]
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidArgument, "jsonapi.build", apperrors.ErrArityMismatch)
		}
		kind := graph.EdgeInput
		if je.Kind == "canvas" {
			kind = graph.EdgeCanvas
		}
		if _, err := g.CreateEdge(from, to, kind); err != nil {
			return nil, err
		}
	}

	return placeholders, nil
}

func marshalInfo(g *graph.Graph, id int, t graph.NodeType, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	buf := g.InfoBytesFor(id)
	switch t {
	case graph.NTCreateCanvas:
		var info createCanvasInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.create_canvas", err)
		}
		nodedef.InfoCreateCanvas{Format: bitmap.Format(info.Format), Width: info.Width, Height: info.Height}.Marshal(buf)
	case graph.NTCrop:
		var info cropInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.crop", err)
		}
		nodedef.InfoCrop{X1: info.X1, Y1: info.Y1, X2: info.X2, Y2: info.Y2}.Marshal(buf)
	case graph.NTScale:
		var info scaleInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.scale", err)
		}
		nodedef.InfoScale{Width: info.Width, Height: info.Height, Filter: nodedef.Filter(info.Filter)}.Marshal(buf)
	case graph.NTDecoder:
		var info codecInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.decoder", err)
		}
		nodedef.InfoCodec{Direction: nodedef.CodecDirectionDecode, GraphPlaceholderID: info.IOID}.Marshal(buf)
	case graph.NTEncoder:
		var info codecInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.encoder", err)
		}
		nodedef.InfoCodec{Direction: nodedef.CodecDirectionEncode, GraphPlaceholderID: info.IOID, Quality: info.Quality}.Marshal(buf)
	case graph.NTResourcePlaceholder:
		var info resourcePlaceholderInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return apperrors.Wrap(apperrors.KindInvalidArgument, "jsonapi.build.resource_placeholder", err)
		}
		nodedef.InfoResourcePlaceholder{GraphPlaceholderID: info.IOID}.Marshal(buf)
	default:
		// flip_horizontal/flip_vertical/transpose/rotate90/180/270/clone
		// carry no info payload.
	}
	return nil
}
