// Package nodedef is the node type registry of spec §4.C: for every
// graph.NodeType, the dimension-propagation rule, the pre/post-optimize
// flatten rewrite, and (for primitives) the execute kernel. It is the
// direct analogue of the original engine's flow_node_definition table in
// graph_node_defs.c, translated from per-type C callback structs into a
// Go map of static Definitions plus per-type switches in the dimension,
// flatten and execute functions.
package nodedef

import (
	"encoding/binary"

	"github.com/Skryldev/imagegraph/bitmap"
)

// Each Info* type below is a fixed-size node payload, packed into the
// graph's shared InfoBytes arena (graph.Graph.InfoBytes) exactly like the
// original's info_byte_index/info_byte_len slices. Marshal/Unmarshal keep
// the wire layout explicit instead of relying on unsafe reinterpretation.

// InfoCreateCanvas backs NTCreateCanvas.
type InfoCreateCanvas struct {
	Format bitmap.Format
	Width  int32
	Height int32
}

const createCanvasInfoBytes = 12

func (i InfoCreateCanvas) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.Format))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(i.Width))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(i.Height))
}

func UnmarshalCreateCanvas(buf []byte) InfoCreateCanvas {
	return InfoCreateCanvas{
		Format: bitmap.Format(binary.LittleEndian.Uint32(buf[0:4])),
		Width:  int32(binary.LittleEndian.Uint32(buf[4:8])),
		Height: int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

// InfoCrop backs NTCrop and NTCropMutateAlias.
type InfoCrop struct {
	X1, Y1, X2, Y2 int32
}

const cropInfoBytes = 16

func (i InfoCrop) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.X1))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(i.Y1))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(i.X2))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(i.Y2))
}

func UnmarshalCrop(buf []byte) InfoCrop {
	return InfoCrop{
		X1: int32(binary.LittleEndian.Uint32(buf[0:4])),
		Y1: int32(binary.LittleEndian.Uint32(buf[4:8])),
		X2: int32(binary.LittleEndian.Uint32(buf[8:12])),
		Y2: int32(binary.LittleEndian.Uint32(buf[12:16])),
	}
}

// Filter identifies a 1-D resampling kernel, mirroring the original's
// InterpolationFilter enum (spec §4.C "Scale lowers to two Render1D
// passes using a named filter").
type Filter int32

const (
	FilterRobidoux Filter = iota
	FilterLinear
	FilterBox
	FilterCatmullRom
	FilterLanczos3
)

// InfoRenderToCanvas1D backs NTRender1D and NTRenderToCanvas1D.
type InfoRenderToCanvas1D struct {
	ScaleToWidth     int32
	TransposeOnWrite bool
	Filter           Filter
}

const render1DInfoBytes = 9

func (i InfoRenderToCanvas1D) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.ScaleToWidth))
	if i.TransposeOnWrite {
		buf[4] = 1
	} else {
		buf[4] = 0
	}
	binary.LittleEndian.PutUint32(buf[5:9], uint32(i.Filter))
}

func UnmarshalRenderToCanvas1D(buf []byte) InfoRenderToCanvas1D {
	return InfoRenderToCanvas1D{
		ScaleToWidth:     int32(binary.LittleEndian.Uint32(buf[0:4])),
		TransposeOnWrite: buf[4] != 0,
		Filter:           Filter(binary.LittleEndian.Uint32(buf[5:9])),
	}
}

// InfoCopyRectToCanvas backs NTCopyRectToCanvas.
type InfoCopyRectToCanvas struct {
	X, Y, FromX, FromY, Width, Height int32
}

const copyRectInfoBytes = 24

func (i InfoCopyRectToCanvas) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(i.Y))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(i.FromX))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(i.FromY))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(i.Width))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(i.Height))
}

func UnmarshalCopyRectToCanvas(buf []byte) InfoCopyRectToCanvas {
	return InfoCopyRectToCanvas{
		X:      int32(binary.LittleEndian.Uint32(buf[0:4])),
		Y:      int32(binary.LittleEndian.Uint32(buf[4:8])),
		FromX:  int32(binary.LittleEndian.Uint32(buf[8:12])),
		FromY:  int32(binary.LittleEndian.Uint32(buf[12:16])),
		Width:  int32(binary.LittleEndian.Uint32(buf[16:20])),
		Height: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}
}

// InfoScale backs NTScale.
type InfoScale struct {
	Width, Height int32
	Filter        Filter
}

const scaleInfoBytes = 12

func (i InfoScale) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.Width))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(i.Height))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(i.Filter))
}

func UnmarshalScale(buf []byte) InfoScale {
	return InfoScale{
		Width:  int32(binary.LittleEndian.Uint32(buf[0:4])),
		Height: int32(binary.LittleEndian.Uint32(buf[4:8])),
		Filter: Filter(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

// CodecDirection distinguishes a decode node from an encode node sharing
// the same info layout.
type CodecDirection int32

const (
	CodecDirectionDecode CodecDirection = iota
	CodecDirectionEncode
)

// InfoCodec backs NTDecoder/NTEncoder/NTPrimitiveDecoder/NTPrimitiveEncoder.
// GraphPlaceholderID/Quality are resolved by the resource binder against the
// job's Resource list (spec §4.G).
type InfoCodec struct {
	Direction          CodecDirection
	GraphPlaceholderID int32
	Quality            int32
}

const codecInfoBytes = 12

func (i InfoCodec) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.Direction))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(i.GraphPlaceholderID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(i.Quality))
}

func UnmarshalCodec(buf []byte) InfoCodec {
	return InfoCodec{
		Direction:          CodecDirection(binary.LittleEndian.Uint32(buf[0:4])),
		GraphPlaceholderID: int32(binary.LittleEndian.Uint32(buf[4:8])),
		Quality:            int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

// InfoResourcePlaceholder backs NTResourcePlaceholder and, in the same
// layout, the NTBitmapBGRAPointer node that replaces it at bind time.
type InfoResourcePlaceholder struct {
	GraphPlaceholderID int32
}

const resourcePlaceholderInfoBytes = 4

func (i InfoResourcePlaceholder) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(i.GraphPlaceholderID))
}

func UnmarshalResourcePlaceholder(buf []byte) InfoResourcePlaceholder {
	return InfoResourcePlaceholder{GraphPlaceholderID: int32(binary.LittleEndian.Uint32(buf[0:4]))}
}

// InfoBitmapBGRAPointer is an empty payload type; the registry does not
// use it for NTBitmapBGRAPointer, whose info bytes hold an
// InfoResourcePlaceholder. The bitmap it exposes/consumes lives in the
// bound Resource.
type InfoBitmapBGRAPointer struct{}

const bitmapPointerInfoBytes = 0
