// Package codec defines the decoder/encoder boundary nodedef's decode and
// encode primitives call into, adapted from the teacher's
// core.Decoder/core.Encoder/core.Registry interfaces (spec §9, decode/
// encode are external collaborators — concrete codecs never live in the
// graph engine packages).
package codec

import (
	"io"

	"github.com/Skryldev/imagegraph/bitmap"
)

// Format identifies an on-disk image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// FrameInfo is the subset of decode metadata the graph needs before any
// pixels are read, mirroring the original's decoder_frame_info (w, h).
type FrameInfo struct {
	Width  int
	Height int
	Format bitmap.Format
}

// Decoder reads frame metadata and pixel data from an opened resource.
// GetFrameInfo must be callable before ReadFrame, and is the source of
// NTDecoder's populate_dimensions callback (spec §4.C/§4.D).
type Decoder interface {
	GetFrameInfo() (FrameInfo, error)
	ReadFrame(dst *bitmap.Bitmap) error
}

// Encoder writes a bitmap's pixels out in a target format.
type Encoder interface {
	WriteFrame(src *bitmap.Bitmap, quality int) error
}

// DecoderOpener opens a Decoder over raw bytes for a given format hint.
type DecoderOpener interface {
	OpenDecoder(r io.Reader, format Format) (Decoder, error)
}

// EncoderOpener opens an Encoder that writes to w in a given format.
type EncoderOpener interface {
	OpenEncoder(w io.Writer, format Format) (Encoder, error)
}

// Registry maps formats to opener implementations, mirroring the
// teacher's core.Registry.
type Registry interface {
	DecoderFor(format Format) (DecoderOpener, bool)
	EncoderFor(format Format) (EncoderOpener, bool)
}

// MapRegistry is the default in-memory Registry implementation.
type MapRegistry struct {
	decoders map[Format]DecoderOpener
	encoders map[Format]EncoderOpener
}

// NewMapRegistry returns an empty MapRegistry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{decoders: make(map[Format]DecoderOpener), encoders: make(map[Format]EncoderOpener)}
}

// RegisterDecoder binds format to an opener.
func (m *MapRegistry) RegisterDecoder(format Format, d DecoderOpener) { m.decoders[format] = d }

// RegisterEncoder binds format to an opener.
func (m *MapRegistry) RegisterEncoder(format Format, e EncoderOpener) { m.encoders[format] = e }

func (m *MapRegistry) DecoderFor(format Format) (DecoderOpener, bool) {
	d, ok := m.decoders[format]
	return d, ok
}

func (m *MapRegistry) EncoderFor(format Format) (EncoderOpener, bool) {
	e, ok := m.encoders[format]
	return e, ok
}
