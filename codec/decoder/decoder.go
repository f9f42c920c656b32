// Package decoder provides format-specific codec.Decoder implementations,
// adapted from the teacher's adapters/decoder package to the
// codec.Decoder boundary (GetFrameInfo before ReadFrame).
package decoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/webp"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
)

// stdlibDecoder decodes eagerly on OpenDecoder (the stdlib/x-image codecs
// offer no separate header-only pass) and answers GetFrameInfo/ReadFrame
// from the already-decoded image.Image.
type stdlibDecoder struct {
	img image.Image
}

func (d *stdlibDecoder) GetFrameInfo() (codec.FrameInfo, error) {
	b := d.img.Bounds()
	return codec.FrameInfo{Width: b.Dx(), Height: b.Dy(), Format: bitmap.FormatBGRA32}, nil
}

func (d *stdlibDecoder) ReadFrame(dst *bitmap.Bitmap) error {
	bm, err := bitmap.FromImage(d.img)
	if err != nil {
		return apperrors.Wrap(apperrors.KindImageMalformed, "decoder.read_frame", err)
	}
	if bm.W != dst.W || bm.H != dst.H {
		return apperrors.Wrap(apperrors.KindImageMalformed, "decoder.read_frame", apperrors.ErrArityMismatch)
	}
	copy(dst.Pixels, bm.Pixels)
	dst.AlphaMeaningful = bm.AlphaMeaningful
	return nil
}

// Opener opens stdlib/x-image-backed decoders for JPEG, PNG, and WebP.
// It implements codec.DecoderOpener and is registered under all three
// formats by RegisterAll.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (o *Opener) OpenDecoder(r io.Reader, format codec.Format) (codec.Decoder, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOError, "decoder.open", err)
	}
	var img image.Image
	switch format {
	case codec.FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case codec.FormatPNG:
		img, err = png.Decode(bytes.NewReader(raw))
	case codec.FormatWebP:
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return nil, apperrors.New(apperrors.KindUnsupported, "decoder.open", apperrors.ErrUnknownNodeType)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindImageMalformed, "decoder.open", err)
	}
	return &stdlibDecoder{img: img}, nil
}

// RegisterAll binds an Opener to JPEG, PNG, and WebP on reg.
func RegisterAll(reg *codec.MapRegistry) {
	o := NewOpener()
	reg.RegisterDecoder(codec.FormatJPEG, o)
	reg.RegisterDecoder(codec.FormatPNG, o)
	reg.RegisterDecoder(codec.FormatWebP, o)
}
