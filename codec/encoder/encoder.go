// Package encoder provides format-specific codec.Encoder implementations,
// adapted from the teacher's adapters/encoder package.
package encoder

import (
	"image/jpeg"
	"image/png"
	"io"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
)

const defaultJPEGQuality = 85

type stdlibEncoder struct {
	w      io.Writer
	format codec.Format
}

func (e *stdlibEncoder) WriteFrame(src *bitmap.Bitmap, quality int) error {
	img := src.ToImage()
	switch e.format {
	case codec.FormatJPEG:
		if quality <= 0 {
			quality = defaultJPEGQuality
		}
		if err := jpeg.Encode(e.w, img, &jpeg.Options{Quality: quality}); err != nil {
			return apperrors.Wrap(apperrors.KindIOError, "encoder.write_frame", err)
		}
		return nil
	case codec.FormatPNG:
		if err := png.Encode(e.w, img); err != nil {
			return apperrors.Wrap(apperrors.KindIOError, "encoder.write_frame", err)
		}
		return nil
	case codec.FormatWebP:
		// golang.org/x/image/webp is decode-only; WebP output is only
		// available through codec/vips.
		return apperrors.New(apperrors.KindUnsupported, "encoder.write_frame", apperrors.ErrNotImplemented)
	default:
		return apperrors.New(apperrors.KindUnsupported, "encoder.write_frame", apperrors.ErrUnknownNodeType)
	}
}

// Opener opens stdlib-backed encoders for JPEG and PNG (WebP encode
// requires codec/vips).
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (o *Opener) OpenEncoder(w io.Writer, format codec.Format) (codec.Encoder, error) {
	return &stdlibEncoder{w: w, format: format}, nil
}

// RegisterAll binds an Opener to JPEG and PNG on reg.
func RegisterAll(reg *codec.MapRegistry) {
	o := NewOpener()
	reg.RegisterEncoder(codec.FormatJPEG, o)
	reg.RegisterEncoder(codec.FormatPNG, o)
}
