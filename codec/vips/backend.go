// Package vips is the libvips-backed codec.DecoderOpener/EncoderOpener
// and render.Resampler, adapted from the teacher's adapters/vips package.
// It is the preferred backend when the process links libvips; codec/decoder
// and codec/encoder remain the CGO-free fallback.
package vips

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
)

func encodePNG(w io.Writer, src *bitmap.Bitmap) error { return png.Encode(w, src.ToImage()) }

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
}

// Backend is a unified libvips-powered codec.DecoderOpener, codec.EncoderOpener,
// and render.Resampler. Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend. Call
// Shutdown when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 85
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources.
func (b *Backend) Shutdown() { govips.Shutdown() }

type decoder struct {
	ref *govips.ImageRef
}

func (d *decoder) GetFrameInfo() (codec.FrameInfo, error) {
	return codec.FrameInfo{Width: d.ref.Width(), Height: d.ref.Height(), Format: bitmap.FormatBGRA32}, nil
}

func (d *decoder) ReadFrame(dst *bitmap.Bitmap) error {
	raw, err := d.ref.ToBytes()
	if err != nil {
		return apperrors.Wrap(apperrors.KindImageMalformed, "vips.read_frame", err)
	}
	if len(raw) < len(dst.Pixels) {
		return apperrors.New(apperrors.KindImageMalformed, "vips.read_frame", apperrors.ErrArityMismatch)
	}
	copy(dst.Pixels, raw)
	dst.AlphaMeaningful = d.ref.HasAlpha()
	return nil
}

func (b *Backend) OpenDecoder(r io.Reader, format codec.Format) (codec.Decoder, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOError, "vips.open_decoder", err)
	}
	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindImageMalformed, "vips.open_decoder", err)
	}
	runtime.SetFinalizer(ref, func(r *govips.ImageRef) { r.Close() })
	return &decoder{ref: ref}, nil
}

type encoder struct {
	w      io.Writer
	format codec.Format
	cfg    BackendConfig
}

func (e *encoder) WriteFrame(src *bitmap.Bitmap, quality int) error {
	ref, err := govips.NewImageFromBuffer(toPNGBuffer(src))
	if err != nil {
		return apperrors.Wrap(apperrors.KindImageMalformed, "vips.write_frame", err)
	}
	defer ref.Close()
	if quality <= 0 {
		quality = e.cfg.DefaultQuality
	}
	var buf []byte
	switch e.format {
	case codec.FormatJPEG:
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		buf, _, err = ref.ExportJpeg(ep)
	case codec.FormatPNG:
		buf, _, err = ref.ExportPng(govips.NewPngExportParams())
	case codec.FormatWebP:
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		buf, _, err = ref.ExportWebp(ep)
	default:
		return apperrors.New(apperrors.KindUnsupported, "vips.write_frame", apperrors.ErrUnknownNodeType)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.KindImageMalformed, "vips.write_frame", err)
	}
	_, err = e.w.Write(buf)
	return err
}

// toPNGBuffer round-trips a Bitmap through a PNG encoding so libvips can
// load it without a raw-pixel import API; pragmatic given govips' buffer-
// oriented surface, at the cost of a copy on the export path only.
func toPNGBuffer(src *bitmap.Bitmap) []byte {
	var buf bytes.Buffer
	_ = encodePNG(&buf, src)
	return buf.Bytes()
}

func (b *Backend) OpenEncoder(w io.Writer, format codec.Format) (codec.Encoder, error) {
	return &encoder{w: w, format: format, cfg: b.cfg}, nil
}

// Render1D implements render.Resampler using vips_resize with the
// Lanczos3 kernel, mirroring the teacher's VipsResizeStep.
func (b *Backend) Render1D(dst, src *bitmap.Bitmap, targetWidth int, transpose bool, filter int32) error {
	ref, err := govips.NewImageFromBuffer(toPNGBuffer(src))
	if err != nil {
		return apperrors.Wrap(apperrors.KindImageMalformed, "vips.render1d", err)
	}
	defer ref.Close()
	width := targetWidth
	if transpose {
		width = src.H
	}
	scale := float64(width) / float64(ref.Width())
	if err := ref.Resize(scale, govips.KernelLanczos3); err != nil {
		return apperrors.Wrap(apperrors.KindInternalError, "vips.render1d", err)
	}
	raw, err := ref.ToBytes()
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternalError, "vips.render1d", err)
	}
	if len(raw) > len(dst.Pixels) {
		return fmt.Errorf("vips: resized buffer larger than destination canvas")
	}
	copy(dst.Pixels, raw)
	return nil
}

// RegisterAll binds b as both decoder and encoder for JPEG/PNG/WebP.
func RegisterAll(reg *codec.MapRegistry, b *Backend) {
	for _, f := range []codec.Format{codec.FormatJPEG, codec.FormatPNG, codec.FormatWebP} {
		reg.RegisterDecoder(f, b)
		reg.RegisterEncoder(f, b)
	}
}
