// Package bitmap defines the uncompressed raster type every node in the
// graph reads or writes. It has no knowledge of the graph, codecs, or job
// lifecycle — those own a Bitmap but never reach into its invariants.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Format identifies the in-memory pixel layout of a Bitmap.
type Format int

const (
	FormatBGR24 Format = iota
	FormatBGRA32
	FormatBGR32
	FormatGray8
)

// BytesPerPixel returns the stride unit for f.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatBGR24:
		return 3
	case FormatBGRA32, FormatBGR32:
		return 4
	case FormatGray8:
		return 1
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case FormatBGR24:
		return "bgr24"
	case FormatBGRA32:
		return "bgra32"
	case FormatBGR32:
		return "bgr32"
	case FormatGray8:
		return "gray8"
	default:
		return "unknown"
	}
}

// CompositingMode controls how a write into a bitmap that already has
// content blends with the destination.
type CompositingMode int

const (
	CompositingReplace CompositingMode = iota
	CompositingBlendWithSelf
	CompositingBlendWithMatte
)

// Matte is a 4-byte sRGBA matte color used by CompositingBlendWithMatte.
type Matte [4]byte

// Bitmap is an uncompressed raster. Ownership is tracked by BorrowedPixels:
// when true, the pixel buffer is a view into someone else's memory and must
// never be freed or reused as scratch space by the owner that holds this
// header (see Crop_Mutate_Alias in package nodedef).
type Bitmap struct {
	W, H            int
	Stride          int
	Pixels          []byte
	Format          Format
	AlphaMeaningful bool
	Matte           Matte
	Compositing     CompositingMode

	// BorrowedPixels is true for header-only views (e.g. a crop alias)
	// whose Pixels slice aliases another Bitmap's buffer at an offset.
	// The owning job context's destructor must skip freeing these.
	BorrowedPixels bool
}

// New allocates a zeroed Bitmap of the given dimensions and format. The
// stride is the minimum legal value (w * bytes-per-pixel); callers needing
// padding should set Stride and grow Pixels themselves.
func New(w, h int, format Format) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bitmap: invalid dimensions %dx%d", w, h)
	}
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("bitmap: unknown format %v", format)
	}
	stride := w * bpp
	return &Bitmap{
		W:      w,
		H:      h,
		Stride: stride,
		Pixels: make([]byte, stride*h),
		Format: format,
	}, nil
}

// Validate checks the stride/buffer-length invariant from spec §3.
func (b *Bitmap) Validate() error {
	bpp := b.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("bitmap: unknown format %v", b.Format)
	}
	if b.Stride < b.W*bpp {
		return fmt.Errorf("bitmap: stride %d < w(%d)*bpp(%d)", b.Stride, b.W, bpp)
	}
	if len(b.Pixels) < b.Stride*b.H {
		return fmt.Errorf("bitmap: buffer length %d < stride(%d)*h(%d)", len(b.Pixels), b.Stride, b.H)
	}
	return nil
}

// RowOffset returns the byte offset of row y within Pixels.
func (b *Bitmap) RowOffset(y int) int { return b.Stride * y }

// PixelOffset returns the byte offset of pixel (x, y) within Pixels.
func (b *Bitmap) PixelOffset(x, y int) int {
	return b.Stride*y + b.Format.BytesPerPixel()*x
}

// AliasRect returns a header-only Bitmap that borrows b's pixel buffer at an
// offset, implementing Crop_Mutate_Alias (spec §4.G). Lifetime of the
// returned Bitmap is bounded by b's lifetime; it is marked BorrowedPixels
// and owns no buffer of its own.
func (b *Bitmap) AliasRect(x1, y1, x2, y2 int) (*Bitmap, error) {
	if x1 < 0 || y1 < 0 || x2 <= x1 || y2 <= y1 || x2 > b.W || y2 > b.H {
		return nil, fmt.Errorf("bitmap: crop rect (%d,%d)-(%d,%d) out of bounds for %dx%d", x1, y1, x2, y2, b.W, b.H)
	}
	offset := b.PixelOffset(x1, y1)
	return &Bitmap{
		W:               x2 - x1,
		H:               y2 - y1,
		Stride:          b.Stride,
		Pixels:          b.Pixels[offset:],
		Format:          b.Format,
		AlphaMeaningful: b.AlphaMeaningful,
		Matte:           b.Matte,
		Compositing:     b.Compositing,
		BorrowedPixels:  true,
	}, nil
}

// ToImage adapts a Bitmap to the stdlib image.Image interface so Go-native
// codecs and x/image/draw kernels can read it without the core depending on
// either. Only used by the render/codec collaborators, never by the graph
// engine itself.
func (b *Bitmap) ToImage() image.Image { return (*imageView)(b) }

// ToDrawImage adapts a Bitmap to draw.Image (read+write), letting
// golang.org/x/image/draw scalers write directly into the bitmap's pixel
// buffer with no intermediate copy.
func (b *Bitmap) ToDrawImage() draw.Image { return (*imageView)(b) }

// FromImage copies src into a freshly allocated BGRA32 Bitmap. Used by
// decoders that produce an image.Image (the stdlib/x/image codec path).
func FromImage(src image.Image) (*Bitmap, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bm, err := New(w, h, FormatBGRA32)
	if err != nil {
		return nil, err
	}
	hasAlpha := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := bm.PixelOffset(x, y)
			bm.Pixels[off+0] = byte(bl >> 8)
			bm.Pixels[off+1] = byte(g >> 8)
			bm.Pixels[off+2] = byte(r >> 8)
			bm.Pixels[off+3] = byte(a >> 8)
			if a>>8 != 0xFF {
				hasAlpha = true
			}
		}
	}
	bm.AlphaMeaningful = hasAlpha
	return bm, nil
}

// imageView adapts *Bitmap to image.Image without copying.
type imageView Bitmap

func (v *imageView) ColorModel() color.Model { return color.RGBAModel }

func (v *imageView) Bounds() image.Rectangle { return image.Rect(0, 0, v.W, v.H) }

func (v *imageView) At(x, y int) color.Color {
	bpp := v.Format.BytesPerPixel()
	off := v.Stride*y + bpp*x
	switch v.Format {
	case FormatGray8:
		g := v.Pixels[off]
		return color.RGBA{R: g, G: g, B: g, A: 0xFF}
	case FormatBGR24, FormatBGR32:
		return color.RGBA{R: v.Pixels[off+2], G: v.Pixels[off+1], B: v.Pixels[off+0], A: 0xFF}
	case FormatBGRA32:
		return color.RGBA{R: v.Pixels[off+2], G: v.Pixels[off+1], B: v.Pixels[off+0], A: v.Pixels[off+3]}
	default:
		return color.RGBA{}
	}
}

func (v *imageView) Set(x, y int, c color.Color) {
	bpp := v.Format.BytesPerPixel()
	off := v.Stride*y + bpp*x
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	r, g, bl, a := rgba.R, rgba.G, rgba.B, rgba.A
	switch v.Format {
	case FormatGray8:
		v.Pixels[off] = byte((uint16(r) + uint16(g) + uint16(bl)) / 3)
	case FormatBGR24, FormatBGR32:
		v.Pixels[off+0] = bl
		v.Pixels[off+1] = g
		v.Pixels[off+2] = r
	case FormatBGRA32:
		v.Pixels[off+0] = bl
		v.Pixels[off+1] = g
		v.Pixels[off+2] = r
		v.Pixels[off+3] = a
	}
}
