package render

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/imagegraph/bitmap"
)

// Default is the stdlib/x-image-backed Kernels implementation. It is the
// fallback used whenever the caller hasn't wired codec/vips, and is
// exercised directly by the engine's unit tests (no CGO required).
type Default struct{}

var _ Kernels = Default{}

// FlipVertical swaps rows top-to-bottom in place, mirroring the
// original's BitmapBgra_flip_vertical row-swap loop.
func (Default) FlipVertical(b *bitmap.Bitmap) error {
	bpp := b.Format.BytesPerPixel()
	rowLen := b.W * bpp
	tmp := make([]byte, rowLen)
	for y := 0; y < b.H/2; y++ {
		top := b.Pixels[b.RowOffset(y) : b.RowOffset(y)+rowLen]
		bot := b.Pixels[b.RowOffset(b.H-1-y) : b.RowOffset(b.H-1-y)+rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
	return nil
}

// FlipHorizontal mirrors every row left-to-right in place.
func (Default) FlipHorizontal(b *bitmap.Bitmap) error {
	bpp := b.Format.BytesPerPixel()
	px := make([]byte, bpp)
	for y := 0; y < b.H; y++ {
		row := b.Pixels[b.RowOffset(y) : b.RowOffset(y)+b.W*bpp]
		for x := 0; x < b.W/2; x++ {
			l := row[x*bpp : x*bpp+bpp]
			r := row[(b.W-1-x)*bpp : (b.W-1-x)*bpp+bpp]
			copy(px, l)
			copy(l, r)
			copy(r, px)
		}
	}
	return nil
}

// Render1D resamples src into dst along one axis using an x/image/draw
// scaler chosen by filter, matching one pass of the original's two-pass
// Scale lowering (flatten_scale creates two Render1D nodes, one per
// axis). transpose indicates the write direction is swapped (the
// NTTranspose lowering reuses this same kernel, per flatten_transpose).
func (r Default) Render1D(dst, src *bitmap.Bitmap, targetWidth int, transpose bool, filter int32) error {
	if dst == nil || src == nil {
		return fmt.Errorf("render: nil bitmap passed to Render1D")
	}
	scaler := scalerFor(filter)
	srcImg := src.ToImage()
	dstImg := dst.ToDrawImage()
	if transpose {
		tmp := image.NewRGBA(image.Rect(0, 0, dst.H, dst.W))
		scaler.Scale(tmp, tmp.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)
		for y := 0; y < dst.H; y++ {
			for x := 0; x < dst.W; x++ {
				dstImg.Set(x, y, tmp.At(y, x))
			}
		}
		return nil
	}
	scaler.Scale(dstImg, image.Rect(0, 0, targetWidth, dst.H), srcImg, srcImg.Bounds(), xdraw.Over, nil)
	return nil
}

// CopyRect blits a rectangular region, taking the whole-buffer fast path
// when the geometry matches exactly (mirroring execute_copy_rect's
// memcpy-vs-per-row split in the original).
func (Default) CopyRect(dst, src *bitmap.Bitmap, dstX, dstY, srcX, srcY, w, h int) error {
	if dst.Format != src.Format {
		return fmt.Errorf("render: copy_rect format mismatch %v != %v", dst.Format, src.Format)
	}
	bpp := src.Format.BytesPerPixel()
	if dstX == 0 && dstY == 0 && srcX == 0 && srcY == 0 && w == src.W && w == dst.W && h == src.H && h == dst.H && dst.Stride == src.Stride {
		copy(dst.Pixels, src.Pixels[:src.Stride*src.H])
		dst.AlphaMeaningful = src.AlphaMeaningful
		return nil
	}
	rowBytes := w * bpp
	for y := 0; y < h; y++ {
		from := src.Pixels[src.RowOffset(srcY+y)+srcX*bpp:]
		to := dst.Pixels[dst.RowOffset(dstY+y)+dstX*bpp:]
		copy(to[:rowBytes], from[:rowBytes])
	}
	return nil
}

func scalerFor(filter int32) xdraw.Scaler {
	switch filter {
	case 1: // FilterLinear
		return xdraw.BiLinear
	case 2: // FilterBox
		return xdraw.ApproxBiLinear
	default: // FilterRobidoux, FilterCatmullRom, FilterLanczos3 approximated by CatmullRom
		return xdraw.CatmullRom
	}
}
