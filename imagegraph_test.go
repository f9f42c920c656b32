package imagegraph

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/codec/decoder"
	"github.com/Skryldev/imagegraph/codec/encoder"
	"github.com/Skryldev/imagegraph/config"
	"github.com/Skryldev/imagegraph/render"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	reg := codec.NewMapRegistry()
	decoder.RegisterAll(reg)
	encoder.RegisterAll(reg)
	c, err := NewContext(AbiMajor, AbiMinor, reg, render.Default{}, config.Default())
	if err != nil {
		t.Fatalf("new_context: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func checkerboard(w, h int) *bitmap.Bitmap {
	bm, _ := bitmap.New(w, h, bitmap.FormatBGRA32)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := bm.PixelOffset(x, y)
			v := byte(0)
			if (x+y)%2 == 0 {
				v = 0xFF
			}
			bm.Pixels[off+0] = v
			bm.Pixels[off+1] = byte(x * 16)
			bm.Pixels[off+2] = byte(y * 16)
			bm.Pixels[off+3] = 0xFF
		}
	}
	return bm
}

func runRoundTrip(t *testing.T, apply func(c *Context, in NodeRef) (NodeRef, error)) {
	t.Helper()
	c := newTestContext(t)
	src := checkerboard(8, 8)

	if err := c.AddInputBitmap(1, src); err != nil {
		t.Fatalf("add_input_bitmap: %v", err)
	}
	if err := c.AddOutputBuffer(2); err != nil {
		t.Fatalf("add_output_buffer: %v", err)
	}
	rp, err := c.ResourcePlaceholder(1)
	if err != nil {
		t.Fatalf("resource_placeholder: %v", err)
	}
	out, err := apply(c, rp)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := c.Encode(out, 2, codec.FormatPNG, 0); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := c.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	buf, err := c.GetOutputBufferByID(2)
	if err != nil {
		t.Fatalf("get_output_buffer: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != src.W || bounds.Dy() != src.H {
		t.Fatalf("expected %dx%d output, got %dx%d", src.W, src.H, bounds.Dx(), bounds.Dy())
	}
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			gotR, gotG, gotB, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			wantR, wantG, wantB, _ := src.ToImage().At(x, y).RGBA()
			if gotR != wantR || gotG != wantG || gotB != wantB {
				t.Fatalf("pixel (%d,%d) mismatch: got (%d,%d,%d) want (%d,%d,%d)",
					x, y, gotR>>8, gotG>>8, gotB>>8, wantR>>8, wantG>>8, wantB>>8)
			}
		}
	}
}

func TestRotate90AppliedFourTimesIsIdentity(t *testing.T) {
	runRoundTrip(t, func(c *Context, in NodeRef) (NodeRef, error) {
		n := in
		var err error
		for i := 0; i < 4; i++ {
			n, err = c.Rotate90(n)
			if err != nil {
				return -1, err
			}
		}
		return n, nil
	})
}

func TestFlipHorizontalAppliedTwiceIsIdentity(t *testing.T) {
	runRoundTrip(t, func(c *Context, in NodeRef) (NodeRef, error) {
		first, err := c.FlipHorizontal(in)
		if err != nil {
			return -1, err
		}
		return c.FlipHorizontal(first)
	})
}

func TestTransposeAppliedTwiceIsIdentity(t *testing.T) {
	runRoundTrip(t, func(c *Context, in NodeRef) (NodeRef, error) {
		first, err := c.Transpose(in)
		if err != nil {
			return -1, err
		}
		return c.Transpose(first)
	})
}

func TestAbiCompatible(t *testing.T) {
	if !AbiCompatible(AbiMajor, 0) {
		t.Fatalf("same major, lower/equal minor must be compatible")
	}
	if AbiCompatible(AbiMajor+1, 0) {
		t.Fatalf("different major must not be compatible")
	}
	if AbiCompatible(AbiMajor, AbiMinor+1) {
		t.Fatalf("a caller wanting a newer minor than this build has must not be compatible")
	}
}

func TestErrorWriteToBufferTruncates(t *testing.T) {
	c := newTestContext(t)
	c.RequestCancellation()
	if err := c.Execute(); err == nil {
		t.Fatalf("expected cancelled execute to error")
	}
	small := make([]byte, 4)
	n := c.ErrorWriteToBuffer(small)
	if n != 4 {
		t.Fatalf("expected truncation-safe write to fill dst, wrote %d", n)
	}
}
