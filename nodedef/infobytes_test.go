package nodedef

import (
	"testing"

	"github.com/Skryldev/imagegraph/bitmap"
)

func TestInfoCreateCanvasRoundTrip(t *testing.T) {
	want := InfoCreateCanvas{Format: bitmap.FormatBGRA32, Width: 640, Height: 480}
	buf := make([]byte, createCanvasInfoBytes)
	want.Marshal(buf)
	got := UnmarshalCreateCanvas(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoCropRoundTrip(t *testing.T) {
	want := InfoCrop{X1: 10, Y1: 20, X2: 310, Y2: 220}
	buf := make([]byte, cropInfoBytes)
	want.Marshal(buf)
	got := UnmarshalCrop(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoRenderToCanvas1DRoundTrip(t *testing.T) {
	want := InfoRenderToCanvas1D{ScaleToWidth: 128, TransposeOnWrite: true, Filter: FilterLanczos3}
	buf := make([]byte, render1DInfoBytes)
	want.Marshal(buf)
	got := UnmarshalRenderToCanvas1D(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoCopyRectToCanvasRoundTrip(t *testing.T) {
	want := InfoCopyRectToCanvas{X: 1, Y: 2, FromX: 3, FromY: 4, Width: 50, Height: 60}
	buf := make([]byte, copyRectInfoBytes)
	want.Marshal(buf)
	got := UnmarshalCopyRectToCanvas(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoScaleRoundTrip(t *testing.T) {
	want := InfoScale{Width: 200, Height: 100, Filter: FilterCatmullRom}
	buf := make([]byte, scaleInfoBytes)
	want.Marshal(buf)
	got := UnmarshalScale(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoCodecRoundTrip(t *testing.T) {
	want := InfoCodec{Direction: CodecDirectionEncode, GraphPlaceholderID: 7, Quality: 90}
	buf := make([]byte, codecInfoBytes)
	want.Marshal(buf)
	got := UnmarshalCodec(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestInfoResourcePlaceholderRoundTrip(t *testing.T) {
	want := InfoResourcePlaceholder{GraphPlaceholderID: 42}
	buf := make([]byte, resourcePlaceholderInfoBytes)
	want.Marshal(buf)
	got := UnmarshalResourcePlaceholder(buf)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
