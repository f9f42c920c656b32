package utils

import "testing"

func TestDetectFormatMagicBytes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0, 0, 0, 0}, "png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"too_short", []byte{0x01}, "unknown"},
		{"unknown", []byte("not an image at all"), "unknown"},
	}
	for _, c := range cases {
		if got := DetectFormat(c.data); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestScaleDimensionsBothZeroReturnsSource(t *testing.T) {
	w, h := ScaleDimensions(100, 50, 0, 0)
	if w != 100 || h != 50 {
		t.Fatalf("got %dx%d, want 100x50", w, h)
	}
}

func TestScaleDimensionsDerivesHeightFromWidth(t *testing.T) {
	w, h := ScaleDimensions(200, 100, 100, 0)
	if w != 100 || h != 50 {
		t.Fatalf("got %dx%d, want 100x50", w, h)
	}
}

func TestScaleDimensionsDerivesWidthFromHeight(t *testing.T) {
	w, h := ScaleDimensions(200, 100, 0, 50)
	if w != 100 || h != 50 {
		t.Fatalf("got %dx%d, want 100x50", w, h)
	}
}

func TestScaleDimensionsBothSetPassesThrough(t *testing.T) {
	w, h := ScaleDimensions(200, 100, 30, 40)
	if w != 30 || h != 40 {
		t.Fatalf("got %dx%d, want 30x40", w, h)
	}
}

func TestCloneBytesIsIndependentCopy(t *testing.T) {
	src := []byte{1, 2, 3}
	clone := CloneBytes(src)
	clone[0] = 99
	if src[0] == 99 {
		t.Fatalf("expected CloneBytes to return an independent copy")
	}
}
