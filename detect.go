package imagegraph

import (
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/utils"
)

// detectFormat sniffs data for a known container, delegating the actual
// magic-byte/content-type detection to utils.DetectFormat and mapping its
// string result onto codec.Format.
func detectFormat(data []byte) codec.Format {
	switch utils.DetectFormat(data) {
	case "jpeg":
		return codec.FormatJPEG
	case "png":
		return codec.FormatPNG
	case "webp":
		return codec.FormatWebP
	default:
		return codec.FormatUnknown
	}
}
