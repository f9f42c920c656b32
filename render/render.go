// Package render is the pixel-kernel boundary of spec §4.F/§9 ("concrete
// codec and pixel-kernel implementations are external collaborators").
// nodedef's execute callbacks call these interfaces; they never touch
// pixels directly. The default implementation in this package is backed
// by golang.org/x/image/draw; codec/vips supplies a libvips-backed
// alternative for callers that build with it.
package render

import "github.com/Skryldev/imagegraph/bitmap"

// Flipper mutates a bitmap's pixels in place, matching the original's
// BitmapBgra_flip_vertical/flip_horizontal (execute_flip_vertical,
// execute_flip_horizontal in graph_node_defs.c).
type Flipper interface {
	FlipVertical(b *bitmap.Bitmap) error
	FlipHorizontal(b *bitmap.Bitmap) error
}

// Resampler performs a 1-D weighted resample of src into dst along one
// axis, the kernel behind NTRenderToCanvas1D (execute_render1d /
// flow_node_execute_render_to_canvas_1d in the original).
type Resampler interface {
	Render1D(dst, src *bitmap.Bitmap, targetWidth int, transpose bool, filter int32) error
}

// Compositor blits a rectangular region of src into dst at an offset,
// the kernel behind NTCopyRectToCanvas (execute_copy_rect).
type Compositor interface {
	CopyRect(dst, src *bitmap.Bitmap, dstX, dstY, srcX, srcY, w, h int) error
}

// Kernels bundles the three pixel-kernel collaborators nodedef's execute
// callbacks depend on.
type Kernels interface {
	Flipper
	Resampler
	Compositor
}
