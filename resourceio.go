package imagegraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/job"
	"github.com/Skryldev/imagegraph/storage"
	"github.com/Skryldev/imagegraph/utils"
)

// resourceIO adapts a Context's job.Resources and codec.Registry to
// nodedef's ResourceIO and DimensionResolver interfaces, keeping the
// engine/nodedef packages ignorant of job, jobctx, and codec concretely
// (spec §4.A/§4.D "kept decoupled via interfaces").
type resourceIO struct {
	ctx *Context
}

func (r *resourceIO) resource(graphPlaceholderID int32) (*job.Resource, error) {
	res := r.ctx.job.FindResourceByPlaceholder(int(graphPlaceholderID))
	if res == nil {
		return nil, job.ErrNoSuchPlaceholder
	}
	return res, nil
}

func (r *resourceIO) readBytes(res *job.Resource) ([]byte, error) {
	switch res.Kind {
	case job.KindBuffer:
		return res.Buffer, nil
	case job.KindFile:
		if r.ctx.storage == nil {
			return nil, fmt.Errorf("resource %q: no storage adapter configured", res.Path)
		}
		rc, err := r.ctx.storage.Get(context.Background(), storage.Key{Path: res.Path})
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		buf, err := utils.DrainReader(context.Background(), rc, 0)
		if err != nil {
			return nil, err
		}
		out := utils.CloneBytes(buf.Bytes())
		utils.ReleaseBuffer(buf)
		return out, nil
	default:
		return nil, fmt.Errorf("resource kind %d has no byte representation", res.Kind)
	}
}

// ResourceFrameInfo implements nodedef.DimensionResolver.
func (r *resourceIO) ResourceFrameInfo(graphPlaceholderID int32) (int, int, bitmap.Format, bool, error) {
	res, err := r.resource(graphPlaceholderID)
	if err != nil {
		return 0, 0, 0, false, err
	}
	if res.Kind == job.KindBitmap {
		if res.Bitmap == nil {
			return 0, 0, 0, false, fmt.Errorf("resource %d: bitmap not set", graphPlaceholderID)
		}
		return res.Bitmap.W, res.Bitmap.H, res.Bitmap.Format, res.Bitmap.AlphaMeaningful, nil
	}
	raw, err := r.readBytes(res)
	if err != nil {
		return 0, 0, 0, false, err
	}
	format := detectFormat(raw)
	opener, ok := r.ctx.registry.DecoderFor(format)
	if !ok {
		return 0, 0, 0, false, fmt.Errorf("no decoder registered for format %q", format)
	}
	dec, err := opener.OpenDecoder(bytes.NewReader(raw), format)
	if err != nil {
		return 0, 0, 0, false, err
	}
	info, err := dec.GetFrameInfo()
	if err != nil {
		return 0, 0, 0, false, err
	}
	return info.Width, info.Height, info.Format, true, nil
}

// DecodeInto implements nodedef.ResourceIO.
func (r *resourceIO) DecodeInto(graphPlaceholderID int32, dst *bitmap.Bitmap) error {
	res, err := r.resource(graphPlaceholderID)
	if err != nil {
		return err
	}
	raw, err := r.readBytes(res)
	if err != nil {
		return err
	}
	format := detectFormat(raw)
	opener, ok := r.ctx.registry.DecoderFor(format)
	if !ok {
		return apperrors.New(apperrors.KindUnsupported, "resourceio.decode_into", fmt.Errorf("no decoder for format %q", format))
	}
	dec, err := opener.OpenDecoder(bytes.NewReader(raw), format)
	if err != nil {
		return err
	}
	res.Codec = job.CodecStateOpen
	return dec.ReadFrame(dst)
}

// EncodeFrom implements nodedef.ResourceIO.
func (r *resourceIO) EncodeFrom(graphPlaceholderID int32, quality int32, src *bitmap.Bitmap) error {
	res, err := r.resource(graphPlaceholderID)
	if err != nil {
		return err
	}
	format := codec.Format(res.Format)
	opener, ok := r.ctx.registry.EncoderFor(format)
	if !ok {
		return apperrors.New(apperrors.KindUnsupported, "resourceio.encode_from", fmt.Errorf("no encoder for format %q", format))
	}
	var buf bytes.Buffer
	enc, err := opener.OpenEncoder(&buf, format)
	if err != nil {
		return err
	}
	if err := enc.WriteFrame(src, int(quality)); err != nil {
		return err
	}
	res.Codec = job.CodecStateClosed

	switch res.Kind {
	case job.KindBuffer:
		res.Buffer = buf.Bytes()
		return nil
	case job.KindFile:
		if r.ctx.storage == nil {
			return fmt.Errorf("resource %q: no storage adapter configured", res.Path)
		}
		return r.ctx.storage.Put(context.Background(), storage.Key{Path: res.Path}, bytes.NewReader(buf.Bytes()))
	default:
		return fmt.Errorf("resource kind %d cannot be an encode sink", res.Kind)
	}
}

// BoundBitmap implements nodedef.ResourceIO.
func (r *resourceIO) BoundBitmap(graphPlaceholderID int32) (*bitmap.Bitmap, error) {
	res, err := r.resource(graphPlaceholderID)
	if err != nil {
		return nil, err
	}
	if res.Kind != job.KindBitmap || res.Bitmap == nil {
		return nil, fmt.Errorf("resource %d is not a bound bitmap", graphPlaceholderID)
	}
	return res.Bitmap, nil
}
