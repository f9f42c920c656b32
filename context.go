package imagegraph

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/config"
	"github.com/Skryldev/imagegraph/engine"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/job"
	"github.com/Skryldev/imagegraph/jobctx"
	"github.com/Skryldev/imagegraph/render"
	"github.com/Skryldev/imagegraph/storage"
	"github.com/Skryldev/imagegraph/utils"
)

// Lifetime controls how AddInputBuffer treats the caller's slice.
type Lifetime int

const (
	// LifetimeOutlivesFunctionCall means the caller may reuse or free the
	// slice as soon as AddInputBuffer returns; the Context copies it.
	LifetimeOutlivesFunctionCall Lifetime = iota
	// LifetimeOutlivesContext means the caller guarantees the slice stays
	// valid and unmodified for the Context's whole lifetime; it is
	// borrowed without copying.
	LifetimeOutlivesContext
)

var jobIDSeq atomic.Uint64

// Context is one unit of work: a graph, its bound resources, and the
// runtime ledger/error-state/cancellation flag backing it (spec §4.A).
// Exactly one graph lives in a Context for its whole lifetime.
type Context struct {
	job      *job.Job
	jc       *jobctx.Context
	registry codec.Registry
	storage  storage.Adapter
	kernels  render.Kernels
	cfg      config.Config
	rec      engine.Recorder
	hook     engine.NodeHook
	closed   bool
}

// NewContext creates a Context after checking ABI compatibility, mirroring
// create_context's version check (nil on mismatch becomes a non-nil error
// here, since Go has no null-handle idiom).
func NewContext(abiMajor, abiMinor int, reg codec.Registry, kernels render.Kernels, cfg config.Config) (*Context, error) {
	if !AbiCompatible(abiMajor, abiMinor) {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "imagegraph.new_context",
			fmt.Errorf("incompatible abi: caller wants %d.%d, this build is %d.%d", abiMajor, abiMinor, AbiMajor, AbiMinor))
	}
	j := job.New(jobIDSeq.Add(1))
	if cfg.MaxPasses > 0 {
		j.MaxPasses = cfg.MaxPasses
	}
	return &Context{
		job:      j,
		jc:       jobctx.New(),
		registry: reg,
		kernels:  kernels,
		cfg:      cfg,
	}, nil
}

// WithStorage attaches a storage.Adapter backing KindFile resources.
func (c *Context) WithStorage(s storage.Adapter) *Context { c.storage = s; return c }

// WithRecorder attaches a debug recorder (package debugdump implements
// engine.Recorder); nil disables recording, the zero-cost default.
func (c *Context) WithRecorder(r engine.Recorder) *Context { c.rec = r; return c }

// WithNodeHook attaches an observer invoked before/after each primitive
// node executes (package hooks's LoggingHook/MetricsHook both satisfy
// this structurally); nil disables observation, the zero-cost default.
func (c *Context) WithNodeHook(h engine.NodeHook) *Context { c.hook = h; return c }

// Close cascade-frees every allocation the job made. Safe to call once;
// calling it again is a no-op, mirroring destroy_context's "safe on null".
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.jc.FreeAll()
}

// Graph exposes the underlying graph for package jsonapi and the builder
// methods in build.go.
func (c *Context) Graph() *graph.Graph { return c.job.Graph }

// Job exposes the underlying job for package debugdump and engine.Run.
func (c *Context) Job() *job.Job { return c.job }

// AddInputBuffer registers ioID's bytes as a decode source. ioID must be
// unique among this Context's resources, mirroring add_input_buffer's
// contract.
func (c *Context) AddInputBuffer(ioID int32, data []byte, lifetime Lifetime) error {
	unlock := c.jc.BeginOperation()
	defer unlock()
	if c.job.FindResourceByPlaceholder(int(ioID)) != nil {
		return apperrors.New(apperrors.KindInvalidArgument, "imagegraph.add_input_buffer",
			fmt.Errorf("io_id %d already registered", ioID))
	}
	buf := data
	if lifetime == LifetimeOutlivesFunctionCall {
		buf = utils.CloneBytes(data)
	}
	c.job.AddResource(&job.Resource{
		Direction:          job.DirectionInput,
		Kind:               job.KindBuffer,
		GraphPlaceholderID: int(ioID),
		Buffer:             buf,
	})
	return nil
}

// AddInputBitmap registers a caller-decoded bitmap as a graph input,
// bound to a NTResourcePlaceholder/NTBitmapBGRAPointer node by
// engine.BindResources during Execute (spec §4.I, an EXPANSION over the
// raw-buffer-only add_input_buffer since the node type partition already
// has a bitmap-pointer primitive).
func (c *Context) AddInputBitmap(ioID int32, bm *bitmap.Bitmap) error {
	unlock := c.jc.BeginOperation()
	defer unlock()
	if c.job.FindResourceByPlaceholder(int(ioID)) != nil {
		return apperrors.New(apperrors.KindInvalidArgument, "imagegraph.add_input_bitmap",
			fmt.Errorf("io_id %d already registered", ioID))
	}
	c.job.AddResource(&job.Resource{
		Direction:          job.DirectionInput,
		Kind:               job.KindBitmap,
		GraphPlaceholderID: int(ioID),
		Bitmap:             bm,
	})
	return nil
}

// AddOutputBuffer registers a growable, context-owned buffer an encode
// node with the same ioID will fill.
func (c *Context) AddOutputBuffer(ioID int32) error {
	unlock := c.jc.BeginOperation()
	defer unlock()
	if c.job.FindResourceByPlaceholder(int(ioID)) != nil {
		return apperrors.New(apperrors.KindInvalidArgument, "imagegraph.add_output_buffer",
			fmt.Errorf("io_id %d already registered", ioID))
	}
	c.job.AddResource(&job.Resource{
		Direction:          job.DirectionOutput,
		Kind:               job.KindBuffer,
		GraphPlaceholderID: int(ioID),
	})
	return nil
}

// GetOutputBufferByID returns a read-only view of the output buffer
// registered under ioID. The view is valid until Close.
func (c *Context) GetOutputBufferByID(ioID int32) ([]byte, error) {
	r := c.job.FindResourceByPlaceholder(int(ioID))
	if r == nil || r.Direction != job.DirectionOutput {
		return nil, apperrors.New(apperrors.KindPrimaryResourceNotFound, "imagegraph.get_output_buffer", job.ErrNoSuchPlaceholder)
	}
	return r.Buffer, nil
}

// Execute binds resources and runs the engine's fixpoint loop to
// completion, the analogue of the job execution half of spec §4.A/§4.G.
func (c *Context) Execute() error {
	unlock := c.jc.BeginOperation()
	defer unlock()

	if c.jc.Cancelled() {
		c.jc.RaiseError(apperrors.New(apperrors.KindOperationCancelled, "imagegraph.execute", errors.New("operation cancelled")))
		return c.jc.Err()
	}

	if err := engine.BindResources(c.job.Graph, c.job.Resources); err != nil {
		c.jc.RaiseError(asAppError(err, "imagegraph.execute.bind"))
		return c.jc.Err()
	}

	rio := &resourceIO{ctx: c}
	err := engine.Run(c.job.Graph, rio, c.kernels, rio, c.jc, c.job.MaxPasses, c.rec, c.job.ID, c.hook)
	if err != nil {
		c.jc.RaiseError(asAppError(err, "imagegraph.execute.run"))
		return c.jc.Err()
	}
	return nil
}

// RequestCancellation requests that any in-progress Execute stop at its
// next node visit; every later Execute fails at once with
// OperationCancelled. Lock-free, safe to call from any goroutine.
func (c *Context) RequestCancellation() { c.jc.RequestCancellation() }

// Cancelled reports whether cancellation has been requested.
func (c *Context) Cancelled() bool { return c.jc.Cancelled() }

// HasError reports whether the context currently carries a sticky error.
func (c *Context) HasError() bool { return c.jc.HasError() }

// ErrorCode returns the current sticky error's Kind as a string, or
// KindNoError if none.
func (c *Context) ErrorCode() string {
	err := c.jc.Err()
	return string(apperrors.KindOf(err))
}

// ErrorRecoverable reports whether the current sticky error (if any) may
// be cleared via ErrorTryClear.
func (c *Context) ErrorRecoverable() bool {
	err := c.jc.Err()
	if err == nil {
		return true
	}
	return apperrors.KindOf(err).Recoverable()
}

// ErrorTryClear clears the sticky error if its Kind is recoverable,
// reporting whether it did.
func (c *Context) ErrorTryClear() bool { return c.jc.TryClearError() }

// ErrorWriteToBuffer writes the current error's message into dst,
// truncating and appending "\n[truncated]\n" if dst is too small to hold
// it, mirroring error_write_to_buffer's truncation-safe contract.
func (c *Context) ErrorWriteToBuffer(dst []byte) int {
	err := c.jc.Err()
	if err == nil {
		return 0
	}
	msg := err.Error()
	if len(msg) <= len(dst) {
		return copy(dst, msg)
	}
	const suffix = "\n[truncated]\n"
	if len(dst) <= len(suffix) {
		return copy(dst, suffix[:len(dst)])
	}
	n := copy(dst, msg[:len(dst)-len(suffix)])
	n += copy(dst[n:], suffix)
	return n
}

// ErrorAsExitCode returns the current error's fixed exit-code mapping, or
// 0 if there is no error.
func (c *Context) ErrorAsExitCode() int { return apperrors.KindOf(c.jc.Err()).AsExitCode() }

// ErrorAsHTTPCode returns the current error's fixed HTTP-status mapping,
// or 200 if there is no error.
func (c *Context) ErrorAsHTTPCode() int { return apperrors.KindOf(c.jc.Err()).AsHTTPCode() }

func asAppError(err error, op string) *apperrors.Error {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperrors.New(apperrors.KindInternalError, op, err)
}
