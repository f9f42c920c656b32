package imagegraph

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/config"
	"github.com/Skryldev/imagegraph/render"
	"github.com/Skryldev/imagegraph/storage"
)

// BuildFunc populates a freshly created Context's graph and resources.
// It runs before Execute and is the caller's sole opportunity to wire
// input/output buffers and graph nodes together.
type BuildFunc func(c *Context) error

// Request is one unit of work submitted to a Processor's worker pool.
type Request struct {
	Build    BuildFunc
	ResultCh chan Result
}

// Result is what a worker reports back for a Request.
type Result struct {
	Ctx *Context
	Err error
}

// Processor is the worker pool driving many Contexts concurrently, one
// goroutine owning one Context end-to-end at a time, adapted from the
// teacher's core.Processor.
type Processor struct {
	cfg      config.Config
	registry codec.Registry
	kernels  render.Kernels
	storage  storage.Adapter

	queue    chan Request
	wg       sync.WaitGroup
	once     sync.Once
	shutdown chan struct{}

	processedCount int64
	errorCount     int64
}

// NewProcessor creates a Processor. Call Start before Submit; call Stop
// when done.
func NewProcessor(cfg config.Config, registry codec.Registry, kernels render.Kernels) *Processor {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Processor{
		cfg:      cfg,
		registry: registry,
		kernels:  kernels,
		queue:    make(chan Request, queueSize),
		shutdown: make(chan struct{}),
	}
}

// WithStorage attaches a storage.Adapter every Context this Processor
// creates will use for KindFile resources.
func (p *Processor) WithStorage(s storage.Adapter) *Processor { p.storage = s; return p }

// Start launches the worker pool. Idempotent.
func (p *Processor) Start() {
	p.once.Do(func() {
		workerCount := p.cfg.WorkerCount
		if workerCount <= 0 {
			workerCount = runtime.NumCPU()
		}
		for i := 0; i < workerCount; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop drains the queue and shuts down all workers.
func (p *Processor) Stop() {
	close(p.shutdown)
	p.wg.Wait()
}

// Process runs build synchronously: creates a Context, runs build,
// executes the graph, and returns the finished Context for the caller to
// read output buffers from and Close.
func (p *Processor) Process(build BuildFunc) (*Context, error) {
	c, err := NewContext(AbiMajor, AbiMinor, p.registry, p.kernels, p.cfg)
	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return nil, err
	}
	if p.storage != nil {
		c.WithStorage(p.storage)
	}
	if err := build(c); err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return c, apperrors.Wrap(apperrors.KindInvalidGraph, "imagegraph.process.build", err)
	}
	if err := c.Execute(); err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return c, err
	}
	atomic.AddInt64(&p.processedCount, 1)
	return c, nil
}

// Submit enqueues an async unit of work. Returns an error if the queue is
// full rather than blocking.
func (p *Processor) Submit(req Request) error {
	select {
	case p.queue <- req:
		return nil
	default:
		return apperrors.New(apperrors.KindInvalidInternalState, "imagegraph.submit", apperrors.ErrEmptyInput)
	}
}

// Batch runs each build concurrently and collects results in order,
// mirroring the teacher's fan-out/fan-in Batch.
func (p *Processor) Batch(builds []BuildFunc) ([]*Context, []error) {
	ctxs := make([]*Context, len(builds))
	errs := make([]error, len(builds))
	var wg sync.WaitGroup
	for i, b := range builds {
		wg.Add(1)
		go func(idx int, build BuildFunc) {
			defer wg.Done()
			ctxs[idx], errs[idx] = p.Process(build)
		}(i, b)
	}
	wg.Wait()
	return ctxs, errs
}

// Stats returns lightweight processed/error counters.
func (p *Processor) Stats() (processed, errors int64) {
	return atomic.LoadInt64(&p.processedCount), atomic.LoadInt64(&p.errorCount)
}

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			for {
				select {
				case req, ok := <-p.queue:
					if !ok {
						return
					}
					ctx, err := p.Process(req.Build)
					if req.ResultCh != nil {
						req.ResultCh <- Result{Ctx: ctx, Err: err}
					}
				default:
					return
				}
			}
		case req, ok := <-p.queue:
			if !ok {
				return
			}
			ctx, err := p.Process(req.Build)
			if req.ResultCh != nil {
				req.ResultCh <- Result{Ctx: ctx, Err: err}
			}
		}
	}
}
