// Package jobctx implements the per-job runtime context of spec §4.A: the
// allocation ledger, the single sticky ErrorState, and the lock-free
// cancellation flag every long-running operation must poll. Exactly one
// Context backs exactly one job for that job's entire lifetime (design
// note, non-goal "no concurrent multiple graphs within one job context").
package jobctx

import (
	"sync"
	"sync/atomic"

	"github.com/Skryldev/imagegraph/apperrors"
)

// Destructor is invoked when a tracked allocation is freed.
type Destructor func(owner any, ptr any)

// allocation is one ledger entry.
type allocation struct {
	ptr        any
	owner      any
	destructor Destructor
	freed      bool
}

// Context is the per-job runtime: it owns every allocation made on the
// job's behalf, the job's single sticky error, and its cancellation flag.
// A Context is safe for concurrent use: the allocation ledger and the
// error state each have their own mutex (design note "fine-grained
// locking over one big lock"), and cancellation is a plain atomic so
// RequestCancellation never blocks on either.
type Context struct {
	allocMu sync.Mutex
	allocs  map[uint64]*allocation
	nextID  uint64

	errMu sync.Mutex
	err   *apperrors.Error

	cancelled atomic.Bool

	// opMu serializes the operations that must not interleave within a
	// job (building the graph, executing it, tearing it down) without
	// blocking the cheap, lock-free cancellation check.
	opMu sync.Mutex
}

// New returns a fresh, uncancelled Context with an empty allocation ledger.
func New() *Context {
	return &Context{allocs: make(map[uint64]*allocation)}
}

// Allocate registers ptr as owned by owner, tracked under destructor so
// Free (or FreeAll at job teardown) releases it exactly once.
func (c *Context) Allocate(owner any, ptr any, destructor Destructor) uint64 {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	c.nextID++
	id := c.nextID
	c.allocs[id] = &allocation{ptr: ptr, owner: owner, destructor: destructor}
	return id
}

// SetOwner reassigns an existing allocation's owner, used when a node's
// output bitmap is handed off to become another node's input (spec §4.A
// "ownership transfer without a copy").
func (c *Context) SetOwner(id uint64, owner any) {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	if a, ok := c.allocs[id]; ok {
		a.owner = owner
	}
}

// Free releases the allocation identified by id. Freeing an already-freed
// or unknown id is a no-op, matching the original's idempotent free.
func (c *Context) Free(id uint64) {
	c.allocMu.Lock()
	a, ok := c.allocs[id]
	c.allocMu.Unlock()
	if !ok || a.freed {
		return
	}
	a.freed = true
	if a.destructor != nil {
		a.destructor(a.owner, a.ptr)
	}
}

// FreeAll releases every still-live allocation, in no particular order.
// Called once at job teardown (spec §4.A "context owns every resource the
// job allocated and releases them all at Close").
func (c *Context) FreeAll() {
	c.allocMu.Lock()
	ids := make([]uint64, 0, len(c.allocs))
	for id := range c.allocs {
		ids = append(ids, id)
	}
	c.allocMu.Unlock()
	for _, id := range ids {
		c.Free(id)
	}
}

// RaiseError sets the context's sticky error if none is set yet. Per
// spec §4.A, the first error wins; a later one leaves the stored error's
// kind unchanged and is recorded as an "overwritten_error:<kind>:<op>"
// frame on it rather than silently dropped.
func (c *Context) RaiseError(err *apperrors.Error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
		return
	}
	c.err.AddFrame("overwritten_error:" + string(err.Kind) + ":" + err.Op)
}

// AddToCallstack appends a frame to the current sticky error, if any.
func (c *Context) AddToCallstack(frame string) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err != nil {
		c.err.AddFrame(frame)
	}
}

// HasError reports whether the context currently carries an error.
func (c *Context) HasError() bool {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err != nil
}

// Err returns the current sticky error, or nil.
func (c *Context) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		return nil
	}
	return c.err
}

// TryClearError clears the sticky error if its Kind is Recoverable,
// reporting whether it did. Non-recoverable kinds (cancellation, OOM,
// internal-error/invalid-internal-state) can never be cleared.
func (c *Context) TryClearError() bool {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		return true
	}
	if !c.err.Kind.Recoverable() {
		return false
	}
	c.err = nil
	return true
}

// RequestCancellation sets the cancellation flag. Lock-free by design so
// it may be called from any goroutine, including a watchdog timer,
// without contending with whatever operation currently holds opMu.
func (c *Context) RequestCancellation() { c.cancelled.Store(true) }

// Cancelled reports whether cancellation has been requested. Every
// long-running loop in the engine polls this between node visits.
func (c *Context) Cancelled() bool { return c.cancelled.Load() }

// BeginOperation acquires the per-context operation lock, returning a
// function that releases it. Graph build, execute, and teardown each
// wrap themselves in this so they never interleave (spec §4.A "operations
// the job performs are serialized by a per-context lock, distinct from
// the allocator's own lock").
func (c *Context) BeginOperation() func() {
	c.opMu.Lock()
	return c.opMu.Unlock
}
