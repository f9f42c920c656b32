package jobctx

import (
	"errors"
	"sync"
	"testing"

	"github.com/Skryldev/imagegraph/apperrors"
)

func TestAllocateFreeIsIdempotent(t *testing.T) {
	c := New()
	freed := 0
	id := c.Allocate(nil, "resource", func(owner, ptr any) { freed++ })
	c.Free(id)
	c.Free(id) // second free must be a no-op
	if freed != 1 {
		t.Fatalf("expected destructor called exactly once, got %d", freed)
	}
}

func TestFreeAllReleasesEveryAllocation(t *testing.T) {
	c := New()
	var freed []int
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		i := i
		c.Allocate(nil, i, func(owner, ptr any) {
			mu.Lock()
			freed = append(freed, ptr.(int))
			mu.Unlock()
		})
	}
	c.FreeAll()
	if len(freed) != 5 {
		t.Fatalf("expected 5 allocations freed, got %d", len(freed))
	}
}

func TestRaiseErrorFirstWins(t *testing.T) {
	c := New()
	first := apperrors.New(apperrors.KindIOError, "op1", errors.New("disk full"))
	second := apperrors.New(apperrors.KindInvalidArgument, "op2", errors.New("bad arg"))
	c.RaiseError(first)
	c.RaiseError(second)

	got := c.Err()
	if apperrors.KindOf(got) != apperrors.KindIOError {
		t.Fatalf("expected first error's kind to stick, got %v", apperrors.KindOf(got))
	}
}

func TestTryClearErrorRespectsRecoverability(t *testing.T) {
	c := New()
	c.RaiseError(apperrors.New(apperrors.KindOutOfMemory, "op", errors.New("oom")))
	if c.TryClearError() {
		t.Fatalf("out_of_memory must not be clearable")
	}
	if !c.HasError() {
		t.Fatalf("error should still be set after a failed clear attempt")
	}

	c2 := New()
	c2.RaiseError(apperrors.New(apperrors.KindIOError, "op", errors.New("transient")))
	if !c2.TryClearError() {
		t.Fatalf("io_error should be clearable")
	}
	if c2.HasError() {
		t.Fatalf("error should be gone after a successful clear")
	}
}

func TestCancellationIsLockFree(t *testing.T) {
	c := New()
	unlock := c.BeginOperation()
	defer unlock()

	done := make(chan struct{})
	go func() {
		c.RequestCancellation()
		close(done)
	}()
	<-done
	if !c.Cancelled() {
		t.Fatalf("expected cancellation to be observed even while an operation holds opMu")
	}
}

func TestBeginOperationSerializes(t *testing.T) {
	c := New()
	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := c.BeginOperation()
			defer unlock()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(order) != 10 {
		t.Fatalf("expected all 10 operations to run, got %d", len(order))
	}
}
