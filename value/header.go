package value

import (
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/internal/invariant"
)

// Header is the mutable-container control block embedded in every heap
// object East's §3.3 lifecycle rules apply to (Ref, Array, and, via
// container.Set/container.Dict, the sorted containers). It replaces two
// constructs the spec's design notes (§9) call out as needing a
// systems-language redesign: the source's per-object WeakMap iteration
// lock and its frozen sentinel flag both become plain fields here.
type Header struct {
	frozen    bool
	lockCount int
}

// Frozen reports whether the container has been frozen (monotonic,
// spec §3.3).
func (h *Header) Frozen() bool { return h.frozen }

// Freeze marks the container frozen. Idempotent (spec §8 property 9).
func (h *Header) Freeze() { h.frozen = true }

// Locked reports whether an iteration lock is currently held.
func (h *Header) Locked() bool { return h.lockCount > 0 }

// Lock acquires an iteration lock for the duration of a forEach/sort/
// search traversal and returns a release function the caller must invoke
// on every exit path, including error and unwind paths (spec §3.3:
// "guaranteed to release on every exit path").
//
// Locks nest: a builtin that iterates while calling back into user code
// that itself iterates the same container is allowed, and only the
// outermost release actually drops the lock to zero.
func (h *Header) Lock() func() {
	h.lockCount++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		h.lockCount--
		invariant.Invariant(h.lockCount >= 0, "Header: lock count went negative - release called more than once outside its guard")
	}
}

// CheckMutable returns a FrozenMutation or ConcurrentMutation error if op
// may not proceed, or nil if the container may be mutated.
func (h *Header) CheckMutable(op string) error {
	if h.frozen {
		return errs.New(errs.FrozenMutation, "%s: container is frozen", op)
	}
	if h.lockCount > 0 {
		return errs.New(errs.ConcurrentMutation, "%s: container is under iteration", op)
	}
	return nil
}
