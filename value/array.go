package value

import (
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
)

// ArrayVal is a mutable, insertion-ordered sequence of T (spec §3.1
// Array(T), §4.E.4).
type ArrayVal struct {
	Header
	elemType *types.Type
	items    []Value
}

// NewArray constructs an Array(elemType) from an initial slice of items
// (copied, so later caller mutation of the slice does not alias East's
// own storage).
func NewArray(elemType *types.Type, items []Value) *ArrayVal {
	return &ArrayVal{elemType: elemType, items: append([]Value(nil), items...)}
}

func (a *ArrayVal) Type() *types.Type { return types.NewArray(a.elemType) }

// Size returns the number of elements.
func (a *ArrayVal) Size() int { return len(a.items) }

// At returns the element at index i (0-based), or a MissingKey error if
// out of range.
func (a *ArrayVal) At(i int) (Value, error) {
	if i < 0 || i >= len(a.items) {
		return nil, errs.New(errs.MissingKey, "Array.at: index %d out of range [0,%d)", i, len(a.items))
	}
	return a.items[i], nil
}

// Snapshot returns the array's current contents as a fresh slice, safe
// for the caller to read without racing further mutation (single-threaded
// cooperative model, spec §5 - "fresh" here just means "not aliased",
// not "thread-safe").
func (a *ArrayVal) Snapshot() []Value {
	return append([]Value(nil), a.items...)
}

// PushLast appends v (spec §4.E.4 insert variants).
func (a *ArrayVal) PushLast(v Value) error {
	if err := a.CheckMutable("Array.pushLast"); err != nil {
		return err
	}
	a.items = append(a.items, v)
	return nil
}

// PushFirst prepends v.
func (a *ArrayVal) PushFirst(v Value) error {
	if err := a.CheckMutable("Array.pushFirst"); err != nil {
		return err
	}
	a.items = append([]Value{v}, a.items...)
	return nil
}

// InsertAt inserts v before index i.
func (a *ArrayVal) InsertAt(i int, v Value) error {
	if err := a.CheckMutable("Array.insertAt"); err != nil {
		return err
	}
	if i < 0 || i > len(a.items) {
		return errs.New(errs.MissingKey, "Array.insertAt: index %d out of range [0,%d]", i, len(a.items))
	}
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = v
	return nil
}

// DeleteAt removes and returns the element at index i.
func (a *ArrayVal) DeleteAt(i int) (Value, error) {
	if err := a.CheckMutable("Array.deleteAt"); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(a.items) {
		return nil, errs.New(errs.MissingKey, "Array.deleteAt: index %d out of range [0,%d)", i, len(a.items))
	}
	removed := a.items[i]
	a.items = append(a.items[:i], a.items[i+1:]...)
	return removed, nil
}

// TryDeleteAt is the non-throwing variant: returns (value, true) on
// success or (nil, false) if out of range, without raising MissingKey
// (spec §4.E.4 "throwing and try-variants").
func (a *ArrayVal) TryDeleteAt(i int) (Value, bool, error) {
	if err := a.CheckMutable("Array.tryDeleteAt"); err != nil {
		return nil, false, err
	}
	if i < 0 || i >= len(a.items) {
		return nil, false, nil
	}
	removed := a.items[i]
	a.items = append(a.items[:i], a.items[i+1:]...)
	return removed, true, nil
}

// Clear empties the array.
func (a *ArrayVal) Clear() error {
	if err := a.CheckMutable("Array.clear"); err != nil {
		return err
	}
	a.items = nil
	return nil
}

// Copy returns a new, unfrozen, unlocked Array with the same elements.
func (a *ArrayVal) Copy() *ArrayVal {
	return NewArray(a.elemType, a.items)
}

// SetAt overwrites the element at index i in place.
func (a *ArrayVal) SetAt(i int, v Value) error {
	if err := a.CheckMutable("Array.set"); err != nil {
		return err
	}
	if i < 0 || i >= len(a.items) {
		return errs.New(errs.MissingKey, "Array.set: index %d out of range [0,%d)", i, len(a.items))
	}
	a.items[i] = v
	return nil
}

// WithIterLock runs fn while holding an iteration lock, releasing it on
// every exit path including panics propagated from fn (spec §3.3, §4.E.4
// "acquire an iteration lock for the duration of sort/search/forEach").
func (a *ArrayVal) WithIterLock(fn func() error) error {
	release := a.Lock()
	defer release()
	return fn()
}
