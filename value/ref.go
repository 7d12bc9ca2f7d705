package value

import (
	"github.com/east-lang/east/types"
)

// RefVal is a one-slot mutable cell (spec §3.1 Ref(T), §4.E.5).
type RefVal struct {
	Header
	elemType *types.Type
	slot     Value
}

// NewRef constructs a Ref(elemType) cell holding init.
func NewRef(elemType *types.Type, init Value) *RefVal {
	return &RefVal{elemType: elemType, slot: init}
}

func (r *RefVal) Type() *types.Type { return types.NewRef(r.elemType) }

// Get returns the cell's current contents.
func (r *RefVal) Get() Value { return r.slot }

// Update overwrites the cell's contents, the builtin `update` operator
// (spec §4.E.5). Refs are not subject to iteration locks (only Array/
// Set/Dict iterate), but freezing still applies.
func (r *RefVal) Update(v Value) error {
	if err := r.CheckMutable("Ref.update"); err != nil {
		return err
	}
	r.slot = v
	return nil
}

// Merge combines the cell's existing contents with a new value via
// combine, storing and returning the result (spec §4.E.5 `merge`).
func (r *RefVal) Merge(newVal Value, combine func(existing, next Value) (Value, error)) (Value, error) {
	if err := r.CheckMutable("Ref.merge"); err != nil {
		return nil, err
	}
	combined, err := combine(r.slot, newVal)
	if err != nil {
		return nil, err
	}
	r.slot = combined
	return combined, nil
}
