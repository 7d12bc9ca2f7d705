package container

import (
	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// pair is what a Dict leaf stores: the original key value alongside its
// mapped value, keyed in the tree by the key's encoded bytes.
type pair struct {
	key value.Value
	val value.Value
}

// Dict is a mutable, sorted key/value map (spec §3.1 Dict(K,V), §4.E.4).
type Dict struct {
	value.Header
	keyType, valType *types.Type
	root             *iradix.Tree[pair]
}

// NewDict constructs an empty Dict(keyType, valType).
func NewDict(keyType, valType *types.Type) *Dict {
	return &Dict{keyType: keyType, valType: valType, root: iradix.New[pair]()}
}

func (d *Dict) Type() *types.Type { return types.NewDict(d.keyType, d.valType) }

// Size returns the number of entries.
func (d *Dict) Size() int { return d.root.Len() }

// Has reports whether key is present.
func (d *Dict) Has(key value.Value) (bool, error) {
	k, err := Encode(key)
	if err != nil {
		return false, err
	}
	_, found := d.root.Get(k)
	return found, nil
}

// Get returns the value mapped to key, or (nil, false) if absent.
func (d *Dict) Get(key value.Value) (value.Value, bool, error) {
	k, err := Encode(key)
	if err != nil {
		return nil, false, err
	}
	p, found := d.root.Get(k)
	if !found {
		return nil, false, nil
	}
	return p.val, true, nil
}

// Insert maps key to val, overwriting any existing mapping; it returns
// true if key was newly added and false if an existing mapping was
// replaced.
func (d *Dict) Insert(key, val value.Value) (bool, error) {
	if err := d.CheckMutable("Dict.insert"); err != nil {
		return false, err
	}
	k, err := Encode(key)
	if err != nil {
		return false, err
	}
	txn := d.root.Txn()
	_, had := txn.Insert(k, pair{key: key, val: val})
	d.root = txn.Commit()
	return !had, nil
}

// Delete removes key, returning whether it was present.
func (d *Dict) Delete(key value.Value) (bool, error) {
	if err := d.CheckMutable("Dict.delete"); err != nil {
		return false, err
	}
	k, err := Encode(key)
	if err != nil {
		return false, err
	}
	txn := d.root.Txn()
	_, had := txn.Delete(k)
	d.root = txn.Commit()
	return had, nil
}

// Clear empties the dict.
func (d *Dict) Clear() error {
	if err := d.CheckMutable("Dict.clear"); err != nil {
		return err
	}
	d.root = iradix.New[pair]()
	return nil
}

// Keys returns the dict's keys in ascending order.
func (d *Dict) Keys() []value.Value {
	out := make([]value.Value, 0, d.root.Len())
	it := d.root.Root().Iterator()
	for {
		_, p, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, p.key)
	}
	return out
}

// ForEach calls fn for every (key, value) pair in ascending key order
// while holding an iteration lock (spec §3.3).
func (d *Dict) ForEach(fn func(key, val value.Value) error) error {
	release := d.Lock()
	defer release()
	it := d.root.Root().Iterator()
	for {
		_, p, ok := it.Next()
		if !ok {
			break
		}
		if err := fn(p.key, p.val); err != nil {
			return err
		}
	}
	return nil
}

// Merge folds other into a copy of d, using combine to resolve keys
// present in both (spec §4.E.4 Dict `merge`).
func (d *Dict) Merge(other *Dict, combine func(existing, incoming value.Value) (value.Value, error)) (*Dict, error) {
	out := d.Copy()
	txn := out.root.Txn()
	err := other.ForEach(func(k, v value.Value) error {
		enc, encErr := Encode(k)
		if encErr != nil {
			return encErr
		}
		if existing, had := txn.Get(enc); had {
			merged, mergeErr := combine(existing.val, v)
			if mergeErr != nil {
				return mergeErr
			}
			txn.Insert(enc, pair{key: k, val: merged})
		} else {
			txn.Insert(enc, pair{key: k, val: v})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.root = txn.Commit()
	return out, nil
}

// Copy returns a new, unfrozen, unlocked Dict with the same entries.
func (d *Dict) Copy() *Dict {
	return &Dict{keyType: d.keyType, valType: d.valType, root: d.root}
}
