package container

import (
	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// entry is what a Set leaf stores: the original East value alongside its
// encoded byte key, since the radix tree only orders by bytes and forEach/
// toArray must hand back real values, not their encodings.
type entry struct {
	key value.Value
}

// Set is a mutable, sorted, duplicate-free collection (spec §3.1 Set(T),
// §4.E.4 "Collections"). Backed by a persistent radix tree: every mutation
// builds (via a transaction) a new tree and swaps it into root, so
// Snapshot is just reading root once.
type Set struct {
	value.Header
	elemType *types.Type
	root     *iradix.Tree[entry]
}

// NewSet constructs an empty Set(elemType).
func NewSet(elemType *types.Type) *Set {
	return &Set{elemType: elemType, root: iradix.New[entry]()}
}

func (s *Set) Type() *types.Type { return types.NewSet(s.elemType) }

// Size returns the number of elements.
func (s *Set) Size() int { return s.root.Len() }

// Has reports whether v is a member.
func (s *Set) Has(v value.Value) (bool, error) {
	key, err := Encode(v)
	if err != nil {
		return false, err
	}
	_, found := s.root.Get(key)
	return found, nil
}

// Insert adds v, returning true if it was newly inserted and false if it
// was already present.
func (s *Set) Insert(v value.Value) (bool, error) {
	if err := s.CheckMutable("Set.insert"); err != nil {
		return false, err
	}
	key, err := Encode(v)
	if err != nil {
		return false, err
	}
	txn := s.root.Txn()
	_, had := txn.Insert(key, entry{key: v})
	s.root = txn.Commit()
	return !had, nil
}

// Delete removes v, returning whether it was present.
func (s *Set) Delete(v value.Value) (bool, error) {
	if err := s.CheckMutable("Set.delete"); err != nil {
		return false, err
	}
	key, err := Encode(v)
	if err != nil {
		return false, err
	}
	txn := s.root.Txn()
	_, had := txn.Delete(key)
	s.root = txn.Commit()
	return had, nil
}

// Clear empties the set.
func (s *Set) Clear() error {
	if err := s.CheckMutable("Set.clear"); err != nil {
		return err
	}
	s.root = iradix.New[entry]()
	return nil
}

// ToArray returns the set's elements in ascending key order (spec §4.E.4
// `toArray` on a sorted container is defined to preserve sort order).
func (s *Set) ToArray() []value.Value {
	out := make([]value.Value, 0, s.root.Len())
	it := s.root.Root().Iterator()
	for {
		_, e, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, e.key)
	}
	return out
}

// ForEach calls fn for every element in ascending order while holding an
// iteration lock (spec §3.3); fn may not mutate s (enforced by the lock,
// not by this loop).
func (s *Set) ForEach(fn func(value.Value) error) error {
	release := s.Lock()
	defer release()
	for _, v := range s.ToArray() {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// Union returns a new Set containing every element of s and other.
func (s *Set) Union(other *Set) *Set {
	out := NewSet(s.elemType)
	txn := out.root.Txn()
	for _, v := range s.ToArray() {
		key, _ := Encode(v)
		txn.Insert(key, entry{key: v})
	}
	for _, v := range other.ToArray() {
		key, _ := Encode(v)
		txn.Insert(key, entry{key: v})
	}
	out.root = txn.Commit()
	return out
}

// Copy returns a new, unfrozen, unlocked Set with the same elements. Cheap:
// the persistent tree is shared structurally until either copy mutates.
func (s *Set) Copy() *Set {
	return &Set{elemType: s.elemType, root: s.root}
}

// FindSorted returns the first element, in ascending order, for which
// pred reports true (spec §4.E.4 `findSortedFirst` family). It is a
// linear scan over ToArray(), not a tree-native search, since the v2 API
// exposes no seek-to-key iterator beyond root Get/Insert/Delete.
func (s *Set) FindSorted(pred func(value.Value) bool) (value.Value, bool) {
	for _, v := range s.ToArray() {
		if pred(v) {
			return v, true
		}
	}
	return nil, false
}
