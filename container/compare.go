package container

import "github.com/east-lang/east/value"

// init wires Set/Dict into value.Compare's total order (spec §3.2: "Sets,
// Dicts: ordered as sequences in key order"). value cannot name this
// package directly (container imports value), so value exposes the
// RegisterCompare extension point instead and this is its one caller.
func init() {
	value.RegisterCompare(compare)
}

func compare(a, b value.Value) (int, bool) {
	switch av := a.(type) {
	case *Set:
		bv, ok := b.(*Set)
		if !ok {
			return 0, false
		}
		return compareValueSeq(av.ToArray(), bv.ToArray()), true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok {
			return 0, false
		}
		return compareDict(av, bv), true
	default:
		return 0, false
	}
}

func compareValueSeq(a, b []value.Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := value.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// compareDict orders two Dicts as sequences of (key, value) pairs in key
// order (spec §3.2): first by key, then, for equal keys, by value.
func compareDict(a, b *Dict) int {
	aKeys, bKeys := a.Keys(), b.Keys()
	n := len(aKeys)
	if len(bKeys) < n {
		n = len(bKeys)
	}
	for i := 0; i < n; i++ {
		if c := value.Compare(aKeys[i], bKeys[i]); c != 0 {
			return c
		}
		av, _, _ := a.Get(aKeys[i])
		bv, _, _ := b.Get(bKeys[i])
		if c := value.Compare(av, bv); c != 0 {
			return c
		}
	}
	switch {
	case len(aKeys) < len(bKeys):
		return -1
	case len(aKeys) > len(bKeys):
		return 1
	default:
		return 0
	}
}
