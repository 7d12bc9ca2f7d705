package types

// IsImmutable reports whether t may appear as a Set/Dict key, or cross a
// function boundary inside a Recursive scope (spec §3.1.1 invariant 1):
// primitives, and Struct/Variant/Recursive built entirely of immutable
// types. Ref/Array/Set/Dict are always mutable heap objects and fail this
// predicate regardless of their element type. Function/AsyncFunction are
// not data and are never immutable in the sense this predicate tests.
func IsImmutable(t *Type) bool {
	return walkPredicate(t, make(map[uint64]bool), func(tag Tag) (result, stop bool) {
		switch tag {
		case Never, Null, Boolean, Integer, Float, String, DateTime, Blob:
			return true, true
		case Ref, Array, Set, Dict, Function, AsyncFunction:
			return false, true
		default:
			return true, false // Struct/Variant/Recursive: keep descending
		}
	})
}

// IsData reports whether t contains no Function/AsyncFunction anywhere
// inside it (spec §3.1.1 invariant 3: "Data types exclude functions
// anywhere inside; needed for serialization").
func IsData(t *Type) bool {
	return walkPredicate(t, make(map[uint64]bool), func(tag Tag) (result, stop bool) {
		switch tag {
		case Function, AsyncFunction:
			return false, true
		case Never, Null, Boolean, Integer, Float, String, DateTime, Blob:
			return true, true
		default:
			return true, false
		}
	})
}

// walkPredicate implements both IsImmutable and IsData: a structural AND
// over every reachable type node, short-circuiting on leaf tags per base
// and tracking Recursive ids already entered to avoid infinite descent
// into a type's own fixed point (spec §4.A "predicate with cycle
// tracking").
func walkPredicate(t *Type, visiting map[uint64]bool, base func(Tag) (bool, bool)) bool {
	if result, stop := base(t.tag); stop {
		return result
	}
	switch t.tag {
	case Ref, Array, Set:
		return walkPredicate(t.elem, visiting, base)
	case Dict:
		return walkPredicate(t.key, visiting, base) && walkPredicate(t.elem, visiting, base)
	case Struct:
		for _, f := range t.fields {
			if !walkPredicate(f.Type, visiting, base) {
				return false
			}
		}
		return true
	case Variant:
		for _, c := range t.cases {
			if !walkPredicate(c.Type, visiting, base) {
				return false
			}
		}
		return true
	case Recursive:
		if visiting[t.id] {
			return true // already assumed true on this path; cycle closes cleanly
		}
		visiting[t.id] = true
		return walkPredicate(t.body, visiting, base)
	case recursiveRef:
		// A marker alone carries no structure; the binder's body is what
		// matters and is checked where the Recursive node itself is
		// visited. Treat as vacuously satisfying the predicate.
		return true
	default:
		return true
	}
}
