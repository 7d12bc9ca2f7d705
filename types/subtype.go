package types

import "github.com/east-lang/east/errs"

// Subtype reports whether t1 <: t2 per spec §3.1.2, memoized and
// cycle-tracked the same way Equal is.
func (a *Algebra) Subtype(t1, t2 *Type) bool {
	if cached, ok := a.subtypeCache.get(t1, t2); ok {
		return cached
	}
	result := subtypeRec(t1, t2, make(visitSet))
	a.subtypeCache.put(t1, t2, result)
	return result
}

func subtypeRec(t1, t2 *Type, visiting visitSet) bool {
	if t1.tag == Never {
		return true
	}
	// Recursive is transparent on whichever side is not itself Recursive
	// (spec §3.1.2: "invariant when both sides are recursive ...
	// 'transparent' otherwise - unfold one side and recurse").
	if t1.tag == Recursive && t2.tag == Recursive {
		key := pairID(t1, t2)
		if visiting[key] {
			return true
		}
		visiting[key] = true
		return equalRec(t1.body, t2.body, visiting)
	}
	if t1.tag == Recursive {
		return subtypeRec(t1.Unfold(), t2, visiting)
	}
	if t2.tag == Recursive {
		return subtypeRec(t1, t2.Unfold(), visiting)
	}

	switch t1.tag {
	case Never, Null, Boolean, Integer, Float, String, DateTime, Blob:
		return t1.tag == t2.tag
	case Ref:
		return t2.tag == Ref && equalRec(t1.elem, t2.elem, visiting)
	case Array:
		return t2.tag == Array && equalRec(t1.elem, t2.elem, visiting)
	case Set:
		return t2.tag == Set && equalRec(t1.key, t2.key, visiting)
	case Dict:
		return t2.tag == Dict && equalRec(t1.key, t2.key, visiting) && equalRec(t1.elem, t2.elem, visiting)
	case Struct:
		if t2.tag != Struct || len(t1.fields) != len(t2.fields) {
			return false
		}
		for i := range t1.fields {
			if t1.fields[i].Name != t2.fields[i].Name {
				return false
			}
			if !subtypeRec(t1.fields[i].Type, t2.fields[i].Type, visiting) {
				return false
			}
		}
		return true
	case Variant:
		if t2.tag != Variant {
			return false
		}
		// width subtyping: every case of t1 present in t2, covariant in payload
		for _, c1 := range t1.cases {
			c2, ok := findCase(t2.cases, c1.Name)
			if !ok {
				return false
			}
			if !subtypeRec(c1.Type, c2.Type, visiting) {
				return false
			}
		}
		return true
	case Function:
		return subtypeFunc(t1, t2, visiting, false)
	case AsyncFunction:
		return subtypeFunc(t1, t2, visiting, true)
	case recursiveRef:
		return t2.tag == recursiveRef && t1.target == t2.target
	default:
		return false
	}
}

func subtypeFunc(t1, t2 *Type, visiting visitSet, t1Async bool) bool {
	// Function <: AsyncFunction with the same I/O; AsyncFunction is
	// never <: Function.
	if t2.tag != Function && t2.tag != AsyncFunction {
		return false
	}
	if t1Async && t2.tag == Function {
		return false
	}
	if len(t1.params) != len(t2.params) {
		return false
	}
	// contravariant in inputs: t2's params must be subtypes of t1's
	for i := range t1.params {
		if !subtypeRec(t2.params[i], t1.params[i], visiting) {
			return false
		}
	}
	// covariant in output
	return subtypeRec(t1.result, t2.result, visiting)
}

func findCase(cases []Case, name string) (Case, bool) {
	for _, c := range cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// AssertEqual returns a TypeMismatch error naming the first structural
// incompatibility between t1 and t2, or nil if they are equal. The error
// path mirrors spec §4.A's example ("...struct field age...").
func AssertEqual(t1, t2 *Type) error {
	if path, ok := firstMismatch(t1, t2, make(visitSet)); !ok {
		return nil
	} else {
		return errs.New(errs.TypeMismatch, "expected %s, got %s", Print(t2), Print(t1)).WithPath(path)
	}
}

// firstMismatch returns (path, true) if a mismatch was found, else
// ("", false).
func firstMismatch(t1, t2 *Type, visiting visitSet) (string, bool) {
	if equalRec(t1, t2, visiting) {
		return "", false
	}
	if t1.tag != t2.tag {
		return "", true
	}
	switch t1.tag {
	case Struct:
		for i := range t1.fields {
			if i >= len(t2.fields) {
				return "", true
			}
			if t1.fields[i].Name != t2.fields[i].Name {
				return "", true
			}
			if p, mismatch := firstMismatch(t1.fields[i].Type, t2.fields[i].Type, visiting); mismatch {
				return "struct field " + t1.fields[i].Name + p, true
			}
		}
		return "", true
	case Variant:
		for i := range t1.cases {
			if i >= len(t2.cases) {
				return "", true
			}
			if t1.cases[i].Name != t2.cases[i].Name {
				return "", true
			}
			if p, mismatch := firstMismatch(t1.cases[i].Type, t2.cases[i].Type, visiting); mismatch {
				return "variant case " + t1.cases[i].Name + p, true
			}
		}
		return "", true
	default:
		return "", true
	}
}
