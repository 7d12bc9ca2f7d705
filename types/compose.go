package types

import "github.com/east-lang/east/errs"

// Union computes the pointwise union of t1 and t2 per spec §3.1.3,
// following the same variance rules as Subtype: invariant constructors
// require the two sides to already be equal, Variant unions case sets
// (unioning payload types for cases present on both sides), and
// Function/AsyncFunction intersect inputs and union outputs.
func Union(t1, t2 *Type) (*Type, error) {
	return compose(t1, t2, composeUnion, false)
}

// Intersect computes the pointwise intersection of t1 and t2. Variant
// intersection keeps only cases present on both sides; an empty result is
// a DomainError.
func Intersect(t1, t2 *Type) (*Type, error) {
	return compose(t1, t2, composeIntersect, false)
}

// Widen behaves like Union but rejects Function/AsyncFunction/Recursive
// operands with a DomainError - it exists only for inferring a type from
// a set of literal values (spec §3.1.3), where functions and fixed points
// never arise.
func Widen(t1, t2 *Type) (*Type, error) {
	return compose(t1, t2, composeUnion, true)
}

type composeKind int

const (
	composeUnion composeKind = iota
	composeIntersect
)

func compose(t1, t2 *Type, kind composeKind, widenMode bool) (*Type, error) {
	if widenMode && (t1.tag == Function || t1.tag == AsyncFunction || t1.tag == Recursive ||
		t2.tag == Function || t2.tag == AsyncFunction || t2.tag == Recursive) {
		return nil, errs.New(errs.DomainError, "cannot widen function or recursive types: %s, %s", Print(t1), Print(t2))
	}

	if Equal(t1, t2) {
		return t1, nil
	}

	if t1.tag == Never {
		return t2, nil
	}
	if t2.tag == Never {
		return t1, nil
	}

	switch t1.tag {
	case Null, Boolean, Integer, Float, String, DateTime, Blob, Ref, Array, Set, Dict:
		if t1.tag != t2.tag {
			return nil, errs.New(errs.TypeMismatch, "incompatible types %s and %s", Print(t1), Print(t2))
		}
		return nil, errs.New(errs.TypeMismatch, "invariant type mismatch %s and %s", Print(t1), Print(t2))
	case Struct:
		if t2.tag != Struct {
			return nil, errs.New(errs.TypeMismatch, "cannot combine Struct with %s", Print(t2))
		}
		return composeStruct(t1, t2, kind)
	case Variant:
		if t2.tag != Variant {
			return nil, errs.New(errs.TypeMismatch, "cannot combine Variant with %s", Print(t2))
		}
		return composeVariant(t1, t2, kind)
	case Function, AsyncFunction:
		if t2.tag != Function && t2.tag != AsyncFunction {
			return nil, errs.New(errs.TypeMismatch, "cannot combine function with %s", Print(t2))
		}
		return composeFunc(t1, t2, kind)
	case Recursive:
		// transparent: compose the Recursive side's raw body (its marker
		// left in place) instead, on both sides if both are Recursive; the
		// result is not re-wrapped in Recursive. Widen never reaches this
		// branch, since it rejects Recursive operands above.
		left := t1.body
		if t2.tag == Recursive {
			return compose(left, t2.body, kind, widenMode)
		}
		return compose(left, t2, kind, widenMode)
	default:
		return nil, errs.New(errs.TypeMismatch, "cannot combine %s and %s", Print(t1), Print(t2))
	}
}

func composeStruct(t1, t2 *Type, kind composeKind) (*Type, error) {
	if len(t1.fields) != len(t2.fields) {
		return nil, errs.New(errs.TypeMismatch, "struct field count mismatch")
	}
	out := make([]Field, len(t1.fields))
	for i := range t1.fields {
		if t1.fields[i].Name != t2.fields[i].Name {
			return nil, errs.New(errs.TypeMismatch, "struct field order mismatch: %q vs %q", t1.fields[i].Name, t2.fields[i].Name)
		}
		ft, err := compose(t1.fields[i].Type, t2.fields[i].Type, kind, false)
		if err != nil {
			return nil, err.(*errs.Error).WithPath("struct field " + t1.fields[i].Name)
		}
		out[i] = Field{Name: t1.fields[i].Name, Type: ft}
	}
	return NewStruct(out...), nil
}

func composeVariant(t1, t2 *Type, kind composeKind) (*Type, error) {
	byName := make(map[string]Case)
	for _, c := range t1.cases {
		byName[c.Name] = c
	}

	switch kind {
	case composeUnion:
		for _, c := range t2.cases {
			if existing, ok := byName[c.Name]; ok {
				merged, err := compose(existing.Type, c.Type, kind, false)
				if err != nil {
					return nil, err
				}
				byName[c.Name] = Case{Name: c.Name, Type: merged}
			} else {
				byName[c.Name] = c
			}
		}
	case composeIntersect:
		common := make(map[string]Case)
		for _, c := range t2.cases {
			if existing, ok := byName[c.Name]; ok {
				merged, err := compose(existing.Type, c.Type, kind, false)
				if err != nil {
					return nil, err
				}
				common[c.Name] = Case{Name: c.Name, Type: merged}
			}
		}
		if len(common) == 0 {
			return nil, errs.New(errs.DomainError, "variant intersection has no common cases")
		}
		byName = common
	}

	cases := make([]Case, 0, len(byName))
	for _, c := range byName {
		cases = append(cases, c)
	}
	return NewVariant(cases...), nil
}

func composeFunc(t1, t2 *Type, kind composeKind) (*Type, error) {
	if len(t1.params) != len(t2.params) {
		return nil, errs.New(errs.TypeMismatch, "function arity mismatch")
	}
	params := make([]*Type, len(t1.params))
	var paramKind, resultKind composeKind
	switch kind {
	case composeUnion:
		paramKind, resultKind = composeIntersect, composeUnion
	case composeIntersect:
		paramKind, resultKind = composeUnion, composeIntersect
	}
	for i := range t1.params {
		p, err := compose(t1.params[i], t2.params[i], paramKind, false)
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	result, err := compose(t1.result, t2.result, resultKind, false)
	if err != nil {
		return nil, err
	}
	// Function <: AsyncFunction, so a union is async if either side is,
	// while an intersection is async only if both sides are.
	var async bool
	if kind == composeUnion {
		async = t1.tag == AsyncFunction || t2.tag == AsyncFunction
	} else {
		async = t1.tag == AsyncFunction && t2.tag == AsyncFunction
	}
	if async {
		return NewAsyncFunction(params, result), nil
	}
	return NewFunction(params, result), nil
}
