package builtin

import (
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// optionType is the Variant{none: Null, some: T} shape the Try* accessors
// and FilterMap/FirstMap callbacks traffic in. Cases sort to none < some,
// matching the constructed-sorted invariant of Variant types.
func optionType(elem *types.Type) *types.Type {
	return types.NewVariant(
		types.Case{Name: "none", Type: types.NullType()},
		types.Case{Name: "some", Type: elem},
	)
}

func some(v value.Value) value.Value {
	return value.NewVariant(optionType(v.Type()), "some", v)
}

func none(elem *types.Type) value.Value {
	return value.NewVariant(optionType(elem), "none", value.Null{})
}

// entryStruct wraps a (key, value) pair as the {key, value} struct shape
// shared by DictToArray, DictFindFirst, and the *Generate/*ToDict entry
// callbacks.
func entryStruct(k, v value.Value) value.Value {
	return value.NewStruct(types.NewStruct(
		types.Field{Name: "key", Type: k.Type()},
		types.Field{Name: "value", Type: v.Type()},
	), []value.Value{k, v})
}

func entryFields(op string, v value.Value) (key, val value.Value, err error) {
	st, ok := v.(value.StructVal)
	if !ok {
		return nil, nil, errs.New(errs.DomainError, "%s: callback must return a {key, value} struct, got %T", op, v)
	}
	if key, err = st.Get("key"); err != nil {
		return nil, nil, err
	}
	val, err = st.Get("value")
	return key, val, err
}

// innerElems views a container element of a FlattenToArray/FlattenToSet
// subject as its element sequence. Arrays and Sets both qualify; anything
// else is a mis-typed tree the checker should have rejected.
func innerElems(op string, v value.Value) ([]value.Value, error) {
	switch c := v.(type) {
	case *value.ArrayVal:
		return c.Snapshot(), nil
	case *container.Set:
		return c.ToArray(), nil
	default:
		return nil, errs.New(errs.DomainError, "%s: element is not a flattenable container, got %T", op, v)
	}
}

func flattenToArray(op string, items []value.Value) (value.Value, error) {
	var out []value.Value
	for _, it := range items {
		elems, err := innerElems(op, it)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return value.NewArray(elemTypeOf(out), out), nil
}

func flattenToSet(op string, items []value.Value) (value.Value, error) {
	out := container.NewSet(types.NeverType())
	for _, it := range items {
		elems, err := innerElems(op, it)
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			added, err := out.Insert(e)
			if err != nil {
				return nil, err
			}
			if !added {
				return nil, errs.New(errs.DuplicateKey, "%s: duplicate element", op)
			}
		}
	}
	return out, nil
}

func flattenToDict(op string, items []value.Value, resolve value.Value) (value.Value, error) {
	out := container.NewDict(nil, nil)
	for _, it := range items {
		inner, ok := it.(*container.Dict)
		if !ok {
			return nil, errs.New(errs.DomainError, "%s: element is not a Dict, got %T", op, it)
		}
		err := inner.ForEach(func(k, v value.Value) error {
			existing, had, err := out.Get(k)
			if err != nil {
				return err
			}
			if had {
				if resolve == nil {
					return errs.New(errs.DuplicateKey, "%s: duplicate key", op)
				}
				if v, err = callFn(resolve, existing, v); err != nil {
					return err
				}
			}
			_, err = out.Insert(k, v)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// toDict folds a sequence of elements through an entry callback into a
// fresh Dict, running the conflict resolver on key collisions (spec's
// "no equal-comparing key collapses silently" rule).
func toDict(op string, elems []value.Value, entryFn, resolve value.Value) (value.Value, error) {
	out := container.NewDict(nil, nil)
	for _, e := range elems {
		entry, err := callFn(entryFn, e)
		if err != nil {
			return nil, err
		}
		k, v, err := entryFields(op, entry)
		if err != nil {
			return nil, err
		}
		existing, had, err := out.Get(k)
		if err != nil {
			return nil, err
		}
		if had {
			if resolve == nil {
				return nil, errs.New(errs.DuplicateKey, "%s: duplicate key", op)
			}
			if v, err = callFn(resolve, existing, v); err != nil {
				return nil, err
			}
		}
		if _, err := out.Insert(k, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// groupFold is the shared Array/Set/Dict groupFold loop: key each element,
// seed a group on first sight, fold the element in (spec §4.E.4).
func groupFold(elems []value.Value, keyFn, initFn, foldFn value.Value) (value.Value, error) {
	d := container.NewDict(nil, nil)
	for _, v := range elems {
		k, err := callFn(keyFn, v)
		if err != nil {
			return nil, err
		}
		existing, had, err := d.Get(k)
		if err != nil {
			return nil, err
		}
		if !had {
			existing, err = callFn(initFn, k)
			if err != nil {
				return nil, err
			}
		}
		folded, err := callFn(foldFn, existing, v)
		if err != nil {
			return nil, err
		}
		if _, err := d.Insert(k, folded); err != nil {
			return nil, err
		}
	}
	return d, nil
}
