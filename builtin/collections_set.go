package builtin

import (
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func init() {
	Register("SetSize", func(a []value.Value) (value.Value, error) { return value.Int(a[0].(*container.Set).Size()), nil })
	Register("SetHas", func(a []value.Value) (value.Value, error) {
		ok, err := a[0].(*container.Set).Has(a[1])
		return value.Bool(ok), err
	})
	Register("SetInsert", func(a []value.Value) (value.Value, error) {
		inserted, err := a[0].(*container.Set).Insert(a[1])
		if err != nil {
			return nil, err
		}
		if !inserted {
			return nil, errs.New(errs.DuplicateKey, "Set.insert: element already present")
		}
		return value.Null{}, nil
	})
	Register("SetTryInsert", func(a []value.Value) (value.Value, error) {
		inserted, err := a[0].(*container.Set).Insert(a[1])
		return value.Bool(inserted), err
	})
	Register("SetDelete", func(a []value.Value) (value.Value, error) {
		had, err := a[0].(*container.Set).Delete(a[1])
		if err != nil {
			return nil, err
		}
		if !had {
			return nil, errs.New(errs.MissingKey, "Set.delete: element not present")
		}
		return value.Null{}, nil
	})
	Register("SetTryDelete", func(a []value.Value) (value.Value, error) {
		had, err := a[0].(*container.Set).Delete(a[1])
		return value.Bool(had), err
	})
	Register("SetClear", func(a []value.Value) (value.Value, error) { return value.Null{}, a[0].(*container.Set).Clear() })
	Register("SetCopy", func(a []value.Value) (value.Value, error) { return a[0].(*container.Set).Copy(), nil })
	Register("SetUnion", func(a []value.Value) (value.Value, error) {
		return a[0].(*container.Set).Union(a[1].(*container.Set)), nil
	})
	Register("SetForEach", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*container.Set).ForEach(func(v value.Value) error {
			_, err := callFn(a[1], v)
			return err
		})
	})
	Register("SetMap", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		var out []value.Value
		err := s.ForEach(func(v value.Value) error {
			r, err := callFn(a[1], v)
			if err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("SetFilter", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		out := container.NewSet(setElemType(s))
		err := s.ForEach(func(v value.Value) error {
			keep, err := callFn(a[1], v)
			if err != nil {
				return err
			}
			if bool(keep.(value.Bool)) {
				_, err := out.Insert(v)
				return err
			}
			return nil
		})
		return out, err
	})
	Register("SetFilterMap", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		var out []value.Value
		err := s.ForEach(func(v value.Value) error {
			r, err := callFn(a[1], v)
			if err != nil {
				return err
			}
			if variant, ok := r.(value.VariantVal); ok && variant.Case == "some" {
				out = append(out, variant.Payload)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("SetFirstMap", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		var found value.Value
		err := s.ForEach(func(v value.Value) error {
			if found != nil {
				return nil
			}
			r, err := callFn(a[1], v)
			if err != nil {
				return err
			}
			if variant, ok := r.(value.VariantVal); ok && variant.Case == "some" {
				found = variant
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, errs.New(errs.MissingKey, "SetFirstMap: no element mapped to some")
		}
		return found, nil
	})
	Register("SetReduce", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		acc := a[1]
		err := s.ForEach(func(v value.Value) error {
			r, err := callFn(a[2], acc, v)
			if err != nil {
				return err
			}
			acc = r
			return nil
		})
		return acc, err
	})
	Register("SetFindFirst", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		for _, v := range s.ToArray() {
			ok, err := callFn(a[1], v)
			if err != nil {
				return nil, err
			}
			if bool(ok.(value.Bool)) {
				return v, nil
			}
		}
		return nil, errs.New(errs.MissingKey, "SetFindFirst: no matching element")
	})
	Register("SetToArray", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		return value.NewArray(setElemType(s), s.ToArray()), nil
	})
	Register("SetMapReduce", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		acc := a[1]
		err := s.ForEach(func(v value.Value) error {
			mapped, err := callFn(a[2], v)
			if err != nil {
				return err
			}
			r, err := callFn(a[3], acc, mapped)
			if err != nil {
				return err
			}
			acc = r
			return nil
		})
		return acc, err
	})
	Register("SetGroupFold", func(a []value.Value) (value.Value, error) {
		s := a[0].(*container.Set)
		release := s.Lock()
		defer release()
		return groupFold(s.ToArray(), a[1], a[2], a[3])
	})
	Register("SetGenerate", func(a []value.Value) (value.Value, error) {
		n := int64(a[0].(value.Int))
		out := container.NewSet(types.NeverType())
		for i := int64(0); i < n; i++ {
			v, err := callFn(a[1], value.Int(i))
			if err != nil {
				return nil, err
			}
			added, err := out.Insert(v)
			if err != nil {
				return nil, err
			}
			if !added {
				return nil, errs.New(errs.DuplicateKey, "SetGenerate: duplicate element")
			}
		}
		return out, nil
	})
	Register("SetToSet", func(a []value.Value) (value.Value, error) { return a[0].(*container.Set).Copy(), nil })
	Register("SetToDict", func(a []value.Value) (value.Value, error) {
		return toDict("SetToDict", a[0].(*container.Set).ToArray(), a[1], a[2])
	})
	Register("SetFlattenToArray", func(a []value.Value) (value.Value, error) {
		return flattenToArray("SetFlattenToArray", a[0].(*container.Set).ToArray())
	})
	Register("SetFlattenToSet", func(a []value.Value) (value.Value, error) {
		return flattenToSet("SetFlattenToSet", a[0].(*container.Set).ToArray())
	})
	Register("SetFlattenToDict", func(a []value.Value) (value.Value, error) {
		return flattenToDict("SetFlattenToDict", a[0].(*container.Set).ToArray(), a[1])
	})

	// Set-algebraic family (spec §4.C).
	Register("SetIntersection", func(a []value.Value) (value.Value, error) {
		x, y := a[0].(*container.Set), a[1].(*container.Set)
		out := container.NewSet(setElemType(x))
		err := x.ForEach(func(v value.Value) error {
			has, err := y.Has(v)
			if err != nil || !has {
				return err
			}
			_, err = out.Insert(v)
			return err
		})
		return out, err
	})
	Register("SetDifference", func(a []value.Value) (value.Value, error) {
		x, y := a[0].(*container.Set), a[1].(*container.Set)
		out := container.NewSet(setElemType(x))
		err := x.ForEach(func(v value.Value) error {
			has, err := y.Has(v)
			if err != nil || has {
				return err
			}
			_, err = out.Insert(v)
			return err
		})
		return out, err
	})
	Register("SetSymmetricDifference", func(a []value.Value) (value.Value, error) {
		x, y := a[0].(*container.Set), a[1].(*container.Set)
		diffXY, err := MustLookup("SetDifference")([]value.Value{x, y})
		if err != nil {
			return nil, err
		}
		diffYX, err := MustLookup("SetDifference")([]value.Value{y, x})
		if err != nil {
			return nil, err
		}
		return diffXY.(*container.Set).Union(diffYX.(*container.Set)), nil
	})
	Register("SetSubset", func(a []value.Value) (value.Value, error) {
		x, y := a[0].(*container.Set), a[1].(*container.Set)
		subset := true
		err := x.ForEach(func(v value.Value) error {
			has, err := y.Has(v)
			if err != nil {
				return err
			}
			if !has {
				subset = false
			}
			return nil
		})
		return value.Bool(subset), err
	})
	Register("SetDisjoint", func(a []value.Value) (value.Value, error) {
		x, y := a[0].(*container.Set), a[1].(*container.Set)
		disjoint := true
		err := x.ForEach(func(v value.Value) error {
			has, err := y.Has(v)
			if err != nil {
				return err
			}
			if has {
				disjoint = false
			}
			return nil
		})
		return value.Bool(disjoint), err
	})
}

func setElemType(s *container.Set) *types.Type {
	arr := s.ToArray()
	if len(arr) == 0 {
		return types.NeverType()
	}
	return arr[0].Type()
}
