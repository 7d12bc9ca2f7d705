package builtin

import (
	"sort"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func callFn(fn value.Value, args ...value.Value) (value.Value, error) {
	f, ok := fn.(*value.FunctionVal)
	if !ok {
		return nil, errs.New(errs.InternalError, "builtin: expected a Function callback, got %T", fn)
	}
	return f.Call(args)
}

func init() {
	Register("ArraySize", func(a []value.Value) (value.Value, error) {
		return value.Int(a[0].(*value.ArrayVal).Size()), nil
	})
	Register("ArrayHas", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		for _, v := range arr.Snapshot() {
			if value.Equal(v, a[1]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	})
	Register("ArrayGet", func(a []value.Value) (value.Value, error) {
		return a[0].(*value.ArrayVal).At(int(a[1].(value.Int)))
	})
	Register("ArrayTryGet", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		v, err := arr.At(int(a[1].(value.Int)))
		if err != nil {
			return none(arrayElemType(arr)), nil
		}
		return some(v), nil
	})
	Register("ArraySet", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.ArrayVal).SetAt(int(a[1].(value.Int)), a[2])
	})
	Register("ArrayPushLast", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.ArrayVal).PushLast(a[1])
	})
	Register("ArrayPushFirst", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.ArrayVal).PushFirst(a[1])
	})
	Register("ArrayInsertAt", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.ArrayVal).InsertAt(int(a[1].(value.Int)), a[2])
	})
	Register("ArrayDeleteAt", func(a []value.Value) (value.Value, error) {
		return a[0].(*value.ArrayVal).DeleteAt(int(a[1].(value.Int)))
	})
	Register("ArrayTryDeleteAt", func(a []value.Value) (value.Value, error) {
		v, ok, err := a[0].(*value.ArrayVal).TryDeleteAt(int(a[1].(value.Int)))
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.Null{}, nil
		}
		return v, nil
	})
	Register("ArrayClear", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.ArrayVal).Clear()
	})
	Register("ArrayCopy", func(a []value.Value) (value.Value, error) {
		return a[0].(*value.ArrayVal).Copy(), nil
	})
	Register("ArrayForEach", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		return value.Null{}, arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				if _, err := callFn(a[1], v); err != nil {
					return err
				}
			}
			return nil
		})
	})
	Register("ArrayMap", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		out := make([]value.Value, 0, arr.Size())
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				r, err := callFn(a[1], v)
				if err != nil {
					return err
				}
				out = append(out, r)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("ArrayFilter", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		var out []value.Value
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				keep, err := callFn(a[1], v)
				if err != nil {
					return err
				}
				if bool(keep.(value.Bool)) {
					out = append(out, v)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(arrayElemType(arr), out), nil
	})
	Register("ArrayFilterMap", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		var out []value.Value
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				r, err := callFn(a[1], v)
				if err != nil {
					return err
				}
				if variant, ok := r.(value.VariantVal); ok && variant.Case == "some" {
					out = append(out, variant.Payload)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("ArrayFirstMap", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		var found value.Value
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				r, err := callFn(a[1], v)
				if err != nil {
					return err
				}
				if variant, ok := r.(value.VariantVal); ok && variant.Case == "some" {
					found = variant
					return nil
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if found == nil {
			return value.VariantVal{}, errs.New(errs.MissingKey, "ArrayFirstMap: no element mapped to some")
		}
		return found, nil
	})
	Register("ArrayReduce", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		acc := a[1]
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				r, err := callFn(a[2], acc, v)
				if err != nil {
					return err
				}
				acc = r
			}
			return nil
		})
		return acc, err
	})
	Register("ArrayMapReduce", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		acc := a[1]
		err := arr.WithIterLock(func() error {
			for _, v := range arr.Snapshot() {
				mapped, err := callFn(a[2], v)
				if err != nil {
					return err
				}
				r, err := callFn(a[3], acc, mapped)
				if err != nil {
					return err
				}
				acc = r
			}
			return nil
		})
		return acc, err
	})

	registerArraySortBuiltins()

	Register("ArrayFindFirst", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		for _, v := range arr.Snapshot() {
			ok, err := callFn(a[1], v)
			if err != nil {
				return nil, err
			}
			if bool(ok.(value.Bool)) {
				return v, nil
			}
		}
		return nil, errs.New(errs.MissingKey, "ArrayFindFirst: no matching element")
	})
	Register("ArrayToArray", func(a []value.Value) (value.Value, error) { return a[0].(*value.ArrayVal).Copy(), nil })
	Register("ArrayToSet", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		s := container.NewSet(arrayElemType(arr))
		for _, v := range arr.Snapshot() {
			added, err := s.Insert(v)
			if err != nil {
				return nil, err
			}
			if !added {
				return nil, errs.New(errs.DuplicateKey, "ArrayToSet: duplicate element")
			}
		}
		return s, nil
	})
	Register("ArrayToDict", func(a []value.Value) (value.Value, error) {
		return toDict("ArrayToDict", a[0].(*value.ArrayVal).Snapshot(), a[1], a[2])
	})
	Register("ArrayFlattenToArray", func(a []value.Value) (value.Value, error) {
		return flattenToArray("ArrayFlattenToArray", a[0].(*value.ArrayVal).Snapshot())
	})
	Register("ArrayFlattenToSet", func(a []value.Value) (value.Value, error) {
		return flattenToSet("ArrayFlattenToSet", a[0].(*value.ArrayVal).Snapshot())
	})
	Register("ArrayFlattenToDict", func(a []value.Value) (value.Value, error) {
		return flattenToDict("ArrayFlattenToDict", a[0].(*value.ArrayVal).Snapshot(), a[1])
	})
	Register("ArrayGenerate", func(a []value.Value) (value.Value, error) {
		n := int64(a[0].(value.Int))
		out := make([]value.Value, 0, n)
		for i := int64(0); i < n; i++ {
			v, err := callFn(a[1], value.Int(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("ArrayGroupFold", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		var out value.Value
		err := arr.WithIterLock(func() error {
			var foldErr error
			out, foldErr = groupFold(arr.Snapshot(), a[1], a[2], a[3])
			return foldErr
		})
		return out, err
	})
}

// elemTypeOf infers an Array literal's element type from its first
// element, used by Map/FilterMap/Generate results whose element type
// isn't otherwise known to the builtin (the IR checker, out of scope
// here, is responsible for verifying homogeneity).
func elemTypeOf(items []value.Value) *types.Type {
	if len(items) == 0 {
		return types.NeverType()
	}
	return items[0].Type()
}

func arrayElemType(a *value.ArrayVal) *types.Type {
	if a.Size() == 0 {
		return types.NeverType()
	}
	v, _ := a.At(0)
	return v.Type()
}

func registerArraySortBuiltins() {
	less := func(projFn value.Value, snapshot []value.Value, i, j int) (bool, error) {
		pi, err := callFn(projFn, snapshot[i])
		if err != nil {
			return false, err
		}
		pj, err := callFn(projFn, snapshot[j])
		if err != nil {
			return false, err
		}
		return value.Less(pi, pj), nil
	}

	Register("ArraySort", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		out := arr.Snapshot()
		var sortErr error
		arr.WithIterLock(func() error {
			sort.SliceStable(out, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				lt, err := less(a[1], out, i, j)
				if err != nil {
					sortErr = err
				}
				return lt
			})
			return nil
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return value.NewArray(arrayElemType(arr), out), nil
	})
	Register("ArraySortInPlace", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		if err := arr.CheckMutable("Array.sortInPlace"); err != nil {
			return nil, err
		}
		sorted, err := MustLookup("ArraySort")(a)
		if err != nil {
			return nil, err
		}
		arr.Clear()
		for _, v := range sorted.(*value.ArrayVal).Snapshot() {
			arr.PushLast(v)
		}
		return value.Null{}, nil
	})
	Register("ArrayReverse", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		snap := arr.Snapshot()
		out := make([]value.Value, len(snap))
		for i, v := range snap {
			out[len(snap)-1-i] = v
		}
		return value.NewArray(arrayElemType(arr), out), nil
	})
	Register("ArrayReverseInPlace", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		if err := arr.CheckMutable("Array.reverseInPlace"); err != nil {
			return nil, err
		}
		reversed, _ := MustLookup("ArrayReverse")(a)
		arr.Clear()
		for _, v := range reversed.(*value.ArrayVal).Snapshot() {
			arr.PushLast(v)
		}
		return value.Null{}, nil
	})
	Register("ArrayIsSorted", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		snap := arr.Snapshot()
		for i := 1; i < len(snap); i++ {
			lt, err := less(a[1], snap, i, i-1)
			if err != nil {
				return nil, err
			}
			if lt {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	})
	Register("ArrayFindSortedFirst", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		snap := arr.Snapshot()
		idx := sort.Search(len(snap), func(i int) bool {
			p, _ := callFn(a[1], snap[i])
			return !value.Less(p, a[2])
		})
		if idx >= len(snap) || !value.Equal(mustProject(a[1], snap[idx]), a[2]) {
			return nil, errs.New(errs.MissingKey, "ArrayFindSortedFirst: key not found")
		}
		return value.Int(idx), nil
	})
	Register("ArrayFindSortedLast", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		snap := arr.Snapshot()
		idx := sort.Search(len(snap), func(i int) bool {
			p, _ := callFn(a[1], snap[i])
			return value.Less(a[2], p)
		})
		if idx == 0 || !value.Equal(mustProject(a[1], snap[idx-1]), a[2]) {
			return nil, errs.New(errs.MissingKey, "ArrayFindSortedLast: key not found")
		}
		return value.Int(idx - 1), nil
	})
	Register("ArrayFindSortedRange", func(a []value.Value) (value.Value, error) {
		arr := a[0].(*value.ArrayVal)
		snap := arr.Snapshot()
		start := sort.Search(len(snap), func(i int) bool {
			p, _ := callFn(a[1], snap[i])
			return !value.Less(p, a[2])
		})
		end := sort.Search(len(snap), func(i int) bool {
			p, _ := callFn(a[1], snap[i])
			return value.Less(a[2], p)
		})
		if end < start {
			end = start
		}
		return value.NewStruct(types.NewStruct(
			types.Field{Name: "start", Type: types.IntegerType()},
			types.Field{Name: "end", Type: types.IntegerType()},
		), []value.Value{value.Int(start), value.Int(end)}), nil
	})
}

func mustProject(fn value.Value, v value.Value) value.Value {
	r, _ := callFn(fn, v)
	return r
}
