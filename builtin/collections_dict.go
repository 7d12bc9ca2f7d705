package builtin

import (
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func init() {
	Register("DictSize", func(a []value.Value) (value.Value, error) { return value.Int(a[0].(*container.Dict).Size()), nil })
	Register("DictHas", func(a []value.Value) (value.Value, error) {
		ok, err := a[0].(*container.Dict).Has(a[1])
		return value.Bool(ok), err
	})
	Register("DictGet", func(a []value.Value) (value.Value, error) {
		v, ok, err := a[0].(*container.Dict).Get(a[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.New(errs.MissingKey, "Dict.get: key not present")
		}
		return v, nil
	})
	Register("DictTryGet", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		v, ok, err := d.Get(a[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return none(dictValType(d)), nil
		}
		return some(v), nil
	})
	Register("DictInsert", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		_, had, err := d.Get(a[1])
		if err != nil {
			return nil, err
		}
		if had {
			return nil, errs.New(errs.DuplicateKey, "Dict.insert: key already present")
		}
		_, err = d.Insert(a[1], a[2])
		return value.Null{}, err
	})
	Register("DictTryInsert", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		_, had, err := d.Get(a[1])
		if err != nil {
			return nil, err
		}
		if had {
			return value.Bool(false), nil
		}
		_, err = d.Insert(a[1], a[2])
		return value.Bool(true), err
	})
	Register("DictSet", func(a []value.Value) (value.Value, error) {
		_, err := a[0].(*container.Dict).Insert(a[1], a[2])
		return value.Null{}, err
	})
	Register("DictDelete", func(a []value.Value) (value.Value, error) {
		had, err := a[0].(*container.Dict).Delete(a[1])
		if err != nil {
			return nil, err
		}
		if !had {
			return nil, errs.New(errs.MissingKey, "Dict.delete: key not present")
		}
		return value.Null{}, nil
	})
	Register("DictTryDelete", func(a []value.Value) (value.Value, error) {
		had, err := a[0].(*container.Dict).Delete(a[1])
		return value.Bool(had), err
	})
	Register("DictClear", func(a []value.Value) (value.Value, error) { return value.Null{}, a[0].(*container.Dict).Clear() })
	Register("DictCopy", func(a []value.Value) (value.Value, error) { return a[0].(*container.Dict).Copy(), nil })
	Register("DictForEach", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*container.Dict).ForEach(func(k, v value.Value) error {
			_, err := callFn(a[1], k, v)
			return err
		})
	})
	Register("DictMap", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		out := container.NewDict(dictKeyType(d), types.NeverType())
		err := d.ForEach(func(k, v value.Value) error {
			r, err := callFn(a[1], k, v)
			if err != nil {
				return err
			}
			_, err = out.Insert(k, r)
			return err
		})
		return out, err
	})
	Register("DictFilter", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		out := container.NewDict(dictKeyType(d), dictValType(d))
		err := d.ForEach(func(k, v value.Value) error {
			keep, err := callFn(a[1], k, v)
			if err != nil {
				return err
			}
			if bool(keep.(value.Bool)) {
				_, err := out.Insert(k, v)
				return err
			}
			return nil
		})
		return out, err
	})
	Register("DictFilterMap", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		out := container.NewDict(dictKeyType(d), types.NeverType())
		err := d.ForEach(func(k, v value.Value) error {
			r, err := callFn(a[1], k, v)
			if err != nil {
				return err
			}
			if variant, ok := r.(value.VariantVal); ok && variant.Case == "some" {
				_, err = out.Insert(k, variant.Payload)
				return err
			}
			return nil
		})
		return out, err
	})
	Register("DictFirstMap", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		var found value.Value
		err := d.ForEach(func(k, v value.Value) error {
			if found != nil {
				return nil
			}
			r, err := callFn(a[1], k, v)
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
			return nil, errs.New(errs.MissingKey, "DictFirstMap: no entry mapped to some")
		}
		return found, nil
	})
	Register("DictReduce", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		acc := a[1]
		err := d.ForEach(func(k, v value.Value) error {
			r, err := callFn(a[2], acc, k, v)
			if err != nil {
				return err
			}
			acc = r
			return nil
		})
		return acc, err
	})
	Register("DictFindFirst", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		var found value.Value
		err := d.ForEach(func(k, v value.Value) error {
			if found != nil {
				return nil
			}
			ok, err := callFn(a[1], k, v)
			if err != nil {
				return err
			}
			if bool(ok.(value.Bool)) {
				found = value.NewStruct(types.NewStruct(
					types.Field{Name: "key", Type: k.Type()},
					types.Field{Name: "value", Type: v.Type()},
				), []value.Value{k, v})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, errs.New(errs.MissingKey, "DictFindFirst: no matching entry")
		}
		return found, nil
	})
	Register("DictKeys", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		return value.NewArray(dictKeyType(d), d.Keys()), nil
	})
	Register("DictValues", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		var out []value.Value
		err := d.ForEach(func(_, v value.Value) error {
			out = append(out, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(dictValType(d), out), nil
	})
	Register("DictMapReduce", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		acc := a[1]
		err := d.ForEach(func(k, v value.Value) error {
			mapped, err := callFn(a[2], k, v)
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
	Register("DictGroupFold", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		release := d.Lock()
		defer release()
		var entries []value.Value
		for _, k := range d.Keys() {
			v, _, err := d.Get(k)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entryStruct(k, v))
		}
		return groupFold(entries, a[1], a[2], a[3])
	})
	Register("DictGenerate", func(a []value.Value) (value.Value, error) {
		n := int64(a[0].(value.Int))
		out := container.NewDict(nil, nil)
		for i := int64(0); i < n; i++ {
			entry, err := callFn(a[1], value.Int(i))
			if err != nil {
				return nil, err
			}
			k, v, err := entryFields("DictGenerate", entry)
			if err != nil {
				return nil, err
			}
			_, had, err := out.Get(k)
			if err != nil {
				return nil, err
			}
			if had {
				return nil, errs.New(errs.DuplicateKey, "DictGenerate: duplicate key")
			}
			if _, err := out.Insert(k, v); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	Register("DictToArray", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		var out []value.Value
		err := d.ForEach(func(k, v value.Value) error {
			out = append(out, entryStruct(k, v))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return value.NewArray(elemTypeOf(out), out), nil
	})
	Register("DictToSet", func(a []value.Value) (value.Value, error) {
		d := a[0].(*container.Dict)
		out := container.NewSet(types.NeverType())
		err := d.ForEach(func(k, v value.Value) error {
			elem, err := callFn(a[1], k, v)
			if err != nil {
				return err
			}
			added, err := out.Insert(elem)
			if err != nil {
				return err
			}
			if !added {
				return errs.New(errs.DuplicateKey, "DictToSet: duplicate element")
			}
			return nil
		})
		return out, err
	})
	Register("DictToDict", func(a []value.Value) (value.Value, error) { return a[0].(*container.Dict).Copy(), nil })
	Register("DictFlattenToArray", func(a []value.Value) (value.Value, error) {
		vals, err := MustLookup("DictValues")(a[:1])
		if err != nil {
			return nil, err
		}
		return flattenToArray("DictFlattenToArray", vals.(*value.ArrayVal).Snapshot())
	})
	Register("DictFlattenToSet", func(a []value.Value) (value.Value, error) {
		vals, err := MustLookup("DictValues")(a[:1])
		if err != nil {
			return nil, err
		}
		return flattenToSet("DictFlattenToSet", vals.(*value.ArrayVal).Snapshot())
	})
	Register("DictFlattenToDict", func(a []value.Value) (value.Value, error) {
		vals, err := MustLookup("DictValues")(a[:1])
		if err != nil {
			return nil, err
		}
		return flattenToDict("DictFlattenToDict", vals.(*value.ArrayVal).Snapshot(), a[1])
	})
	Register("DictMerge", func(a []value.Value) (value.Value, error) {
		resolver := func(existing, incoming value.Value) (value.Value, error) {
			return callFn(a[2], existing, incoming)
		}
		return a[0].(*container.Dict).Merge(a[1].(*container.Dict), resolver)
	})
}

func dictKeyType(d *container.Dict) *types.Type { return d.Type().Key() }
func dictValType(d *container.Dict) *types.Type { return d.Type().Elem() }
