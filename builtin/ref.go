package builtin

import "github.com/east-lang/east/value"

func init() {
	Register("RefGet", func(a []value.Value) (value.Value, error) { return a[0].(*value.RefVal).Get(), nil })
	Register("RefUpdate", func(a []value.Value) (value.Value, error) {
		return value.Null{}, a[0].(*value.RefVal).Update(a[1])
	})
	Register("RefMerge", func(a []value.Value) (value.Value, error) {
		combine := func(existing, next value.Value) (value.Value, error) { return callFn(a[2], existing, next) }
		return a[0].(*value.RefVal).Merge(a[1], combine)
	})
}
