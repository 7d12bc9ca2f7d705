package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/builtin"
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	fn := builtin.MustLookup(name)
	v, err := fn(args)
	require.NoError(t, err)
	return v
}

func TestPrimitiveLogicFamily(t *testing.T) {
	assert.Equal(t, value.Bool(false), call(t, "Not", value.Bool(true)))
	assert.Equal(t, value.Bool(true), call(t, "And", value.Bool(true), value.Bool(true)))
	assert.Equal(t, value.Bool(true), call(t, "Or", value.Bool(false), value.Bool(true)))
	assert.Equal(t, value.Bool(true), call(t, "Xor", value.Bool(true), value.Bool(false)))
}

func TestPrimitiveComparisonFamily(t *testing.T) {
	assert.Equal(t, value.Bool(true), call(t, "Equal", value.Int(1), value.Int(1)))
	assert.Equal(t, value.Bool(false), call(t, "NotEqual", value.Int(1), value.Int(1)))
	assert.Equal(t, value.Bool(true), call(t, "Less", value.Int(1), value.Int(2)))
	assert.Equal(t, value.Bool(true), call(t, "GreaterEqual", value.Int(2), value.Int(2)))
}

func TestIntegerArithmeticFamily(t *testing.T) {
	assert.Equal(t, value.Int(7), call(t, "IntegerAdd", value.Int(3), value.Int(4)))
	assert.Equal(t, value.Int(12), call(t, "IntegerMul", value.Int(3), value.Int(4)))
	assert.Equal(t, value.Int(-3), call(t, "IntegerNegate", value.Int(3)))

	assert.Equal(t, value.Int(0), call(t, "IntegerDiv", value.Int(1), value.Int(0)))
	assert.Equal(t, value.Int(0), call(t, "IntegerRem", value.Int(1), value.Int(0)))
	assert.Equal(t, value.Int(0), call(t, "IntegerPow", value.Int(2), value.Int(-1)))
}

func TestFloatArithmeticFamily(t *testing.T) {
	assert.Equal(t, value.Float(7), call(t, "FloatAdd", value.Float(3), value.Float(4)))
	assert.Equal(t, value.Float(0.75), call(t, "FloatDiv", value.Float(3), value.Float(4)))
}

func TestStringFamily(t *testing.T) {
	assert.Equal(t, value.Str("ab"), call(t, "StringConcat", value.Str("a"), value.Str("b")))
	assert.Equal(t, value.Int(3), call(t, "StringLength", value.Str("abc")))
	assert.Equal(t, value.Str("ABC"), call(t, "StringUpperCase", value.Str("abc")))
	assert.Equal(t, value.Bool(true), call(t, "StringStartsWith", value.Str("abc"), value.Str("ab")))
	assert.Equal(t, value.Bool(true), call(t, "StringContains", value.Str("abc"), value.Str("b")))
}

func TestRegexFamily(t *testing.T) {
	assert.Equal(t, value.Bool(true), call(t, "RegexContains", value.Str("abc123"), value.Str(`\d+`), value.Str("")))
}

func TestRefFamily(t *testing.T) {
	ref := value.NewRef(types.IntegerType(), value.Int(1))
	assert.Equal(t, value.Int(1), call(t, "RefGet", ref))
	call(t, "RefUpdate", ref, value.Int(5))
	assert.Equal(t, value.Int(5), call(t, "RefGet", ref))

	combine := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0].(value.Int) + args[1].(value.Int), nil
	})
	_, err := builtin.MustLookup("RefMerge")([]value.Value{ref, value.Int(10), combine})
	require.NoError(t, err)
	assert.Equal(t, value.Int(15), call(t, "RefGet", ref))
}

func TestArrayFamily(t *testing.T) {
	arr := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	assert.Equal(t, value.Int(3), call(t, "ArraySize", arr))
	assert.Equal(t, value.Bool(true), call(t, "ArrayHas", arr, value.Int(2)))

	double := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0].(value.Int) * 2, nil
	})
	mapped := call(t, "ArrayMap", arr, double).(*value.ArrayVal)
	assert.Equal(t, 3, mapped.Size())
	v, err := mapped.At(0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)

	isEven := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return value.Bool(int64(args[0].(value.Int))%2 == 0), nil
	})
	filtered := call(t, "ArrayFilter", arr, isEven).(*value.ArrayVal)
	assert.Equal(t, 1, filtered.Size())
}

func TestArraySortFamily(t *testing.T) {
	arr := value.NewArray(types.IntegerType(), []value.Value{value.Int(3), value.Int(1), value.Int(2)})
	identity := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	sorted := call(t, "ArraySort", arr, identity).(*value.ArrayVal)
	v0, _ := sorted.At(0)
	v2, _ := sorted.At(2)
	assert.Equal(t, value.Int(1), v0)
	assert.Equal(t, value.Int(3), v2)
}

func TestSetFamily(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	set.Insert(value.Int(1))
	set.Insert(value.Int(2))
	assert.Equal(t, value.Int(2), call(t, "SetSize", set))
	assert.Equal(t, value.Bool(true), call(t, "SetHas", set, value.Int(1)))

	other := container.NewSet(types.IntegerType())
	other.Insert(value.Int(2))
	other.Insert(value.Int(3))
	union := call(t, "SetUnion", set, other).(*container.Set)
	assert.Equal(t, 3, union.Size())

	intersection := call(t, "SetIntersection", set, other).(*container.Set)
	assert.Equal(t, 1, intersection.Size())
}

func TestDictFamily(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("a"), value.Int(1))
	assert.Equal(t, value.Int(1), call(t, "DictSize", dict))
	assert.Equal(t, value.Bool(true), call(t, "DictHas", dict, value.Str("a")))

	v := call(t, "DictGet", dict, value.Str("a"))
	assert.Equal(t, value.Int(1), v)
}

func TestDictMergeFamily(t *testing.T) {
	a := container.NewDict(types.StringType(), types.IntegerType())
	a.Insert(value.Str("x"), value.Int(1))
	b := container.NewDict(types.StringType(), types.IntegerType())
	b.Insert(value.Str("x"), value.Int(10))

	sum := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0].(value.Int) + args[1].(value.Int), nil
	})
	merged := call(t, "DictMerge", a, b, sum).(*container.Dict)
	v, _, _ := merged.Get(value.Str("x"))
	assert.Equal(t, value.Int(11), v)
}

func TestArrayAccessFamily(t *testing.T) {
	arr := value.NewArray(types.IntegerType(), []value.Value{value.Int(10), value.Int(20)})
	assert.Equal(t, value.Int(20), call(t, "ArrayGet", arr, value.Int(1)))

	_, err := builtin.MustLookup("ArrayGet")([]value.Value{arr, value.Int(5)})
	require.Error(t, err)

	opt := call(t, "ArrayTryGet", arr, value.Int(5)).(value.VariantVal)
	assert.Equal(t, "none", opt.Case)
	opt = call(t, "ArrayTryGet", arr, value.Int(0)).(value.VariantVal)
	assert.Equal(t, "some", opt.Case)
	assert.Equal(t, value.Int(10), opt.Payload)

	call(t, "ArraySet", arr, value.Int(0), value.Int(99))
	assert.Equal(t, value.Int(99), call(t, "ArrayGet", arr, value.Int(0)))
}

func TestArrayFlattenFamily(t *testing.T) {
	inner1 := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2)})
	inner2 := value.NewArray(types.IntegerType(), []value.Value{value.Int(3)})
	nested := value.NewArray(inner1.Type(), []value.Value{inner1, inner2})

	flat := call(t, "ArrayFlattenToArray", nested).(*value.ArrayVal)
	assert.Equal(t, 3, flat.Size())
	v, err := flat.At(2)
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)

	asSet := call(t, "ArrayFlattenToSet", nested).(*container.Set)
	assert.Equal(t, 3, asSet.Size())
}

func TestSetInsertDeleteVariants(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	call(t, "SetInsert", set, value.Int(1))
	_, err := builtin.MustLookup("SetInsert")([]value.Value{set, value.Int(1)})
	require.Error(t, err, "inserting a present element must raise DuplicateKey")

	assert.Equal(t, value.Bool(false), call(t, "SetTryInsert", set, value.Int(1)))
	assert.Equal(t, value.Bool(true), call(t, "SetTryInsert", set, value.Int(2)))

	call(t, "SetDelete", set, value.Int(2))
	_, err = builtin.MustLookup("SetDelete")([]value.Value{set, value.Int(2)})
	require.Error(t, err, "deleting an absent element must raise MissingKey")
	assert.Equal(t, value.Bool(false), call(t, "SetTryDelete", set, value.Int(2)))
}

func TestDictInsertDeleteVariants(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	call(t, "DictInsert", dict, value.Str("a"), value.Int(1))
	_, err := builtin.MustLookup("DictInsert")([]value.Value{dict, value.Str("a"), value.Int(2)})
	require.Error(t, err, "inserting a present key must raise DuplicateKey")

	assert.Equal(t, value.Bool(false), call(t, "DictTryInsert", dict, value.Str("a"), value.Int(2)))
	assert.Equal(t, value.Int(1), call(t, "DictGet", dict, value.Str("a")), "tryInsert must not overwrite")

	call(t, "DictSet", dict, value.Str("a"), value.Int(5))
	assert.Equal(t, value.Int(5), call(t, "DictGet", dict, value.Str("a")))

	opt := call(t, "DictTryGet", dict, value.Str("missing")).(value.VariantVal)
	assert.Equal(t, "none", opt.Case)

	call(t, "DictDelete", dict, value.Str("a"))
	_, err = builtin.MustLookup("DictDelete")([]value.Value{dict, value.Str("a")})
	require.Error(t, err, "deleting an absent key must raise MissingKey")
}

func TestDictToArrayAndGroupFold(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("b"), value.Int(2))
	dict.Insert(value.Str("a"), value.Int(1))

	entries := call(t, "DictToArray", dict).(*value.ArrayVal)
	require.Equal(t, 2, entries.Size())
	first, err := entries.At(0)
	require.NoError(t, err)
	k, err := first.(value.StructVal).Get("key")
	require.NoError(t, err)
	assert.Equal(t, value.Str("a"), k, "entries come out in key order")

	vals := call(t, "DictValues", dict).(*value.ArrayVal)
	v0, err := vals.At(0)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v0)

	arr := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2), value.Int(3), value.Int(4)})
	parity := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return value.Int(int64(args[0].(value.Int)) % 2), nil
	})
	zero := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return value.Int(0), nil
	})
	sum := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0].(value.Int) + args[1].(value.Int), nil
	})
	grouped := call(t, "ArrayGroupFold", arr, parity, zero, sum).(*container.Dict)
	evens, _, err := grouped.Get(value.Int(0))
	require.NoError(t, err)
	assert.Equal(t, value.Int(6), evens)
	odds, _, err := grouped.Get(value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, value.Int(4), odds)
}

func TestFloatRem(t *testing.T) {
	assert.Equal(t, value.Float(1), call(t, "FloatRem", value.Float(7), value.Float(3)))
}

func TestDateTimeFamily(t *testing.T) {
	dt := call(t, "DateTimeFromEpoch", value.Int(1_700_000_000_000))
	epoch := call(t, "DateTimeToEpoch", dt)
	assert.Equal(t, value.Int(1_700_000_000_000), epoch)

	later := call(t, "DateTimeAddMilliseconds", dt, value.Int(1000))
	assert.Equal(t, value.Int(1000), call(t, "DurationInMilliseconds", later, dt))

	formatted := call(t, "DateTimeFormat", dt, value.Str("YYYY-MM-DD"))
	roundTripped := call(t, "DateTimeParse", formatted, value.Str("YYYY-MM-DD"))
	assert.Equal(t, formatted, call(t, "DateTimeFormat", roundTripped, value.Str("YYYY-MM-DD")))
}

func TestSerializeFamily(t *testing.T) {
	s := call(t, "Print", value.Int(42))
	assert.Equal(t, value.Str("42"), s)

	j := call(t, "StringPrintJSON", value.Int(42))
	assert.Equal(t, value.Str(`"42"`), j)
}

func TestDictGroupFoldHoldsIterationLock(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("a"), value.Int(1))

	// keyFn reenters the source dict and tries to mutate it; the lock
	// held for the duration of groupFold must reject that.
	keyFn := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		if _, err := dict.Insert(value.Str("b"), value.Int(2)); err != nil {
			return nil, err
		}
		return value.Int(0), nil
	})
	zero := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return value.Int(0), nil
	})
	keep := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})

	_, err := builtin.MustLookup("DictGroupFold")([]value.Value{dict, keyFn, zero, keep})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConcurrentMutation))
	assert.Equal(t, 1, dict.Size(), "the rejected mutation must leave the dict unchanged")
}
