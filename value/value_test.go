package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func TestCompareOrdersIntegersTotally(t *testing.T) {
	assert.Equal(t, -1, value.Compare(value.Int(1), value.Int(2)))
	assert.Equal(t, 0, value.Compare(value.Int(5), value.Int(5)))
	assert.Equal(t, 1, value.Compare(value.Int(2), value.Int(1)))
}

func TestCompareFloatOrdersSignedZeroAndInfinities(t *testing.T) {
	assert.Equal(t, 0, value.Compare(value.Float(0.0), value.Float(math.Copysign(0, -1))), "-0 and +0 compare equal")
	assert.Equal(t, -1, value.Compare(value.Float(math.Inf(-1)), value.Float(-1.0)))
	assert.Equal(t, 1, value.Compare(value.Float(math.Inf(1)), value.Float(1e300)))
}

func TestCompareFloatNaNEqualsNaNAndGreaterThanEverything(t *testing.T) {
	nan := value.Float(math.NaN())
	assert.Equal(t, 0, value.Compare(nan, value.Float(math.NaN())))
	assert.Equal(t, 1, value.Compare(nan, value.Float(math.Inf(1))))
	assert.Equal(t, -1, value.Compare(value.Float(math.Inf(1)), nan))
}

func TestCompareStringsByCodepointOrder(t *testing.T) {
	assert.True(t, value.Less(value.Str("abc"), value.Str("abd")))
	assert.True(t, value.Less(value.Str("abc"), value.Str("abcd")))
	assert.True(t, value.Equal(value.Str("x"), value.Str("x")))
}

func TestCompareArraysLexicographically(t *testing.T) {
	short := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2)})
	long := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2), value.Int(0)})
	assert.True(t, value.Less(short, long), "a strict prefix is less than its extension")

	diverge := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(3)})
	assert.True(t, value.Less(short, diverge))
}

func TestHeaderFreezeIsMonotonicAndRejectsMutationOps(t *testing.T) {
	var h value.Header
	require.False(t, h.Frozen())
	assert.NoError(t, h.CheckMutable("Test"))

	h.Freeze()
	h.Freeze() // idempotent
	assert.True(t, h.Frozen())
	err := h.CheckMutable("Test")
	require.Error(t, err)
}

func TestHeaderLockRejectsMutationWhileLockedAndReleaseIsIdempotent(t *testing.T) {
	var h value.Header
	release := h.Lock()
	assert.True(t, h.Locked())
	assert.Error(t, h.CheckMutable("Test"))

	release()
	release() // calling twice must not double-decrement
	assert.False(t, h.Locked())
	assert.NoError(t, h.CheckMutable("Test"))
}

func TestHeaderLocksNest(t *testing.T) {
	var h value.Header
	releaseOuter := h.Lock()
	releaseInner := h.Lock()
	assert.True(t, h.Locked())
	releaseInner()
	assert.True(t, h.Locked(), "outer lock still held")
	releaseOuter()
	assert.False(t, h.Locked())
}

func TestArrayMutationThroughHeaderAPI(t *testing.T) {
	arr := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2)})
	require.NoError(t, arr.PushLast(value.Int(3)))
	assert.Equal(t, 3, arr.Size())
	v, err := arr.At(2)
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestRefGetUpdate(t *testing.T) {
	ref := value.NewRef(types.IntegerType(), value.Int(1))
	assert.Equal(t, value.Int(1), ref.Get())
	require.NoError(t, ref.Update(value.Int(2)))
	assert.Equal(t, value.Int(2), ref.Get())
}

func TestFunctionValCall(t *testing.T) {
	fn := value.NewFunction(types.IntegerType(), func(args []value.Value) (value.Value, error) {
		return value.Int(int64(args[0].(value.Int)) + 1), nil
	})
	result, err := fn.Call([]value.Value{value.Int(41)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), result)
}

func TestFutureAwaitBlocksUntilResolved(t *testing.T) {
	future, resolve := value.NewFuture()
	go resolve(value.Int(7), nil)
	result, err := future.Await()
	require.NoError(t, err)
	assert.Equal(t, value.Int(7), result)
}

func TestStructGetField(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "x", Type: types.IntegerType()})
	sv := value.NewStruct(st, []value.Value{value.Int(9)})
	v, err := sv.Get("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(9), v)
}

func TestVariantPreservesCaseAndPayload(t *testing.T) {
	vt := types.NewVariant(
		types.Case{Name: "some", Type: types.IntegerType()},
		types.Case{Name: "none", Type: types.NullType()},
	)
	v := value.NewVariant(vt, "some", value.Int(3))
	assert.Equal(t, "some", v.Case)
	assert.Equal(t, value.Int(3), v.Payload)
}
