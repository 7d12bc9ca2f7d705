package container_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func TestSetInsertReportsNewnessAndDedups(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	inserted, err := set.Insert(value.Int(1))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = set.Insert(value.Int(1))
	require.NoError(t, err)
	assert.False(t, inserted, "re-inserting an existing element reports not-newly-inserted")
	assert.Equal(t, 1, set.Size())
}

func TestSetToArrayIsAscendingKeyOrder(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	for _, v := range []int64{5, 1, 3, 2, 4} {
		_, err := set.Insert(value.Int(v))
		require.NoError(t, err)
	}
	arr := set.ToArray()
	require.Len(t, arr, 5)
	for i := 1; i < len(arr); i++ {
		assert.True(t, value.Less(arr[i-1], arr[i]), "set elements must be in ascending order")
	}
}

func TestSetUnionContainsBothSidesDeduped(t *testing.T) {
	a := container.NewSet(types.IntegerType())
	a.Insert(value.Int(1))
	a.Insert(value.Int(2))
	b := container.NewSet(types.IntegerType())
	b.Insert(value.Int(2))
	b.Insert(value.Int(3))

	union := a.Union(b)
	assert.Equal(t, 3, union.Size())
}

func TestSetCopyIsIndependentOfOriginal(t *testing.T) {
	a := container.NewSet(types.IntegerType())
	a.Insert(value.Int(1))
	b := a.Copy()
	_, err := b.Insert(value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Size(), "mutating the copy must not affect the original")
	assert.Equal(t, 2, b.Size())
}

func TestSetFrozenRejectsInsert(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	set.Freeze()
	_, err := set.Insert(value.Int(1))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.FrozenMutation))
}

func TestSetForEachHoldsIterationLockAgainstConcurrentMutation(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	set.Insert(value.Int(1))
	set.Insert(value.Int(2))

	err := set.ForEach(func(v value.Value) error {
		_, insertErr := set.Insert(value.Int(99))
		assert.Error(t, insertErr)
		assert.True(t, errs.Is(insertErr, errs.ConcurrentMutation))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Size(), "the set must be unchanged after the rejected mutation")
}

func TestDictInsertOverwritesAndReportsReplacement(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	isNew, err := dict.Insert(value.Str("a"), value.Int(1))
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = dict.Insert(value.Str("a"), value.Int(2))
	require.NoError(t, err)
	assert.False(t, isNew)

	v, found, err := dict.Get(value.Str("a"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, value.Int(2), v)
}

func TestDictKeysAreAscending(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	for _, k := range []string{"banana", "apple", "cherry"} {
		dict.Insert(value.Str(k), value.Int(1))
	}
	keys := dict.Keys()
	require.Len(t, keys, 3)
	for i := 1; i < len(keys); i++ {
		assert.True(t, value.Less(keys[i-1], keys[i]))
	}
}

func TestDictMergeCombinesOverlappingKeys(t *testing.T) {
	a := container.NewDict(types.StringType(), types.IntegerType())
	a.Insert(value.Str("x"), value.Int(1))
	b := container.NewDict(types.StringType(), types.IntegerType())
	b.Insert(value.Str("x"), value.Int(10))
	b.Insert(value.Str("y"), value.Int(20))

	merged, err := a.Merge(b, func(existing, incoming value.Value) (value.Value, error) {
		return value.Int(int64(existing.(value.Int)) + int64(incoming.(value.Int))), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Size())
	v, _, _ := merged.Get(value.Str("x"))
	assert.Equal(t, value.Int(11), v)
}

func TestDictForEachHoldsIterationLockAgainstConcurrentMutation(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("a"), value.Int(1))

	err := dict.ForEach(func(k, v value.Value) error {
		_, insertErr := dict.Insert(value.Str("b"), value.Int(2))
		assert.Error(t, insertErr)
		assert.True(t, errs.Is(insertErr, errs.ConcurrentMutation))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dict.Size())
}

// Set/Dict participate in value.Compare's total order (spec §3.2: "Sets,
// Dicts: ordered as sequences in key order") via the extension hook
// container/compare.go registers.
func TestSetAndDictParticipateInValueTotalOrder(t *testing.T) {
	small := container.NewSet(types.IntegerType())
	small.Insert(value.Int(1))
	big := container.NewSet(types.IntegerType())
	big.Insert(value.Int(1))
	big.Insert(value.Int(2))

	assert.True(t, value.Less(small, big))
	assert.True(t, value.Equal(small, small))

	d1 := container.NewDict(types.StringType(), types.IntegerType())
	d1.Insert(value.Str("a"), value.Int(1))
	d2 := container.NewDict(types.StringType(), types.IntegerType())
	d2.Insert(value.Str("a"), value.Int(1))
	assert.True(t, value.Equal(d1, d2))
}

func TestSetTreatsNegativeAndPositiveZeroAsOneKey(t *testing.T) {
	set := container.NewSet(types.FloatType())
	inserted, err := set.Insert(value.Float(0.0))
	require.NoError(t, err)
	assert.True(t, inserted)

	negZero := value.Float(math.Copysign(0, -1))
	inserted, err = set.Insert(negZero)
	require.NoError(t, err)
	assert.False(t, inserted, "-0.0 equals +0.0 in the value order and must land on the same key")
	assert.Equal(t, 1, set.Size())

	has, err := set.Has(negZero)
	require.NoError(t, err)
	assert.True(t, has)
}
