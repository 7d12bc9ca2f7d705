package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/types"
)

func TestEqualIsReflexiveAndStructural(t *testing.T) {
	a := types.NewStruct(
		types.Field{Name: "x", Type: types.IntegerType()},
		types.Field{Name: "y", Type: types.StringType()},
	)
	b := types.NewStruct(
		types.Field{Name: "x", Type: types.IntegerType()},
		types.Field{Name: "y", Type: types.StringType()},
	)
	assert.True(t, types.Equal(a, a))
	assert.True(t, types.Equal(a, b))

	c := types.NewStruct(
		types.Field{Name: "y", Type: types.StringType()},
		types.Field{Name: "x", Type: types.IntegerType()},
	)
	assert.False(t, types.Equal(a, c), "field order is part of Struct identity")
}

func TestVariantCasesAreSortedRegardlessOfConstructionOrder(t *testing.T) {
	v1 := types.NewVariant(
		types.Case{Name: "b", Type: types.NullType()},
		types.Case{Name: "a", Type: types.NullType()},
	)
	v2 := types.NewVariant(
		types.Case{Name: "a", Type: types.NullType()},
		types.Case{Name: "b", Type: types.NullType()},
	)
	require.True(t, types.Equal(v1, v2))
	names := make([]string, len(v1.Cases()))
	for i, c := range v1.Cases() {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestNeverIsBottomOfSubtype(t *testing.T) {
	assert.True(t, types.Subtype(types.NeverType(), types.IntegerType()))
	assert.True(t, types.Subtype(types.NeverType(), types.NewArray(types.StringType())))
	assert.False(t, types.Subtype(types.IntegerType(), types.NeverType()))
}

func TestFunctionSubtypeIsContravariantInParamsCovariantInResult(t *testing.T) {
	narrow := types.NewFunction([]*types.Type{types.NeverType()}, types.IntegerType())
	wideParam := types.NewFunction([]*types.Type{types.IntegerType()}, types.IntegerType())
	// wideParam accepts strictly more inputs (Never <: Integer), so a
	// caller expecting `narrow` can safely be handed `wideParam`.
	assert.True(t, types.Subtype(wideParam, narrow))
	assert.False(t, types.Subtype(narrow, wideParam))
}

func TestFunctionIsSubtypeOfAsyncFunctionNeverReverse(t *testing.T) {
	sync := types.NewFunction([]*types.Type{types.IntegerType()}, types.IntegerType())
	async := types.NewAsyncFunction([]*types.Type{types.IntegerType()}, types.IntegerType())
	assert.True(t, types.Subtype(sync, async))
	assert.False(t, types.Subtype(async, sync))
}

func TestVariantSubtypeIsWidthSubtyping(t *testing.T) {
	narrow := types.NewVariant(types.Case{Name: "a", Type: types.IntegerType()})
	wide := types.NewVariant(
		types.Case{Name: "a", Type: types.IntegerType()},
		types.Case{Name: "b", Type: types.StringType()},
	)
	assert.True(t, types.Subtype(narrow, wide), "every case of narrow (a) is present and compatible in wide")
	assert.False(t, types.Subtype(wide, narrow), "wide has a case (b) narrow lacks")
}

func TestUnionOfDistinctVariantsMergesCaseSets(t *testing.T) {
	v1 := types.NewVariant(types.Case{Name: "ok", Type: types.IntegerType()})
	v2 := types.NewVariant(types.Case{Name: "err", Type: types.StringType()})
	merged, err := types.Union(v1, v2)
	require.NoError(t, err)
	require.Equal(t, 2, len(merged.Cases()))
}

func TestUnionOfMismatchedScalarsFails(t *testing.T) {
	_, err := types.Union(types.IntegerType(), types.StringType())
	assert.Error(t, err)
}

func TestIntersectOfVariantsKeepsCommonCasesOnly(t *testing.T) {
	v1 := types.NewVariant(
		types.Case{Name: "a", Type: types.IntegerType()},
		types.Case{Name: "b", Type: types.StringType()},
	)
	v2 := types.NewVariant(types.Case{Name: "a", Type: types.IntegerType()})
	merged, err := types.Intersect(v1, v2)
	require.NoError(t, err)
	require.Equal(t, 1, len(merged.Cases()))
	assert.Equal(t, "a", merged.Cases()[0].Name)
}

func TestIntersectOfDisjointVariantsIsDomainError(t *testing.T) {
	v1 := types.NewVariant(types.Case{Name: "a", Type: types.IntegerType()})
	v2 := types.NewVariant(types.Case{Name: "b", Type: types.StringType()})
	_, err := types.Intersect(v1, v2)
	assert.Error(t, err)
}

func TestWidenRejectsFunctionAndRecursiveOperands(t *testing.T) {
	fn := types.NewFunction(nil, types.IntegerType())
	_, err := types.Widen(fn, types.IntegerType())
	assert.Error(t, err)

	rec := types.MkRecursive("Self", func(marker *types.Type) *types.Type {
		return types.NewVariant(types.Case{Name: "nil", Type: types.NullType()})
	})
	_, err = types.Widen(rec, types.IntegerType())
	assert.Error(t, err)
}

func TestWidenOfEqualTypesReturnsSameShape(t *testing.T) {
	merged, err := types.Widen(types.IntegerType(), types.IntegerType())
	require.NoError(t, err)
	assert.True(t, types.Equal(merged, types.IntegerType()))
}

func TestRecursiveTypeEqualityUnfoldsAndClosesCycles(t *testing.T) {
	listA := types.MkRecursive("ListA", func(marker *types.Type) *types.Type {
		return types.NewVariant(
			types.Case{Name: "nil", Type: types.NullType()},
			types.Case{Name: "cons", Type: types.NewStruct(
				types.Field{Name: "head", Type: types.IntegerType()},
				types.Field{Name: "tail", Type: marker},
			)},
		)
	})
	listB := types.MkRecursive("ListB", func(marker *types.Type) *types.Type {
		return types.NewVariant(
			types.Case{Name: "nil", Type: types.NullType()},
			types.Case{Name: "cons", Type: types.NewStruct(
				types.Field{Name: "head", Type: types.IntegerType()},
				types.Field{Name: "tail", Type: marker},
			)},
		)
	})
	assert.True(t, types.Equal(listA, listB), "two structurally identical recursive types must compare equal regardless of binder identity")
}

func TestIsImmutableRejectsHeapContainersAcceptsPlainData(t *testing.T) {
	assert.True(t, types.IsImmutable(types.IntegerType()))
	assert.True(t, types.IsImmutable(types.NewStruct(types.Field{Name: "x", Type: types.StringType()})))
	assert.False(t, types.IsImmutable(types.NewArray(types.IntegerType())))
	assert.False(t, types.IsImmutable(types.NewRef(types.IntegerType())))
	assert.False(t, types.IsImmutable(types.NewFunction(nil, types.NullType())))
}

func TestIsDataRejectsFunctionsAnywhereInside(t *testing.T) {
	assert.True(t, types.IsData(types.NewArray(types.IntegerType())))
	fnField := types.NewStruct(types.Field{Name: "cb", Type: types.NewFunction(nil, types.NullType())})
	assert.False(t, types.IsData(fnField))
}

func TestAssertEqualReportsStructFieldPath(t *testing.T) {
	a := types.NewStruct(types.Field{Name: "age", Type: types.IntegerType()})
	b := types.NewStruct(types.Field{Name: "age", Type: types.StringType()})
	err := types.AssertEqual(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")
}
