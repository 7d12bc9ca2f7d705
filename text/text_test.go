package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/text"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// roundTrip asserts parse(t, print(t, v)) == v (spec §4.G's defining
// property) by comparing the printed form of both sides.
func roundTrip(t *testing.T, typ *types.Type, v value.Value) {
	t.Helper()
	printed, err := text.Print(typ, v)
	require.NoError(t, err)
	parsed, err := text.Parse(typ, printed)
	require.NoError(t, err)
	reprinted, err := text.Print(typ, parsed)
	require.NoError(t, err)
	assert.Equal(t, printed, reprinted)
}

func TestRoundTripScalars(t *testing.T) {
	roundTrip(t, types.NullType(), value.Null{})
	roundTrip(t, types.IntegerType(), value.Int(-42))
	roundTrip(t, types.StringType(), value.Str(`hello "world"\`))
	roundTrip(t, types.NewArray(types.IntegerType()), value.NewArray(types.IntegerType(), nil))
}

func TestPrintIntegerIsPlainDecimal(t *testing.T) {
	s, err := text.Print(types.IntegerType(), value.Int(42))
	require.NoError(t, err)
	assert.Equal(t, "42", s)
}

func TestPrintFloatFiniteValue(t *testing.T) {
	s, err := text.Print(types.FloatType(), value.Float(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", s)
}

func TestPrintStringEscapesQuotesAndBackslashes(t *testing.T) {
	s, err := text.Print(types.StringType(), value.Str(`a"b\c`))
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c"`, s)
}

func TestRoundTripArray(t *testing.T) {
	at := types.NewArray(types.IntegerType())
	v := value.NewArray(types.IntegerType(), []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	roundTrip(t, at, v)
	s, err := text.Print(at, v)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", s)
}

func TestRoundTripStruct(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "x", Type: types.IntegerType()},
		types.Field{Name: "y", Type: types.StringType()},
	)
	sv := value.NewStruct(st, []value.Value{value.Int(1), value.Str("a")})
	roundTrip(t, st, sv)
}

func TestRoundTripVariantWithAndWithoutPayload(t *testing.T) {
	vt := types.NewVariant(
		types.Case{Name: "some", Type: types.IntegerType()},
		types.Case{Name: "none", Type: types.NullType()},
	)
	roundTrip(t, vt, value.NewVariant(vt, "some", value.Int(7)))
	roundTrip(t, vt, value.NewVariant(vt, "none", value.Null{}))
}

func TestRoundTripSetPrintsSortedElements(t *testing.T) {
	set := container.NewSet(types.IntegerType())
	set.Insert(value.Int(3))
	set.Insert(value.Int(1))
	set.Insert(value.Int(2))
	st := types.NewSet(types.IntegerType())
	s, err := text.Print(st, set)
	require.NoError(t, err)
	assert.Equal(t, "{1, 2, 3}", s)
	roundTrip(t, st, set)
}

func TestRoundTripDict(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("b"), value.Int(2))
	dict.Insert(value.Str("a"), value.Int(1))
	dt := types.NewDict(types.StringType(), types.IntegerType())
	roundTrip(t, dt, dict)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := text.Parse(types.IntegerType(), "42 43")
	assert.Error(t, err)
}

func TestParseRejectsUnknownVariantCase(t *testing.T) {
	vt := types.NewVariant(types.Case{Name: "a", Type: types.NullType()})
	_, err := text.Parse(vt, ".b null")
	assert.Error(t, err)
}

func TestParseRejectsMissingStructField(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "x", Type: types.IntegerType()})
	_, err := text.Parse(st, "()")
	assert.Error(t, err)
}

func TestParseErrorReportsPathForNestedFailure(t *testing.T) {
	at := types.NewArray(types.IntegerType())
	_, err := text.Parse(at, `[1, "no"]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]")
}

func TestRoundTripRecursiveList(t *testing.T) {
	listType := types.MkRecursive("List", func(marker *types.Type) *types.Type {
		return types.NewVariant(
			types.Case{Name: "nil", Type: types.NullType()},
			types.Case{Name: "cons", Type: types.NewStruct(
				types.Field{Name: "head", Type: types.IntegerType()},
				types.Field{Name: "tail", Type: marker},
			)},
		)
	})
	body := listType.Unfold()
	var consType *types.Type
	for _, c := range body.Cases() {
		if c.Name == "cons" {
			consType = c.Type
		}
	}
	require.NotNil(t, consType)

	nilVal := value.NewVariant(body, "nil", value.Null{})
	list := value.NewVariant(body, "cons", value.NewStruct(consType, []value.Value{
		value.Int(1),
		value.NewVariant(body, "cons", value.NewStruct(consType, []value.Value{value.Int(2), nilVal})),
	}))

	s, err := text.Print(listType, list)
	require.NoError(t, err)
	assert.Equal(t, ".cons (head=1, tail=.cons (head=2, tail=.nil))", s)
	roundTrip(t, listType, list)
}
