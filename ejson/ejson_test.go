package ejson_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/ejson"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func roundTrip(t *testing.T, typ *types.Type, v value.Value) {
	t.Helper()
	printed, err := ejson.PrintJSON(typ, v)
	require.NoError(t, err)
	parsed, err := ejson.ParseJSON(typ, printed)
	require.NoError(t, err)
	reprinted, err := ejson.PrintJSON(typ, parsed)
	require.NoError(t, err)
	assert.Equal(t, printed, reprinted)
}

func TestIntegerEncodedAsDecimalString(t *testing.T) {
	s, err := ejson.PrintJSON(types.IntegerType(), value.Int(9223372036854775807))
	require.NoError(t, err)
	assert.Equal(t, `"9223372036854775807"`, s)
	roundTrip(t, types.IntegerType(), value.Int(9223372036854775807))
}

func TestFloatFiniteValueEncodedAsJSONNumber(t *testing.T) {
	s, err := ejson.PrintJSON(types.FloatType(), value.Float(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", s)
	roundTrip(t, types.FloatType(), value.Float(1.5))
}

func TestRoundTripArrayOfStructs(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "id", Type: types.IntegerType()},
		types.Field{Name: "name", Type: types.StringType()},
	)
	at := types.NewArray(st)
	v := value.NewArray(st, []value.Value{
		value.NewStruct(st, []value.Value{value.Int(1), value.Str("a")}),
		value.NewStruct(st, []value.Value{value.Int(2), value.Str("b")}),
	})
	roundTrip(t, at, v)
}

func TestRoundTripVariant(t *testing.T) {
	vt := types.NewVariant(
		types.Case{Name: "ok", Type: types.IntegerType()},
		types.Case{Name: "err", Type: types.StringType()},
	)
	roundTrip(t, vt, value.NewVariant(vt, "ok", value.Int(5)))
	roundTrip(t, vt, value.NewVariant(vt, "err", value.Str("boom")))
}

func TestDictEncodedAsSortedKeyValueArray(t *testing.T) {
	dict := container.NewDict(types.StringType(), types.IntegerType())
	dict.Insert(value.Str("b"), value.Int(2))
	dict.Insert(value.Str("a"), value.Int(1))
	dt := types.NewDict(types.StringType(), types.IntegerType())
	s, err := ejson.PrintJSON(dt, dict)
	require.NoError(t, err)
	assert.Equal(t, `[{"key":"a","value":"1"},{"key":"b","value":"2"}]`, s)
}

// ToNode's output is a plain any tree (map[string]any/[]any); cmp.Diff
// gives a readable structural diff if FromNode's reconstruction ever
// drifts from what ToNode produced for the same value.
func TestToNodeAndFromNodeRoundTripSameTree(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "id", Type: types.IntegerType()},
		types.Field{Name: "tags", Type: types.NewArray(types.StringType())},
	)
	v := value.NewStruct(st, []value.Value{
		value.Int(1),
		value.NewArray(types.StringType(), []value.Value{value.Str("a"), value.Str("b")}),
	})

	node, err := ejson.ToNode(st, v)
	require.NoError(t, err)

	printed, err := ejson.PrintJSON(st, v)
	require.NoError(t, err)
	parsed, err := ejson.ParseJSON(st, printed)
	require.NoError(t, err)
	reNode, err := ejson.ToNode(st, parsed)
	require.NoError(t, err)

	if diff := cmp.Diff(node, reNode); diff != "" {
		t.Errorf("ToNode tree changed across a print/parse round trip (-want +got):\n%s", diff)
	}
}

func TestParseJSONRejectsMalformedDocument(t *testing.T) {
	_, err := ejson.ParseJSON(types.IntegerType(), `not json`)
	assert.Error(t, err)
}

func TestParseJSONRejectsShapeMismatchWithPath(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "x", Type: types.IntegerType()})
	_, err := ejson.ParseJSON(st, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x")
}

func TestParseStrictRejectsDocumentViolatingDerivedSchema(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "x", Type: types.IntegerType()})
	_, err := ejson.ParseStrict(st, `{"x": "not-an-object-of-the-right-shape-at-all", "extra": true}`)
	assert.Error(t, err)
}

func TestRoundTripRecursiveListJSON(t *testing.T) {
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
	list := value.NewVariant(body, "cons", value.NewStruct(consType, []value.Value{value.Int(7), nilVal}))

	roundTrip(t, listType, list)
}

func TestParseRejectsUnexpectedStructField(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "id", Type: types.IntegerType()})
	_, err := ejson.ParseJSON(st, `{"id":"1","extra":true}`)
	require.Error(t, err)
}
