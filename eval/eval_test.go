package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/eval"
	"github.com/east-lang/east/ir"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

func run(t *testing.T, node ir.Node) (value.Value, eval.Unwind, error) {
	t.Helper()
	fn, err := eval.Compile(node, nil)
	require.NoError(t, err)
	return fn(eval.NewContext(nil))
}

// S1 - closure and mutation: multiplier := 3; f(x) := x*multiplier
// (multiplier captured); f(4) = 12.
func TestClosureCapturesOuterVariable(t *testing.T) {
	var loc ir.Loc

	multiplier := ir.Var{Name: "multiplier", Type: types.IntegerType()}
	x := ir.Var{Name: "x", Type: types.IntegerType()}
	fnType := types.NewFunction([]*types.Type{types.IntegerType()}, types.IntegerType())
	f := ir.Var{Name: "f", Type: fnType}

	body := ir.NewBuiltin(types.IntegerType(), loc, "IntegerMul", nil,
		ir.NewVariable(x, loc), ir.NewVariable(multiplier, loc))
	fnNode := ir.NewFunction(fnType, loc, []ir.Var{x}, []ir.Var{multiplier}, body)

	program := ir.NewBlock(types.IntegerType(), loc,
		ir.NewLet(multiplier, loc, ir.NewValueNode(types.IntegerType(), loc, value.NewInt(3))),
		ir.NewLet(f, loc, fnNode),
		ir.NewCall(types.IntegerType(), loc, ir.NewVariable(f, loc),
			ir.NewValueNode(types.IntegerType(), loc, value.NewInt(4))),
	)

	result, uw, err := run(t, program)
	require.NoError(t, err)
	require.Nil(t, uw)
	assert.Equal(t, value.Int(12), result)
}

// S2 - recursive list sum: ListType = mu L. variant{nil: Null, cons:
// {head: Integer, tail: L}}; summing 1->2->3->nil via a loop yields 6.
func TestRecursiveListSumViaLoop(t *testing.T) {
	var loc ir.Loc

	listType := types.MkRecursive("List", func(marker *types.Type) *types.Type {
		return types.NewVariant(
			types.Case{Name: "nil", Type: types.NullType()},
			types.Case{Name: "cons", Type: types.NewStruct(
				types.Field{Name: "head", Type: types.IntegerType()},
				types.Field{Name: "tail", Type: marker},
			)},
		)
	})
	bodyType := listType.Body()
	var consStructType *types.Type
	for _, c := range bodyType.Cases() {
		if c.Name == "cons" {
			consStructType = c.Type
		}
	}
	require.NotNil(t, consStructType)

	nilVal := value.NewVariant(bodyType, "nil", value.NewNull())
	cons := func(head int64, tail value.Value) value.Value {
		return value.NewVariant(bodyType, "cons", value.NewStruct(consStructType, []value.Value{value.NewInt(head), tail}))
	}
	list := cons(1, cons(2, cons(3, nilVal)))

	sum := ir.Var{Name: "sum", Type: types.IntegerType(), Mutable: true}
	cur := ir.Var{Name: "cur", Type: bodyType, Mutable: true}
	pair := ir.Var{Name: "pair", Type: consStructType}

	consBody := ir.NewBlock(types.NullType(), loc,
		ir.NewAssign(sum, loc, ir.NewBuiltin(types.IntegerType(), loc, "IntegerAdd", nil,
			ir.NewVariable(sum, loc),
			ir.NewGetField(types.IntegerType(), loc, ir.NewVariable(pair, loc), "head"))),
		ir.NewAssign(cur, loc, ir.NewGetField(bodyType, loc, ir.NewVariable(pair, loc), "tail")),
	)
	nilBody := ir.NewBreak(loc, "")

	matchNode := ir.NewMatch(types.NullType(), loc, ir.NewVariable(cur, loc), []ir.MatchCase{
		{CaseName: "cons", VarName: "pair", VarType: consStructType, Body: consBody},
		{CaseName: "nil", VarName: "", VarType: types.NullType(), Body: nilBody},
	})
	whileNode := ir.NewWhile(loc, "", ir.NewValueNode(types.BooleanType(), loc, value.NewBool(true)), matchNode)

	program := ir.NewBlock(types.IntegerType(), loc,
		ir.NewLet(sum, loc, ir.NewValueNode(types.IntegerType(), loc, value.NewInt(0))),
		ir.NewLet(cur, loc, ir.NewValueNode(bodyType, loc, list)),
		whileNode,
		ir.NewVariable(sum, loc),
	)

	result, uw, err := run(t, program)
	require.NoError(t, err)
	require.Nil(t, uw)
	assert.Equal(t, value.Int(6), result)
}

// S7 - iteration lock: mutating an array from inside its own forEach
// fails with ConcurrentMutation and leaves the array unchanged.
func TestForArrayIterationLockRejectsConcurrentMutation(t *testing.T) {
	var loc ir.Loc

	arrType := types.NewArray(types.IntegerType())
	arrVal := value.NewArray(types.IntegerType(), []value.Value{value.NewInt(1), value.NewInt(2)})

	arrVar := ir.Var{Name: "arr", Type: arrType}
	elem := ir.Var{Name: "elem", Type: types.IntegerType()}

	// Body: ArrayPushLast(arr, 99) on every iteration - must fail on the
	// very first element since the loop already holds arr's lock.
	body := ir.NewBuiltin(types.NullType(), loc, "ArrayPushLast", nil,
		ir.NewVariable(arrVar, loc), ir.NewValueNode(types.IntegerType(), loc, value.NewInt(99)))

	forNode := ir.NewForArray(loc, "", ir.NewVariable(arrVar, loc), elem, body)
	program := ir.NewBlock(types.NullType(), loc,
		ir.NewLet(arrVar, loc, ir.NewValueNode(arrType, loc, arrVal)),
		forNode,
	)

	_, _, err := run(t, program)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConcurrentMutation))
	assert.Equal(t, 2, arrVal.Size())
}

// Freeze (spec §8 property 9): any mutating op on a frozen container
// fails with FrozenMutation.
func TestFrozenArrayRejectsMutation(t *testing.T) {
	var loc ir.Loc
	arrType := types.NewArray(types.IntegerType())
	arrVal := value.NewArray(types.IntegerType(), []value.Value{value.NewInt(1)})
	arrVal.Freeze()

	arrVar := ir.Var{Name: "arr", Type: arrType}
	program := ir.NewBlock(types.NullType(), loc,
		ir.NewLet(arrVar, loc, ir.NewValueNode(arrType, loc, arrVal)),
		ir.NewBuiltin(types.NullType(), loc, "ArrayPushLast", nil,
			ir.NewVariable(arrVar, loc), ir.NewValueNode(types.IntegerType(), loc, value.NewInt(2))),
	)

	_, _, err := run(t, program)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.FrozenMutation))
}

// try/catch/finally property 10: finally runs when catch handles the
// error, and the caught message is visible to the catch body.
func TestTryCatchFinallyRunsOnCaughtError(t *testing.T) {
	var loc ir.Loc

	counter := ir.Var{Name: "counter", Type: types.IntegerType(), Mutable: true}
	msgVar := ir.Var{Name: "message", Type: types.StringType()}
	stackVar := ir.Var{Name: "stack", Type: types.NewArray(types.StringType())}

	tryBody := ir.NewError(loc, ir.NewValueNode(types.StringType(), loc, value.NewStr("boom")))
	catchBody := ir.NewVariable(msgVar, loc)
	finallyBody := ir.NewAssign(counter, loc, ir.NewValueNode(types.IntegerType(), loc, value.NewInt(1)))

	tc := ir.NewTryCatch(types.StringType(), loc, tryBody, msgVar, stackVar, catchBody, finallyBody)

	// counter is bound in the outer context itself (not by a Let inside a
	// Block, which would scope it to the Block's own child context) so it
	// can be read back after the run.
	fn, err := eval.Compile(tc, nil)
	require.NoError(t, err)
	ctx := eval.NewContext(nil)
	ctx.Define("counter", value.Int(0))
	result, uw, err := fn(ctx)
	require.NoError(t, err)
	require.Nil(t, uw)
	assert.Equal(t, value.Str("boom"), result)

	cell, ok := ctx.Lookup("counter")
	require.True(t, ok)
	assert.Equal(t, value.Int(1), cell.Value)
}

// try/catch/finally property 10(d): a break that unwinds through a try
// still runs finally.
func TestTryCatchFinallyRunsOnBreakThroughTry(t *testing.T) {
	var loc ir.Loc

	counter := ir.Var{Name: "counter", Type: types.IntegerType(), Mutable: true}
	msgVar := ir.Var{Name: "message", Type: types.StringType()}

	tryBody := ir.NewBreak(loc, "")
	finallyBody := ir.NewAssign(counter, loc, ir.NewValueNode(types.IntegerType(), loc, value.NewInt(1)))
	tc := ir.NewTryCatch(types.NullType(), loc, tryBody, msgVar, ir.Var{}, nil, finallyBody)

	whileNode := ir.NewWhile(loc, "", ir.NewValueNode(types.BooleanType(), loc, value.NewBool(true)), tc)
	program := ir.NewBlock(types.NullType(), loc,
		ir.NewLet(counter, loc, ir.NewValueNode(types.IntegerType(), loc, value.NewInt(0))),
		whileNode,
		ir.NewVariable(counter, loc),
	)

	result, uw, err := run(t, program)
	require.NoError(t, err)
	require.Nil(t, uw)
	assert.Equal(t, value.Int(1), result)
}

// A Call boundary appends its call-site location to an escaping error's
// stack (spec §4.F.2).
func TestCallAppendsFrameToEscapingError(t *testing.T) {
	var loc = ir.Loc{Line: 7, Col: 3}

	fnType := types.NewFunction(nil, types.NullType())
	fVar := ir.Var{Name: "f", Type: fnType}
	body := ir.NewError(loc, ir.NewValueNode(types.StringType(), loc, value.NewStr("bad")))
	fnNode := ir.NewFunction(fnType, loc, nil, nil, body)

	program := ir.NewBlock(types.NullType(), loc,
		ir.NewLet(fVar, loc, fnNode),
		ir.NewCall(types.NullType(), loc, ir.NewVariable(fVar, loc)),
	)

	_, _, err := run(t, program)
	require.Error(t, err)
	e, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.UserError, e.Kind)
	assert.NotEmpty(t, e.Stack)
}

func TestInstrumentCountsAndTraces(t *testing.T) {
	var loc ir.Loc
	program := ir.NewValueNode(types.IntegerType(), loc, value.NewInt(1))
	fn, err := eval.Compile(program, nil)
	require.NoError(t, err)

	var events []eval.DebugEvent
	wrapped, tel := eval.Instrument(fn, eval.Config{
		Debug:     eval.DebugPaths,
		Telemetry: eval.TelemetryTiming,
	}, func(e eval.DebugEvent) { events = append(events, e) })

	for i := 0; i < 3; i++ {
		v, uw, err := wrapped(eval.NewContext(nil))
		require.NoError(t, err)
		require.Nil(t, uw)
		assert.Equal(t, value.Int(1), v)
	}
	assert.Equal(t, 3, tel.NodesEvaluated)
	assert.Len(t, events, 6)

	// Default config wraps nothing and costs nothing.
	same, _ := eval.Instrument(fn, eval.Config{}, nil)
	v, _, err := same(eval.NewContext(nil))
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v)
}
