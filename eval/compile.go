// Package eval implements East's closure evaluator (spec §4.F): it
// compiles a checked ir.Node into a Callable - an ordinary Go closure -
// and dispatches sync/async execution and typed unwinds (return/break/
// continue) as plain returned values rather than panic/recover (spec §9's
// "exception-as-control-flow" redesign note).
//
// Grounded on core/decorator/exec.go's recursive "compile an AST node
// into a closure over its already-compiled children" shape, generalized
// from Opal's flat decorator tree to East's full IR node set.
package eval

import (
	"fmt"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/ir"
	"github.com/east-lang/east/value"
)

// Callable is a compiled IR node: given the runtime Context active at its
// evaluation point, it produces a value, or an in-flight Unwind, or an
// error. Exactly one of (value, non-nil Unwind) is meaningful on a nil
// error; a non-nil error means neither does.
//
// There is deliberately one Callable shape for both the sync and async
// paths spec §4.F.3 describes. Go's goroutines already give East's
// AsyncFunction values their own suspension context (value.NewAsyncFunction's
// Fn spawns one - see compileAsyncFunction in expr.go), so "await" is simply
// blocking on a value.Future from whatever goroutine is running: the
// calling goroutine for a top-level CallAsync, or the AsyncFunction's own
// goroutine when the await is inside another async body. No second,
// continuation-passing code path is needed to get the same suspension
// semantics spec §4.F.3 asks for.
type Callable func(ctx *Context) (value.Value, Unwind, error)

// Compile lowers a checked IR node to a Callable (spec §4.F.1). table is
// the platform effect table Platform nodes dispatch through; it may be
// nil for IR that is known not to contain Platform nodes (e.g. in tests).
func Compile(node ir.Node, table *host.Table) (Callable, error) {
	switch n := node.(type) {

	case ir.Value:
		return compileValue(n)
	case ir.As:
		return compileAs(n, table)
	case ir.UnwrapRecursive:
		return compileTransparent(n.Expr, table)
	case ir.WrapRecursive:
		return compileTransparent(n.Expr, table)
	case ir.Variable:
		return compileVariable(n)
	case ir.Let:
		return compileLet(n, table)
	case ir.Assign:
		return compileAssign(n, table)
	case ir.Block:
		return compileBlock(n, table)
	case ir.IfElse:
		return compileIfElse(n, table)
	case ir.Match:
		return compileMatch(n, table)
	case ir.While:
		return compileWhile(n, table)
	case ir.ForArray:
		return compileForArray(n, table)
	case ir.ForSet:
		return compileForSet(n, table)
	case ir.ForDict:
		return compileForDict(n, table)
	case ir.Return:
		return compileReturn(n, table)
	case ir.Continue:
		return compileContinue(n)
	case ir.Break:
		return compileBreak(n)
	case ir.Error:
		return compileError(n, table)
	case ir.TryCatch:
		return compileTryCatch(n, table)

	case ir.Function:
		return compileFunction(n, table)
	case ir.AsyncFunction:
		return compileAsyncFunction(n, table)
	case ir.Call:
		return compileCall(n, table)
	case ir.CallAsync:
		return compileCallAsync(n, table)
	case ir.NewRef:
		return compileNewRef(n, table)
	case ir.NewArray:
		return compileNewArray(n, table)
	case ir.NewSet:
		return compileNewSet(n, table)
	case ir.NewDict:
		return compileNewDict(n, table)
	case ir.Struct:
		return compileStruct(n, table)
	case ir.GetField:
		return compileGetField(n, table)
	case ir.Variant:
		return compileVariant(n, table)

	case ir.Builtin:
		return compileBuiltin(n, table)
	case ir.Platform:
		return compilePlatform(n, table)

	default:
		return nil, errs.New(errs.InternalError, "eval: Compile: unhandled IR node type %T", node)
	}
}

// compileValue wraps a pre-built literal (spec: "a literal constant of a
// given type"). node.Const is carried as interface{} in ir.Value since
// package ir cannot import package value (see ir.Value's doc comment);
// this is the one place that type-assertion gets unwound.
func compileValue(n ir.Value) (Callable, error) {
	v, ok := n.Const.(value.Value)
	if !ok {
		return nil, errs.New(errs.InternalError, "eval: ir.Value.Const is not a value.Value (%T)", n.Const)
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		return v, nil, nil
	}, nil
}

// compileAs is a checked upcast: a no-op at runtime beyond the static
// result type change the checker already applied (spec §3.1.2).
func compileAs(n ir.As, table *host.Table) (Callable, error) {
	return compileTransparent(n.Expr, table)
}

// compileTransparent compiles expr and returns its value unchanged - used
// by As, UnwrapRecursive, and WrapRecursive, none of which have runtime
// representation of their own (spec §3.1: Recursive unfolding is
// type-level; the underlying value is already whatever its body type
// produces).
func compileTransparent(expr ir.Node, table *host.Table) (Callable, error) {
	fn, err := Compile(expr, table)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func compileVariable(n ir.Variable) (Callable, error) {
	name := n.Var.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		cell, ok := ctx.Lookup(name)
		if !ok {
			return nil, nil, errs.New(errs.InternalError, "eval: unresolved variable %q", name)
		}
		return cell.Value, nil, nil
	}, nil
}

func compileLet(n ir.Let, table *host.Table) (Callable, error) {
	valFn, err := Compile(n.Value, table)
	if err != nil {
		return nil, err
	}
	name := n.Var.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		v, uw, err := valFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		ctx.Define(name, v)
		return v, nil, nil
	}, nil
}

func compileAssign(n ir.Assign, table *host.Table) (Callable, error) {
	valFn, err := Compile(n.Value, table)
	if err != nil {
		return nil, err
	}
	name := n.Var.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		v, uw, err := valFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		cell, ok := ctx.Lookup(name)
		if !ok {
			return nil, nil, errs.New(errs.InternalError, "eval: assign to unresolved variable %q", name)
		}
		cell.Value = v
		return v, nil, nil
	}, nil
}

// evalArgs evaluates argFns in order (spec §5: "arguments to a call are
// evaluated left-to-right"), stopping at the first unwind or error.
func evalArgs(ctx *Context, argFns []Callable) ([]value.Value, Unwind, error) {
	vals := make([]value.Value, len(argFns))
	for i, fn := range argFns {
		v, uw, err := fn(ctx)
		if err != nil {
			return nil, nil, err
		}
		if uw != nil {
			return nil, uw, nil
		}
		vals[i] = v
	}
	return vals, nil, nil
}

// compileNodes compiles a slice of IR nodes independently.
func compileNodes(nodes []ir.Node, table *host.Table) ([]Callable, error) {
	fns := make([]Callable, len(nodes))
	for i, n := range nodes {
		fn, err := Compile(n, table)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return fns, nil
}

// locString renders an ir.Loc for an error stack frame (spec §4.F.2).
func locString(loc ir.Loc) string {
	if loc.Note != "" {
		return loc.Note
	}
	return fmt.Sprintf("line %d col %d", loc.Line, loc.Col)
}

// pushFrame appends loc to err's stack if err is a catchable *errs.Error,
// leaving any other error untouched (spec §4.F.2: "a Call appends its
// call-site location before rethrowing").
func pushFrame(err error, loc ir.Loc) error {
	if e, ok := err.(*errs.Error); ok {
		return e.PushFrame(locString(loc))
	}
	return err
}
