package eval

import (
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/internal/invariant"
	"github.com/east-lang/east/ir"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// compileStmts compiles a statement sequence to run directly in whatever
// Context the caller hands it - no child scope of its own. compileBlock
// wraps this in a fresh child Context for a standalone ir.Block; compileFunction/
// compileAsyncFunction instead run it directly in the parameter frame
// they already allocated (spec §4.F.1: "a second fresh context is elided
// whenever the parent has already allocated one").
func compileStmts(stmts []ir.Node, table *host.Table) (func(ctx *Context) (value.Value, Unwind, error), error) {
	fns, err := compileNodes(stmts, table)
	if err != nil {
		return nil, err
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		var result value.Value = value.NewNull()
		for _, fn := range fns {
			v, uw, err := fn(ctx)
			if err != nil {
				return nil, nil, err
			}
			if uw != nil {
				return nil, uw, nil
			}
			result = v
		}
		return result, nil, nil
	}, nil
}

func compileBlock(n ir.Block, table *host.Table) (Callable, error) {
	run, err := compileStmts(n.Stmts, table)
	if err != nil {
		return nil, err
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		return run(NewContext(ctx))
	}, nil
}

func compileIfElse(n ir.IfElse, table *host.Table) (Callable, error) {
	condFn, err := Compile(n.Cond, table)
	if err != nil {
		return nil, err
	}
	thenFn, err := Compile(n.Then, table)
	if err != nil {
		return nil, err
	}
	var elseFn Callable
	if n.Else != nil {
		elseFn, err = Compile(n.Else, table)
		if err != nil {
			return nil, err
		}
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		cv, uw, err := condFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		if bool(cv.(value.Bool)) {
			return thenFn(ctx)
		}
		if elseFn != nil {
			return elseFn(ctx)
		}
		return value.NewNull(), nil, nil
	}, nil
}

func compileMatch(n ir.Match, table *host.Table) (Callable, error) {
	subjectFn, err := Compile(n.Subject, table)
	if err != nil {
		return nil, err
	}
	type compiledCase struct {
		caseName string
		varName  string
		body     Callable
	}
	cases := make([]compiledCase, len(n.Cases))
	for i, c := range n.Cases {
		bodyFn, err := Compile(c.Body, table)
		if err != nil {
			return nil, err
		}
		cases[i] = compiledCase{caseName: c.CaseName, varName: c.VarName, body: bodyFn}
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		sv, uw, err := subjectFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		variant := sv.(value.VariantVal)
		for _, c := range cases {
			if c.caseName != variant.Case {
				continue
			}
			child := NewContext(ctx)
			if c.varName != "" {
				child.Define(c.varName, variant.Payload)
			}
			return c.body(child)
		}
		invariant.Invariant(false, "eval: Match has no case for tag %q - checked IR guarantees exhaustive case coverage", variant.Case)
		return nil, nil, nil
	}, nil
}

// loopSignal is what resolveLoopUnwind makes of a loop body's unwind
// (spec §4.F.6): "stop the loop", "continue the loop", or "propagate
// outward" relative to the loop's label.
type loopSignal int

const (
	loopContinue loopSignal = iota
	loopBreak
	loopPropagate
)

func resolveLoopUnwind(uw Unwind, label string) (loopSignal, Unwind) {
	switch u := uw.(type) {
	case BreakUnwind:
		if u.Label == "" || u.Label == label {
			return loopBreak, nil
		}
		return loopPropagate, uw
	case ContinueUnwind:
		if u.Label == "" || u.Label == label {
			return loopContinue, nil
		}
		return loopPropagate, uw
	default: // ReturnUnwind, or anything else - always propagates past a loop
		return loopPropagate, uw
	}
}

func compileWhile(n ir.While, table *host.Table) (Callable, error) {
	condFn, err := Compile(n.Cond, table)
	if err != nil {
		return nil, err
	}
	bodyFn, err := Compile(n.Body, table)
	if err != nil {
		return nil, err
	}
	label := n.Label
	return func(ctx *Context) (value.Value, Unwind, error) {
		for {
			cv, uw, err := condFn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			if !bool(cv.(value.Bool)) {
				return value.NewNull(), nil, nil
			}
			_, buw, berr := bodyFn(NewContext(ctx))
			if berr != nil {
				return nil, nil, berr
			}
			if buw != nil {
				sig, out := resolveLoopUnwind(buw, label)
				switch sig {
				case loopBreak:
					return value.NewNull(), nil, nil
				case loopPropagate:
					return nil, out, nil
				}
				// loopContinue: fall through to re-check Cond.
			}
		}
	}, nil
}

func compileForArray(n ir.ForArray, table *host.Table) (Callable, error) {
	arrFn, err := Compile(n.Array, table)
	if err != nil {
		return nil, err
	}
	bodyFn, err := Compile(n.Body, table)
	if err != nil {
		return nil, err
	}
	label, elemName := n.Label, n.ElemVar.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		av, uw, err := arrFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		arr := av.(*value.ArrayVal)
		release := arr.Lock()
		defer release()
		for _, elem := range arr.Snapshot() {
			child := NewContext(ctx)
			child.Define(elemName, elem)
			_, buw, berr := bodyFn(child)
			if berr != nil {
				return nil, nil, berr
			}
			if buw != nil {
				sig, out := resolveLoopUnwind(buw, label)
				switch sig {
				case loopBreak:
					return value.NewNull(), nil, nil
				case loopPropagate:
					return nil, out, nil
				}
				continue
			}
		}
		return value.NewNull(), nil, nil
	}, nil
}

func compileForSet(n ir.ForSet, table *host.Table) (Callable, error) {
	setFn, err := Compile(n.Set, table)
	if err != nil {
		return nil, err
	}
	bodyFn, err := Compile(n.Body, table)
	if err != nil {
		return nil, err
	}
	label, elemName := n.Label, n.ElemVar.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		sv, uw, err := setFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		set := sv.(*container.Set)
		release := set.Lock()
		defer release()
		for _, elem := range set.ToArray() {
			child := NewContext(ctx)
			child.Define(elemName, elem)
			_, buw, berr := bodyFn(child)
			if berr != nil {
				return nil, nil, berr
			}
			if buw != nil {
				sig, out := resolveLoopUnwind(buw, label)
				switch sig {
				case loopBreak:
					return value.NewNull(), nil, nil
				case loopPropagate:
					return nil, out, nil
				}
				continue
			}
		}
		return value.NewNull(), nil, nil
	}, nil
}

func compileForDict(n ir.ForDict, table *host.Table) (Callable, error) {
	dictFn, err := Compile(n.Dict, table)
	if err != nil {
		return nil, err
	}
	bodyFn, err := Compile(n.Body, table)
	if err != nil {
		return nil, err
	}
	label, keyName, valName := n.Label, n.KeyVar.Name, n.ValVar.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		dv, uw, err := dictFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		dict := dv.(*container.Dict)
		release := dict.Lock()
		defer release()
		for _, key := range dict.Keys() {
			val, _, getErr := dict.Get(key)
			if getErr != nil {
				return nil, nil, getErr
			}
			child := NewContext(ctx)
			child.Define(keyName, key)
			child.Define(valName, val)
			_, buw, berr := bodyFn(child)
			if berr != nil {
				return nil, nil, berr
			}
			if buw != nil {
				sig, out := resolveLoopUnwind(buw, label)
				switch sig {
				case loopBreak:
					return value.NewNull(), nil, nil
				case loopPropagate:
					return nil, out, nil
				}
				continue
			}
		}
		return value.NewNull(), nil, nil
	}, nil
}

func compileReturn(n ir.Return, table *host.Table) (Callable, error) {
	valFn, err := Compile(n.Value, table)
	if err != nil {
		return nil, err
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		v, uw, err := valFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		return nil, ReturnUnwind{Value: v}, nil
	}, nil
}

func compileContinue(n ir.Continue) (Callable, error) {
	label := n.Label
	return func(ctx *Context) (value.Value, Unwind, error) {
		return nil, ContinueUnwind{Label: label}, nil
	}, nil
}

func compileBreak(n ir.Break) (Callable, error) {
	label := n.Label
	return func(ctx *Context) (value.Value, Unwind, error) {
		return nil, BreakUnwind{Label: label}, nil
	}, nil
}

func compileError(n ir.Error, table *host.Table) (Callable, error) {
	msgFn, err := Compile(n.Message, table)
	if err != nil {
		return nil, err
	}
	loc := n.Location()
	return func(ctx *Context) (value.Value, Unwind, error) {
		mv, uw, err := msgFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		msg := string(mv.(value.Str))
		e := errs.New(errs.UserError, "%s", msg).PushFrame(locString(loc))
		return nil, nil, e
	}, nil
}

// stackArray turns an *errs.Error's call-site stack into the East
// Array(String) value TryCatch's optional stack variable binds to.
func stackArray(e *errs.Error) value.Value {
	items := make([]value.Value, len(e.Stack))
	for i, f := range e.Stack {
		items[i] = value.NewStr(f.Location)
	}
	return value.NewArray(types.StringType(), items)
}

func compileTryCatch(n ir.TryCatch, table *host.Table) (Callable, error) {
	tryFn, err := Compile(n.Try, table)
	if err != nil {
		return nil, err
	}
	var catchFn Callable
	if n.Catch != nil {
		catchFn, err = Compile(n.Catch, table)
		if err != nil {
			return nil, err
		}
	}
	var finallyFn Callable
	if n.Finally != nil {
		finallyFn, err = Compile(n.Finally, table)
		if err != nil {
			return nil, err
		}
	}
	catchVar, stackVar := n.CatchVar.Name, n.StackVar.Name
	return func(ctx *Context) (value.Value, Unwind, error) {
		val, uw, err := tryFn(ctx)

		// spec §4.F.5/§7: only a catchable *errs.Error (not InternalError,
		// not a raw host exception that escaped a Platform call) runs catch.
		if err != nil && catchFn != nil {
			if e, ok := err.(*errs.Error); ok && e.Kind != errs.InternalError {
				child := NewContext(ctx)
				if catchVar != "" {
					child.Define(catchVar, value.NewStr(e.Message))
				}
				if stackVar != "" {
					child.Define(stackVar, stackArray(e))
				}
				val, uw, err = catchFn(child)
			}
		}

		// finally always runs, on every exit path (spec §4.F.5/§5), and its
		// own control flow (a return/break/continue inside finally, or a
		// raised error) overrides whatever the try/catch produced.
		if finallyFn != nil {
			_, fuw, ferr := finallyFn(NewContext(ctx))
			if ferr != nil {
				return nil, nil, ferr
			}
			if fuw != nil {
				return nil, fuw, nil
			}
		}
		return val, uw, err
	}, nil
}
