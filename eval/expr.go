package eval

import (
	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/internal/invariant"
	"github.com/east-lang/east/ir"
	"github.com/east-lang/east/value"
)

// compileParamFrame builds the child Context a Function/AsyncFunction
// call runs its body in: chained off the Context captured at the
// closure's definition site (lexical scoping, spec §4.F.1), with each
// parameter bound to its argument value.
func compileParamFrame(captured *Context, params []ir.Var, args []value.Value) *Context {
	frame := NewContext(captured)
	for i, p := range params {
		frame.Define(p.Name, args[i])
	}
	return frame
}

// bodyRunner is the elided-block body-runner shape spec §4.F.1 describes:
// a Function/AsyncFunction body that is itself an ir.Block runs its
// statements directly in the parameter frame rather than through a second,
// redundant compileBlock-allocated child Context.
func compileBodyRunner(body ir.Node, table *host.Table) (func(ctx *Context) (value.Value, Unwind, error), error) {
	if block, ok := body.(ir.Block); ok {
		return compileStmts(block.Stmts, table)
	}
	fn, err := Compile(body, table)
	if err != nil {
		return nil, err
	}
	return func(ctx *Context) (value.Value, Unwind, error) { return fn(ctx) }, nil
}

func compileFunction(n ir.Function, table *host.Table) (Callable, error) {
	bodyRun, err := compileBodyRunner(n.Body, table)
	if err != nil {
		return nil, err
	}
	params := n.Params
	resultType := n.ResultType()
	return func(ctx *Context) (value.Value, Unwind, error) {
		captured := ctx
		fn := value.NewFunction(resultType, func(args []value.Value) (value.Value, error) {
			frame := compileParamFrame(captured, params, args)
			result, uw, err := bodyRun(frame)
			if err != nil {
				return nil, err
			}
			if uw != nil {
				ret, ok := uw.(ReturnUnwind)
				invariant.Invariant(ok, "eval: a Break/Continue escaped a function body uncaught (%T) - checked IR guarantees every loop exit is bound inside its own function", uw)
				return ret.Value, nil
			}
			return result, nil
		})
		return fn, nil, nil
	}, nil
}

func compileAsyncFunction(n ir.AsyncFunction, table *host.Table) (Callable, error) {
	bodyRun, err := compileBodyRunner(n.Body, table)
	if err != nil {
		return nil, err
	}
	params := n.Params
	resultType := n.ResultType()
	return func(ctx *Context) (value.Value, Unwind, error) {
		captured := ctx
		fn := value.NewAsyncFunction(resultType, func(args []value.Value) (*value.Future, error) {
			future, resolve := value.NewFuture()
			// The body runs on its own goroutine (spec §9 "Asynchrony": map
			// to the target's task/future type); this is the one place
			// East's cooperative suspension model becomes a real goroutine,
			// so every `await` downstream is just blocking on a channel.
			go func() {
				frame := compileParamFrame(captured, params, args)
				result, uw, err := bodyRun(frame)
				if err != nil {
					resolve(nil, err)
					return
				}
				if uw != nil {
					ret, ok := uw.(ReturnUnwind)
					invariant.Invariant(ok, "eval: a Break/Continue escaped an async function body uncaught (%T) - checked IR guarantees every loop exit is bound inside its own function", uw)
					resolve(ret.Value, nil)
					return
				}
				resolve(result, nil)
			}()
			return future, nil
		})
		return fn, nil, nil
	}, nil
}

func compileCall(n ir.Call, table *host.Table) (Callable, error) {
	calleeFn, err := Compile(n.Callee, table)
	if err != nil {
		return nil, err
	}
	argFns, err := compileNodes(n.Args, table)
	if err != nil {
		return nil, err
	}
	loc := n.Location()
	return func(ctx *Context) (value.Value, Unwind, error) {
		cv, uw, err := calleeFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		args, auw, aerr := evalArgs(ctx, argFns)
		if aerr != nil || auw != nil {
			return nil, auw, aerr
		}
		fn, ok := cv.(*value.FunctionVal)
		if !ok {
			return nil, nil, errs.New(errs.InternalError, "eval: Call callee is not a Function (%T)", cv)
		}
		result, err := fn.Call(args)
		if err != nil {
			return nil, nil, pushFrame(err, loc)
		}
		return result, nil, nil
	}, nil
}

// compileCallAsync is the sole await point in the IR (spec §4.F.3):
// having obtained the callee's Future, it blocks until the Future
// resolves, right here in whatever goroutine is evaluating this node.
func compileCallAsync(n ir.CallAsync, table *host.Table) (Callable, error) {
	calleeFn, err := Compile(n.Callee, table)
	if err != nil {
		return nil, err
	}
	argFns, err := compileNodes(n.Args, table)
	if err != nil {
		return nil, err
	}
	loc := n.Location()
	return func(ctx *Context) (value.Value, Unwind, error) {
		cv, uw, err := calleeFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		args, auw, aerr := evalArgs(ctx, argFns)
		if aerr != nil || auw != nil {
			return nil, auw, aerr
		}
		fn, ok := cv.(*value.AsyncFunctionVal)
		if !ok {
			return nil, nil, errs.New(errs.InternalError, "eval: CallAsync callee is not an AsyncFunction (%T)", cv)
		}
		future, err := fn.Call(args)
		if err != nil {
			return nil, nil, pushFrame(err, loc)
		}
		result, err := future.Await()
		if err != nil {
			return nil, nil, pushFrame(err, loc)
		}
		return result, nil, nil
	}, nil
}

func compileNewRef(n ir.NewRef, table *host.Table) (Callable, error) {
	initFn, err := Compile(n.Init, table)
	if err != nil {
		return nil, err
	}
	elemType := n.ResultType().Elem()
	return func(ctx *Context) (value.Value, Unwind, error) {
		iv, uw, err := initFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		return value.NewRef(elemType, iv), nil, nil
	}, nil
}

func compileNewArray(n ir.NewArray, table *host.Table) (Callable, error) {
	elemFns, err := compileNodes(n.Elems, table)
	if err != nil {
		return nil, err
	}
	elemType := n.ResultType().Elem()
	return func(ctx *Context) (value.Value, Unwind, error) {
		items, uw, err := evalArgs(ctx, elemFns)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		return value.NewArray(elemType, items), nil, nil
	}, nil
}

func compileNewSet(n ir.NewSet, table *host.Table) (Callable, error) {
	elemFns, err := compileNodes(n.Elems, table)
	if err != nil {
		return nil, err
	}
	var resolverFn Callable
	if n.Resolver != nil {
		resolverFn, err = Compile(n.Resolver, table)
		if err != nil {
			return nil, err
		}
	}
	keyType := n.ResultType().Key()
	return func(ctx *Context) (value.Value, Unwind, error) {
		var resolver *value.FunctionVal
		if resolverFn != nil {
			rv, uw, err := resolverFn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			resolver = rv.(*value.FunctionVal)
		}
		set := container.NewSet(keyType)
		for _, elemFn := range elemFns {
			ev, uw, err := elemFn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			inserted, err := set.Insert(ev)
			if err != nil {
				return nil, nil, err
			}
			if !inserted {
				if resolver == nil {
					return nil, nil, errs.New(errs.DuplicateKey, "Set literal: duplicate element")
				}
				if _, err := resolver.Call([]value.Value{ev, ev}); err != nil {
					return nil, nil, err
				}
			}
		}
		return set, nil, nil
	}, nil
}

func compileNewDict(n ir.NewDict, table *host.Table) (Callable, error) {
	type compiledEntry struct {
		key Callable
		val Callable
	}
	entries := make([]compiledEntry, len(n.Entries))
	for i, e := range n.Entries {
		keyFn, err := Compile(e.Key, table)
		if err != nil {
			return nil, err
		}
		valFn, err := Compile(e.Val, table)
		if err != nil {
			return nil, err
		}
		entries[i] = compiledEntry{key: keyFn, val: valFn}
	}
	var resolverFn Callable
	var err error
	if n.Resolver != nil {
		resolverFn, err = Compile(n.Resolver, table)
		if err != nil {
			return nil, err
		}
	}
	keyType, valType := n.ResultType().Key(), n.ResultType().Elem()
	return func(ctx *Context) (value.Value, Unwind, error) {
		var resolver *value.FunctionVal
		if resolverFn != nil {
			rv, uw, err := resolverFn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			resolver = rv.(*value.FunctionVal)
		}
		dict := container.NewDict(keyType, valType)
		for _, e := range entries {
			kv, uw, err := e.key(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			vv, uw, err := e.val(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			had, err := dict.Has(kv)
			if err != nil {
				return nil, nil, err
			}
			if had {
				if resolver == nil {
					return nil, nil, errs.New(errs.DuplicateKey, "Dict literal: duplicate key")
				}
				existing, _, getErr := dict.Get(kv)
				if getErr != nil {
					return nil, nil, getErr
				}
				merged, mergeErr := resolver.Call([]value.Value{existing, vv})
				if mergeErr != nil {
					return nil, nil, mergeErr
				}
				vv = merged
			}
			if _, err := dict.Insert(kv, vv); err != nil {
				return nil, nil, err
			}
		}
		return dict, nil, nil
	}, nil
}

func compileStruct(n ir.Struct, table *host.Table) (Callable, error) {
	type compiledField struct {
		fn Callable
	}
	fns := make([]compiledField, len(n.Fields))
	for i, f := range n.Fields {
		fn, err := Compile(f.Value, table)
		if err != nil {
			return nil, err
		}
		fns[i] = compiledField{fn: fn}
	}
	structType := n.ResultType()
	return func(ctx *Context) (value.Value, Unwind, error) {
		fieldVals := make([]value.Value, len(fns))
		for i, f := range fns {
			fv, uw, err := f.fn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			fieldVals[i] = fv
		}
		return value.NewStruct(structType, fieldVals), nil, nil
	}, nil
}

func compileGetField(n ir.GetField, table *host.Table) (Callable, error) {
	subjectFn, err := Compile(n.Subject, table)
	if err != nil {
		return nil, err
	}
	field := n.Field
	return func(ctx *Context) (value.Value, Unwind, error) {
		sv, uw, err := subjectFn(ctx)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		result, err := sv.(value.StructVal).Get(field)
		if err != nil {
			return nil, nil, err
		}
		return result, nil, nil
	}, nil
}

func compileVariant(n ir.Variant, table *host.Table) (Callable, error) {
	var payloadFn Callable
	if n.Payload != nil {
		var err error
		payloadFn, err = Compile(n.Payload, table)
		if err != nil {
			return nil, err
		}
	}
	variantType, caseName := n.VariantType, n.Case
	return func(ctx *Context) (value.Value, Unwind, error) {
		var payload value.Value = value.NewNull()
		if payloadFn != nil {
			pv, uw, err := payloadFn(ctx)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			payload = pv
		}
		return value.NewVariant(variantType, caseName, payload), nil, nil
	}, nil
}
