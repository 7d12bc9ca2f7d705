package eval

import (
	"github.com/east-lang/east/builtin"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/ir"
	"github.com/east-lang/east/value"
)

// compileBuiltin resolves name once at compile time (spec §4.E: "the
// evaluator looks it up once at compile time, not per call"), consulting
// the type-parametric registry first since a handful of names (Parse,
// StringParseJSON, the binary decoders) are registered there instead of
// the plain one.
func compileBuiltin(n ir.Builtin, table *host.Table) (Callable, error) {
	argFns, err := compileNodes(n.Args, table)
	if err != nil {
		return nil, err
	}
	name := n.Name
	loc := n.Location()

	if typed, ok := builtin.LookupTyped(name); ok {
		typeParams := n.TypeParams
		return func(ctx *Context) (value.Value, Unwind, error) {
			args, uw, err := evalArgs(ctx, argFns)
			if err != nil || uw != nil {
				return nil, uw, err
			}
			result, err := typed(typeParams, args)
			if err != nil {
				return nil, nil, pushFrame(err, loc)
			}
			return result, nil, nil
		}, nil
	}

	fn, ok := builtin.Lookup(name)
	if !ok {
		return nil, errs.New(errs.InternalError, "eval: no builtin registered as %q", name)
	}
	return func(ctx *Context) (value.Value, Unwind, error) {
		args, uw, err := evalArgs(ctx, argFns)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		result, err := fn(args)
		if err != nil {
			return nil, nil, pushFrame(err, loc)
		}
		return result, nil, nil
	}, nil
}

// compilePlatform dispatches Platform(name, args) to the host's effect
// table (spec §4.D/§4.F.4/§6.4). An async platform function's result is
// awaited immediately: the Platform node itself is the suspension point,
// whether or not it sits inside an ir.CallAsync - the evaluator "knows
// per-platform-function whether it is async" via node.IsAsync(), which
// the IR builder keeps consistent with host.Table.IsAsync (see
// ir.Platform's doc comment).
func compilePlatform(n ir.Platform, table *host.Table) (Callable, error) {
	argFns, err := compileNodes(n.Args, table)
	if err != nil {
		return nil, err
	}
	name := n.Name
	async := n.IsAsync()
	loc := n.Location()
	return func(ctx *Context) (value.Value, Unwind, error) {
		if table == nil {
			return nil, nil, errs.New(errs.InternalError, "eval: Platform(%q) called with a nil host.Table", name)
		}
		args, uw, err := evalArgs(ctx, argFns)
		if err != nil || uw != nil {
			return nil, uw, err
		}
		if async {
			future, err := table.CallAsync(name, args)
			if err != nil {
				return nil, nil, pushFrame(err, loc)
			}
			result, err := future.Await()
			if err != nil {
				return nil, nil, pushFrame(err, loc)
			}
			return result, nil, nil
		}
		result, err := table.Call(name, args)
		if err != nil {
			return nil, nil, pushFrame(err, loc)
		}
		return result, nil, nil
	}, nil
}
