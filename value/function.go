package value

import "github.com/east-lang/east/types"

// FunctionVal is a synchronous Function(T1,...,Tn) -> T value: a closure
// produced by the evaluator's compilation of an ir.Function node (spec
// §4.F.1). Functions have no order or equality beyond Go identity (spec
// §3.2); Compare panics if asked to order one, matching the "never
// expected in well-typed programs" contract of errs.InternalError - a
// type-checked IR never calls Less/Equal on a Function value.
type FunctionVal struct {
	typ *types.Type
	Fn  func(args []Value) (Value, error)
}

// NewFunction wraps fn as a FunctionVal of the given type.
func NewFunction(typ *types.Type, fn func(args []Value) (Value, error)) *FunctionVal {
	return &FunctionVal{typ: typ, Fn: fn}
}

func (f *FunctionVal) Type() *types.Type { return f.typ }

// Call invokes the closure synchronously.
func (f *FunctionVal) Call(args []Value) (Value, error) { return f.Fn(args) }

// AsyncFunctionVal is an AsyncFunction(T1,...,Tn) => T value: calling it
// starts the body running (spawned on its own goroutine, mapping the
// source's cooperative-scheduler suspension points onto real Go
// concurrency per spec §9's "Asynchrony" design note) and returns a
// Future immediately; CallAsync (spec §4.F.3) awaits it.
type AsyncFunctionVal struct {
	typ *types.Type
	Fn  func(args []Value) (*Future, error)
}

// NewAsyncFunction wraps fn as an AsyncFunctionVal of the given type.
func NewAsyncFunction(typ *types.Type, fn func(args []Value) (*Future, error)) *AsyncFunctionVal {
	return &AsyncFunctionVal{typ: typ, Fn: fn}
}

func (f *AsyncFunctionVal) Type() *types.Type { return f.typ }

// Call starts the async body and returns its eventual result as a Future.
func (f *AsyncFunctionVal) Call(args []Value) (*Future, error) { return f.Fn(args) }

// Future represents a pending AsyncFunction call result. It is not an
// East value in its own right (no East type denotes "pending T"); it is
// the evaluator's internal handle between a CallAsync's argument
// evaluation and its await.
type Future struct {
	done chan struct{}
	val  Value
	err  error
}

// NewFuture returns an unresolved Future and the resolve function its
// producer must call exactly once.
func NewFuture() (*Future, func(Value, error)) {
	f := &Future{done: make(chan struct{})}
	var resolved bool
	resolve := func(v Value, err error) {
		if resolved {
			return
		}
		resolved = true
		f.val, f.err = v, err
		close(f.done)
	}
	return f, resolve
}

// Await blocks the calling goroutine until the future resolves, then
// returns its value or error. Safe to call more than once (e.g. the same
// Future value reused); each call observes the same resolved outcome.
func (f *Future) Await() (Value, error) {
	<-f.done
	return f.val, f.err
}

// Resolved wraps an already-known (value, err) pair as a completed
// Future, for platform functions that are declared async but happen to
// finish synchronously.
func Resolved(v Value, err error) *Future {
	f, resolve := NewFuture()
	resolve(v, err)
	return f
}
