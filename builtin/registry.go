// Package builtin implements East's builtin operator library (spec
// §4.E): fixed-arity, fixed-signature primitive operators over
// package value's runtime values.
//
// Grounded on core/decorator/registry.go's database/sql-style global
// registry: a sync.RWMutex-guarded name→implementation map. There are two
// such maps: one for plain Funcs and one for TypedFuncs, which also take
// the IR node's type_params; a name belongs to exactly one of them. The
// eval package's Builtin-node compiler resolves a name to its Func
// once at IR-compile time (spec §4.E: "the evaluator looks it up once at
// compile time, not per call"), never re-consulting the registry per
// invocation.
package builtin

import (
	"sync"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// Func is a synchronous builtin implementation for the (large) majority
// of operators that need no static type beyond what their argument
// values already carry via value.Value.Type().
type Func func(args []value.Value) (value.Value, error)

// TypedFunc is a builtin that needs the IR Builtin node's type_params
// (spec §4.D "Builtin(name, type_params, args)") because it constructs a
// value of a type no argument value already carries - the Parse/JSON-
// parse/binary-decode family, whose input is a bare String/Blob with the
// target type supplied statically.
type TypedFunc func(typeParams []*types.Type, args []value.Value) (value.Value, error)

var (
	mu       sync.RWMutex
	registry = map[string]Func{}
	typedReg = map[string]TypedFunc{}
)

// Register adds fn under name. Called from package init() in the family
// files (primitive.go, string.go, ...); panics on a duplicate name since
// that is always a programming error in this package, never a runtime
// condition.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		panic("builtin: duplicate registration for " + name)
	}
	registry[name] = fn
}

// Lookup resolves name to its Func, as the eval package's Builtin-node
// compiler does once per IR node at compile time.
func Lookup(name string) (Func, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// MustLookup is Lookup's panicking form, for call sites (tests, and
// builtins that compose other builtins) that already know name is
// registered.
func MustLookup(name string) Func {
	fn, ok := Lookup(name)
	if !ok {
		panic(errs.New(errs.InternalError, "builtin: %q is not registered", name))
	}
	return fn
}

// RegisterTyped adds fn, a type-parametric builtin, under name. Panics on
// a duplicate name or if name is also registered as a plain Func - a name
// belongs to exactly one of the two registries.
func RegisterTyped(name string, fn TypedFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := typedReg[name]; exists {
		panic("builtin: duplicate typed registration for " + name)
	}
	if _, exists := registry[name]; exists {
		panic("builtin: " + name + " already registered as a plain Func")
	}
	typedReg[name] = fn
}

// LookupTyped resolves name to its TypedFunc. The eval package's
// Builtin-node compiler consults this before the plain registry, since a
// handful of operators (Parse, StringParseJSON, the binary decoders) need
// the IR node's type_params to construct their result.
func LookupTyped(name string) (TypedFunc, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := typedReg[name]
	return fn, ok
}
