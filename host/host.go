// Package host implements the engine's boundary into a platform (spec
// §4.I, §6.4): the effect table the evaluator dispatches Platform(name,
// args) nodes through, plus the regex and Unicode case-mapping services
// the builtin library needs.
//
// Grounded on core/decorator/registry.go's sync.RWMutex-guarded
// name-to-implementation map. Sync and async platform functions are
// registered explicitly, through Register and RegisterAsync, into two
// separate maps; IsAsync reports which of the two holds a name.
package host

import (
	"sync"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/value"
)

// Func is a synchronous platform function.
type Func func(args []value.Value) (value.Value, error)

// AsyncFunc is an asynchronous platform function; it returns a Future the
// evaluator's CallAsync path awaits.
type AsyncFunc func(args []value.Value) (*value.Future, error)

// Table is the platform effect table a host hands the evaluator (spec
// §6.4 platform_table + async_platforms). Safe for concurrent registration
// and lookup, matching the teacher registry's locking discipline.
type Table struct {
	mu     sync.RWMutex
	sync_  map[string]Func
	async_ map[string]AsyncFunc
}

// NewTable returns an empty platform table.
func NewTable() *Table {
	return &Table{sync_: map[string]Func{}, async_: map[string]AsyncFunc{}}
}

// Register adds a synchronous platform function under name.
func (t *Table) Register(name string, fn Func) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sync_[name] = fn
}

// RegisterAsync adds an asynchronous platform function under name.
func (t *Table) RegisterAsync(name string, fn AsyncFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.async_[name] = fn
}

// IsAsync reports whether name was registered via RegisterAsync (spec
// §4.D: "the engine must know per-platform-function whether it is
// async").
func (t *Table) IsAsync(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.async_[name]
	return ok
}

// Call invokes a synchronous platform function.
func (t *Table) Call(name string, args []value.Value) (value.Value, error) {
	t.mu.RLock()
	fn, ok := t.sync_[name]
	t.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.InternalError, "host: no platform function registered as %q", name)
	}
	return fn(args)
}

// CallAsync invokes an asynchronous platform function, returning its Future.
func (t *Table) CallAsync(name string, args []value.Value) (*value.Future, error) {
	t.mu.RLock()
	fn, ok := t.async_[name]
	t.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.InternalError, "host: no async platform function registered as %q", name)
	}
	return fn(args)
}
