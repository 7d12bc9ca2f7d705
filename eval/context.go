package eval

import "github.com/east-lang/east/value"

// Cell is a one-slot mutable variable binding (spec §4.F.1: "mutable
// variables are boxed into one-slot cells"). Every binding is boxed
// uniformly here rather than only the ones ir.Var.Captured marks - a
// single representation keeps Context trivial, and the Captured flag
// still does its real job at IR-construction time (deciding which
// outer-scope cells a Function/AsyncFunction node lists in Captures).
type Cell struct {
	Value value.Value
}

// Context is one lexical scope: a frame of name-to-cell bindings plus a
// link to its enclosing scope. Block introduces a child Context per
// entry; Function/AsyncFunction closures capture the Context active at
// their definition site (an ordinary Go closure over a *Context), so a
// call's parameter frame chains to the defining scope rather than the
// calling scope - lexical, not dynamic, scoping.
type Context struct {
	vars   map[string]*Cell
	parent *Context
}

// NewContext returns a fresh scope chained to parent (nil for the
// outermost/global scope).
func NewContext(parent *Context) *Context {
	return &Context{vars: make(map[string]*Cell), parent: parent}
}

// Define introduces a new binding in this scope (ir.Let, function
// parameter binding, for-loop element binding, catch binding).
func (c *Context) Define(name string, v value.Value) {
	c.vars[name] = &Cell{Value: v}
}

// Lookup resolves name to its cell, searching outward through enclosing
// scopes. The IR builder guarantees every Variable/Assign node's Var.Name
// resolves to a binding that is in scope; a miss here is an East bug, not
// a user error.
func (c *Context) Lookup(name string) (*Cell, bool) {
	for s := c; s != nil; s = s.parent {
		if cell, ok := s.vars[name]; ok {
			return cell, true
		}
	}
	return nil, false
}
