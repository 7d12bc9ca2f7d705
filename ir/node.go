// Package ir implements East's intermediate representation (spec §4.D): a
// tagged tree of executable nodes, each carrying its result type, source
// location, and an isAsync marker, that the evaluator (package eval)
// compiles into a callable.
//
// Grounded on core/ir/types.go's tagged-union node style: a closed Node
// interface with one concrete struct per case and a NodeType() string
// discriminant, json:",omitempty" tags throughout for the same
// debug/golden-dump purpose the teacher's IR serves for its execution
// plans (IR serialization itself is out of scope per spec §6.3, but a
// printable tree earns its keep in tests).
package ir

import "github.com/east-lang/east/types"

// Loc is a source location attached to every node (spec §4.D: "Each node
// carries its result type and source location"). The shape is
// deliberately minimal since the host-facing AST/builder producing these
// is out of scope (spec §1); hosts that want richer spans can stash them
// in Note.
type Loc struct {
	Line, Col int
	Note      string
}

// Node is any IR tree node.
type Node interface {
	NodeType() string
	ResultType() *types.Type
	Location() Loc
	IsAsync() bool
}

// base is embedded by every concrete node; it implements Node's
// location/type/async accessors uniformly, the way core/ir/types.go's
// node structs share common bookkeeping fields.
type base struct {
	Type_  *types.Type `json:"type"`
	Loc_   Loc         `json:"loc,omitempty"`
	Async_ bool        `json:"async,omitempty"`
}

func (b base) ResultType() *types.Type { return b.Type_ }
func (b base) Location() Loc           { return b.Loc_ }
func (b base) IsAsync() bool           { return b.Async_ }

// Var is a resolved variable reference: name, static type, whether its
// binding site permits reassignment, and whether it is captured by a
// closure crossing a Function/AsyncFunction boundary (spec §4.D:
// "Variables are resolved to name+type+mutability+captured flags").
// Captured is computed once during IR construction, not re-derived at
// compile time; the evaluator (package eval) boxes every binding, captured
// or not, into a one-slot cell and does not read this flag.
type Var struct {
	Name     string      `json:"name"`
	Type     *types.Type `json:"type"`
	Mutable  bool        `json:"mutable,omitempty"`
	Captured bool        `json:"captured,omitempty"`
}
