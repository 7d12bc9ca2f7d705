package ir

import (
	"github.com/east-lang/east/internal/invariant"
	"github.com/east-lang/east/types"
)

// This file holds the constructors for every IR node kind that spec §6.3
// asks implementers to expose; the compile entry point is eval.Compile (the fluent,
// host-facing AST builder that produces these nodes in the first place is
// out of scope per spec §1 - these are the checked IR's own constructors,
// one call per node kind, each setting base.Type_/Loc_/Async_ from its
// children so a caller never touches the unexported base field itself).

func mk(t *types.Type, loc Loc, async bool) base {
	return base{Type_: t, Loc_: loc, Async_: async}
}

func anyAsync(nodes ...Node) bool {
	for _, n := range nodes {
		if n != nil && n.IsAsync() {
			return true
		}
	}
	return false
}

func NewValueNode(t *types.Type, loc Loc, v interface{}) Node {
	return Value{base: mk(t, loc, false), Const: v}
}

func NewAs(t *types.Type, loc Loc, expr Node) Node {
	return As{base: mk(t, loc, anyAsync(expr)), Expr: expr}
}

func NewUnwrapRecursive(t *types.Type, loc Loc, expr Node) Node {
	return UnwrapRecursive{base: mk(t, loc, anyAsync(expr)), Expr: expr}
}

func NewWrapRecursive(recType *types.Type, loc Loc, expr Node) Node {
	return WrapRecursive{base: mk(recType, loc, anyAsync(expr)), RecType: recType, Expr: expr}
}

func NewVariable(v Var, loc Loc) Node {
	return Variable{base: mk(v.Type, loc, false), Var: v}
}

func NewLet(v Var, loc Loc, val Node) Node {
	return Let{base: mk(v.Type, loc, anyAsync(val)), Var: v, Value: val}
}

func NewAssign(v Var, loc Loc, val Node) Node {
	return Assign{base: mk(v.Type, loc, anyAsync(val)), Var: v, Value: val}
}

func NewBlock(t *types.Type, loc Loc, stmts ...Node) Node {
	return Block{base: mk(t, loc, anyAsync(stmts...)), Stmts: stmts}
}

func NewIfElse(t *types.Type, loc Loc, cond, then, els Node) Node {
	return IfElse{base: mk(t, loc, anyAsync(cond, then, els)), Cond: cond, Then: then, Else: els}
}

func NewMatch(t *types.Type, loc Loc, subject Node, cases []MatchCase) Node {
	invariant.Invariant(len(cases) > 0, "ir.NewMatch: a Match node must have at least one case")
	async := anyAsync(subject)
	for _, c := range cases {
		if anyAsync(c.Body) {
			async = true
		}
	}
	return Match{base: mk(t, loc, async), Subject: subject, Cases: cases}
}

func NewWhile(loc Loc, label string, cond, body Node) Node {
	return While{base: mk(types.NullType(), loc, anyAsync(cond, body)), Label: label, Cond: cond, Body: body}
}

func NewForArray(loc Loc, label string, array Node, elemVar Var, body Node) Node {
	return ForArray{base: mk(types.NullType(), loc, anyAsync(array, body)), Label: label, Array: array, ElemVar: elemVar, Body: body}
}

func NewForSet(loc Loc, label string, set Node, elemVar Var, body Node) Node {
	return ForSet{base: mk(types.NullType(), loc, anyAsync(set, body)), Label: label, Set: set, ElemVar: elemVar, Body: body}
}

func NewForDict(loc Loc, label string, dict Node, keyVar, valVar Var, body Node) Node {
	return ForDict{base: mk(types.NullType(), loc, anyAsync(dict, body)), Label: label, Dict: dict, KeyVar: keyVar, ValVar: valVar, Body: body}
}

func NewReturn(loc Loc, val Node) Node {
	return Return{base: mk(types.NeverType(), loc, anyAsync(val)), Value: val}
}

func NewContinue(loc Loc, label string) Node {
	return Continue{base: mk(types.NeverType(), loc, false), Label: label}
}

func NewBreak(loc Loc, label string) Node {
	return Break{base: mk(types.NeverType(), loc, false), Label: label}
}

func NewError(loc Loc, msg Node) Node {
	return Error{base: mk(types.NeverType(), loc, anyAsync(msg)), Message: msg}
}

func NewTryCatch(t *types.Type, loc Loc, try Node, catchVar, stackVar Var, catch, finally Node) Node {
	return TryCatch{
		base:     mk(t, loc, anyAsync(try, catch, finally)),
		Try:      try,
		CatchVar: catchVar,
		StackVar: stackVar,
		Catch:    catch,
		Finally:  finally,
	}
}

func NewFunction(t *types.Type, loc Loc, params, captures []Var, body Node) Node {
	return Function{base: mk(t, loc, false), Params: params, Captures: captures, Body: body}
}

func NewAsyncFunction(t *types.Type, loc Loc, params, captures []Var, body Node) Node {
	return AsyncFunction{base: mk(t, loc, true), Params: params, Captures: captures, Body: body}
}

func NewCall(t *types.Type, loc Loc, callee Node, args ...Node) Node {
	return Call{base: mk(t, loc, anyAsync(append([]Node{callee}, args...)...)), Callee: callee, Args: args}
}

func NewCallAsync(t *types.Type, loc Loc, callee Node, args ...Node) Node {
	return CallAsync{base: mk(t, loc, true), Callee: callee, Args: args}
}

func NewNewRef(t *types.Type, loc Loc, init Node) Node {
	return NewRef{base: mk(t, loc, anyAsync(init)), Init: init}
}

func NewNewArray(t *types.Type, loc Loc, elems ...Node) Node {
	return NewArray{base: mk(t, loc, anyAsync(elems...)), Elems: elems}
}

func NewNewSet(t *types.Type, loc Loc, resolver Node, elems ...Node) Node {
	return NewSet{base: mk(t, loc, anyAsync(elems...)), Elems: elems, Resolver: resolver}
}

func NewNewDict(t *types.Type, loc Loc, resolver Node, entries ...DictEntry) Node {
	async := false
	for _, e := range entries {
		if anyAsync(e.Key, e.Val) {
			async = true
		}
	}
	return NewDict{base: mk(t, loc, async), Entries: entries, Resolver: resolver}
}

func NewStructNode(t *types.Type, loc Loc, fields ...StructField) Node {
	async := false
	for _, f := range fields {
		if anyAsync(f.Value) {
			async = true
		}
	}
	return Struct{base: mk(t, loc, async), Fields: fields}
}

func NewGetField(t *types.Type, loc Loc, subject Node, field string) Node {
	return GetField{base: mk(t, loc, anyAsync(subject)), Subject: subject, Field: field}
}

func NewVariantNode(variantType *types.Type, loc Loc, caseName string, payload Node) Node {
	return Variant{base: mk(variantType, loc, anyAsync(payload)), VariantType: variantType, Case: caseName, Payload: payload}
}

func NewBuiltin(t *types.Type, loc Loc, name string, typeParams []*types.Type, args ...Node) Node {
	return Builtin{base: mk(t, loc, anyAsync(args...)), Name: name, TypeParams: typeParams, Args: args}
}

func NewPlatform(t *types.Type, loc Loc, name string, async bool, args ...Node) Node {
	return Platform{base: mk(t, loc, async || anyAsync(args...)), Name: name, Args: args}
}
