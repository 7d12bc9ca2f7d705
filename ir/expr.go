package ir

import "github.com/east-lang/east/types"

// Function constructs a synchronous closure value (spec §4.D, §4.F.1).
// Captures lists the outer-scope variables the body references, computed
// once during IR construction. The evaluator does not read it: a compiled
// closure captures its whole defining Context, whose bindings are all
// boxed in one-slot cells.
type Function struct {
	base
	Params   []Var  `json:"params"`
	Captures []Var  `json:"captures,omitempty"`
	Body     Node   `json:"body"`
}

func (Function) NodeType() string { return "Function" }

// AsyncFunction constructs an asynchronous closure value; its body is
// permitted CallAsync/Platform(async) nodes (spec §4.D "a function is
// Async if any node in its body is Async").
type AsyncFunction struct {
	base
	Params   []Var `json:"params"`
	Captures []Var `json:"captures,omitempty"`
	Body     Node  `json:"body"`
}

func (AsyncFunction) NodeType() string { return "AsyncFunction" }

// Call invokes a synchronous Function value. Remains sync even inside an
// async caller (spec §4.F.3).
type Call struct {
	base
	Callee Node   `json:"callee"`
	Args   []Node `json:"args"`
}

func (Call) NodeType() string { return "Call" }

// CallAsync invokes an AsyncFunction value and awaits its result; the
// sole await point in the IR (spec §4.F.3).
type CallAsync struct {
	base
	Callee Node   `json:"callee"`
	Args   []Node `json:"args"`
}

func (CallAsync) NodeType() string { return "CallAsync" }

// NewRef allocates a fresh Ref(T) cell holding Init's value.
type NewRef struct {
	base
	Init Node `json:"init"`
}

func (NewRef) NodeType() string { return "NewRef" }

// NewArray allocates a fresh Array(T) from Elems, in order.
type NewArray struct {
	base
	Elems []Node `json:"elems"`
}

func (NewArray) NodeType() string { return "NewArray" }

// NewSet allocates a fresh Set(K) from Elems; construction-time duplicate
// keys run Resolver (spec §4.C), or raise DuplicateKey if Resolver is nil.
type NewSet struct {
	base
	Elems    []Node `json:"elems"`
	Resolver Node   `json:"resolver,omitempty"`
}

func (NewSet) NodeType() string { return "NewSet" }

// DictEntry is one (key, value) pair in a NewDict literal.
type DictEntry struct {
	Key Node `json:"key"`
	Val Node `json:"val"`
}

// NewDict allocates a fresh Dict(K,V) from Entries.
type NewDict struct {
	base
	Entries  []DictEntry `json:"entries"`
	Resolver Node        `json:"resolver,omitempty"`
}

func (NewDict) NodeType() string { return "NewDict" }

// StructField is one field initializer in a Struct literal, in the
// owning type's declared field order (spec §3.1.1 invariant 4).
type StructField struct {
	Name  string `json:"name"`
	Value Node   `json:"value"`
}

// Struct constructs a Struct value.
type Struct struct {
	base
	Fields []StructField `json:"fields"`
}

func (Struct) NodeType() string { return "Struct" }

// GetField projects a named field out of a Struct-typed expression.
type GetField struct {
	base
	Subject Node   `json:"subject"`
	Field   string `json:"field"`
}

func (GetField) NodeType() string { return "GetField" }

// Variant constructs a tagged Variant value for the given case.
type Variant struct {
	base
	VariantType *types.Type `json:"variantType"`
	Case        string      `json:"case"`
	Payload     Node        `json:"payload,omitempty"`
}

func (Variant) NodeType() string { return "Variant" }
