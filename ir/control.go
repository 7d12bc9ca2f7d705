package ir

import "github.com/east-lang/east/types"

// Value is a literal constant of a given type (already-constructed
// value.Value, carried as the opaque `Const` payload since ir does not
// depend on package value to keep the dependency direction
// types→ir→{value,eval}; eval.Compile type-asserts it back).
type Value struct {
	base
	Const interface{} `json:"-"`
}

func (Value) NodeType() string { return "Value" }

// As performs a checked upcast/widen to a supertype (spec §3.1.2); a
// no-op at runtime beyond the static result type change, used where the
// checker inserts a subtype coercion.
type As struct {
	base
	Expr Node `json:"expr"`
}

func (As) NodeType() string { return "As" }

// UnwrapRecursive unfolds a Recursive-typed value one level, exposing its
// body type (spec §3.1.2 "Recursive ... transparent" unfolding).
type UnwrapRecursive struct {
	base
	Expr Node `json:"expr"`
}

func (UnwrapRecursive) NodeType() string { return "UnwrapRecursive" }

// WrapRecursive folds a body-typed value back into its Recursive wrapper.
type WrapRecursive struct {
	base
	RecType *types.Type `json:"recType"`
	Expr    Node        `json:"expr"`
}

func (WrapRecursive) NodeType() string { return "WrapRecursive" }

// Variable reads a resolved variable's current value.
type Variable struct {
	base
	Var Var `json:"var"`
}

func (Variable) NodeType() string { return "Variable" }

// Let introduces a new binding in the enclosing Block's scope.
type Let struct {
	base
	Var   Var  `json:"var"`
	Value Node `json:"value"`
}

func (Let) NodeType() string { return "Let" }

// Assign overwrites an existing mutable binding.
type Assign struct {
	base
	Var   Var  `json:"var"`
	Value Node `json:"value"`
}

func (Assign) NodeType() string { return "Assign" }

// Block sequences statements, yielding the last expression's value (or
// Null if empty/if the last node is itself a statement-only form).
type Block struct {
	base
	Stmts []Node `json:"stmts"`
}

func (Block) NodeType() string { return "Block" }

// IfElse is a two-armed conditional; Else may be nil (treated as a Null
// block) when the surrounding context doesn't require a value.
type IfElse struct {
	base
	Cond Node `json:"cond"`
	Then Node `json:"then"`
	Else Node `json:"else,omitempty"`
}

func (IfElse) NodeType() string { return "IfElse" }

// MatchCase binds a Variant's payload under VarName when CaseName
// matches, per spec's §3.2 Variant (case_name, payload) shape.
type MatchCase struct {
	CaseName string `json:"caseName"`
	VarName  string `json:"varName"`
	VarType  *types.Type `json:"varType"`
	Body     Node   `json:"body"`
}

// Match dispatches on a Variant value's case name.
type Match struct {
	base
	Subject Node        `json:"subject"`
	Cases   []MatchCase `json:"cases"`
}

func (Match) NodeType() string { return "Match" }

// While loops while Cond holds; Label names the loop for Break/Continue
// targeting (spec §4.D/§4.F.6 "may break/continue to the enclosing loop's
// label").
type While struct {
	base
	Label string `json:"label,omitempty"`
	Cond  Node   `json:"cond"`
	Body  Node   `json:"body"`
}

func (While) NodeType() string { return "While" }

// ForArray iterates an Array(T) in insertion order, binding ElemVar per
// iteration (spec §4.F.6).
type ForArray struct {
	base
	Label   string `json:"label,omitempty"`
	Array   Node   `json:"array"`
	ElemVar Var    `json:"elemVar"`
	Body    Node   `json:"body"`
}

func (ForArray) NodeType() string { return "ForArray" }

// ForSet iterates a Set(K) in sorted key order.
type ForSet struct {
	base
	Label   string `json:"label,omitempty"`
	Set     Node   `json:"set"`
	ElemVar Var    `json:"elemVar"`
	Body    Node   `json:"body"`
}

func (ForSet) NodeType() string { return "ForSet" }

// ForDict iterates a Dict(K,V) in sorted key order, binding both KeyVar
// and ValVar per iteration.
type ForDict struct {
	base
	Label  string `json:"label,omitempty"`
	Dict   Node   `json:"dict"`
	KeyVar Var    `json:"keyVar"`
	ValVar Var    `json:"valVar"`
	Body   Node   `json:"body"`
}

func (ForDict) NodeType() string { return "ForDict" }

// Return unwinds to the nearest enclosing Function/AsyncFunction call
// frame with Value as the result (spec §4.F.2).
type Return struct {
	base
	Value Node `json:"value"`
}

func (Return) NodeType() string { return "Return" }

// Continue unwinds to the loop named Label (or the nearest enclosing loop
// if Label is empty), skipping to its next iteration.
type Continue struct {
	base
	Label string `json:"label,omitempty"`
}

func (Continue) NodeType() string { return "Continue" }

// Break unwinds out of the loop named Label (or the nearest enclosing
// loop).
type Break struct {
	base
	Label string `json:"label,omitempty"`
}

func (Break) NodeType() string { return "Break" }

// Error raises a user-level EastError(UserError) with Message and the
// current location pushed onto its stack (spec §4.F.2, §7 UserError).
type Error struct {
	base
	Message Node `json:"message"`
}

func (Error) NodeType() string { return "Error" }

// TryCatch runs Try; on an EastError, binds `message`/`stack` per spec
// §4.F.5 and runs Catch; Finally (optional) always runs on every exit
// path.
type TryCatch struct {
	base
	Try       Node `json:"try"`
	CatchVar  Var  `json:"catchVar,omitempty"`
	StackVar  Var  `json:"stackVar,omitempty"`
	Catch     Node `json:"catch,omitempty"`
	Finally   Node `json:"finally,omitempty"`
}

func (TryCatch) NodeType() string { return "TryCatch" }
