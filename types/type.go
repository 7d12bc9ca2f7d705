// Package types implements East's type algebra (spec §3.1, §4.A): a closed
// set of structurally-compared, immutable type values supporting subtype,
// union, intersect, widen, equality, and canonical printing.
//
// Grounded on core/types/schema.go's closed ParamType enum and
// core/types/jsonschema.go's recursive schema export (see ToJSONSchema
// in jsonschema.go), generalized from Opal's flat parameter-kind set to the
// full recursive/variant/function algebra spec.md requires.
package types

import "fmt"

// Tag is the closed set of type constructors (spec §3.1).
type Tag uint8

const (
	Never Tag = iota
	Null
	Boolean
	Integer
	Float
	String
	DateTime
	Blob
	Ref
	Array
	Set
	Dict
	Struct
	Variant
	Recursive
	Function
	AsyncFunction

	// recursiveRef is not part of the spec's public tag set; it is the
	// internal marker a Recursive type's body is built around (spec:
	// "constructed so the body receives a marker it may reuse").
	recursiveRef
)

func (t Tag) String() string {
	switch t {
	case Never:
		return "Never"
	case Null:
		return "Null"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case DateTime:
		return "DateTime"
	case Blob:
		return "Blob"
	case Ref:
		return "Ref"
	case Array:
		return "Array"
	case Set:
		return "Set"
	case Dict:
		return "Dict"
	case Struct:
		return "Struct"
	case Variant:
		return "Variant"
	case Recursive:
		return "Recursive"
	case Function:
		return "Function"
	case AsyncFunction:
		return "AsyncFunction"
	case recursiveRef:
		return "RecursiveRef"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// Field is one named, ordered field of a Struct type. Order is part of
// Struct identity (spec §3.1.1 invariant 4).
type Field struct {
	Name string
	Type *Type
}

// Case is one named case of a Variant type. Cases are stored sorted by
// Name (spec §3.1 "Variant ... cases are stored in sorted case-name
// order").
type Case struct {
	Name string
	Type *Type
}

// Type is an East type value: immutable once constructed, compared
// structurally (spec §3.1: "Types are values themselves").
//
// Only the fields relevant to Tag are meaningful; this is the same
// "closed tagged struct" shape core/ir/types.go uses for its Node union,
// generalized here to carry recursive structure.
type Type struct {
	tag Tag

	// Ref, Array, Set: element type. Dict: value type.
	elem *Type

	// Set, Dict: key type.
	key *Type

	fields []Field // Struct
	cases  []Case  // Variant, sorted by Name

	// Recursive
	id       uint64 // identity of this binder, for marker resolution
	name     string // optional human label, printed nowhere but useful in errors
	body     *Type  // nil until Close (or immediately set by MkRecursive)
	closed   bool
	unfolded *Type // memoized Unfold result

	// recursiveRef
	target uint64 // id of the Recursive binder this marker refers to

	// Function, AsyncFunction
	params []*Type
	result *Type
}

var nextRecursiveID uint64

// Tag returns the type's constructor tag.
func (t *Type) Tag() Tag { return t.tag }

// Elem returns the element type of Ref/Array/Set, or the value type of
// Dict. Panics if t is not one of those.
func (t *Type) Elem() *Type {
	switch t.tag {
	case Ref, Array, Set, Dict:
		return t.elem
	default:
		panic(fmt.Sprintf("types: Elem called on %s", t.tag))
	}
}

// Key returns the key type of Set or Dict. Panics otherwise.
func (t *Type) Key() *Type {
	switch t.tag {
	case Set, Dict:
		return t.key
	default:
		panic(fmt.Sprintf("types: Key called on %s", t.tag))
	}
}

// Fields returns a Struct type's ordered fields. Panics if t is not Struct.
func (t *Type) Fields() []Field {
	if t.tag != Struct {
		panic(fmt.Sprintf("types: Fields called on %s", t.tag))
	}
	return t.fields
}

// Cases returns a Variant type's sorted cases. Panics if t is not Variant.
func (t *Type) Cases() []Case {
	if t.tag != Variant {
		panic(fmt.Sprintf("types: Cases called on %s", t.tag))
	}
	return t.cases
}

// Params returns a Function/AsyncFunction type's parameter types.
func (t *Type) Params() []*Type {
	if t.tag != Function && t.tag != AsyncFunction {
		panic(fmt.Sprintf("types: Params called on %s", t.tag))
	}
	return t.params
}

// Result returns a Function/AsyncFunction type's result type.
func (t *Type) Result() *Type {
	if t.tag != Function && t.tag != AsyncFunction {
		panic(fmt.Sprintf("types: Result called on %s", t.tag))
	}
	return t.result
}

// Body returns a Recursive type's body (which may contain a marker
// referring back to t). Panics if t is not Recursive, or not yet closed.
func (t *Type) Body() *Type {
	if t.tag != Recursive {
		panic(fmt.Sprintf("types: Body called on %s", t.tag))
	}
	if !t.closed {
		panic("types: Body called on an unclosed Recursive type")
	}
	return t.body
}

// --- scalar singletons ---

var (
	theNever    = &Type{tag: Never}
	theNull     = &Type{tag: Null}
	theBoolean  = &Type{tag: Boolean}
	theInteger  = &Type{tag: Integer}
	theFloat    = &Type{tag: Float}
	theString   = &Type{tag: String}
	theDateTime = &Type{tag: DateTime}
	theBlob     = &Type{tag: Blob}
)

// NeverType, NullType, ... construct/return the singleton primitive types.
func NeverType() *Type    { return theNever }
func NullType() *Type     { return theNull }
func BooleanType() *Type  { return theBoolean }
func IntegerType() *Type  { return theInteger }
func FloatType() *Type    { return theFloat }
func StringType() *Type   { return theString }
func DateTimeType() *Type { return theDateTime }
func BlobType() *Type     { return theBlob }

// NewRef constructs Ref(elem).
func NewRef(elem *Type) *Type { return &Type{tag: Ref, elem: elem} }

// NewArray constructs Array(elem).
func NewArray(elem *Type) *Type { return &Type{tag: Array, elem: elem} }

// NewSet constructs Set(key). The caller is responsible for key being
// immutable per spec §3.1.1 invariant 1; NewSet does not check it, and
// IsImmutable reports whether a key type satisfies it.
func NewSet(key *Type) *Type { return &Type{tag: Set, key: key, elem: key} }

// NewDict constructs Dict(key, value).
func NewDict(key, value *Type) *Type { return &Type{tag: Dict, key: key, elem: value} }

// NewStruct constructs a Struct type from ordered fields. Field order is
// part of identity and is preserved exactly as given.
func NewStruct(fields ...Field) *Type {
	cp := append([]Field(nil), fields...)
	return &Type{tag: Struct, fields: cp}
}

// NewVariant constructs a Variant type, sorting cases by name (spec §3.1:
// "Variants are constructed sorted").
func NewVariant(cases ...Case) *Type {
	cp := append([]Case(nil), cases...)
	sortCases(cp)
	return &Type{tag: Variant, cases: cp}
}

func sortCases(cases []Case) {
	// insertion sort: case lists are small (tens, not thousands) and this
	// keeps the dependency-free sort stable and obviously correct.
	for i := 1; i < len(cases); i++ {
		for j := i; j > 0 && cases[j-1].Name > cases[j].Name; j-- {
			cases[j-1], cases[j] = cases[j], cases[j-1]
		}
	}
}

// NewFunction constructs a synchronous Function type.
func NewFunction(params []*Type, result *Type) *Type {
	return &Type{tag: Function, params: append([]*Type(nil), params...), result: result}
}

// NewAsyncFunction constructs an AsyncFunction type.
func NewAsyncFunction(params []*Type, result *Type) *Type {
	return &Type{tag: AsyncFunction, params: append([]*Type(nil), params...), result: result}
}
