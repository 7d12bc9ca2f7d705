package value

import (
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
)

// StructVal is an ordered named tuple (spec §3.1 Struct). Struct values
// are themselves immutable once built (mutability lives in Ref/Array/Set/
// Dict fields, not in the Struct wrapper); Fields is ordered to match the
// owning Type's field order exactly.
type StructVal struct {
	typ    *types.Type
	Fields []Value
}

// NewStruct constructs a StructVal under typ from fields in declaration
// order. The caller is responsible for fields matching typ's field count
// and order; this is enforced by the IR compiler (ir.Struct), not here.
func NewStruct(typ *types.Type, fields []Value) StructVal {
	return StructVal{typ: typ, Fields: append([]Value(nil), fields...)}
}

func (s StructVal) Type() *types.Type { return s.typ }

// Get returns the field named name, or a MissingKey error.
func (s StructVal) Get(name string) (Value, error) {
	for i, f := range s.typ.Fields() {
		if f.Name == name {
			return s.Fields[i], nil
		}
	}
	return nil, errs.New(errs.MissingKey, "struct has no field %q", name)
}

// VariantVal is a (case name, payload) pair (spec §3.1 Variant, §3.2).
type VariantVal struct {
	typ     *types.Type
	Case    string
	Payload Value
}

// NewVariant constructs a VariantVal under typ for the given case and
// payload. Panics if typ declares no such case (an IR-compile-time bug,
// not a user error - see ir.Variant for the checked construction path).
func NewVariant(typ *types.Type, caseName string, payload Value) VariantVal {
	found := false
	for _, c := range typ.Cases() {
		if c.Name == caseName {
			found = true
			break
		}
	}
	if !found {
		panic("value: NewVariant: type has no case " + caseName)
	}
	return VariantVal{typ: typ, Case: caseName, Payload: payload}
}

func (v VariantVal) Type() *types.Type { return v.typ }
