// Package value implements East's runtime value model (spec §3.2, §4.B):
// every typed value a compiled program can produce, plus the total
// ordering spec §3.2 defines across all data types.
//
// Grounded stylistically on core/ir/types.go's tagged-union node shapes
// (a closed Go interface with one concrete struct per case) and, for the
// mutable heap objects (Ref/Array), on the header-plus-payload split
// other_examples/onflow-cadence's interpreter value.go uses to separate a
// value's identity/metadata from its contents.
package value

import (
	"math"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
)

// Value is any East runtime value. Every concrete type in this package
// implements it.
type Value interface {
	// Type returns the static type this value was produced under. For
	// scalar values this is a fixed singleton; for container values it is
	// fixed at construction time.
	Type() *types.Type
}

// --- scalars ---

type Null struct{}

func (Null) Type() *types.Type { return types.NullType() }

type Bool bool

func (Bool) Type() *types.Type { return types.BooleanType() }

// Int is a 64-bit two's-complement integer (spec §4.B: "Integer arithmetic
// operates in two's-complement modulo 2^64, signed").
type Int int64

func (Int) Type() *types.Type { return types.IntegerType() }

// Float is an IEEE-754 64-bit float.
type Float float64

func (Float) Type() *types.Type { return types.FloatType() }

// Str is an immutable sequence of Unicode codepoints. Internally stored as
// a Go string (UTF-8); codepoint-indexed operations (builtin/string.go)
// convert via []rune at the call site rather than storing []rune here, so
// a Str value stays a cheap, immutable, GC-friendly Go string under the
// hood.
type Str string

func (Str) Type() *types.Type { return types.StringType() }

// DateTime is a UTC millisecond instant since the Unix epoch.
type DateTime int64

func (DateTime) Type() *types.Type { return types.DateTimeType() }

// Blob is an immutable byte sequence.
type Blob []byte

func (Blob) Type() *types.Type { return types.BlobType() }

// NewNull, NewBool, ... are convenience constructors mirroring the
// concrete-type names, useful at call sites that build values generically.
func NewNull() Value             { return Null{} }
func NewBool(b bool) Value       { return Bool(b) }
func NewInt(i int64) Value       { return Int(i) }
func NewFloat(f float64) Value   { return Float(f) }
func NewStr(s string) Value      { return Str(s) }
func NewDateTime(ms int64) Value { return DateTime(ms) }
func NewBlob(b []byte) Value     { return Blob(append([]byte(nil), b...)) }

// Compare implements the total order of spec §3.2 between two values of
// the same type. Returns -1, 0, or 1. Panics if a and b are not
// comparable (different types, or Function/AsyncFunction values, which
// have no order).
func Compare(a, b Value) int {
	switch av := a.(type) {
	case Null:
		return 0
	case Bool:
		bv := b.(Bool)
		return boolCompare(bool(av), bool(bv))
	case Int:
		bv := b.(Int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case Float:
		return compareFloat(float64(av), float64(b.(Float)))
	case Str:
		bv := b.(Str)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case DateTime:
		bv := b.(DateTime)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case Blob:
		return compareBytes(av, b.(Blob))
	case *RefVal:
		return Compare(av.Get(), b.(*RefVal).Get())
	case *ArrayVal:
		return compareSeq(av.Snapshot(), b.(*ArrayVal).Snapshot())
	case StructVal:
		return compareSeq(av.Fields, b.(StructVal).Fields)
	case VariantVal:
		bv := b.(VariantVal)
		if av.Case != bv.Case {
			if av.Case < bv.Case {
				return -1
			}
			return 1
		}
		return Compare(av.Payload, bv.Payload)
	default:
		if extendedCompare != nil {
			if c, ok := extendedCompare(a, b); ok {
				return c
			}
		}
		panic(errs.New(errs.InternalError, "value: Compare called on an unordered value %T", a))
	}
}

// extendedCompare lets a package this one cannot import without a cycle
// (container's Set/Dict, which themselves import value) plug in the rest
// of spec §3.2's total order ("Sets, Dicts: ordered as sequences in key
// order"). container's init() registers itself here; nothing else should.
var extendedCompare func(a, b Value) (int, bool)

// RegisterCompare installs fn as Compare's fallback for value kinds this
// package cannot name directly. Exported for package container only.
func RegisterCompare(fn func(a, b Value) (int, bool)) {
	extendedCompare = fn
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

// compareFloat implements spec §3.2's total float order:
// -Inf < ... < -0 = +0 < ... < +Inf, NaN equal to NaN and greater than
// every other float.
func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	// -0.0 == 0.0 under plain Go comparison already, so no special case
	// is needed beyond using < and == directly.
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func compareSeq(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b are equal under the same total order
// Compare defines (spec §3.2). Sets and dicts are handled through the
// fallback package container installs with RegisterCompare, which compares
// them as sequences in sorted key order.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Less reports whether a < b under Compare.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}
