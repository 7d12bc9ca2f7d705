package builtin

import (
	"math"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/value"
)

func init() {
	Register("Not", func(a []value.Value) (value.Value, error) { return value.Bool(!bool(a[0].(value.Bool))), nil })
	Register("And", func(a []value.Value) (value.Value, error) {
		return value.Bool(bool(a[0].(value.Bool)) && bool(a[1].(value.Bool))), nil
	})
	Register("Or", func(a []value.Value) (value.Value, error) {
		return value.Bool(bool(a[0].(value.Bool)) || bool(a[1].(value.Bool))), nil
	})
	Register("Xor", func(a []value.Value) (value.Value, error) {
		return value.Bool(bool(a[0].(value.Bool)) != bool(a[1].(value.Bool))), nil
	})

	// Comparison generics (spec §4.E.1): dispatched on operand type via
	// value.Compare's own type switch, so one implementation serves every
	// comparable type.
	Register("Is", func(a []value.Value) (value.Value, error) { return value.Bool(a[0] == a[1]), nil })
	Register("Equal", func(a []value.Value) (value.Value, error) { return value.Bool(value.Equal(a[0], a[1])), nil })
	Register("NotEqual", func(a []value.Value) (value.Value, error) { return value.Bool(!value.Equal(a[0], a[1])), nil })
	Register("Less", func(a []value.Value) (value.Value, error) { return value.Bool(value.Compare(a[0], a[1]) < 0), nil })
	Register("LessEqual", func(a []value.Value) (value.Value, error) { return value.Bool(value.Compare(a[0], a[1]) <= 0), nil })
	Register("Greater", func(a []value.Value) (value.Value, error) { return value.Bool(value.Compare(a[0], a[1]) > 0), nil })
	Register("GreaterEqual", func(a []value.Value) (value.Value, error) { return value.Bool(value.Compare(a[0], a[1]) >= 0), nil })

	registerIntegerOps()
	registerFloatOps()
	registerConversions()
}

// registerIntegerOps wires spec §4.B/§4.E.1's two's-complement modulo
// 2^64 signed arithmetic: every result re-wraps via Go's native int64
// overflow behaviour (which is already modulo-2^64 wraparound), div/rem
// by zero return 0 rather than trapping, and pow with a negative exponent
// returns 0.
func registerIntegerOps() {
	Register("IntegerNegate", func(a []value.Value) (value.Value, error) { return -a[0].(value.Int), nil })
	Register("IntegerAdd", func(a []value.Value) (value.Value, error) { return a[0].(value.Int) + a[1].(value.Int), nil })
	Register("IntegerSub", func(a []value.Value) (value.Value, error) { return a[0].(value.Int) - a[1].(value.Int), nil })
	Register("IntegerMul", func(a []value.Value) (value.Value, error) { return a[0].(value.Int) * a[1].(value.Int), nil })
	Register("IntegerDiv", func(a []value.Value) (value.Value, error) {
		x, y := int64(a[0].(value.Int)), int64(a[1].(value.Int))
		if y == 0 {
			return value.Int(0), nil
		}
		return value.Int(x / y), nil
	})
	Register("IntegerRem", func(a []value.Value) (value.Value, error) {
		x, y := int64(a[0].(value.Int)), int64(a[1].(value.Int))
		if y == 0 {
			return value.Int(0), nil
		}
		return value.Int(x % y), nil
	})
	Register("IntegerPow", func(a []value.Value) (value.Value, error) {
		base, exp := int64(a[0].(value.Int)), int64(a[1].(value.Int))
		if exp < 0 {
			return value.Int(0), nil
		}
		result := int64(1)
		for i := int64(0); i < exp; i++ {
			result *= base
		}
		return value.Int(result), nil
	})
	Register("IntegerAbs", func(a []value.Value) (value.Value, error) {
		x := int64(a[0].(value.Int))
		if x < 0 {
			return value.Int(-x), nil
		}
		return value.Int(x), nil
	})
	Register("IntegerSign", func(a []value.Value) (value.Value, error) {
		x := int64(a[0].(value.Int))
		switch {
		case x > 0:
			return value.Int(1), nil
		case x < 0:
			return value.Int(-1), nil
		default:
			return value.Int(0), nil
		}
	})
	Register("IntegerLog", func(a []value.Value) (value.Value, error) {
		x := int64(a[0].(value.Int))
		if x <= 0 {
			return nil, errs.New(errs.DomainError, "IntegerLog: argument must be positive, got %d", x)
		}
		return value.Int(int64(math.Log(float64(x)))), nil
	})
}

// registerFloatOps wires the IEEE-754 float family (spec §4.E.1).
func registerFloatOps() {
	unary := map[string]func(float64) float64{
		"FloatNegate": func(x float64) float64 { return -x },
		"FloatAbs":    math.Abs,
		"FloatSqrt":   math.Sqrt,
		"FloatLog":    math.Log,
		"FloatExp":    math.Exp,
		"FloatSin":    math.Sin,
		"FloatCos":    math.Cos,
		"FloatTan":    math.Tan,
	}
	for name, fn := range unary {
		fn := fn
		Register(name, func(a []value.Value) (value.Value, error) {
			return value.Float(fn(float64(a[0].(value.Float)))), nil
		})
	}
	Register("FloatAdd", func(a []value.Value) (value.Value, error) { return a[0].(value.Float) + a[1].(value.Float), nil })
	Register("FloatSub", func(a []value.Value) (value.Value, error) { return a[0].(value.Float) - a[1].(value.Float), nil })
	Register("FloatMul", func(a []value.Value) (value.Value, error) { return a[0].(value.Float) * a[1].(value.Float), nil })
	Register("FloatDiv", func(a []value.Value) (value.Value, error) { return a[0].(value.Float) / a[1].(value.Float), nil })
	Register("FloatRem", func(a []value.Value) (value.Value, error) {
		return value.Float(math.Mod(float64(a[0].(value.Float)), float64(a[1].(value.Float)))), nil
	})
	Register("FloatPow", func(a []value.Value) (value.Value, error) {
		return value.Float(math.Pow(float64(a[0].(value.Float)), float64(a[1].(value.Float)))), nil
	})
	// FloatSign follows the reference implementation's documented quirk
	// (spec §9 open question): NaN's mathematical sign is NaN, but the
	// reference returns 0 for it, and the spec preserves that.
	Register("FloatSign", func(a []value.Value) (value.Value, error) {
		x := float64(a[0].(value.Float))
		switch {
		case math.IsNaN(x):
			return value.Float(0), nil
		case x > 0:
			return value.Float(1), nil
		case x < 0:
			return value.Float(-1), nil
		default:
			return value.Float(0), nil
		}
	})
}

// registerConversions wires IntegerToFloat/FloatToInteger (spec §4.B:
// conversion to Integer rejects NaN, ±Inf, |x|>=2^63, and non-integer
// values with DomainError).
func registerConversions() {
	Register("IntegerToFloat", func(a []value.Value) (value.Value, error) {
		return value.Float(float64(a[0].(value.Int))), nil
	})
	Register("FloatToInteger", func(a []value.Value) (value.Value, error) {
		x := float64(a[0].(value.Float))
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errs.New(errs.DomainError, "FloatToInteger: %v is not finite", x)
		}
		if x != math.Trunc(x) {
			return nil, errs.New(errs.DomainError, "FloatToInteger: %v is not an integral value", x)
		}
		if x >= 9223372036854775808.0 || x <= -9223372036854775808.0 {
			return nil, errs.New(errs.DomainError, "FloatToInteger: %v is out of Integer range", x)
		}
		return value.Int(int64(x)), nil
	})
}
