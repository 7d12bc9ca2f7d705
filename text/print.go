// Package text implements East's canonical textual value codec (spec
// §4.G, §6.1): a self-describing, strict print/parse pair satisfying
// parse(T, print(T, v)) == v for every data value v of type T.
//
// Hand-written recursive-descent printer/parser: no library in the
// retrieved example pack fits a bespoke, spec-defined grammar like this
// one (see DESIGN.md for why this is the one codec component built
// without a third-party parsing library).
package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// Print renders v (of type t) in East's canonical textual form.
func Print(t *types.Type, v value.Value) (string, error) {
	var b strings.Builder
	if err := printInto(&b, t, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustPrint is Print's panicking form, for call sites that already know v
// is well-typed (spec §10 supplemented features).
func MustPrint(t *types.Type, v value.Value) string {
	s, err := Print(t, v)
	if err != nil {
		panic(err)
	}
	return s
}

func printInto(b *strings.Builder, t *types.Type, v value.Value) error {
	switch t.Tag() {
	case types.Null:
		b.WriteString("null")
	case types.Boolean:
		if bool(v.(value.Bool)) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case types.Integer:
		fmt.Fprintf(b, "%d", int64(v.(value.Int)))
	case types.Float:
		b.WriteString(printFloat(float64(v.(value.Float))))
	case types.String:
		printStringLiteral(b, string(v.(value.Str)))
	case types.DateTime:
		b.WriteString(printDateTime(int64(v.(value.DateTime))))
	case types.Blob:
		b.WriteString("0x")
		for _, c := range v.(value.Blob) {
			fmt.Fprintf(b, "%02x", c)
		}
	case types.Ref:
		b.WriteString("&")
		return printInto(b, t.Elem(), v.(*value.RefVal).Get())
	case types.Array:
		arr := v.(*value.ArrayVal)
		b.WriteString("[")
		for i, e := range arr.Snapshot() {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := printInto(b, t.Elem(), e); err != nil {
				return err
			}
		}
		b.WriteString("]")
	case types.Set:
		s := v.(*container.Set)
		items := s.ToArray()
		if len(items) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{")
		for i, e := range items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := printInto(b, t.Key(), e); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case types.Dict:
		d := v.(*container.Dict)
		keys := d.Keys()
		if len(keys) == 0 {
			b.WriteString("{:}")
			return nil
		}
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := printInto(b, t.Key(), k); err != nil {
				return err
			}
			b.WriteString(": ")
			val, _, _ := d.Get(k)
			if err := printInto(b, t.Elem(), val); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case types.Struct:
		sv := v.(value.StructVal)
		fields := t.Fields()
		if len(fields) == 0 {
			b.WriteString("()")
			return nil
		}
		b.WriteString("(")
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=", f.Name)
			fv, err := sv.Get(f.Name)
			if err != nil {
				return err
			}
			if err := printInto(b, f.Type, fv); err != nil {
				return err
			}
		}
		b.WriteString(")")
	case types.Variant:
		vv := v.(value.VariantVal)
		fmt.Fprintf(b, ".%s", vv.Case)
		caseType := findCaseType(t, vv.Case)
		if caseType.Tag() == types.Null {
			return nil
		}
		b.WriteString(" ")
		return printInto(b, caseType, vv.Payload)
	case types.Recursive:
		return printInto(b, t.Unfold(), v)
	default:
		return errs.New(errs.InternalError, "text.Print: unsupported type tag %v", t.Tag())
	}
	return nil
}

func findCaseType(t *types.Type, name string) *types.Type {
	for _, c := range t.Cases() {
		if c.Name == name {
			return c.Type
		}
	}
	return types.NullType()
}

// printFloat renders the special literal words and otherwise the
// shortest round-tripping decimal (spec §4.G.1).
func printFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0 && math.Signbit(f):
		return "-0.0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func printStringLiteral(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func printDateTime(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6)
}
