// Package ejson implements East's canonical JSON value codec (spec §4.H,
// §6.2): integers as decimal strings (to preserve 64-bit precision
// through hosts without bigints), floats as JSON numbers except for their
// special values (strings), DateTimes as RFC-3339, Blobs as 0x-prefixed
// hex, Sets as sorted arrays, Dicts as sorted {"key","value"} object
// arrays, and Variants as {"type","value"} objects.
//
// Grounded on core/types/jsonschema.go's JSON handling: this package
// builds on encoding/json.Decoder for the parse side (streaming,
// token-based, so error positions are available) plus
// santhosh-tekuri/jsonschema/v5 for the optional schema pre-validation
// pass ParseStrict runs before decoding (spec §4.A bridge).
package ejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// PrintJSON renders v (of type t) as East's canonical JSON form.
func PrintJSON(t *types.Type, v value.Value) (string, error) {
	node, err := ToNode(t, v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(node); err != nil {
		return "", errs.Wrap(errs.InternalError, err, "ejson: failed to encode JSON")
	}
	out := buf.String()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out, nil
}

// MustPrintJSON is PrintJSON's panicking form (spec §10).
func MustPrintJSON(t *types.Type, v value.Value) string {
	s, err := PrintJSON(t, v)
	if err != nil {
		panic(err)
	}
	return s
}

// ToNode walks v (of type t) into the plain Go value tree - nested
// map[string]any/[]any/string/json.Number/bool/nil - that PrintJSON then
// marshals. Exported so other codecs that want East's canonical JSON
// *shape* without the string-marshal step (EncodeBeast2's CBOR encoding,
// for instance) can reuse it directly instead of round-tripping through
// printed JSON text.
func ToNode(t *types.Type, v value.Value) (any, error) {
	switch t.Tag() {
	case types.Null:
		return nil, nil
	case types.Boolean:
		return bool(v.(value.Bool)), nil
	case types.Integer:
		return fmt.Sprintf("%d", int64(v.(value.Int))), nil
	case types.Float:
		f := float64(v.(value.Float))
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		case f == 0 && math.Signbit(f):
			return "-0.0", nil
		}
		return json.Number(fmt.Sprintf("%v", f)), nil
	case types.String:
		return string(v.(value.Str)), nil
	case types.DateTime:
		return formatRFC3339(int64(v.(value.DateTime))), nil
	case types.Blob:
		return "0x" + fmt.Sprintf("%x", []byte(v.(value.Blob))), nil
	case types.Ref:
		return ToNode(t.Elem(), v.(*value.RefVal).Get())
	case types.Array:
		arr := v.(*value.ArrayVal)
		out := make([]any, 0, arr.Size())
		for _, e := range arr.Snapshot() {
			node, err := ToNode(t.Elem(), e)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		}
		return out, nil
	case types.Set:
		s := v.(*container.Set)
		items := s.ToArray()
		out := make([]any, 0, len(items))
		for _, e := range items {
			node, err := ToNode(t.Key(), e)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		}
		return out, nil
	case types.Dict:
		d := v.(*container.Dict)
		keys := d.Keys()
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			kNode, err := ToNode(t.Key(), k)
			if err != nil {
				return nil, err
			}
			val, _, _ := d.Get(k)
			vNode, err := ToNode(t.Elem(), val)
			if err != nil {
				return nil, err
			}
			out = append(out, map[string]any{"key": kNode, "value": vNode})
		}
		return out, nil
	case types.Struct:
		sv := v.(value.StructVal)
		out := make(map[string]any, len(t.Fields()))
		for _, f := range t.Fields() {
			fv, err := sv.Get(f.Name)
			if err != nil {
				return nil, err
			}
			node, err := ToNode(f.Type, fv)
			if err != nil {
				return nil, err
			}
			out[f.Name] = node
		}
		return out, nil
	case types.Variant:
		vv := v.(value.VariantVal)
		caseType := findCaseType(t, vv.Case)
		payload, err := ToNode(caseType, vv.Payload)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": vv.Case, "value": payload}, nil
	case types.Recursive:
		return ToNode(t.Unfold(), v)
	default:
		return nil, errs.New(errs.InternalError, "ejson: unsupported type tag %v", t.Tag())
	}
}

func findCaseType(t *types.Type, name string) *types.Type {
	for _, c := range t.Cases() {
		if c.Name == name {
			return c.Type
		}
	}
	return types.NullType()
}

// formatRFC3339 renders ms as an RFC-3339 string with a +00:00 offset
// (spec §4.H: "RFC-3339 string with +00:00 offset" rather than Go's
// default "Z" suffix).
func formatRFC3339(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	return t.Format("2006-01-02T15:04:05.000") + "+00:00"
}
