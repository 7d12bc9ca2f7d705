package ejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// ParseJSON decodes s as a value of type t under East's canonical JSON
// grammar (spec §4.H), strictly: shape mismatches produce ParseError with
// a path. Equivalent to ParseStrict with schema validation skipped - most
// callers should prefer ParseStrict, which catches malformed documents
// earlier with a friendlier error.
func ParseJSON(t *types.Type, s string) (value.Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, errs.New(errs.ParseError, "Error occurred because the input is not valid JSON, got %q at (root)", err.Error())
	}
	return FromNode(t, node, nil)
}

// ParseStrict first validates s against t.ToJSONSchema() using
// santhosh-tekuri/jsonschema/v5, turning a shape violation into a located
// ParseError before any decoding is attempted (spec §4.A bridge).
func ParseStrict(t *types.Type, s string) (value.Value, error) {
	schema, err := types.ToJSONSchema(t)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, errs.Wrap(errs.InternalError, err, "ejson: failed to marshal derived JSON Schema")
	}
	if err := compiler.AddResource("east://schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, errs.Wrap(errs.InternalError, err, "ejson: failed to register derived JSON Schema")
	}
	compiled, err := compiler.Compile("east://schema.json")
	if err != nil {
		return nil, errs.Wrap(errs.InternalError, err, "ejson: failed to compile derived JSON Schema")
	}
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, errs.New(errs.ParseError, "Error occurred because the input is not valid JSON, got %q at (root)", err.Error())
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, errs.New(errs.ParseError, "Error occurred because the document does not match type %q's schema, got %v at (root)", t.String(), err)
	}
	return ParseJSON(t, s)
}

func fieldIndex(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FromNode is ToNode's inverse: it reconstructs a typed value.Value from
// the plain Go value tree ToNode produces. ParseJSON drives it from a
// freshly json.Decoder-decoded (with UseNumber) document; DecodeBeast2
// (builtin/serialize.go) drives it from a cbor.Unmarshal-decoded document,
// where numbers round-trip as plain Go strings rather than json.Number -
// the Float case below accepts either.
func FromNode(t *types.Type, node any, path []string) (value.Value, error) {
	fail := func(reason string, got any) error {
		e := errs.New(errs.ParseError, "Error occurred because %s, got %v at %s while parsing value of type %q",
			reason, got, strings.Join(path, ""), t.String())
		e.Path = append([]string(nil), path...)
		return e
	}
	switch t.Tag() {
	case types.Null:
		if node != nil {
			return nil, fail("expected null", node)
		}
		return value.Null{}, nil
	case types.Boolean:
		b, ok := node.(bool)
		if !ok {
			return nil, fail("expected a boolean", node)
		}
		return value.Bool(b), nil
	case types.Integer:
		s, ok := node.(string)
		if !ok {
			return nil, fail("expected an integer encoded as a decimal string", node)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fail("integer out of range or malformed", s)
		}
		return value.Int(n), nil
	case types.Float:
		switch n := node.(type) {
		case string:
			switch n {
			case "NaN":
				return value.Float(math.NaN()), nil
			case "Infinity":
				return value.Float(math.Inf(1)), nil
			case "-Infinity":
				return value.Float(math.Inf(-1)), nil
			case "-0.0":
				return value.Float(math.Copysign(0, -1)), nil
			}
			// CBOR round-trips a json.Number as a plain string (it has no
			// distinct numeric-string type); accept a decimal form here too.
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return value.Float(f), nil
			}
			return nil, fail("unrecognized float special-value string", n)
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fail("malformed float", n)
			}
			return value.Float(f), nil
		default:
			return nil, fail("expected a number or special-value string", node)
		}
	case types.String:
		s, ok := node.(string)
		if !ok {
			return nil, fail("expected a string", node)
		}
		return value.Str(s), nil
	case types.DateTime:
		s, ok := node.(string)
		if !ok {
			return nil, fail("expected an RFC-3339 string", node)
		}
		parsed, err := time.Parse("2006-01-02T15:04:05.000-07:00", s)
		if err != nil {
			return nil, fail("invalid RFC-3339 DateTime", s)
		}
		return value.DateTime(parsed.UnixMilli()), nil
	case types.Blob:
		s, ok := node.(string)
		if !ok || !strings.HasPrefix(s, "0x") {
			return nil, fail("expected a 0x-prefixed hex string", node)
		}
		hex := s[2:]
		if len(hex)%2 != 0 {
			return nil, fail("blob hex must have even length", s)
		}
		out := make([]byte, len(hex)/2)
		for i := range out {
			b, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
			if err != nil {
				return nil, fail("invalid hex digit", hex[2*i:2*i+2])
			}
			out[i] = byte(b)
		}
		return value.Blob(out), nil
	case types.Ref:
		inner, err := FromNode(t.Elem(), node, path)
		if err != nil {
			return nil, err
		}
		return value.NewRef(t.Elem(), inner), nil
	case types.Array:
		arr, ok := node.([]any)
		if !ok {
			return nil, fail("expected a JSON array", node)
		}
		items := make([]value.Value, len(arr))
		for i, n := range arr {
			v, err := FromNode(t.Elem(), n, append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewArray(t.Elem(), items), nil
	case types.Set:
		arr, ok := node.([]any)
		if !ok {
			return nil, fail("expected a JSON array", node)
		}
		s := container.NewSet(t.Key())
		for i, n := range arr {
			v, err := FromNode(t.Key(), n, append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return nil, err
			}
			if _, err := s.Insert(v); err != nil {
				return nil, err
			}
		}
		return s, nil
	case types.Dict:
		arr, ok := node.([]any)
		if !ok {
			return nil, fail("expected a JSON array of key/value objects", node)
		}
		d := container.NewDict(t.Key(), t.Elem())
		for i, n := range arr {
			obj, ok := n.(map[string]any)
			if !ok {
				return nil, fail("expected a key/value object", n)
			}
			entryPath := append(path, fmt.Sprintf("[%d]", i))
			k, err := FromNode(t.Key(), obj["key"], append(entryPath, ".key"))
			if err != nil {
				return nil, err
			}
			v, err := FromNode(t.Elem(), obj["value"], append(entryPath, ".value"))
			if err != nil {
				return nil, err
			}
			if _, err := d.Insert(k, v); err != nil {
				return nil, err
			}
		}
		return d, nil
	case types.Struct:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fail("expected a JSON object", node)
		}
		fields := t.Fields()
		for name := range obj {
			if fieldIndex(fields, name) < 0 {
				return nil, fail("unexpected field", name)
			}
		}
		values := make([]value.Value, len(fields))
		for i, f := range fields {
			raw, present := obj[f.Name]
			if !present {
				return nil, fail("missing field", f.Name)
			}
			v, err := FromNode(f.Type, raw, append(path, "."+f.Name))
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return value.NewStruct(t, values), nil
	case types.Variant:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fail("expected a {type,value} object", node)
		}
		caseName, ok := obj["type"].(string)
		if !ok {
			return nil, fail("expected a string \"type\" field", obj["type"])
		}
		caseType := findCaseType(t, caseName)
		found := false
		for _, c := range t.Cases() {
			if c.Name == caseName {
				found = true
			}
		}
		if !found {
			return nil, fail("unknown variant case", caseName)
		}
		payload, err := FromNode(caseType, obj["value"], append(path, "."+caseName))
		if err != nil {
			return nil, err
		}
		return value.NewVariant(t, caseName, payload), nil
	case types.Recursive:
		return FromNode(t.Unfold(), node, path)
	default:
		return nil, fail("unsupported type in JSON parser", node)
	}
}
