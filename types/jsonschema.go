package types

import "github.com/east-lang/east/errs"

// JSONSchema is a JSON Schema draft 2020-12 document fragment, grounded on
// core/types/jsonschema.go's JSONSchema map[string]any representation.
type JSONSchema map[string]any

// ToJSONSchema derives a JSON Schema fragment describing the JSON form a
// value of t is printed as by East's JSON codec (spec §4.H). Used by
// ejson.ParseStrict to validate an incoming document's shape before
// attempting to decode it, turning a generic decode failure into a
// located ParseError.
//
// t must be a Data type (spec §3.1.1 invariant 3); ToJSONSchema returns a
// TypeMismatch error for any type containing a function.
func ToJSONSchema(t *Type) (JSONSchema, error) {
	if !IsData(t) {
		return nil, errs.New(errs.TypeMismatch, "cannot derive a JSON Schema for a function type %s", Print(t))
	}
	return toJSONSchema(t, nil), nil
}

func toJSONSchema(t *Type, recStack []uint64) JSONSchema {
	switch t.tag {
	case Never:
		return JSONSchema{"not": JSONSchema{}}
	case Null:
		return JSONSchema{"type": "null"}
	case Boolean:
		return JSONSchema{"type": "boolean"}
	case Integer:
		// Integers are printed as decimal strings to preserve 64-bit
		// precision (spec §4.H).
		return JSONSchema{"type": "string", "pattern": "^-?[0-9]+$"}
	case Float:
		return JSONSchema{
			"oneOf": []JSONSchema{
				{"type": "number"},
				{"type": "string", "enum": []string{"NaN", "Infinity", "-Infinity", "-0.0"}},
			},
		}
	case String:
		return JSONSchema{"type": "string"}
	case DateTime:
		return JSONSchema{"type": "string", "format": "date-time"}
	case Blob:
		return JSONSchema{"type": "string", "pattern": "^0x([0-9a-f]{2})*$"}
	case Ref:
		return toJSONSchema(t.elem, recStack)
	case Array:
		return JSONSchema{"type": "array", "items": toJSONSchema(t.elem, recStack)}
	case Set:
		return JSONSchema{"type": "array", "items": toJSONSchema(t.key, recStack)}
	case Dict:
		return JSONSchema{
			"type": "array",
			"items": JSONSchema{
				"type": "object",
				"properties": map[string]JSONSchema{
					"key":   toJSONSchema(t.key, recStack),
					"value": toJSONSchema(t.elem, recStack),
				},
				"required": []string{"key", "value"},
			},
		}
	case Struct:
		props := make(map[string]JSONSchema, len(t.fields))
		required := make([]string, 0, len(t.fields))
		for _, f := range t.fields {
			props[f.Name] = toJSONSchema(f.Type, recStack)
			required = append(required, f.Name)
		}
		return JSONSchema{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	case Variant:
		names := make([]string, len(t.cases))
		oneOf := make([]JSONSchema, len(t.cases))
		for i, c := range t.cases {
			names[i] = c.Name
			oneOf[i] = JSONSchema{
				"type": "object",
				"properties": map[string]JSONSchema{
					"type":  {"const": c.Name},
					"value": toJSONSchema(c.Type, recStack),
				},
				"required": []string{"type", "value"},
			}
		}
		return JSONSchema{"oneOf": oneOf}
	case Recursive:
		return toJSONSchema(t.body, append(recStack, t.id))
	case recursiveRef:
		// Recursion is transparent in the JSON codec (spec §4.H); a
		// self-referencing schema would require $ref/$defs wiring this
		// codec's JSON form doesn't need, since the printer/parser
		// recurse directly on the live Type graph rather than on a
		// schema document. A permissive fragment is sufficient here -
		// the actual shape is enforced by ejson itself at decode time.
		return JSONSchema{}
	default:
		return JSONSchema{}
	}
}
