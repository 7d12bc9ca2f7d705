package types

import (
	"fmt"
	"strings"
)

// Print renders t in East's canonical one-line textual form (spec §4.A),
// e.g. ".Array .Integer", ".Struct [(name=\"a\", type=.Integer)]", or
// ".Recursive 2" for a marker whose binder is two Recursive nodes up the
// print stack.
func Print(t *Type) string {
	var b strings.Builder
	printType(&b, t, nil)
	return b.String()
}

// printType writes t's canonical form to b. stack holds the ids of
// Recursive binders currently open, innermost last, so a recursiveRef's
// depth is computed relative to print-time nesting rather than global id
// (spec example: ".Recursive 2").
func printType(b *strings.Builder, t *Type, stack []uint64) {
	switch t.tag {
	case Never:
		b.WriteString(".Never")
	case Null:
		b.WriteString(".Null")
	case Boolean:
		b.WriteString(".Boolean")
	case Integer:
		b.WriteString(".Integer")
	case Float:
		b.WriteString(".Float")
	case String:
		b.WriteString(".String")
	case DateTime:
		b.WriteString(".DateTime")
	case Blob:
		b.WriteString(".Blob")
	case Ref:
		b.WriteString(".Ref ")
		printType(b, t.elem, stack)
	case Array:
		b.WriteString(".Array ")
		printType(b, t.elem, stack)
	case Set:
		b.WriteString(".Set ")
		printType(b, t.key, stack)
	case Dict:
		b.WriteString(".Dict ")
		printType(b, t.key, stack)
		b.WriteString(" ")
		printType(b, t.elem, stack)
	case Struct:
		b.WriteString(".Struct [")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "(name=%q, type=", f.Name)
			printType(b, f.Type, stack)
			b.WriteString(")")
		}
		b.WriteString("]")
	case Variant:
		b.WriteString(".Variant [")
		for i, c := range t.cases {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "(name=%q, type=", c.Name)
			printType(b, c.Type, stack)
			b.WriteString(")")
		}
		b.WriteString("]")
	case Recursive:
		// The binder itself prints as bare ".Recursive" (no depth number);
		// only a back-reference to it prints ".Recursive N" (spec §4.A
		// example ".Recursive 2"). A parser tells the two apart by
		// peeking for a following integer literal.
		b.WriteString(".Recursive ")
		printType(b, t.body, append(stack, t.id))
	case recursiveRef:
		depth := 0
		for i := len(stack) - 1; i >= 0; i-- {
			depth++
			if stack[i] == t.target {
				fmt.Fprintf(b, ".Recursive %d", depth)
				return
			}
		}
		b.WriteString(".Recursive ?") // unresolved marker: malformed type
	case Function:
		printFuncSig(b, t, stack, " -> ")
	case AsyncFunction:
		printFuncSig(b, t, stack, " => ")
	default:
		fmt.Fprintf(b, ".Unknown(%d)", t.tag)
	}
}

func printFuncSig(b *strings.Builder, t *Type, stack []uint64, arrow string) {
	b.WriteString("(")
	for i, p := range t.params {
		if i > 0 {
			b.WriteString(", ")
		}
		printType(b, p, stack)
	}
	b.WriteString(")")
	b.WriteString(arrow)
	printType(b, t.result, stack)
}

// String implements fmt.Stringer so Type values print sensibly in test
// failures and error messages.
func (t *Type) String() string { return Print(t) }
