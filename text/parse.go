package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/east-lang/east/container"
	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// parser walks the input rune-by-rune, tracking line/col for error
// messages and a path stack for the struct-field/variant-case/index
// accessor trail spec §4.G.2 requires in every parse error.
type parser struct {
	src        []rune
	pos        int
	line, col  int
	path       []string
}

// Parse parses s as a value of type t under East's canonical grammar
// (spec §4.G.2), strictly: missing/unexpected fields, unknown variant
// cases, trailing commas, invalid escapes, and out-of-range numerics all
// produce ParseError.
func Parse(t *types.Type, s string) (value.Value, error) {
	p := &parser{src: []rune(s), line: 1, col: 1}
	p.skipSpace()
	v, err := p.parseValue(t)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, p.errorf(t, "unexpected trailing input", string(p.peekRune()))
	}
	return v, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peekRune() rune {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.atEnd() && unicode.IsSpace(p.peekRune()) {
		p.advance()
	}
}

func (p *parser) expect(lit string, t *types.Type, reason string) error {
	for _, r := range lit {
		if p.atEnd() || p.peekRune() != r {
			got := "end of input"
			if !p.atEnd() {
				got = string(p.peekRune())
			}
			return p.errorf(t, reason, got)
		}
		p.advance()
	}
	return nil
}

func (p *parser) errorf(t *types.Type, reason, got string) error {
	pathStr := strings.Join(p.path, "")
	e := errs.New(errs.ParseError, "Error occurred because %s, got %q at %s (line %d, col %d) while parsing value of type %q",
		reason, got, pathStr, p.line, p.col, t.String())
	e.Path = append([]string(nil), p.path...)
	return e
}

func (p *parser) pushPath(seg string) { p.path = append(p.path, seg) }
func (p *parser) popPath()            { p.path = p.path[:len(p.path)-1] }

func (p *parser) parseValue(t *types.Type) (value.Value, error) {
	p.skipSpace()
	switch t.Tag() {
	case types.Null:
		if err := p.expect("null", t, "expected null"); err != nil {
			return nil, err
		}
		return value.Null{}, nil
	case types.Boolean:
		return p.parseBool(t)
	case types.Integer:
		return p.parseInt(t)
	case types.Float:
		return p.parseFloat(t)
	case types.String:
		return p.parseString(t)
	case types.DateTime:
		return p.parseDateTime(t)
	case types.Blob:
		return p.parseBlob(t)
	case types.Ref:
		if err := p.expect("&", t, "expected &"); err != nil {
			return nil, err
		}
		p.skipSpace()
		inner, err := p.parseValue(t.Elem())
		if err != nil {
			return nil, err
		}
		return value.NewRef(t.Elem(), inner), nil
	case types.Array:
		return p.parseArray(t)
	case types.Set:
		return p.parseSet(t)
	case types.Dict:
		return p.parseDict(t)
	case types.Struct:
		return p.parseStruct(t)
	case types.Variant:
		return p.parseVariant(t)
	case types.Recursive:
		return p.parseValue(t.Unfold())
	default:
		return nil, p.errorf(t, "unsupported type in parser", "?")
	}
}

func (p *parser) parseBool(t *types.Type) (value.Value, error) {
	if p.lookingAt("true") {
		p.advanceN(4)
		return value.Bool(true), nil
	}
	if p.lookingAt("false") {
		p.advanceN(5)
		return value.Bool(false), nil
	}
	return nil, p.errorf(t, "expected true or false", p.tokenPreview())
}

func (p *parser) lookingAt(lit string) bool {
	if p.pos+len(lit) > len(p.src) {
		return false
	}
	return string(p.src[p.pos:p.pos+len(lit)]) == lit
}

func (p *parser) advanceN(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

func (p *parser) tokenPreview() string {
	if p.atEnd() {
		return "end of input"
	}
	end := p.pos + 1
	for end < len(p.src) && end-p.pos < 16 && !unicode.IsSpace(p.src[end]) {
		end++
	}
	return string(p.src[p.pos:end])
}

func (p *parser) parseInt(t *types.Type) (value.Value, error) {
	start := p.pos
	if !p.atEnd() && p.peekRune() == '-' {
		p.advance()
	}
	digitsStart := p.pos
	for !p.atEnd() && isDigit(p.peekRune()) {
		p.advance()
	}
	if p.pos == digitsStart {
		return nil, p.errorf(t, "expected an integer", p.tokenPreview())
	}
	text := string(p.src[start:p.pos])
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf(t, "integer out of range", text)
	}
	return value.Int(n), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (p *parser) parseFloat(t *types.Type) (value.Value, error) {
	for _, word := range []struct {
		lit string
		val float64
	}{
		{"NaN", math.NaN()},
		{"-Infinity", math.Inf(-1)},
		{"Infinity", math.Inf(1)},
	} {
		// -0.0 needs no special word here: the ordinary path below goes
		// through strconv.ParseFloat, which preserves the sign bit.
		if p.lookingAt(word.lit) {
			p.advanceN(len([]rune(word.lit)))
			return value.Float(word.val), nil
		}
	}
	start := p.pos
	if !p.atEnd() && p.peekRune() == '-' {
		p.advance()
	}
	for !p.atEnd() && (isDigit(p.peekRune()) || p.peekRune() == '.' || p.peekRune() == 'e' || p.peekRune() == 'E' || p.peekRune() == '+' || p.peekRune() == '-') {
		p.advance()
	}
	text := string(p.src[start:p.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(t, "expected a float literal", text)
	}
	return value.Float(f), nil
}

func (p *parser) parseString(t *types.Type) (value.Value, error) {
	if p.atEnd() || p.peekRune() != '"' {
		return nil, p.errorf(t, "expected a string literal", p.tokenPreview())
	}
	p.advance()
	var b strings.Builder
	for {
		if p.atEnd() {
			return nil, p.errorf(t, "unterminated string literal", "end of input")
		}
		r := p.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if p.atEnd() {
				return nil, p.errorf(t, "unterminated escape sequence", "end of input")
			}
			esc := p.advance()
			switch esc {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			default:
				return nil, p.errorf(t, "invalid escape sequence", "\\"+string(esc))
			}
			continue
		}
		b.WriteRune(r)
	}
	return value.Str(b.String()), nil
}

func (p *parser) parseDateTime(t *types.Type) (value.Value, error) {
	start := p.pos
	for !p.atEnd() && (isDigit(p.peekRune()) || strings.ContainsRune("-T:.", p.peekRune())) {
		p.advance()
	}
	text := string(p.src[start:p.pos])
	parsed, err := time.Parse("2006-01-02T15:04:05.000", text)
	if err != nil {
		return nil, p.errorf(t, "invalid DateTime literal", text)
	}
	return value.DateTime(parsed.UnixMilli()), nil
}

func (p *parser) parseBlob(t *types.Type) (value.Value, error) {
	if !p.lookingAt("0x") {
		return nil, p.errorf(t, "expected a 0x-prefixed hex blob", p.tokenPreview())
	}
	p.advanceN(2)
	start := p.pos
	for !p.atEnd() && isHexDigit(p.peekRune()) {
		p.advance()
	}
	text := string(p.src[start:p.pos])
	if len(text)%2 != 0 {
		return nil, p.errorf(t, "blob hex must have even length", text)
	}
	out := make([]byte, len(text)/2)
	for i := 0; i < len(out); i++ {
		b, err := strconv.ParseUint(text[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, p.errorf(t, "invalid hex digit", text[2*i:2*i+2])
		}
		out[i] = byte(b)
	}
	return value.Blob(out), nil
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (p *parser) parseArray(t *types.Type) (value.Value, error) {
	if err := p.expect("[", t, "expected '['"); err != nil {
		return nil, err
	}
	var items []value.Value
	p.skipSpace()
	i := 0
	for !p.lookingAt("]") {
		if i > 0 {
			if err := p.expect(",", t, "expected ','"); err != nil {
				return nil, err
			}
			p.skipSpace()
		}
		p.pushPath(fmt.Sprintf("[%d]", i))
		v, err := p.parseValue(t.Elem())
		p.popPath()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		i++
	}
	p.advance()
	return value.NewArray(t.Elem(), items), nil
}

func (p *parser) parseSet(t *types.Type) (value.Value, error) {
	if err := p.expect("{", t, "expected '{'"); err != nil {
		return nil, err
	}
	p.skipSpace()
	s := container.NewSet(t.Key())
	if p.lookingAt("}") {
		p.advance()
		return s, nil
	}
	i := 0
	for !p.lookingAt("}") {
		if i > 0 {
			if err := p.expect(",", t, "expected ','"); err != nil {
				return nil, err
			}
			p.skipSpace()
		}
		p.pushPath(fmt.Sprintf("[%d]", i))
		v, err := p.parseValue(t.Key())
		p.popPath()
		if err != nil {
			return nil, err
		}
		if had, err := s.Insert(v); err != nil {
			return nil, err
		} else if !had {
			return nil, p.errorf(t, "duplicate set element", "")
		}
		p.skipSpace()
		i++
	}
	p.advance()
	return s, nil
}

func (p *parser) parseDict(t *types.Type) (value.Value, error) {
	if err := p.expect("{", t, "expected '{'"); err != nil {
		return nil, err
	}
	p.skipSpace()
	d := container.NewDict(t.Key(), t.Elem())
	if p.lookingAt(":}") {
		p.advanceN(2)
		return d, nil
	}
	i := 0
	for !p.lookingAt("}") {
		if i > 0 {
			if err := p.expect(",", t, "expected ','"); err != nil {
				return nil, err
			}
			p.skipSpace()
		}
		p.pushPath(fmt.Sprintf("[%d]", i))
		k, err := p.parseValue(t.Key())
		if err != nil {
			p.popPath()
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(":", t, "expected ':'"); err != nil {
			p.popPath()
			return nil, err
		}
		p.skipSpace()
		v, err := p.parseValue(t.Elem())
		p.popPath()
		if err != nil {
			return nil, err
		}
		if _, err := d.Insert(k, v); err != nil {
			return nil, err
		}
		p.skipSpace()
		i++
	}
	p.advance()
	return d, nil
}

func (p *parser) parseStruct(t *types.Type) (value.Value, error) {
	if err := p.expect("(", t, "expected '('"); err != nil {
		return nil, err
	}
	p.skipSpace()
	fields := t.Fields()
	values := make([]value.Value, len(fields))
	seen := make([]bool, len(fields))
	if p.lookingAt(")") {
		p.advance()
	} else {
		i := 0
		for !p.lookingAt(")") {
			if i > 0 {
				if err := p.expect(",", t, "expected ','"); err != nil {
					return nil, err
				}
				p.skipSpace()
			}
			nameStart := p.pos
			for !p.atEnd() && (unicode.IsLetter(p.peekRune()) || unicode.IsDigit(p.peekRune()) || p.peekRune() == '_') {
				p.advance()
			}
			name := string(p.src[nameStart:p.pos])
			idx := fieldIndex(fields, name)
			if idx < 0 {
				return nil, p.errorf(t, "unexpected field", name)
			}
			p.skipSpace()
			if err := p.expect("=", t, "expected '='"); err != nil {
				return nil, err
			}
			p.skipSpace()
			p.pushPath("." + name)
			v, err := p.parseValue(fields[idx].Type)
			p.popPath()
			if err != nil {
				return nil, err
			}
			values[idx] = v
			seen[idx] = true
			p.skipSpace()
			i++
		}
		p.advance()
	}
	for i, ok := range seen {
		if !ok {
			return nil, p.errorf(t, "missing field", fields[i].Name)
		}
	}
	return value.NewStruct(t, values), nil
}

func fieldIndex(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (p *parser) parseVariant(t *types.Type) (value.Value, error) {
	if err := p.expect(".", t, "expected '.'"); err != nil {
		return nil, err
	}
	nameStart := p.pos
	for !p.atEnd() && (unicode.IsLetter(p.peekRune()) || unicode.IsDigit(p.peekRune()) || p.peekRune() == '_') {
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	caseType := findCaseType(t, name)
	found := false
	for _, c := range t.Cases() {
		if c.Name == name {
			found = true
			break
		}
	}
	if !found {
		return nil, p.errorf(t, "unknown variant case", name)
	}
	p.pushPath("." + name)
	defer p.popPath()
	savedPos, savedLine, savedCol := p.pos, p.line, p.col
	p.skipSpace()
	if caseType.Tag() == types.Null {
		if p.lookingAt("null") {
			p.advanceN(4)
		} else {
			p.pos, p.line, p.col = savedPos, savedLine, savedCol
		}
		return value.NewVariant(t, name, value.Null{}), nil
	}
	payload, err := p.parseValue(caseType)
	if err != nil {
		return nil, err
	}
	return value.NewVariant(t, name, payload), nil
}

