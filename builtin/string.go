package builtin

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/types"
	"github.com/east-lang/east/value"
)

// caseFolder is the default Unicode case-mapping service (spec §4.E.2);
// a host that supplies its own may rebind it via builtin.SetCaseFolder
// before compiling a program.
var caseFolder host.CaseFolder = host.XTextCaseFolder{}

// SetCaseFolder rebinds the case-mapping service used by upperCase/
// lowerCase (spec §4.I: "a Unicode case-mapping service", swappable by
// the host).
func SetCaseFolder(cf host.CaseFolder) { caseFolder = cf }

func init() {
	Register("StringConcat", func(a []value.Value) (value.Value, error) {
		return value.Str(string(a[0].(value.Str)) + string(a[1].(value.Str))), nil
	})
	Register("StringRepeat", func(a []value.Value) (value.Value, error) {
		n := int64(a[1].(value.Int))
		if n <= 0 {
			return value.Str(""), nil
		}
		return value.Str(strings.Repeat(string(a[0].(value.Str)), int(n))), nil
	})
	Register("StringLength", func(a []value.Value) (value.Value, error) {
		return value.Int(len([]rune(string(a[0].(value.Str))))), nil
	})
	Register("StringSubstring", func(a []value.Value) (value.Value, error) {
		runes := []rune(string(a[0].(value.Str)))
		from, to := saturatingRange(int64(a[1].(value.Int)), int64(a[2].(value.Int)), len(runes))
		return value.Str(string(runes[from:to])), nil
	})
	Register("StringUpperCase", func(a []value.Value) (value.Value, error) {
		return value.Str(caseFolder.Upper(string(a[0].(value.Str)))), nil
	})
	Register("StringLowerCase", func(a []value.Value) (value.Value, error) {
		return value.Str(caseFolder.Lower(string(a[0].(value.Str)))), nil
	})
	Register("StringSplit", func(a []value.Value) (value.Value, error) {
		s, delim := string(a[0].(value.Str)), string(a[1].(value.Str))
		var parts []string
		switch {
		case s == "":
			parts = []string{""}
		case delim == "":
			for _, r := range s {
				parts = append(parts, string(r))
			}
		default:
			parts = strings.Split(s, delim)
		}
		return wrapStrArray(parts), nil
	})
	Register("StringTrim", func(a []value.Value) (value.Value, error) {
		return value.Str(strings.TrimFunc(string(a[0].(value.Str)), unicode.IsSpace)), nil
	})
	Register("StringTrimStart", func(a []value.Value) (value.Value, error) {
		return value.Str(strings.TrimLeftFunc(string(a[0].(value.Str)), unicode.IsSpace)), nil
	})
	Register("StringTrimEnd", func(a []value.Value) (value.Value, error) {
		return value.Str(strings.TrimRightFunc(string(a[0].(value.Str)), unicode.IsSpace)), nil
	})
	Register("StringStartsWith", func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.HasPrefix(string(a[0].(value.Str)), string(a[1].(value.Str)))), nil
	})
	Register("StringEndsWith", func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.HasSuffix(string(a[0].(value.Str)), string(a[1].(value.Str)))), nil
	})
	Register("StringContains", func(a []value.Value) (value.Value, error) {
		return value.Bool(strings.Contains(string(a[0].(value.Str)), string(a[1].(value.Str)))), nil
	})
	Register("StringIndexOf", func(a []value.Value) (value.Value, error) {
		s, needle := string(a[0].(value.Str)), string(a[1].(value.Str))
		if needle == "" {
			return value.Int(0), nil
		}
		byteIdx := strings.Index(s, needle)
		if byteIdx < 0 {
			return value.Int(-1), nil
		}
		return value.Int(len([]rune(s[:byteIdx]))), nil
	})
	Register("StringReplace", func(a []value.Value) (value.Value, error) {
		s, old, new_ := string(a[0].(value.Str)), string(a[1].(value.Str)), string(a[2].(value.Str))
		return value.Str(strings.ReplaceAll(s, old, new_)), nil
	})
	Register("StringEncodeUtf8", func(a []value.Value) (value.Value, error) {
		return value.Blob([]byte(string(a[0].(value.Str)))), nil
	})
	Register("StringEncodeUtf16", func(a []value.Value) (value.Value, error) {
		units := utf16.Encode([]rune(string(a[0].(value.Str))))
		out := make([]byte, 2+2*len(units))
		out[0], out[1] = 0xFF, 0xFE // UTF-16LE BOM
		for i, u := range units {
			out[2+2*i] = byte(u)
			out[2+2*i+1] = byte(u >> 8)
		}
		return value.Blob(out), nil
	})

	registerRegexBuiltins()
}

// saturatingRange implements spec §4.B's substring clamp policy: negative
// bounds clamp to 0, from>to snaps to [from,from), from>=len yields an
// empty range.
func saturatingRange(from, to int64, length int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = 0
	}
	if from > to {
		to = from
	}
	if int(from) >= length {
		return length, length
	}
	if int(to) > length {
		to = int64(length)
	}
	return int(from), int(to)
}

func wrapStrArray(parts []string) value.Value {
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.Str(p)
	}
	return value.NewArray(types.StringType(), items)
}

// regexCache memoizes literal-pattern compilations (spec §4.E.2:
// "when literal, implementations MUST precompile once").
var (
	regexEngine host.Regex = host.StdlibRegex{}
	regexCache            = map[string]host.CompiledRegex{}
)

// SetRegexEngine rebinds the regex service (spec §4.I, §9 design note).
func SetRegexEngine(r host.Regex) { regexEngine = r; regexCache = map[string]host.CompiledRegex{} }

func compileRegex(pattern, flags string) (host.CompiledRegex, error) {
	key := flags + "\x00" + pattern
	if c, ok := regexCache[key]; ok {
		return c, nil
	}
	c, err := regexEngine.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	regexCache[key] = c
	return c, nil
}

// validReplacementTemplate enforces spec §4.E.2: replacement strings
// accept only $$, $1..$9.., and $<name>.
func validReplacementTemplate(tpl string) error {
	for i := 0; i < len(tpl); i++ {
		if tpl[i] != '$' {
			continue
		}
		if i+1 >= len(tpl) {
			return errs.New(errs.DomainError, "replacement template ends with a bare $")
		}
		next := tpl[i+1]
		switch {
		case next == '$':
			i++
		case next >= '0' && next <= '9':
			i++
		case next == '<':
			end := strings.IndexByte(tpl[i+2:], '>')
			if end < 0 {
				return errs.New(errs.DomainError, "unterminated $<name> in replacement template")
			}
			i += 2 + end
		default:
			return errs.New(errs.DomainError, "unsupported replacement token $%c", next)
		}
	}
	return nil
}

func registerRegexBuiltins() {
	Register("RegexContains", func(a []value.Value) (value.Value, error) {
		re, err := compileRegex(string(a[1].(value.Str)), string(a[2].(value.Str)))
		if err != nil {
			return nil, err
		}
		return value.Bool(re.Contains(string(a[0].(value.Str)))), nil
	})
	Register("RegexIndexOf", func(a []value.Value) (value.Value, error) {
		s := string(a[0].(value.Str))
		re, err := compileRegex(string(a[1].(value.Str)), string(a[2].(value.Str)))
		if err != nil {
			return nil, err
		}
		start, _, ok := re.FindIndex(s)
		if !ok {
			return value.Int(-1), nil
		}
		return value.Int(len([]rune(s[:start]))), nil
	})
	Register("RegexReplace", func(a []value.Value) (value.Value, error) {
		s := string(a[0].(value.Str))
		pattern, flags, tpl := string(a[1].(value.Str)), string(a[2].(value.Str)), string(a[3].(value.Str))
		if err := validReplacementTemplate(tpl); err != nil {
			return nil, err
		}
		// RegexReplace is always global (spec §4.E.2: "adds a mandatory
		// global flag"); the stdlib engine replaces all matches natively.
		re, err := compileRegex(pattern, flags)
		if err != nil {
			return nil, err
		}
		return value.Str(re.ReplaceAll(s, tpl)), nil
	})
}
