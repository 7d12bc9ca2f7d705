package host

import (
	"regexp"
	"strings"

	"github.com/east-lang/east/errs"
)

// StdlibRegex is the default Regex implementation, backed by Go's stdlib
// regexp (RE2). No PCRE-equivalent library is vendored anywhere in the
// retrieved example pack (see DESIGN.md), so this is the one component of
// the engine that reaches for the standard library rather than a
// third-party dependency; hosts that need backreferences or lookaround can
// still supply their own Regex implementation through
// builtin.SetRegexEngine.
type StdlibRegex struct{}

func (StdlibRegex) Compile(pattern, flags string) (CompiledRegex, error) {
	p := pattern
	if strings.Contains(flags, "i") {
		p = "(?i)" + p
	}
	if strings.Contains(flags, "s") {
		p = "(?s)" + p
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, errs.New(errs.DomainError, "invalid regex pattern %q: %v", pattern, err)
	}
	return stdlibCompiled{re}, nil
}

type stdlibCompiled struct{ re *regexp.Regexp }

func (c stdlibCompiled) Contains(s string) bool { return c.re.MatchString(s) }

func (c stdlibCompiled) FindIndex(s string) (int, int, bool) {
	loc := c.re.FindStringIndex(s)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// ReplaceAll translates East's `$1`/`$<name>`/`$$` replacement syntax into
// Go's `$1`/`${name}`/`$$` equivalent (Go's is a superset; East's
// validator in builtin/string.go has already rejected anything else) and
// delegates to ReplaceAllString.
func (c stdlibCompiled) ReplaceAll(s, template string) string {
	return c.re.ReplaceAllString(s, toGoTemplate(template))
}

func toGoTemplate(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '$' || i+1 >= len(template) {
			b.WriteByte(ch)
			continue
		}
		next := template[i+1]
		switch {
		case next == '$':
			b.WriteString("$$")
			i++
		case next == '<':
			end := strings.IndexByte(template[i+2:], '>')
			if end < 0 {
				b.WriteByte(ch)
				continue
			}
			name := template[i+2 : i+2+end]
			b.WriteString("${" + name + "}")
			i += 2 + end
		case next >= '0' && next <= '9':
			// Brace the group number so a trailing letter or digit in the
			// template text is not swallowed into Go's group-name token
			// ("$1st" must mean group 1 followed by "st", not group "1st").
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			b.WriteString("${" + template[i+1:j] + "}")
			i = j - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
