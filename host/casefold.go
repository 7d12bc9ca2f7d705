package host

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseFolder abstracts Unicode default case mapping (spec §4.E.2
// upperCase/lowerCase: "Unicode default case mapping").
type CaseFolder interface {
	Upper(s string) string
	Lower(s string) string
}

// XTextCaseFolder is the default CaseFolder, backed by
// golang.org/x/text/cases, which implements full Unicode default casing
// (including multi-codepoint expansions like German ß→SS) rather than the
// ASCII-only behaviour of strings.ToUpper/ToLower.
type XTextCaseFolder struct{}

var (
	xtextUpper = cases.Upper(language.Und)
	xtextLower = cases.Lower(language.Und)
)

func (XTextCaseFolder) Upper(s string) string { return xtextUpper.String(s) }
func (XTextCaseFolder) Lower(s string) string { return xtextLower.String(s) }
