package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/value"
)

func dt(v value.Value) time.Time {
	return time.UnixMilli(int64(v.(value.DateTime))).UTC()
}

func init() {
	getters := map[string]func(time.Time) int64{
		"DateTimeGetYear":        func(t time.Time) int64 { return int64(t.Year()) },
		"DateTimeGetMonth":       func(t time.Time) int64 { return int64(t.Month()) },
		"DateTimeGetDay":         func(t time.Time) int64 { return int64(t.Day()) },
		"DateTimeGetHour":        func(t time.Time) int64 { return int64(t.Hour()) },
		"DateTimeGetMinute":      func(t time.Time) int64 { return int64(t.Minute()) },
		"DateTimeGetSecond":      func(t time.Time) int64 { return int64(t.Second()) },
		"DateTimeGetMillisecond": func(t time.Time) int64 { return int64(t.Nanosecond() / 1e6) },
		// spec §9 open question: textual docs say 0=Sunday, but the
		// canonical evaluator mapping is 1=Monday; this follows the
		// evaluator.
		"DateTimeGetDayOfWeek": func(t time.Time) int64 {
			wd := int64(t.Weekday())
			if wd == 0 {
				return 7
			}
			return wd
		},
	}
	for name, fn := range getters {
		fn := fn
		Register(name, func(a []value.Value) (value.Value, error) { return value.Int(fn(dt(a[0]))), nil })
	}

	Register("DateTimeAddMilliseconds", func(a []value.Value) (value.Value, error) {
		return value.DateTime(int64(a[0].(value.DateTime)) + int64(a[1].(value.Int))), nil
	})
	Register("DateTimeSubtractMilliseconds", func(a []value.Value) (value.Value, error) {
		return value.DateTime(int64(a[0].(value.DateTime)) - int64(a[1].(value.Int))), nil
	})

	// Higher-unit add/subtract helpers multiply by fixed factors (spec
	// §4.E.3); floats round to the nearest millisecond.
	factors := map[string]float64{
		"Seconds": 1000,
		"Minutes": 60 * 1000,
		"Hours":   60 * 60 * 1000,
		"Days":    24 * 60 * 60 * 1000,
		"Weeks":   7 * 24 * 60 * 60 * 1000,
	}
	for unit, factor := range factors {
		factor := factor
		Register("DateTimeAdd"+unit, func(a []value.Value) (value.Value, error) {
			delta := int64(math.Round(float64(a[1].(value.Float)) * factor))
			return value.DateTime(int64(a[0].(value.DateTime)) + delta), nil
		})
		Register("DateTimeSubtract"+unit, func(a []value.Value) (value.Value, error) {
			delta := int64(math.Round(float64(a[1].(value.Float)) * factor))
			return value.DateTime(int64(a[0].(value.DateTime)) - delta), nil
		})
		Register("DurationIn"+unit, func(a []value.Value) (value.Value, error) {
			diffMs := float64(int64(a[0].(value.DateTime)) - int64(a[1].(value.DateTime)))
			return value.Float(diffMs / factor), nil
		})
	}
	Register("DurationInMilliseconds", func(a []value.Value) (value.Value, error) {
		return value.Int(int64(a[0].(value.DateTime)) - int64(a[1].(value.DateTime))), nil
	})

	Register("DateTimeFromEpoch", func(a []value.Value) (value.Value, error) {
		return value.DateTime(int64(a[0].(value.Int))), nil
	})
	Register("DateTimeToEpoch", func(a []value.Value) (value.Value, error) {
		return value.Int(int64(a[0].(value.DateTime))), nil
	})
	Register("DateTimeFromComponents", func(a []value.Value) (value.Value, error) {
		year, month, day := int(a[0].(value.Int)), int(a[1].(value.Int)), int(a[2].(value.Int))
		hr, min, sec, ms := int(a[3].(value.Int)), int(a[4].(value.Int)), int(a[5].(value.Int)), int(a[6].(value.Int))
		t := time.Date(year, time.Month(month), day, hr, min, sec, ms*1e6, time.UTC)
		return value.DateTime(t.UnixMilli()), nil
	})

	Register("DateTimeFormat", func(a []value.Value) (value.Value, error) {
		toks, err := tokenizeDateFormat(string(a[1].(value.Str)))
		if err != nil {
			return nil, err
		}
		return value.Str(formatDateTime(dt(a[0]), toks)), nil
	})
	Register("DateTimeParse", func(a []value.Value) (value.Value, error) {
		toks, err := tokenizeDateFormat(string(a[1].(value.Str)))
		if err != nil {
			return nil, err
		}
		t, err := parseDateTime(string(a[0].(value.Str)), toks)
		if err != nil {
			return nil, err
		}
		return value.DateTime(t.UnixMilli()), nil
	})
}

// formatToken is one directive or literal run in a pre-tokenized format
// string (spec §4.E.3: "pre-tokenized at build time, then interpreted at
// runtime").
type formatToken struct {
	directive string // "Y","YYYY","M","MM","D","DD","H","HH","h","hh","m","mm","s","ss","S","SSS","A","a","dddd",""
	literal   string // used when directive == ""
}

var directivesByLength = []string{"dddd", "YYYY", "SSS", "HH", "hh", "mm", "ss", "MM", "DD", "Y", "M", "D", "H", "h", "m", "s", "S", "A", "a"}

// dateFormatCache memoizes tokenizeDateFormat's result per pattern.
var dateFormatCache sync.Map

// tokenizeDateFormat splits a format string into directive and literal
// runs once, so DateTimeFormat/Parse never re-scans the pattern per call.
func tokenizeDateFormat(pattern string) ([]formatToken, error) {
	if cached, ok := dateFormatCache.Load(pattern); ok {
		return cached.([]formatToken), nil
	}
	key := pattern
	var toks []formatToken
	for len(pattern) > 0 {
		matched := false
		for _, d := range directivesByLength {
			if strings.HasPrefix(pattern, d) {
				toks = append(toks, formatToken{directive: d})
				pattern = pattern[len(d):]
				matched = true
				break
			}
		}
		if !matched {
			toks = append(toks, formatToken{literal: pattern[:1]})
			pattern = pattern[1:]
		}
	}
	dateFormatCache.Store(key, toks)
	return toks, nil
}

func formatDateTime(t time.Time, toks []formatToken) string {
	var b strings.Builder
	for _, tok := range toks {
		switch tok.directive {
		case "":
			b.WriteString(tok.literal)
		case "YYYY":
			fmt.Fprintf(&b, "%04d", t.Year())
		case "Y":
			fmt.Fprintf(&b, "%d", t.Year())
		case "MM":
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case "M":
			fmt.Fprintf(&b, "%d", int(t.Month()))
		case "DD":
			fmt.Fprintf(&b, "%02d", t.Day())
		case "D":
			fmt.Fprintf(&b, "%d", t.Day())
		case "HH":
			fmt.Fprintf(&b, "%02d", t.Hour())
		case "H":
			fmt.Fprintf(&b, "%d", t.Hour())
		case "hh":
			fmt.Fprintf(&b, "%02d", hour12(t.Hour()))
		case "h":
			fmt.Fprintf(&b, "%d", hour12(t.Hour()))
		case "mm":
			fmt.Fprintf(&b, "%02d", t.Minute())
		case "m":
			fmt.Fprintf(&b, "%d", t.Minute())
		case "ss":
			fmt.Fprintf(&b, "%02d", t.Second())
		case "s":
			fmt.Fprintf(&b, "%d", t.Second())
		case "SSS":
			fmt.Fprintf(&b, "%03d", t.Nanosecond()/1e6)
		case "S":
			fmt.Fprintf(&b, "%d", t.Nanosecond()/1e6)
		case "A":
			b.WriteString(ampm(t.Hour(), true))
		case "a":
			b.WriteString(ampm(t.Hour(), false))
		case "dddd":
			b.WriteString(t.Weekday().String())
		}
	}
	return b.String()
}

func hour12(h int) int {
	h = h % 12
	if h == 0 {
		h = 12
	}
	return h
}

func ampm(h int, upper bool) string {
	s := "am"
	if h >= 12 {
		s = "pm"
	}
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// parseDateTime interprets an input string against pre-tokenized
// directives; only the numeric component directives read input on parse.
// A/a/dddd consume no input and are skipped, so an am/pm marker or day
// name in the input is not matched by them.
func parseDateTime(input string, toks []formatToken) (time.Time, error) {
	year, month, day, hour, minute, second, ms := 1970, 1, 1, 0, 0, 0, 0
	pos := 0
	readInt := func(maxDigits int) (int, error) {
		start := pos
		for pos < len(input) && pos-start < maxDigits && input[pos] >= '0' && input[pos] <= '9' {
			pos++
		}
		if pos == start {
			return 0, errs.New(errs.ParseError, "expected digits at position %d in %q", pos, input)
		}
		return strconv.Atoi(input[start:pos])
	}
	for _, tok := range toks {
		switch tok.directive {
		case "":
			if pos+len(tok.literal) > len(input) || input[pos:pos+len(tok.literal)] != tok.literal {
				return time.Time{}, errs.New(errs.ParseError, "expected literal %q at position %d in %q", tok.literal, pos, input)
			}
			pos += len(tok.literal)
		case "YYYY":
			v, err := readInt(4)
			if err != nil {
				return time.Time{}, err
			}
			year = v
		case "Y":
			v, err := readInt(9)
			if err != nil {
				return time.Time{}, err
			}
			year = v
		case "MM", "M":
			v, err := readInt(2)
			if err != nil {
				return time.Time{}, err
			}
			month = v
		case "DD", "D":
			v, err := readInt(2)
			if err != nil {
				return time.Time{}, err
			}
			day = v
		case "HH", "H", "hh", "h":
			v, err := readInt(2)
			if err != nil {
				return time.Time{}, err
			}
			hour = v
		case "mm", "m":
			v, err := readInt(2)
			if err != nil {
				return time.Time{}, err
			}
			minute = v
		case "ss", "s":
			v, err := readInt(2)
			if err != nil {
				return time.Time{}, err
			}
			second = v
		case "SSS", "S":
			v, err := readInt(3)
			if err != nil {
				return time.Time{}, err
			}
			ms = v
		}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, ms*1e6, time.UTC), nil
}
