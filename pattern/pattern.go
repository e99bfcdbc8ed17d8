// Package pattern compiles strftime style datetime patterns into layouts that
// format and parse with the time package.
package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Named patterns used throughout systime
const (
	Compact          = "%y%m%d%H%M%S%z"          // 961219163957+0000
	RFC3339          = "%+"                      // 2018-01-26T18:30:09.453+00:00
	Slash            = "%m/%d/%Y %T"             // 12/19/1996 16:39:57
	FractionalOffset = "%Y-%m-%dT%H:%M:%S%.f%:z" // 2021-01-01T05:00:00.003+00:00
)

// Precision controls how sub-second digits are rendered by Layout.Format.
// Values are always truncated, never rounded.
type Precision int

const (
	Auto Precision = iota // shortest of 0, 3, 6 or 9 digits that is exact
	Seconds
	Millis
	Micros
	Nanos
)

func (p Precision) String() string {
	switch p {
	case Seconds:
		return "seconds"
	case Millis:
		return "millis"
	case Micros:
		return "micros"
	case Nanos:
		return "nanos"
	default:
		return "auto"
	}
}

// truncate drops everything below the precision
func (p Precision) truncate(t time.Time) time.Time {
	switch p {
	case Seconds:
		return t.Truncate(time.Second)
	case Millis:
		return t.Truncate(time.Millisecond)
	case Micros:
		return t.Truncate(time.Microsecond)
	default:
		return t
	}
}

func (p Precision) digits(ns int) int {
	switch p {
	case Seconds:
		return 0
	case Millis:
		return 3
	case Micros:
		return 6
	case Nanos:
		return 9
	}
	switch {
	case ns == 0:
		return 0
	case ns%1e6 == 0:
		return 3
	case ns%1e3 == 0:
		return 6
	default:
		return 9
	}
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segField
	segFraction
)

// segment is one compiled piece of a pattern
type segment struct {
	kind   segmentKind
	text   string  // literal text, or Go reference layout used for formatting
	parse  string  // Go reference layout used for parsing
	scan   scanner // length of the value this segment consumes
	digits int     // fixed fraction width, 0 means precision-driven
}

// scanner returns how many leading bytes of s belong to one field value
type scanner func(s string) int

// field maps a single directive to Go reference layouts
type field struct {
	format string
	parse  string
	scan   scanner
}

var fields = map[string]field{
	"Y":  {"2006", "2006", scanDigits(4)},
	"y":  {"06", "06", scanDigits(2)},
	"m":  {"01", "01", scanDigits(2)},
	"d":  {"02", "02", scanDigits(2)},
	"e":  {"_2", "_2", scanPadded},
	"H":  {"15", "15", scanDigits(2)},
	"I":  {"03", "03", scanDigits(2)},
	"M":  {"04", "04", scanDigits(2)},
	"S":  {"05", "05", scanDigits(2)},
	"p":  {"PM", "PM", scanLetters(2)},
	"b":  {"Jan", "Jan", scanLetters(3)},
	"B":  {"January", "January", scanLetters(0)},
	"a":  {"Mon", "Mon", scanLetters(3)},
	"A":  {"Monday", "Monday", scanLetters(0)},
	"j":  {"002", "002", scanDigits(3)},
	"z":  {"-0700", "Z0700", scanOffset(false)},
	":z": {"-07:00", "Z07:00", scanOffset(true)},
	"Z":  {"MST", "MST", scanZone},
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func countWhile(s string, max int, ok func(byte) bool) int {
	n := 0
	for n < len(s) && (max == 0 || n < max) && ok(s[n]) {
		n++
	}
	return n
}

func scanDigits(max int) scanner {
	return func(s string) int { return countWhile(s, max, isDigit) }
}

func scanLetters(max int) scanner {
	return func(s string) int { return countWhile(s, max, isLetter) }
}

// scanPadded reads a space padded day such as " 5" or "15"
func scanPadded(s string) int {
	if strings.HasPrefix(s, " ") {
		return 1 + countWhile(s[1:], 1, isDigit)
	}
	return countWhile(s, 2, isDigit)
}

// scanOffset reads Z, ±hhmm or ±hh:mm
func scanOffset(colon bool) scanner {
	return func(s string) int {
		if s == "" {
			return 0
		}
		if s[0] == 'Z' {
			return 1
		}
		if s[0] != '+' && s[0] != '-' {
			return 0
		}
		n := 1 + countWhile(s[1:], 2, isDigit)
		if colon && strings.HasPrefix(s[n:], ":") {
			n++
		}
		return n + countWhile(s[n:], 2, isDigit)
	}
}

// scanZone reads an abbreviation such as UTC, or GMT followed by an offset
func scanZone(s string) int {
	n := countWhile(s, 0, func(c byte) bool { return 'A' <= c && c <= 'Z' })
	if strings.HasPrefix(s, "GMT") && n < len(s) && (s[n] == '+' || s[n] == '-') {
		n++
		n += countWhile(s[n:], 2, isDigit)
	}
	return n
}

// scanFraction reads a period followed by digits, or nothing
func scanFraction(s string) int {
	if len(s) < 2 || s[0] != '.' || !isDigit(s[1]) {
		return 0
	}
	return 1 + countWhile(s[1:], 0, isDigit)
}

// scanFixedFraction reads a period followed by at most digits digits
func scanFixedFraction(digits int) scanner {
	return func(s string) int {
		if !strings.HasPrefix(s, ".") {
			return 0
		}
		return 1 + countWhile(s[1:], digits, isDigit)
	}
}

// Composite directives are compiled from their expansion
var expansions = map[string]string{
	"+": "%Y-%m-%dT%H:%M:%S%.f%:z",
	"F": "%Y-%m-%d",
	"T": "%H:%M:%S",
	"D": "%m/%d/%y",
	"R": "%H:%M",
}

// PatternError reports a directive that could not be compiled
type PatternError struct {
	Pattern   string
	Offset    int
	Directive string
}

func (e *PatternError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("pattern %q: dangling %% at offset %d", e.Pattern, e.Offset)
	}
	return fmt.Sprintf("pattern %q: unknown directive %%%s at offset %d", e.Pattern, e.Directive, e.Offset)
}

// Layout is a compiled datetime pattern
type Layout struct {
	pattern   string
	segments  []segment
	parse     string
	shortYear bool // %y without %Y
}

// Compile translates a strftime style pattern into a Layout
func Compile(pattern string) (*Layout, error) {
	segments, err := compile(pattern, pattern, 0)
	if err != nil {
		return nil, err
	}

	var parse strings.Builder
	var short, long bool
	for _, s := range segments {
		parse.WriteString(s.parse)
		switch s.parse {
		case "06":
			short = true
		case "2006":
			long = true
		}
	}

	return &Layout{
		pattern:   pattern,
		segments:  segments,
		parse:     parse.String(),
		shortYear: short && !long,
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for package level
// variables holding fixed patterns.
func MustCompile(pattern string) *Layout {
	l, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

func compile(root, pattern string, depth int) ([]segment, error) {
	var segments []segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{kind: segLiteral, text: literal.String(), parse: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			literal.WriteByte(c)
			continue
		}

		offset := i
		if depth > 0 {
			// Errors inside an expansion are reported against the root
			offset = 0
		}
		if i+1 >= len(pattern) {
			return nil, &PatternError{Pattern: root, Offset: offset}
		}

		rest := pattern[i+1:]
		switch {
		case rest[0] == '%':
			literal.WriteByte('%')
			i++

		case strings.HasPrefix(rest, ":z"):
			flush()
			f := fields[":z"]
			segments = append(segments, segment{kind: segField, text: f.format, parse: f.parse, scan: f.scan})
			i += 2

		case rest[0] == '.':
			digits, n, ok := fraction(rest)
			if !ok {
				return nil, &PatternError{Pattern: root, Offset: offset, Directive: firstDirective(rest)}
			}
			flush()
			parse := ".999999999"
			if digits > 0 {
				parse = "." + strings.Repeat("0", digits)
			}
			scan := scanFraction
			if digits > 0 {
				scan = scanFixedFraction(digits)
			}
			segments = append(segments, segment{kind: segFraction, parse: parse, scan: scan, digits: digits})
			i += n

		default:
			name := rest[:1]
			if exp, ok := expansions[name]; ok {
				flush()
				inner, err := compile(root, exp, depth+1)
				if err != nil {
					return nil, err
				}
				segments = append(segments, inner...)
				i++
				continue
			}
			f, ok := fields[name]
			if !ok {
				return nil, &PatternError{Pattern: root, Offset: offset, Directive: name}
			}
			flush()
			segments = append(segments, segment{kind: segField, text: f.format, parse: f.parse, scan: f.scan})
			i++
		}
	}
	flush()

	return segments, nil
}

// fraction reads ".f", ".3f", ".6f" or ".9f" and returns the fixed width
// and the number of bytes consumed
func fraction(s string) (digits, n int, ok bool) {
	if strings.HasPrefix(s, ".f") {
		return 0, 2, true
	}
	if len(s) >= 3 && s[2] == 'f' {
		switch s[1] {
		case '3':
			return 3, 3, true
		case '6':
			return 6, 3, true
		case '9':
			return 9, 3, true
		}
	}
	return 0, 0, false
}

func firstDirective(s string) string {
	if len(s) >= 3 {
		return s[:3]
	}
	return s
}

// String returns the source pattern
func (l *Layout) String() string {
	return l.pattern
}

// GoLayout returns the Go reference layout equivalent to the pattern. Literal
// text is copied as is, so a literal that looks like a layout element makes
// the result ambiguous; Parse does not depend on it.
func (l *Layout) GoLayout() string {
	return l.parse
}

// Format renders t with the given precision. Each directive is formatted on
// its own so literal text is written verbatim.
func (l *Layout) Format(t time.Time, p Precision) string {
	t = p.truncate(t)

	var b strings.Builder
	for _, s := range l.segments {
		switch s.kind {
		case segLiteral:
			b.WriteString(s.text)
		case segField:
			b.WriteString(t.Format(s.text))
		case segFraction:
			ns := t.Nanosecond()
			digits := s.digits
			if digits == 0 {
				digits = p.digits(ns)
			}
			if digits > 0 {
				b.WriteByte('.')
				b.WriteString(fmt.Sprintf("%09d", ns)[:digits])
			}
		}
	}
	return b.String()
}

// valueSep joins field values handed to time.Parse. It is not a layout
// element and no scanner accepts it.
const valueSep = "|"

// Parse reads text according to the layout. The whole input must match.
// Literal text is matched exactly and only field values reach time.Parse, so
// a literal is never mistaken for a layout element.
func (l *Layout) Parse(text string) (time.Time, error) {
	var layout, value strings.Builder
	rest := text
	for _, s := range l.segments {
		if s.kind == segLiteral {
			if !strings.HasPrefix(rest, s.text) {
				return time.Time{}, l.parseError(text, s.text, rest, "")
			}
			rest = rest[len(s.text):]
			continue
		}
		n := s.scan(rest)
		if n == 0 && (s.kind == segField || s.digits > 0) {
			return time.Time{}, l.parseError(text, s.parse, rest, "")
		}
		if layout.Len() > 0 {
			layout.WriteString(valueSep)
			value.WriteString(valueSep)
		}
		layout.WriteString(s.parse)
		value.WriteString(rest[:n])
		rest = rest[n:]
	}
	if rest != "" {
		return time.Time{}, l.parseError(text, "", "", ": extra text: "+strconv.Quote(rest))
	}

	t, err := time.Parse(layout.String(), value.String())
	if err != nil {
		var pe *time.ParseError
		if errors.As(err, &pe) {
			elem, _, _ := strings.Cut(pe.ValueElem, valueSep)
			return time.Time{}, l.parseError(text, pe.LayoutElem, elem, pe.Message)
		}
		return time.Time{}, err
	}

	// Two digit years 00-69 are 2000-2069, 70-99 are 1970-1999
	if l.shortYear && t.Year() == 1969 {
		t = t.AddDate(100, 0, 0)
	}
	return t, nil
}

func (l *Layout) parseError(text, layoutElem, valueElem, message string) *time.ParseError {
	return &time.ParseError{
		Layout:     l.pattern,
		Value:      text,
		LayoutElem: layoutElem,
		ValueElem:  valueElem,
		Message:    message,
	}
}
