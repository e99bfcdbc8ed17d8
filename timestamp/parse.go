package timestamp

import (
	"github.com/mevdschee/systime/pattern"
)

// Parse reads text with a strftime style pattern into an OffsetDatetime.
// The parsed offset is preserved.
func Parse(text, layout string) (OffsetDatetime, error) {
	l, err := pattern.Compile(layout)
	if err != nil {
		return OffsetDatetime{}, &ParseError{Text: text, Pattern: layout, Err: err}
	}
	return ParseLayout(text, l)
}

// ParseLayout is like Parse but takes a compiled layout
func ParseLayout(text string, l *pattern.Layout) (OffsetDatetime, error) {
	t, err := l.Parse(text)
	if err != nil {
		return OffsetDatetime{}, &ParseError{Text: text, Pattern: l.String(), Err: err}
	}
	return OffsetDatetimeOf(t), nil
}

// ParseInstant parses text and drops the offset
func ParseInstant(text, layout string) (Instant, error) {
	o, err := Parse(text, layout)
	if err != nil {
		return Instant{}, err
	}
	return ToInstant(o), nil
}
