package timestamp

import (
	"time"

	"github.com/mevdschee/systime/pattern"
)

// Format pairs a pattern with the precision used for sub-second digits
type Format struct {
	Pattern   string
	Precision pattern.Precision

	layout *pattern.Layout
}

// NewFormat compiles a Format
func NewFormat(layout string, precision pattern.Precision) (Format, error) {
	l, err := pattern.Compile(layout)
	if err != nil {
		return Format{}, err
	}
	return Format{Pattern: layout, Precision: precision, layout: l}, nil
}

func mustFormat(layout string, precision pattern.Precision) Format {
	f, err := NewFormat(layout, precision)
	if err != nil {
		panic(err)
	}
	return f
}

var (
	// SlashSeconds renders MM/DD/YYYY HH:MM:SS, truncating sub-seconds
	SlashSeconds = mustFormat(pattern.Slash, pattern.Seconds)

	// ISO8601 renders the full date and time with a numeric offset
	ISO8601 = mustFormat(pattern.RFC3339, pattern.Auto)

	// ISOFractional renders fractional seconds followed by a numeric offset
	ISOFractional = mustFormat(pattern.FractionalOffset, pattern.Auto)
)

// Format renders v. Instants render in UTC, OffsetDatetimes in their offset.
func (f Format) Format(v Value) (string, error) {
	l := f.layout
	if l == nil {
		var err error
		if l, err = pattern.Compile(f.Pattern); err != nil {
			return "", err
		}
	}
	return l.Format(v.Time(), f.Precision), nil
}

// Text is like Format but reports a bad pattern inline, the way fmt reports
// bad verbs, instead of returning an error
func (f Format) Text(v Value) string {
	s, err := f.Format(v)
	if err != nil {
		return "%!(BADPATTERN " + err.Error() + ")"
	}
	return s
}

func (f Format) format(t time.Time) string {
	return f.layout.Format(t, f.Precision)
}

// Render formats v with f
func Render(v Value, f Format) (string, error) {
	return f.Format(v)
}
