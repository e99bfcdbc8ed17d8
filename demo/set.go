package demo

import (
	"fmt"
	"strings"
)

// Demo names one independently runnable demo block
type Demo uint16

const (
	DBRoundTrip Demo = 1 << iota // 0b001, insert then select
	ConfigDump                   // 0b010, print the loaded configuration
	Datetime                     // 0b100, parse, format and round trip datetimes
)

// All lists every demo in run order
var All = []Demo{DBRoundTrip, ConfigDump, Datetime}

func (d Demo) String() string {
	switch d {
	case DBRoundTrip:
		return "db"
	case ConfigDump:
		return "config"
	case Datetime:
		return "datetime"
	default:
		return fmt.Sprintf("demo(%d)", uint16(d))
	}
}

// ParseDemo returns the demo with the given name
func ParseDemo(name string) (Demo, error) {
	for _, d := range All {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
}

// Set is a selection of demos
type Set struct {
	mask Demo
}

// NewSet returns a set holding demos
func NewSet(demos ...Demo) Set {
	var s Set
	for _, d := range demos {
		s.mask |= d
	}
	return s
}

// DefaultSet selects only the database round trip
func DefaultSet() Set {
	return NewSet(DBRoundTrip)
}

// SetFromLevel decodes the numeric LEVEL bitmap. Unknown bits are ignored.
func SetFromLevel(level uint16) Set {
	var s Set
	for _, d := range All {
		if Demo(level)&d != 0 {
			s.mask |= d
		}
	}
	return s
}

// ParseSet reads demo names. Each entry may hold several comma separated
// names; "all" selects every demo.
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if strings.EqualFold(name, "all") {
				return NewSet(All...), nil
			}
			d, err := ParseDemo(name)
			if err != nil {
				return Set{}, err
			}
			s.mask |= d
		}
	}
	return s, nil
}

// Has reports whether d is selected
func (s Set) Has(d Demo) bool {
	return s.mask&d != 0
}

// IsEmpty reports whether nothing is selected
func (s Set) IsEmpty() bool {
	return s.mask == 0
}

// List returns the selected demos in run order
func (s Set) List() []Demo {
	var demos []Demo
	for _, d := range All {
		if s.Has(d) {
			demos = append(demos, d)
		}
	}
	return demos
}

// Level returns the numeric LEVEL bitmap for the set
func (s Set) Level() uint16 {
	return uint16(s.mask)
}

func (s Set) String() string {
	names := make([]string, 0, len(All))
	for _, d := range s.List() {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}
