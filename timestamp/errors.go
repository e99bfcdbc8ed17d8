package timestamp

import (
	"errors"
	"fmt"
)

var (
	// ErrNullTime is returned when scanning a NULL column into a non-nullable value
	ErrNullTime = errors.New("timestamp: cannot scan NULL")

	// ErrUnsupportedSource is returned when scanning a value of an unknown type
	ErrUnsupportedSource = errors.New("timestamp: unsupported scan source")
)

// ParseError reports text that does not match the expected pattern
type ParseError struct {
	Text    string
	Pattern string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing datetime %q with pattern %q: %v", e.Text, e.Pattern, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
