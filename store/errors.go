package store

import (
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned by Open for an unsupported postgresql.driver
var ErrUnknownDriver = errors.New("unknown storage driver")

// ConnectionError reports a database that could not be reached
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("no connection to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
