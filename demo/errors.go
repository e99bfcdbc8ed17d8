package demo

import "errors"

var (
	// ErrUnknownDemo is returned for a demo name that does not exist
	ErrUnknownDemo = errors.New("unknown demo")

	// ErrRoundTrip is returned when a value changes across an Instant round trip
	ErrRoundTrip = errors.New("datetime changed across instant round trip")

	// ErrNoStore is returned when the database demo has no way to open a store
	ErrNoStore = errors.New("no store opener configured")
)
