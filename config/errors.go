package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigPath is returned when the default config location cannot be determined
	ErrConfigPath = errors.New("invalid configuration path")

	// ErrConfigValidate is returned for values that fail validation
	ErrConfigValidate = errors.New("configuration validation failed")
)

// ConfigLoadError reports a configuration file that is unreadable or malformed
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load config: %v", e.Err)
	}
	return fmt.Sprintf("failed to load config %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}
