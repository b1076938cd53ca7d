package schema

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a schema artifact that is missing or unusable
var ErrConfiguration = errors.New("schema configuration error")

// ConfigurationError describes which artifact could not be loaded.
// Wraps ErrConfiguration for errors.Is() compatibility.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("schema %s: unusable", e.Path)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}
