package backend

import (
	"errors"
	"fmt"
)

// ConfigError represents errors in backend configuration detected at
// registration: missing or invalid settings, inconsistent capability and
// dialect declarations, and host name resolution failures. A ConfigError
// is fatal to that backend's setup.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("backend configuration error during %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error is a backend configuration error
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

var (
	ErrDuplicateName = errors.New("backend name already registered")
	ErrNotFound      = errors.New("backend not registered")
)
