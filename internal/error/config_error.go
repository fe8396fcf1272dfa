package error

import (
	"errors"
	"fmt"
)

// ConfigError describes a client misconfiguration detected before any
// network traffic happens. It is returned, never panicked.
type ConfigError struct {
	message string
}

func NewConfigError(msg string, args ...interface{}) ConfigError {
	return ConfigError{message: fmt.Sprintf(msg, args...)}
}

func (e ConfigError) Error() string         { return e.message }
func (ConfigError) GetReason() Reason       { return ConfigCode }
func (ConfigError) GetComponent() Component { return ClientDependency }

func IsConfigError(err error) bool {
	var cfgErr ConfigError
	return errors.As(err, &cfgErr)
}
