package error

import (
	"errors"
)

type Reason string
type Component string

type ErrorReporter interface {
	error
	GetReason() Reason
	GetComponent() Component
}

// error reporter
type LastError struct {
	Message   string    `json:"message,omitempty"`
	Reason    Reason    `json:"reason,omitempty"`
	Component Component `json:"component,omitempty"`
	Operation string    `json:"operation,omitempty"`
}

const (
	InternalCode      Reason = "err_internal"
	AuthCode          Reason = "err_auth"
	ConfigCode        Reason = "err_config"
	TransportCode     Reason = "err_transport"
	MissingExportFile Reason = "err_missing_export_file"
)

const (
	ClientDependency    Component = "client"
	RestAPIDependency   Component = "rest api"
	ExportDirDependency Component = "export dir"
)

func (err LastError) GetReason() Reason {
	return err.Reason
}

func (err LastError) GetComponent() Component {
	return err.Component
}

func (err LastError) Error() string {
	return err.Message
}

func (err LastError) GetOperation() string {
	return err.Operation
}

// ReasonForError resolves the reason and component of err. The first error
// reporter found in the chain wins.
func ReasonForError(err error, operation string) LastError {
	if err == nil {
		return LastError{}
	}

	if status := ErrorReporter(nil); errors.As(err, &status) {
		return LastError{
			Message:   err.Error(),
			Reason:    status.GetReason(),
			Component: status.GetComponent(),
			Operation: operation,
		}
	}

	return LastError{
		Message:   err.Error(),
		Reason:    InternalCode,
		Component: ClientDependency,
		Operation: operation,
	}
}

// UnwrapOnce accesses the direct cause of the error if any, otherwise
// returns nil.
func UnwrapOnce(err error) (cause error) {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	}
	return nil
}

// UnwrapAll accesses the root cause object of the error.
// If the error has no cause (leaf error), it is returned directly.
// this is a replacement for github.com/pkg/errors.Cause
func UnwrapAll(err error) error {
	for {
		if cause := UnwrapOnce(err); cause != nil {
			err = cause
			continue
		}
		break
	}
	return err
}
