package error

import (
	"fmt"
)

// TemporaryError marks network level failures. The client never retries
// them, callers decide.
type TemporaryError struct {
	message string
}

func NewTemporaryError(msg string, args ...interface{}) *TemporaryError {
	return &TemporaryError{message: fmt.Sprintf(msg, args...)}
}

func AsTemporaryError(err error, context string, args ...interface{}) *TemporaryError {
	errCtx := fmt.Sprintf(context, args...)
	msg := fmt.Sprintf("%s: %s", errCtx, err.Error())

	return &TemporaryError{message: msg}
}

func (te TemporaryError) Error() string        { return te.message }
func (TemporaryError) Temporary() bool         { return true }
func (TemporaryError) GetReason() Reason       { return TransportCode }
func (TemporaryError) GetComponent() Component { return RestAPIDependency }

func IsTemporaryError(err error) bool {
	cause := UnwrapAll(err)

	nfe, ok := cause.(interface {
		Temporary() bool
	})

	return ok && nfe.Temporary()
}
