package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError is returned for every request answered with 401 or 403.
// It is never retried or swallowed by the client.
type AuthError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func NewAuthError(method, url string, statusCode int, body string) AuthError {
	return AuthError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

func (e AuthError) Error() string {
	return fmt.Sprintf("Error: %s request failed with code %d\n%s", strings.ToLower(e.Method), e.StatusCode, e.Body)
}

func (AuthError) GetReason() Reason       { return AuthCode }
func (AuthError) GetComponent() Component { return RestAPIDependency }

// IsAuthStatusCode reports whether the status code is treated as a hard
// authentication/authorization failure.
func IsAuthStatusCode(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func IsAuthError(err error) bool {
	var authErr AuthError
	return errors.As(err, &authErr)
}
