package dbclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	StatusCodeKey = "http_status_code"
	ElementsKey   = "elements"
)

// Response is the normalized result of a request. It always carries the
// http_status_code key, except for the empty result of a skipped write.
type Response map[string]interface{}

func (r Response) StatusCode() int {
	switch code := r[StatusCodeKey].(type) {
	case int:
		return code
	case float64:
		return int(code)
	}
	return 0
}

// Elements returns the wrapped array of a response whose body was a JSON array.
func (r Response) Elements() []interface{} {
	elements, _ := r[ElementsKey].([]interface{})
	return elements
}

// Decode converts the response into a typed value.
func (r Response) Decode(v interface{}) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("while marshaling response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("while decoding response: %w", err)
	}
	return nil
}

type bodyKind int

const (
	emptyBody bodyKind = iota
	objectBody
	arrayBody
)

// body is a decoded JSON response body: empty, an object or an array.
type body struct {
	kind     bodyKind
	object   map[string]interface{}
	elements []interface{}
}

func decodeBody(data []byte) (body, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return body{kind: emptyBody}, nil
	}

	switch trimmed[0] {
	case '{':
		object := map[string]interface{}{}
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return body{}, err
		}
		return body{kind: objectBody, object: object}, nil
	case '[':
		elements := []interface{}{}
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return body{}, err
		}
		return body{kind: arrayBody, elements: elements}, nil
	}

	return body{}, fmt.Errorf("body is neither a JSON object nor a JSON array")
}

func (b body) isEmpty() bool {
	switch b.kind {
	case objectBody:
		return len(b.object) == 0
	case arrayBody:
		return len(b.elements) == 0
	}
	return true
}

func (b body) value() interface{} {
	switch b.kind {
	case objectBody:
		return b.object
	case arrayBody:
		return b.elements
	}
	return nil
}

// normalize wraps arrays under the elements key and injects the status code.
func (b body) normalize(statusCode int) Response {
	response := Response{}
	switch b.kind {
	case objectBody:
		for key, value := range b.object {
			response[key] = value
		}
	case arrayBody:
		response[ElementsKey] = b.elements
	}
	response[StatusCodeKey] = statusCode
	return response
}
