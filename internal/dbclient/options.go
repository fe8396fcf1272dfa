package dbclient

import (
	"fmt"
	"io"
	"net/url"
	"sort"
)

const DefaultAPIVersion = "2.0"

// File is a single file part of a multipart POST.
type File struct {
	Name    string
	Content io.Reader
}

type RequestOption func(*requestOptions)

type requestOptions struct {
	version   string
	params    map[string]interface{}
	printJSON bool
	files     map[string]File
}

func newRequestOptions(opts []RequestOption) requestOptions {
	o := requestOptions{version: DefaultAPIVersion}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithVersion overrides the API version used in the /api/<version> prefix.
func WithVersion(version string) RequestOption {
	return func(o *requestOptions) {
		if version != "" {
			o.version = version
		}
	}
}

// WithParams adds query parameters to a GET request. Slice values are sent as
// repeated keys.
func WithParams(params map[string]interface{}) RequestOption {
	return func(o *requestOptions) {
		o.params = params
	}
}

// WithPrintJSON pretty prints the decoded response body.
func WithPrintJSON() RequestOption {
	return func(o *requestOptions) {
		o.printJSON = true
	}
}

// WithFiles turns a POST into a multipart/form-data upload. It is ignored by
// the other verbs.
func WithFiles(files map[string]File) RequestOption {
	return func(o *requestOptions) {
		o.files = files
	}
}

func (o requestOptions) encodeParams(query url.Values) {
	keys := make([]string, 0, len(o.params))
	for key := range o.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := o.params[key].(type) {
		case []string:
			for _, v := range value {
				query.Add(key, v)
			}
		case []interface{}:
			for _, v := range value {
				query.Add(key, fmt.Sprint(v))
			}
		default:
			query.Add(key, fmt.Sprint(value))
		}
	}
}
