package dbclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	exportErr "github.com/workspace-migration/exportclient/internal/error"
)

// Get sends a GET request to <url>/api/<version><endpoint>. Responses with
// status 401 or 403 end with an AuthError, every other status is returned in
// the Response.
func (c *Client) Get(endpoint string, opts ...RequestOption) (Response, error) {
	o := newRequestOptions(opts)
	fullEndpoint := c.fullEndpoint(endpoint, o.version)

	request, err := http.NewRequest(http.MethodGet, fullEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("while creating GET request: %w", err)
	}
	if len(o.params) > 0 {
		query := request.URL.Query()
		o.encodeParams(query)
		request.URL.RawQuery = query.Encode()
	}

	b, statusCode, err := c.execute(request)
	if err != nil {
		return nil, err
	}
	c.print(o, b)

	return b.normalize(statusCode), nil
}

// Post sends payload as JSON, or as multipart form fields when WithFiles is
// used. An empty payload is not sent, an empty Response is returned instead.
func (c *Client) Post(endpoint string, payload map[string]interface{}, opts ...RequestOption) (Response, error) {
	return c.httpReq(http.MethodPost, endpoint, payload, newRequestOptions(opts))
}

// Put behaves like Post without the multipart variant.
func (c *Client) Put(endpoint string, payload map[string]interface{}, opts ...RequestOption) (Response, error) {
	o := newRequestOptions(opts)
	o.files = nil
	return c.httpReq(http.MethodPut, endpoint, payload, o)
}

// Patch behaves like Post without the multipart variant.
func (c *Client) Patch(endpoint string, payload map[string]interface{}, opts ...RequestOption) (Response, error) {
	o := newRequestOptions(opts)
	o.files = nil
	return c.httpReq(http.MethodPatch, endpoint, payload, o)
}

func (c *Client) httpReq(method, endpoint string, payload map[string]interface{}, o requestOptions) (Response, error) {
	fullEndpoint := c.fullEndpoint(endpoint, o.version)
	if len(payload) == 0 {
		c.log.Warnf("must have a payload, skipping %s %s", method, fullEndpoint)
		return Response{}, nil
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	if len(o.files) > 0 {
		data, contentType, err = multipartBody(payload, o.files)
	} else {
		data, err = json.Marshal(payload)
		contentType = "application/json"
	}
	if err != nil {
		return nil, fmt.Errorf("while encoding %s payload: %w", method, err)
	}

	request, err := http.NewRequest(method, fullEndpoint, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("while creating %s request: %w", method, err)
	}
	request.Header.Set("Content-Type", contentType)

	b, statusCode, err := c.execute(request)
	if err != nil {
		return nil, err
	}
	c.print(o, b)

	if b.isEmpty() {
		return Response{StatusCodeKey: statusCode}, nil
	}
	return b.normalize(statusCode), nil
}

func (c *Client) fullEndpoint(endpoint, version string) string {
	return fmt.Sprintf("%s/api/%s%s", c.config.URL, version, endpoint)
}

func (c *Client) execute(request *http.Request) (body, int, error) {
	if c.config.Verbose {
		c.log.Infof("%s: %s", request.Method, request.URL)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return body{}, 0, exportErr.AsTemporaryError(err, "while executing %s request to %s", request.Method, request.URL)
	}
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			c.log.Warnf("while closing %s response body: %s", request.Method, closeErr)
		}
	}()
	if c.observer != nil {
		c.observer.Observe(request.Method, response.StatusCode)
	}

	data, err := io.ReadAll(response.Body)
	if exportErr.IsAuthStatusCode(response.StatusCode) {
		if err != nil {
			c.log.Warnf("while reading %s response body (status code %d): %s", request.Method, response.StatusCode, err)
		}
		return body{}, response.StatusCode, exportErr.NewAuthError(request.Method, request.URL.String(), response.StatusCode, string(data))
	}
	if err != nil {
		return body{}, response.StatusCode, exportErr.AsTemporaryError(err, "while reading %s response body (status code %d)", request.Method, response.StatusCode)
	}

	b, err := decodeBody(data)
	if err != nil {
		return body{}, response.StatusCode, fmt.Errorf("while decoding %s response body (status code %d): %w", request.Method, response.StatusCode, err)
	}

	return b, response.StatusCode, nil
}

func (c *Client) print(o requestOptions, b body) {
	if !o.printJSON || c.printer == nil {
		return
	}
	if err := c.printer.Print(b.value()); err != nil {
		c.log.Warnf("while printing response: %s", err)
	}
}

func multipartBody(payload map[string]interface{}, files map[string]File) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, key := range sortedKeys(payload) {
		value, err := formValue(payload[key])
		if err != nil {
			return nil, "", fmt.Errorf("while encoding form field %s: %w", key, err)
		}
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("while writing form field %s: %w", key, err)
		}
	}

	fields := make([]string, 0, len(files))
	for field := range files {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		file := files[field]
		part, err := writer.CreateFormFile(field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("while creating form file %s: %w", field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("while copying form file %s: %w", field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("while closing multipart writer: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// formValue sends strings as they are and everything else as JSON.
func formValue(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
