package dbclient

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	exportErr "github.com/workspace-migration/exportclient/internal/error"
)

const (
	sparkVersionsEndpoint = "/clusters/spark-versions"
	meEndpoint            = "/preview/scim/v2/Me"

	scalaImageType = "scala"
)

var acceptedDomainSuffixes = []string{".com", ".net"}

type UnexpectedStatusCodeError struct {
	ExpectedStatusCode   int
	UnexpectedStatusCode int
	Body                 string
}

func NewUnexpectedStatusCodeError(expectedStatusCode, unexpectedStatusCode int, body string) UnexpectedStatusCodeError {
	return UnexpectedStatusCodeError{
		ExpectedStatusCode:   expectedStatusCode,
		UnexpectedStatusCode: unexpectedStatusCode,
		Body:                 body,
	}
}

func (e UnexpectedStatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code: want %d, got: %d", e.ExpectedStatusCode, e.UnexpectedStatusCode)
}

// TestConnection checks the workspace URL and the token. A URL with a not
// accepted domain ending gives a ConfigError without any request being sent.
func (c *Client) TestConnection() error {
	if !hasAcceptedSuffix(c.config.URL) {
		c.log.Errorf("Hostname should end in '.com' or '.net'")
		return exportErr.NewConfigError("hostname of %s should end in one of %s", c.config.URL, strings.Join(acceptedDomainSuffixes, ", "))
	}

	request, err := http.NewRequest(http.MethodGet, c.fullEndpoint(sparkVersionsEndpoint, DefaultAPIVersion), nil)
	if err != nil {
		return fmt.Errorf("while creating connection test request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return exportErr.AsTemporaryError(err, "while testing connection to %s", c.config.URL)
	}
	defer response.Body.Close()
	if c.observer != nil {
		c.observer.Observe(request.Method, response.StatusCode)
	}

	if response.StatusCode != http.StatusOK {
		text := readBody(response)
		c.log.Error("Error. Either the credentials have expired or the credentials don't have proper permissions.")
		c.log.Error("If you have a ~/.netrc file, check those credentials. Those take precedence over passed input.")
		c.log.Error(text)
		return fmt.Errorf("while testing connection to %s: %w", c.config.URL, NewUnexpectedStatusCodeError(http.StatusOK, response.StatusCode, text))
	}

	return nil
}

func hasAcceptedSuffix(url string) bool {
	for _, suffix := range acceptedDomainSuffixes {
		if strings.HasSuffix(url, suffix) {
			return true
		}
	}
	return false
}

// LatestSparkVersion returns the version entry with the highest key among the
// scala images. The second return value is false when there is none.
func (c *Client) LatestSparkVersion() (map[string]interface{}, bool, error) {
	response, err := c.Get(sparkVersionsEndpoint)
	if err != nil {
		return nil, false, fmt.Errorf("while getting spark versions: %w", err)
	}
	raw, ok := response["versions"].([]interface{})
	if !ok {
		return nil, false, fmt.Errorf("spark versions response (status code %d) has no versions list", response.StatusCode())
	}

	versions := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if version, ok := item.(map[string]interface{}); ok {
			versions = append(versions, version)
		}
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versionKey(versions[i]) > versionKey(versions[j])
	})

	for _, version := range versions {
		if isScalaImage(versionKey(version)) {
			return version, true, nil
		}
	}
	return nil, false, nil
}

func versionKey(version map[string]interface{}) string {
	key, _ := version["key"].(string)
	return key
}

func isScalaImage(key string) bool {
	parts := strings.Split(key, "-")
	if len(parts) < 2 {
		return false
	}
	return strings.HasPrefix(parts[1], scalaImageType)
}

func readBody(response *http.Response) string {
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Sprintf("response body (status code %d) is unreadable", response.StatusCode)
	}
	return string(data)
}
