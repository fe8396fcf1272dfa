package dbclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/workspace-migration/exportclient/internal/acl"
	"github.com/workspace-migration/exportclient/internal/exportdir"
	"golang.org/x/oauth2"
)

// CABundleEnvs are cleared for the whole process when SSL verification is
// disabled, so that child tools honour the same setting.
var CABundleEnvs = []string{"REQUESTS_CA_BUNDLE", "CURL_CA_BUNDLE"}

// JSONPrinter prints decoded response bodies requested with WithPrintJSON.
type JSONPrinter interface {
	Print(object interface{}) error
}

// RequestObserver is notified about every request which got a response.
type RequestObserver interface {
	Observe(method string, code int)
}

// Client is a REST API wrapper for a single workspace.
type Client struct {
	config     Config
	httpClient *http.Client
	fs         afero.Fs
	log        logrus.FieldLogger
	printer    JSONPrinter
	observer   RequestObserver
}

func NewClient(config Config, printer JSONPrinter, log logrus.FieldLogger) (*Client, error) {
	return NewClientWithFs(config, afero.NewOsFs(), printer, log)
}

func NewClientWithFs(config Config, fs afero.Fs, printer JSONPrinter, log logrus.FieldLogger) (*Client, error) {
	config.URL = strings.TrimRight(config.URL, "/")

	if err := fs.MkdirAll(config.ExportDir, 0755); err != nil {
		return nil, fmt.Errorf("while creating export dir %s: %w", config.ExportDir, err)
	}

	// process wide, so only after every other step succeeded
	if !config.VerifySSL {
		log.Warnf("SSL verification is disabled, clearing %s", strings.Join(CABundleEnvs, ", "))
		for _, env := range CABundleEnvs {
			if err := os.Setenv(env, ""); err != nil {
				return nil, fmt.Errorf("while clearing %s: %w", env, err)
			}
		}
	}

	client := &Client{
		config:  config,
		fs:      fs,
		log:     log,
		printer: printer,
	}
	client.SetBaseTransport(defaultTransport(config.VerifySSL))

	return client, nil
}

func defaultTransport(verifySSL bool) http.RoundTripper {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return transport
}

// SetBaseTransport replaces the transport below the bearer token injection.
func (c *Client) SetBaseTransport(base http.RoundTripper) {
	c.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.config.Token}),
			Base:   base,
		},
	}
}

func (c *Client) SetRequestObserver(observer RequestObserver) {
	c.observer = observer
}

func (c *Client) SetPrinter(printer JSONPrinter) {
	c.printer = printer
}

func (c *Client) IsAWS() bool {
	return c.config.IsAWS
}

func (c *Client) IsVerbose() bool {
	return c.config.Verbose
}

func (c *Client) IsSkipFailed() bool {
	return c.config.SkipFailed
}

func (c *Client) URL() string {
	return c.config.URL
}

func (c *Client) ExportDir() string {
	return c.config.ExportDir
}

func (c *Client) SetExportDir(dir string) {
	c.config.ExportDir = dir
}

// Whoami returns the userName of the token owner.
func (c *Client) Whoami() (string, error) {
	response, err := c.Get(meEndpoint)
	if err != nil {
		return "", fmt.Errorf("while getting current user: %w", err)
	}
	userName, ok := response["userName"].(string)
	if !ok {
		return "", fmt.Errorf("current user response (status code %d) has no userName", response.StatusCode())
	}
	return userName, nil
}

// BuildACLArgs flattens exported ACL entries, see acl.Build.
func (c *Client) BuildACLArgs(entries []acl.Entry, isJobs bool) ([]acl.Grant, error) {
	return acl.Build(entries, isJobs, c.Whoami)
}

// UpdateAccountID replaces oldAccountID with newAccountID in every export log.
// On failure the already rewritten logs keep their .bak backups.
func (c *Client) UpdateAccountID(newAccountID, oldAccountID string) error {
	rewriter := exportdir.NewRewriter(c.fs, c.config.ExportDir, c.log.WithField("component", "exportdir"))
	if err := rewriter.UpdateAccountID(newAccountID, oldAccountID); err != nil {
		return fmt.Errorf("while updating account id in %s: %w", c.config.ExportDir, err)
	}
	return nil
}
