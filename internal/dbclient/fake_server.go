package dbclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
)

const (
	FakeUserName = "migration-admin@example.com"
	FakeToken    = "dapi-fake-token"
)

// RecordedRequest is a request received by the fake server.
type RecordedRequest struct {
	Method        string
	Version       string
	Endpoint      string
	Query         url.Values
	Authorization string
	ContentType   string
	Body          []byte
}

type stub struct {
	statusCode int
	body       string
}

// FakeServer imitates the workspace REST API. The spark versions and current
// user endpoints are served by default, other endpoints need a stub.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	stubs    map[string]stub
	requests []RecordedRequest
}

func NewFakeServer() *FakeServer {
	s := &FakeServer{stubs: map[string]stub{}}

	router := mux.NewRouter()
	router.PathPrefix("/api/{version}/").HandlerFunc(s.serve)
	s.Server = httptest.NewServer(router)

	s.Stub(http.MethodGet, sparkVersionsEndpoint, http.StatusOK, `{"versions": [
		{"key": "5.5.x-scala2.10", "name": "5.5 (includes Apache Spark 2.4.3, Scala 2.10)"},
		{"key": "6.0.x-scala2.11", "name": "6.0 (includes Apache Spark 2.4.0, Scala 2.11)"},
		{"key": "6.0.x-python3", "name": "6.0 (includes Apache Spark 2.4.0, Python 3)"}
	]}`)
	s.Stub(http.MethodGet, meEndpoint, http.StatusOK, fmt.Sprintf(`{"userName": %q, "active": true}`, FakeUserName))

	return s
}

// Stub sets the response for method and endpoint, the endpoint is relative
// to /api/<version>.
func (s *FakeServer) Stub(method, endpoint string, statusCode int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[stubKey(method, endpoint)] = stub{statusCode: statusCode, body: body}
}

func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest{}, s.requests...)
}

// Transport sends every request to the fake server regardless of its host,
// so clients may keep a production like URL.
func (s *FakeServer) Transport() http.RoundTripper {
	target, _ := url.Parse(s.URL)
	return &redirectTransport{target: target, base: http.DefaultTransport}
}

func (s *FakeServer) serve(w http.ResponseWriter, r *http.Request) {
	version := mux.Vars(r)["version"]
	endpoint := r.URL.Path[len("/api/"+version):]

	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Version:       version,
		Endpoint:      endpoint,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          data,
	})
	st, found := s.stubs[stubKey(r.Method, endpoint)]
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error_code": "ENDPOINT_NOT_FOUND",
			"message":    fmt.Sprintf("No API found for '%s %s'", r.Method, endpoint),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(st.statusCode)
	_, _ = w.Write([]byte(st.body))
}

func stubKey(method, endpoint string) string {
	return method + " " + endpoint
}

func writeJSON(w http.ResponseWriter, code int, object interface{}) {
	data, err := json.Marshal(object)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

type redirectTransport struct {
	target *url.URL
	base   http.RoundTripper
}

func (t *redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	redirected := r.Clone(r.Context())
	redirected.URL.Scheme = t.target.Scheme
	redirected.URL.Host = t.target.Host
	redirected.Host = t.target.Host
	return t.base.RoundTrip(redirected)
}
