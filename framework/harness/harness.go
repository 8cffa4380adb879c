package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/restful-booker/booking-contract-tests/framework"

	"github.com/google/uuid"
)

const (
	requestIDHeader  = "X-Request-Id"
	statusPollPeriod = time.Millisecond * 100
)

// TestHarness manages HTTP communication with the service under test. It has no knowledge of
// what the service does; callers give it method, path and body, and get back the raw status
// and body.
type TestHarness struct {
	serviceBaseURL string
	httpClient     *http.Client
	logger         framework.Logger
}

// Request describes a single call to the service under test.
type Request struct {
	Method string
	// Path is relative to the service base URL, for instance "/booking/1".
	Path string
	// Body is serialized with json.Marshal if it is not nil. A json.RawMessage is sent as is.
	Body    interface{}
	Headers http.Header
	Cookies []*http.Cookie
}

// Response is the outcome of a call that reached the service, whatever its status.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// NewTestHarness creates a TestHarness and verifies that the service is responding by polling
// its status resource until it answers with a 2xx status or statusQueryTimeout elapses.
//
// Every call made through the harness is bounded by callTimeout. There are no retries; a
// call that times out is reported as an error to the caller.
func NewTestHarness(
	serviceBaseURL string,
	statusPath string,
	callTimeout time.Duration,
	statusQueryTimeout time.Duration,
	debugLogger framework.Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	h := &TestHarness{
		serviceBaseURL: strings.TrimSuffix(serviceBaseURL, "/"),
		httpClient:     &http.Client{Timeout: callTimeout},
		logger:         debugLogger,
	}
	if err := h.awaitService(statusPath, statusQueryTimeout, startupOutput); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *TestHarness) BaseURL() string {
	return h.serviceBaseURL
}

func (h *TestHarness) awaitService(statusPath string, timeout time.Duration, output io.Writer) error {
	url := h.serviceBaseURL + statusPath
	fmt.Fprintf(output, "Connecting to service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := h.httpClient.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			fmt.Fprintln(output)
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("service status query returned status code %d", resp.StatusCode)
			}
			h.logger.Printf("Service status query returned %d", resp.StatusCode)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusPollPeriod)
	}
}

// Do sends a request to the service and reads the whole response. A non-2xx status is not an
// error; the error return is only for requests that could not be sent or answered.
func (h *TestHarness) Do(r Request, logger framework.Logger) (*Response, error) {
	if logger == nil {
		logger = h.logger
	}

	var body io.Reader
	var bodyDesc string
	if r.Body != nil {
		data, err := marshalBody(r.Body)
		if err != nil {
			return nil, fmt.Errorf("could not serialize request body: %w", err)
		}
		body = bytes.NewBuffer(data)
		bodyDesc = " " + string(data)
	}

	req, err := http.NewRequest(r.Method, h.serviceBaseURL+r.Path, body)
	if err != nil {
		return nil, err
	}
	for k, vv := range r.Headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, c := range r.Cookies {
		req.AddCookie(c)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	logger.Printf("[%s] %s %s%s", requestID, r.Method, req.URL, bodyDesc)
	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Printf("[%s] request failed: %s", requestID, err)
		return nil, fmt.Errorf("%s %s failed: %w", r.Method, r.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	respData, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s %s: %w", r.Method, r.Path, err)
	}
	logger.Printf("[%s] received HTTP %d: %s", requestID, resp.StatusCode, string(respData))

	return &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      respData,
		RequestID: requestID,
	}, nil
}

func marshalBody(body interface{}) ([]byte, error) {
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(body)
}

// DecodeJSON parses the response body into target.
func (r *Response) DecodeJSON(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("malformed JSON response (HTTP %d): %q: %w", r.Status, string(r.Body), err)
	}
	return nil
}
