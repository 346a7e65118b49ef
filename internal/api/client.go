// Package api is the request gateway to the commerce backend. It is the
// only package allowed to perform network I/O. Calls return a uniform
// result envelope and never propagate an unhandled failure; the last
// exchange is retained for the debug pane.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopnerd/internal/logging"
)

// Status is the coarse state of the most recent gateway call.
type Status string

const (
	StatusIdle    Status = "Idle"
	StatusRunning Status = "Running..."
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
	StatusError   Status = "Error"
)

// Result is the uniform envelope every call returns. OK reflects the
// transport-level success of the response (2xx); server-side "ok" flags
// live inside Data and are decoded per endpoint.
type Result struct {
	OK      bool
	Status  int
	Data    json.RawMessage
	Message string
}

// Exchange records one request/response pair for inspection.
type Exchange struct {
	RequestID string
	Endpoint  string
	Status    int
	Body      json.RawMessage
	Err       string
	At        time.Time
}

// Render formats the exchange the way the debug output pane shows it.
func (e Exchange) Render() string {
	if e.Endpoint == "" {
		return "{}"
	}
	view := map[string]any{"endpoint": e.Endpoint}
	if e.Err != "" {
		view["error"] = e.Err
	} else {
		view["status"] = e.Status
		view["data"] = e.Body
	}
	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", view)
	}
	return string(out)
}

// Options shape one call. A nil Body with a non-GET method sends an
// empty JSON object.
type Options struct {
	Method string
	Body   any
}

// Gateway is the calling surface actions depend on; *Client implements
// it, tests substitute fakes.
type Gateway interface {
	Call(ctx context.Context, endpoint string, opts Options) Result
}

// Client issues requests against a single backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	lastStatus   Status
	lastExchange Exchange
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		lastStatus: StatusIdle,
	}
}

// Call performs one request. It never returns an error: transport
// failures come back as OK=false with a best-effort message and the
// status indicator set to Error; non-2xx responses come back with the
// parsed body and the indicator set to Failed.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options) Result {
	requestID := uuid.NewString()
	c.setStatus(StatusRunning)
	logging.APIDebug("[req:%s] %s %s", requestID, methodOrGet(opts.Method), endpoint)

	req, err := c.buildRequest(ctx, endpoint, opts)
	if err != nil {
		return c.transportFailure(requestID, endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(requestID, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(requestID, endpoint, err)
	}

	data := json.RawMessage(body)
	if !json.Valid(body) {
		// Non-JSON bodies still get surfaced, quoted, rather than
		// breaking the debug pane.
		quoted, _ := json.Marshal(string(body))
		data = quoted
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	status := StatusFailed
	if ok {
		status = StatusSuccess
	}
	c.record(status, Exchange{
		RequestID: requestID,
		Endpoint:  endpoint,
		Status:    resp.StatusCode,
		Body:      data,
		At:        time.Now(),
	})
	logging.API("[req:%s] %s -> %d", requestID, endpoint, resp.StatusCode)

	return Result{OK: ok, Status: resp.StatusCode, Data: data}
}

func (c *Client) buildRequest(ctx context.Context, endpoint string, opts Options) (*http.Request, error) {
	method := methodOrGet(opts.Method)

	var reader io.Reader
	if method != http.MethodGet {
		payload := opts.Body
		if payload == nil {
			payload = map[string]any{}
		}
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) transportFailure(requestID, endpoint string, err error) Result {
	msg := err.Error()
	c.record(StatusError, Exchange{
		RequestID: requestID,
		Endpoint:  endpoint,
		Err:       msg,
		At:        time.Now(),
	})
	logging.Get(logging.CategoryAPI).Error("[req:%s] %s failed: %v", requestID, endpoint, err)

	data, _ := json.Marshal(map[string]string{"message": msg})
	return Result{OK: false, Data: data, Message: msg}
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()
	c.lastStatus = s
	c.mu.Unlock()
}

func (c *Client) record(s Status, e Exchange) {
	c.mu.Lock()
	c.lastStatus = s
	c.lastExchange = e
	c.mu.Unlock()
}

// LastStatus returns the coarse status of the most recent call.
func (c *Client) LastStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStatus
}

// LastExchange returns the most recent request/response record.
func (c *Client) LastExchange() Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastExchange
}

func methodOrGet(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return method
}
