// Package api is the HTTP client and payload model for the telemetry API
// served under /api (see internal/server for the other side).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/vantasys/internal/errors"
)

// APIKeyHeader carries the shared token on every request.
const APIKeyHeader = "X-API-Key"

// maxErrorBody bounds how much of a failed response is kept for messages.
const maxErrorBody = 512

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to the telemetry API. It holds no state between calls and
// is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the X-API-Key value. Empty means no header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// New creates a client rooted at baseURL, e.g. http://127.0.0.1:6767/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CPU fetches /cpu.
func (c *Client) CPU(ctx context.Context) (*CPU, json.RawMessage, error) {
	var out CPU
	raw, err := c.getJSON(ctx, KindCPU.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// Memory fetches /memory.
func (c *Client) Memory(ctx context.Context) (*Memory, json.RawMessage, error) {
	var out Memory
	raw, err := c.getJSON(ctx, KindMemory.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// Sensors fetches /sensors.
func (c *Client) Sensors(ctx context.Context) (*Sensors, json.RawMessage, error) {
	var out Sensors
	raw, err := c.getJSON(ctx, KindSensors.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// System fetches /system.
func (c *Client) System(ctx context.Context) (*System, json.RawMessage, error) {
	var out System
	raw, err := c.getJSON(ctx, KindSystem.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// Disks fetches /disk/detailed.
func (c *Client) Disks(ctx context.Context) (*Disks, json.RawMessage, error) {
	var out Disks
	raw, err := c.getJSON(ctx, KindDisk.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// Network fetches /network/detailed.
func (c *Client) Network(ctx context.Context) (*Network, json.RawMessage, error) {
	var out Network
	raw, err := c.getJSON(ctx, KindNetwork.Path(), &out)
	if err != nil {
		return nil, nil, err
	}
	return &out, raw, nil
}

// Fetch returns the raw JSON for any cacheable kind.
func (c *Client) Fetch(ctx context.Context, kind Kind) (json.RawMessage, error) {
	var v interface{}
	return c.getJSON(ctx, kind.Path(), &v)
}

// Processes fetches /processes. limit <= 0 leaves the server default.
func (c *Client) Processes(ctx context.Context, limit int) ([]Process, error) {
	var out []Process
	if _, err := c.getJSON(ctx, withLimit("/processes", limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Connections fetches /network/connections. limit <= 0 leaves the server default.
func (c *Client) Connections(ctx context.Context, limit int) ([]Connection, error) {
	var out []Connection
	if _, err := c.getJSON(ctx, withLimit("/network/connections", limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Services fetches /services.
func (c *Client) Services(ctx context.Context) ([]Service, error) {
	var out []Service
	if _, err := c.getJSON(ctx, "/services", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Process fetches /process/{pid} and returns it raw; the structure is
// shown as a tree, not interpreted.
func (c *Client) Process(ctx context.Context, pid int32) (json.RawMessage, error) {
	var v interface{}
	return c.getJSON(ctx, "/process/"+strconv.Itoa(int(pid)), &v)
}

// Kill asks the API to terminate pid. The response body is not used.
func (c *Client) Kill(ctx context.Context, pid int32) error {
	_, err := c.do(ctx, http.MethodPost, "/process/"+strconv.Itoa(int(pid))+"/kill")
	return err
}

// Health fetches /health, which lives beside /api rather than under it.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	root := strings.TrimSuffix(c.baseURL, "/api")
	hc := &Client{baseURL: root, token: c.token, http: c.http}
	var out Health
	if _, err := hc.getJSON(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func withLimit(path string, limit int) string {
	if limit <= 0 {
		return path
	}
	return path + "?limit=" + strconv.Itoa(limit)
}

// getJSON issues a GET and decodes the body into out, returning the raw
// bytes alongside so callers can cache exactly what the API sent.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("Response from %s is not valid JSON", path),
			"Check api.base_url points at the telemetry API")
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Cannot build request for %s", path),
			"Check api.base_url in your config")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(APIKeyHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("%s %s failed", method, path),
			"Is the backend running at "+c.baseURL+"?")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Reading %s response failed", path),
			"The connection dropped mid-response; the next poll will retry")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		statusErr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: snippet}
		suggestion := "Check the server log"
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			suggestion = "Set api.token (or VANTASYS_TOKEN) to the server's key"
		}
		return nil, errors.WrapWithCode(statusErr, errors.ErrFetch,
			fmt.Sprintf("%s %s failed", method, path), suggestion)
	}

	return body, nil
}
