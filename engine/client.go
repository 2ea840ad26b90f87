package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to the engine's control API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the default per-request timeout. Callers that
// poll should pass a context with its own deadline as well; this is the
// hard upper bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the engine at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the engine endpoint this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Status fetches the current status snapshot. When the engine omits a
// timestamp, the snapshot is stamped with receipt time so acceptance
// ordering always has something to compare.
func (c *Client) Status(ctx context.Context) (StatusSnapshot, error) {
	var snap StatusSnapshot
	if err := c.get(ctx, "/status", &snap); err != nil {
		return StatusSnapshot{}, err
	}
	if snap.Time.IsZero() {
		snap.Time = time.Now().UTC()
	}
	if err := snap.Validate(); err != nil {
		return StatusSnapshot{}, &ProtocolError{Op: "GET /status", Err: err}
	}
	return snap, nil
}

// Config fetches the engine's active configuration.
func (c *Client) Config(ctx context.Context) (Config, error) {
	var cfg Config
	if err := c.get(ctx, "/config", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Health probes /healthz.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.get(ctx, "/healthz", &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// Start begins trading in the requested mode. Non-idempotent on the
// engine side; callers must not retry on failure.
func (c *Client) Start(ctx context.Context, req StartRequest) (Ack, error) {
	if req.Mode != "paper" && req.Mode != "live" {
		return Ack{}, fmt.Errorf("start: mode must be \"paper\" or \"live\", got %q", req.Mode)
	}
	var ack Ack
	if err := c.post(ctx, "/start", req, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// Stop halts trading. Non-idempotent; no automatic retry.
func (c *Client) Stop(ctx context.Context) (Ack, error) {
	var ack Ack
	if err := c.post(ctx, "/stop", nil, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// EmergencyFlatten liquidates any open position immediately.
// Non-idempotent and destructive; no automatic retry.
func (c *Client) EmergencyFlatten(ctx context.Context) (Ack, error) {
	var ack Ack
	if err := c.post(ctx, "/emergency-flatten", nil, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// Backtest runs a backtest on the engine and returns its summary record.
// Fire-and-forget from the console's perspective: the result is displayed,
// never stored or acted on.
func (c *Client) Backtest(ctx context.Context, req BacktestRequest) (BacktestResult, error) {
	if req.StartDate == "" {
		return BacktestResult{}, fmt.Errorf("backtest: start date is required")
	}
	var res BacktestResult
	if err := c.post(ctx, "/backtest", req, &res); err != nil {
		return BacktestResult{}, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, "GET "+path, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, "POST "+path, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Op: op, Err: err}
	}
	return nil
}

// readDetail extracts the engine's {"detail": "..."} error body; falls
// back to the raw body when the shape differs.
func readDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}
