package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/observability/metrics"
)

const (
	// DefaultBaseURL matches the local development deployment of the
	// platform API.
	DefaultBaseURL = "http://localhost:3000/api/v1"

	// DefaultTimeout is the fixed per-request budget.
	DefaultTimeout = 10 * time.Second
)

// Config configures the gateway client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is the single chokepoint for all platform API calls. It attaches
// the current session token as a bearer credential to every outgoing
// request and reacts to authorization failures by invoking the injected
// unauthorized hook exactly once per failure episode.
//
// A Client is cheap to construct; the underlying http.Client is shared.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	token string

	hookMu         sync.Mutex
	onUnauthorized func()
	expiredOnce    sync.Once
}

// New constructs a client with sane defaults and injected dependencies.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  logger,
	}
}

// SetToken installs tok as the default bearer credential for all
// subsequent requests. Session mutations call this synchronously, so the
// next outgoing request always reflects the latest session state.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

// ClearToken removes the default bearer credential.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Token returns the currently installed bearer credential, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized installs the force-navigation hook invoked when an
// authenticated request comes back 401. The hook runs at most once per
// client, so concurrent 401s from in-flight requests collapse into a
// single logout/redirect cycle.
func (c *Client) OnUnauthorized(fn func()) {
	c.hookMu.Lock()
	c.onUnauthorized = fn
	c.hookMu.Unlock()
}

func (c *Client) fireUnauthorized() {
	c.expiredOnce.Do(func() {
		c.hookMu.Lock()
		fn := c.onUnauthorized
		c.hookMu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// do sends one JSON request and decodes the response into out (when
// non-nil). Non-2xx responses become *APIError; a blown timeout becomes
// *TimeoutError. No retries, ever.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "gateway: encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "gateway: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	token := c.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if IsTimeout(err) {
			c.logger.Warn("Gateway request timed out", zap.String("op", op))
			return &TimeoutError{Op: op, Err: err}
		}
		return errors.Wrap(err, "gateway: "+op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "gateway: read response")
	}
	c.record(ctx, method, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		// The session the server rejected is the one we attached; clear it
		// and force re-authentication, then still reject to the caller.
		c.logger.Warn("Authorization failure, clearing session", zap.String("op", op))
		c.fireUnauthorized()
	}

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "gateway: decode response")
		}
	}
	return nil
}

func (c *Client) record(ctx context.Context, method string, status int, elapsed time.Duration) {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.GatewayRequestsTotal.Add(ctx, 1, attrs)
	m.GatewayRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

type apiErrorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Errors  map[string]string `json:"errors"`
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
		switch {
		case len(body.Details) > 0:
			apiErr.Details = body.Details
		case len(body.Errors) > 0:
			apiErr.Details = body.Errors
		}
	}
	return apiErr
}
