package tracker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
)

// Response is the status line and body of a tracker reply. Any status code
// is a response; only transport failures are errors.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Print writes the status code and body the way the operator reads them.
func (r *Response) Print(w io.Writer) {
	fmt.Fprintln(w, r.StatusCode)
	fmt.Fprintln(w, string(r.Body))
}

// Client talks to the tracker's HTTP endpoints.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewClient creates a client for cfg.URL. A zero cfg.Timeout leaves requests
// unbounded except by their context. logger and collector may be nil.
func NewClient(cfg *config.TrackerConfig, logger *logging.Logger, collector *metrics.Collector) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("component", "tracker"),
		metrics: collector,
	}
}

// URL joins path onto the base URL with exactly one slash between them.
// An empty path still yields a trailing slash.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + path
}

// Status issues a GET to the base URL.
func (c *Client) Status(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.baseURL)
}

// Post issues an unauthenticated POST with no body to URL(path).
func (c *Client) Post(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.URL(path))
}

func (c *Client) do(ctx context.Context, method, url string) (resp *Response, err error) {
	ctx, span := tracing.Start(ctx, "tracker.request",
		tracing.AttrHTTPMethod.String(method),
		tracing.AttrHTTPURL.String(url),
	)
	defer func() { tracing.End(span, err) }()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tracing.Inject(ctx, req.Header)

	c.logger.DebugContext(ctx, "sending request to tracker", "method", method, "url", url)

	httpResp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordHTTPRequest(method, 0)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.metrics.RecordHTTPRequest(method, 0)
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	c.metrics.RecordHTTPRequest(method, httpResp.StatusCode)
	span.SetAttributes(tracing.AttrHTTPStatusCode.Int(httpResp.StatusCode))
	c.logger.DebugContext(ctx, "tracker responded",
		"method", method,
		"status", httpResp.StatusCode,
		"bytes", len(body),
	)

	return &Response{
		Method:     strings.ToUpper(method),
		URL:        url,
		StatusCode: httpResp.StatusCode,
		Body:       body,
	}, nil
}
