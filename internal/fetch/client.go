// Package fetch is a thin HTTP client for the portfolio API. It applies a fixed
// per-request timeout, reports every call to an Observer and turns every
// failure into a *Error with a Kind. It never retries.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultContentType = "application/json"
	userAgent          = "folio/1.0"
	maxBodyBytes       = 10 << 20
)

// Response is a completed round trip with a 2xx status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	method string
	path   string
}

// Decode unmarshals a JSON body into v. Decoding failures are KindInvalidResponse.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return InvalidResponse(r.method, r.path, fmt.Errorf("decoding json: %w", err))
	}
	return nil
}

// Blob returns the raw body, for binary payloads.
func (r *Response) Blob() []byte { return r.Body }

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// IsJSON reports whether the server labelled the body as JSON.
func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// Client issues requests relative to a fixed base URL.
type Client struct {
	baseURL     string
	timeout     time.Duration
	contentType string
	httpClient  *http.Client
	observer    Observer
}

// ClientOptions configures a Client.
type ClientOptions struct {
	timeout     time.Duration
	contentType string
	httpClient  *http.Client
	observer    Observer
	logger      *slog.Logger
}

// ClientOption applies a configuration to ClientOptions.
type ClientOption func(*ClientOptions)

// WithTimeout overrides the 10s per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *ClientOptions) { o.timeout = d }
}

// WithContentType overrides the default Content-Type header.
func WithContentType(ct string) ClientOption {
	return func(o *ClientOptions) { o.contentType = ct }
}

// WithHTTPClient sets the underlying http.Client. Its Timeout is left untouched;
// the per-request timeout is applied through the request context.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) { o.httpClient = c }
}

// WithObserver replaces the default logging observer.
func WithObserver(obs Observer) ClientOption {
	return func(o *ClientOptions) { o.observer = obs }
}

// WithLogger sets the logger used by the default observer.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *ClientOptions) { o.logger = l }
}

// NewClient constructs a Client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	o := ClientOptions{
		timeout:     DefaultTimeout,
		contentType: DefaultContentType,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if o.observer == nil {
		o.observer = NewLogObserver(o.logger)
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     o.timeout,
		contentType: o.contentType,
		httpClient:  o.httpClient,
		observer:    o.observer,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Get is shorthand for Request(ctx, http.MethodGet, path, nil).
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

// Request sends method to path relative to the base URL. body may be nil,
// []byte, an io.Reader, or any value that is encoded as JSON. A body that
// cannot be encoded fails before anything is sent, with a plain error rather
// than a *Error.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	method = strings.ToUpper(method)
	reader, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: encoding request body: %w", method, path, err)
	}

	rec := RequestRecord{
		ID:     uuid.New().String(),
		Method: method,
		Path:   path,
		URL:    c.url(path),
	}
	c.observer.BeforeRequest(ctx, rec)

	start := time.Now()
	resp, err := c.do(ctx, rec, reader)

	out := ResponseRecord{ID: rec.ID, Method: method, Path: path, Duration: time.Since(start), Err: err}
	if resp != nil {
		out.StatusCode = resp.StatusCode
	} else if sc, ok := StatusCode(err); ok {
		out.StatusCode = sc
	}
	c.observer.AfterResponse(ctx, out)

	return resp, err
}

func (c *Client) do(ctx context.Context, rec RequestRecord, reader io.Reader) (*Response, error) {
	fail := func(kind Kind, err error) error {
		return &Error{Kind: kind, Method: rec.Method, Path: rec.Path, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, rec.Method, rec.URL, reader)
	if err != nil {
		return nil, fail(KindNetwork, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", rec.ID)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail(classify(err), err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fail(classify(err), fmt.Errorf("reading response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindHTTPStatus,
			Method:     rec.Method,
			Path:       rec.Path,
			StatusCode: httpResp.StatusCode,
			Body:       data,
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		method:     rec.Method,
		path:       rec.Path,
	}, nil
}

func (c *Client) url(path string) string {
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}
