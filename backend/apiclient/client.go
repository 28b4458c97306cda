// Package apiclient is the HTTP layer the backend controllers speak through.
// It turns {params, query, body} request descriptors into HTTP requests and
// hands back {status, body, headers} without interpreting the status; deciding
// what counts as success is up to each controller.
package apiclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Timeout       time.Duration
	RetryMax      int
	RetryWaitMin  time.Duration
	SkipSSLVerify bool
	UserAgent     string
	Logger        *zerolog.Logger
}

type Client struct {
	http *retryablehttp.Client
	// once serves non-idempotent methods and never retries
	once      *retryablehttp.Client
	userAgent string
	log       zerolog.Logger
}

func New(opts Options) *Client {
	logger := log.Logger.With().Str("component", "apiclient").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	rc := newRetryClient(opts, logger, opts.RetryMax)
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	if opts.SkipSSLVerify {
		if t, ok := rc.HTTPClient.Transport.(*http.Transport); ok {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	once := newRetryClient(opts, logger, 0)
	once.HTTPClient = rc.HTTPClient

	return &Client{
		http:      rc,
		once:      once,
		userAgent: opts.UserAgent,
		log:       logger,
	}
}

func newRetryClient(opts Options, logger zerolog.Logger, retryMax int) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
		if rc.RetryWaitMax < opts.RetryWaitMin {
			rc.RetryWaitMax = opts.RetryWaitMin
		}
	}
	// non-success responses must reach the controller so it can name the failed operation
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{l: logger}
	return rc
}

// idempotent reports whether a failed request may be re-sent.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Request describes a single backend call.
type Request struct {
	Method string
	// Path may contain {name} placeholders which are filled,
	// path-escaped, from Params.
	Path   string
	Params map[string]string
	// Query is either url.Values or a struct with `url` tags.
	Query any
	// Body is sent as-is if []byte, form-encoded if url.Values,
	// and JSON-encoded otherwise.
	Body   any
	Header http.Header
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// BuildURL resolves req's path and query against baseURL.
func BuildURL(baseURL string, req Request) (string, error) {
	path := req.Path
	for k, v := range req.Params {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + path)
	if err != nil {
		return "", err
	}
	vals, err := encodeQuery(req.Query)
	if err != nil {
		return "", err
	}
	if len(vals) > 0 {
		u.RawQuery = vals.Encode()
	}
	return u.String(), nil
}

func encodeQuery(q any) (url.Values, error) {
	switch q := q.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return q, nil
	default:
		return query.Values(q)
	}
}

// Do performs req against baseURL. Non-success statuses are not errors;
// errors are returned only for request construction, transport failure,
// and cancellation (mediaprovider.ErrAborted).
func (c *Client) Do(ctx context.Context, baseURL string, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	u, err := BuildURL(baseURL, req)
	if err != nil {
		return nil, fmt.Errorf("building request URL: %w", err)
	}

	var body any
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = b
	case url.Values:
		body = []byte(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		j, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = j
		contentType = "application/json"
	}

	r, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if contentType != "" && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", contentType)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		r.Header.Set("User-Agent", c.userAgent)
	}

	hc := c.once
	if idempotent(method) {
		hc = c.http
	}
	resp, err := hc.Do(r)
	if err != nil {
		return nil, c.transportErr(ctx, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportErr(ctx, err)
	}
	c.log.Debug().Str("method", method).Str("path", req.Path).Int("status", resp.StatusCode).Msg("request complete")
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   b,
	}, nil
}

func (c *Client) transportErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", mediaprovider.ErrAborted, err)
	}
	return &mediaprovider.TransportError{Err: err}
}
