package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/logging"
	"github.com/jonathan/study-schedule/internal/types"
	"golang.org/x/time/rate"
)

// Fetcher returns the verse entries for a comma-joined reference list.
type Fetcher interface {
	Fetch(ctx context.Context, refList string) (types.FetchResult, error)
}

// Options configures the text API client.
type Options struct {
	// Endpoint is the URL template; {ref} is replaced by the escaped reference.
	Endpoint  string
	TextField string
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Retry     RetryConfig
	// RequestsPerSecond paces requests across all references. Zero disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// DefaultOptions returns sensible defaults for the public text API.
func DefaultOptions() *Options {
	return &Options{
		Endpoint:  DefaultEndpoint,
		TextField: DefaultTextField,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Retry:     DefaultRetryConfig(),
	}
}

// Client fetches verse text reference by reference.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a client. Zero-valued options fall back to defaults.
func NewClient(opts *Options) *Client {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	o := *opts
	if o.Endpoint == "" {
		o.Endpoint = defaults.Endpoint
	}
	if o.TextField == "" {
		o.TextField = defaults.TextField
	}
	if o.Timeout <= 0 {
		o.Timeout = defaults.Timeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaults.UserAgent
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = defaults.Retry
	}

	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.Timeout}
	}

	var limiter *rate.Limiter
	if o.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.RequestsPerSecond), 1)
	}

	return &Client{
		opts:    o,
		http:    httpClient,
		limiter: limiter,
		logger:  logging.Component(o.Logger, "fetch"),
	}
}

// URLFor expands the endpoint template for a single reference.
func (c *Client) URLFor(ref string) string {
	return strings.ReplaceAll(c.opts.Endpoint, "{ref}", url.PathEscape(ref))
}

// Raw fetches the body for one reference, retrying failed attempts with
// exponential backoff.
func (c *Client) Raw(ctx context.Context, ref string) ([]byte, error) {
	target := c.URLFor(ref)
	var body []byte

	_, err := Retry(ctx, c.opts.Retry, func(ctx context.Context, _ int) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()

		b, err := Get(attemptCtx, c.http, target, c.opts.UserAgent, c.opts.Headers)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, func(attempt int, err error) {
		c.logger.Warn("text request failed",
			"ref", ref,
			"attempt", attempt,
			"max_attempts", c.opts.Retry.MaxAttempts,
			"error", err)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Fetch retrieves every comma-separated reference in refList in order. A
// reference whose requests all fail, or whose body has an unexpected shape,
// contributes no entries. The only error returned is context cancellation.
func (c *Client) Fetch(ctx context.Context, refList string) (types.FetchResult, error) {
	var result types.FetchResult
	for _, ref := range types.SplitReferenceList(refList) {
		c.logger.Debug("fetching text", "ref", ref)

		body, err := c.Raw(ctx, ref)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			c.logger.Error("giving up on reference",
				"ref", ref,
				"max_attempts", c.opts.Retry.MaxAttempts,
				"error", err)
			continue
		}

		entries, err := Parse(body, c.opts.TextField)
		if err != nil {
			var shapeErr *ShapeError
			if errors.As(err, &shapeErr) {
				c.logger.Warn("unexpected response shape", "ref", ref, "error", err)
			} else {
				c.logger.Error("failed to parse response", "ref", ref, "error", err)
			}
			continue
		}
		result.Entries = append(result.Entries, entries...)
	}
	return result, nil
}
