// Package gsma fetches the canonical operator registry, a CSV feed with one
// operator per row: (id, name, country).
package gsma

import (
	"context"
	"net/http"
	"time"

	"github.com/agentstation/carriermap/internal/transport"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
)

// SourceName identifies the registry in logs and errors.
const SourceName = "gsma"

// Client retrieves the registry feed.
type Client struct {
	url       string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
}

// WithURL overrides the feed URL.
func WithURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.url = url
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a registry client.
func New(opts ...Option) *Client {
	o := &options{
		url:       constants.GSMAFeedURL,
		timeout:   constants.DefaultRequestTimeout,
		userAgent: constants.FeedUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		url: o.url,
		transport: transport.New(SourceName,
			transport.WithHTTPClient(o.httpClient),
			transport.WithTimeout(o.timeout),
			transport.WithUserAgent(o.userAgent),
		),
	}
}

// URL returns the feed URL.
func (c *Client) URL() string {
	return c.url
}

// FetchRegistry downloads and parses the feed. Any transport failure or
// non-2xx status matches errors.ErrSourceUnavailable; a feed that is not
// valid CSV matches errors.ErrMalformedResponse.
func (c *Client) FetchRegistry(ctx context.Context) ([]operators.RegistryRecord, error) {
	ctx = logging.WithSource(ctx, SourceName)
	logger := logging.FromContext(ctx)
	logger.Info().Str("url", c.url).Msg("Fetching registry feed")

	resp, err := c.transport.Get(ctx, c.url)
	if err != nil {
		return nil, transport.Unavailable(SourceName, err)
	}
	body, err := transport.ReadBody(SourceName, resp, 0)
	if err != nil {
		return nil, transport.Unavailable(SourceName, err)
	}

	records, err := ParseBytes(body)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("records", len(records)).Msg("Loaded registry records")
	return records, nil
}
