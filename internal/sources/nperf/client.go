// Package nperf fetches per-country operator listings from the nPerf
// coverage map API. The API has answered with more than one envelope
// over time, so decoding goes through an ordered list of shape detectors.
package nperf

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/carriermap/internal/transport"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
)

// SourceName identifies the listing source in logs and errors.
const SourceName = "nperf"

// Client retrieves listings one country at a time.
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

// WithURL overrides the listing endpoint.
func WithURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.url = url
		}
	}
}

// WithTimeout sets the per-country request timeout.
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

// New creates a listing client.
func New(opts ...Option) *Client {
	o := &options{
		url:       constants.NPerfAPIURL,
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

type listingRequest struct {
	CountryCode string `json:"countryCode"`
}

// FetchListings returns the operators listed for one ISO2 country code.
// Transport failures and non-200 statuses match errors.ErrSourceUnavailable;
// an unrecognized payload matches errors.ErrMalformedResponse. Either way the
// caller should treat the country as having no listings.
func (c *Client) FetchListings(ctx context.Context, countryCode string) ([]operators.ListingRecord, error) {
	code := strings.ToUpper(countryCode)

	resp, err := c.transport.PostJSON(ctx, c.url, listingRequest{CountryCode: code})
	if err != nil {
		return nil, transport.Unavailable(SourceName, err)
	}

	var envelope map[string]json.RawMessage
	if err := transport.DecodeResponse(SourceName, resp, &envelope); err != nil {
		return nil, transport.Unavailable(SourceName, err)
	}

	listings, err := DecodeEnvelope(envelope, code)
	if err != nil {
		return nil, err
	}
	logging.FromContext(logging.WithSource(ctx, SourceName)).Debug().
		Str("country", code).
		Int("listings", len(listings)).
		Msg("Fetched listings")
	return listings, nil
}
