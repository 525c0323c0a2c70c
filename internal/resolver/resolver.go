// Package resolver expands short and shared map links into their final
// destination and extracts a coordinate from the link or, failing that,
// from the page it points at.
package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/agentstation/carriermap/internal/transport"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/geo"
	"github.com/agentstation/carriermap/pkg/logging"
)

// SourceName identifies outbound link requests in logs and errors.
const SourceName = "link"

// Where a coordinate was found.
const (
	FromURL  = "url"
	FromHTML = "html"
)

// consentHosts wrap the real destination in a "continue" parameter.
var consentHosts = map[string]bool{
	"consent.google.com":  true,
	"consent.youtube.com": true,
}

// Result is the outcome of resolving a link. Coords is nil when no
// coordinate could be found.
type Result struct {
	FinalURL string          `json:"expandedUrl"`
	Coords   *geo.Coordinate `json:"coords,omitempty"`
	Source   string          `json:"-"`
}

// Found reports whether a coordinate was extracted.
func (r Result) Found() bool {
	return r.Coords != nil
}

// Resolver follows links. It holds no per-request state and is safe for
// concurrent use.
type Resolver struct {
	client  *transport.Client
	maxBody int64
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBody      int64
	userAgent    string
}

// WithHTTPClient sets the base HTTP client. Its redirect policy is
// replaced by the resolver's bounded one.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRedirects bounds the number of redirects followed.
func WithMaxRedirects(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRedirects = n
		}
	}
}

// WithMaxBodyBytes bounds the size of a fetched page.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	o := &options{
		timeout:      constants.DefaultRequestTimeout,
		maxRedirects: constants.MaxRedirects,
		maxBody:      constants.MaxBodyBytes,
		userAgent:    constants.BrowserUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}

	hc := &http.Client{}
	if o.httpClient != nil {
		clone := *o.httpClient
		hc = &clone
	}
	limit := o.maxRedirects
	hc.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return http.ErrUseLastResponse
		}
		return nil
	}

	return &Resolver{
		client: transport.New(SourceName,
			transport.WithHTTPClient(hc),
			transport.WithTimeout(o.timeout),
			transport.WithUserAgent(o.userAgent),
		),
		maxBody: o.maxBody,
	}
}

// Validate checks that raw is an absolute http(s) URL.
func Validate(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.NewValidationError("url", raw, "URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.NewValidationError("url", raw, "Invalid URL format")
	}
	return u, nil
}

// Resolve follows raw to its destination and looks for a coordinate.
// A failed redirect lookup is not an error: the original link is used.
// Failing to fetch the page returns an error together with a Result whose
// FinalURL is set. No coordinate is not an error.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Result, error) {
	if _, err := Validate(raw); err != nil {
		return Result{}, err
	}
	ctx = logging.WithURL(ctx, raw)
	logger := logging.FromContext(ctx)

	final := r.follow(ctx, raw)
	if unwrapped, ok := UnwrapConsent(final); ok {
		logger.Debug().Str("url", unwrapped).Msg("Unwrapped consent page")
		final = unwrapped
	}
	res := Result{FinalURL: final}

	if c, ok := geo.ExtractFromURL(final); ok {
		logger.Info().Float64("lat", c.Lat).Float64("lng", c.Lng).Msg("Coordinates extracted from URL")
		res.Coords, res.Source = &c, FromURL
		return res, nil
	}

	logger.Debug().Str("url", final).Msg("No coordinates in URL, fetching page content")
	body, err := r.fetch(ctx, final)
	if err != nil {
		return res, err
	}
	if c, ok := geo.ExtractFromHTML(body); ok {
		logger.Info().Float64("lat", c.Lat).Float64("lng", c.Lng).Msg("Coordinates extracted from HTML")
		res.Coords, res.Source = &c, FromHTML
		return res, nil
	}

	logger.Warn().Str("url", raw).Msg("No coordinates found")
	return res, nil
}

// follow issues a HEAD request and returns the URL it ended at.
func (r *Resolver) follow(ctx context.Context, raw string) string {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return raw
	}
	resp, err := r.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("HEAD request failed, using original URL")
		return raw
	}
	_ = resp.Body.Close()

	if resp.Request == nil || resp.Request.URL == nil {
		return raw
	}
	final := resp.Request.URL.String()
	if final != raw {
		logger.Debug().Str("url", final).Msg("URL expanded")
	}
	return final
}

// fetch downloads the page at u, decoded to UTF-8.
func (r *Resolver) fetch(ctx context.Context, u string) (string, error) {
	resp, err := r.client.Get(ctx, u)
	if err != nil {
		return "", err
	}
	contentType := resp.Header.Get("Content-Type")

	raw, err := transport.ReadBody(SourceName, resp, r.maxBody+1)
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > r.maxBody {
		return "", errors.NewAPIError(SourceName, 0, fmt.Sprintf("response body exceeds %d bytes", r.maxBody))
	}

	dec, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw), nil
	}
	text, err := io.ReadAll(dec)
	if err != nil {
		return string(raw), nil
	}
	return string(text), nil
}

// UnwrapConsent returns the destination carried by a consent interstitial.
func UnwrapConsent(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !consentHosts[strings.ToLower(u.Hostname())] {
		return "", false
	}
	next := u.Query().Get("continue")
	if next == "" {
		return "", false
	}
	return next, true
}
