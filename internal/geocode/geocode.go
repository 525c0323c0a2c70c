// Package geocode maps coordinates to countries through the Nominatim
// reverse geocoding API.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/carriermap/internal/transport"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/countries"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
)

// SourceName identifies the geocoder in logs and errors.
const SourceName = "nominatim"

// Location is the country-level answer for a coordinate.
type Location struct {
	CountryCode string `json:"countryCode" yaml:"country_code"`
	Country     string `json:"country" yaml:"country"`
	State       string `json:"state" yaml:"state"`
	DisplayName string `json:"displayName" yaml:"display_name"`
}

// Geocoder resolves coordinates to locations.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Location, error)
}

// Client talks to a Nominatim instance.
type Client struct {
	base      string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	base       string
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
}

// WithURL overrides the Nominatim base URL.
func WithURL(base string) Option {
	return func(o *options) {
		if base != "" {
			o.base = base
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

// WithUserAgent overrides the User-Agent header. Nominatim's usage policy
// requires an identifying agent.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a Nominatim client.
func New(opts ...Option) *Client {
	o := &options{
		base:      constants.NominatimURL,
		timeout:   constants.DefaultRequestTimeout,
		userAgent: constants.GeocoderUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		base: strings.TrimRight(o.base, "/"),
		transport: transport.New(SourceName,
			transport.WithHTTPClient(o.httpClient),
			transport.WithTimeout(o.timeout),
			transport.WithUserAgent(o.userAgent),
		),
	}
}

type reverseResponse struct {
	DisplayName string   `json:"display_name"`
	Address     *address `json:"address"`
}

type address struct {
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
	State       string `json:"state"`
	Territory   string `json:"territory"`
	ISOLevel3   string `json:"ISO3166-2-lvl3"`
	ISOLevel4   string `json:"ISO3166-2-lvl4"`
}

// Reverse looks up the location of (lat, lng). A response without an
// address yields an *errors.NotFoundError. Transport failures match
// errors.ErrSourceUnavailable (timeouts also match errors.ErrTimeout).
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	logger := logging.FromContext(ctx)

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	endpoint := c.base + "/reverse?" + q.Encode()

	logger.Debug().Float64("lat", lat).Float64("lng", lng).Msg("Geocoding coordinates")

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return Location{}, transport.Unavailable(SourceName, err)
	}
	var data reverseResponse
	if err := transport.DecodeResponse(SourceName, resp, &data); err != nil {
		return Location{}, transport.Unavailable(SourceName, err)
	}

	if data.Address == nil {
		logger.Warn().Float64("lat", lat).Float64("lng", lng).Msg("No address data found")
		return Location{}, errors.NewNotFoundError("location", key(lat, lng))
	}
	return toLocation(ctx, data), nil
}

func toLocation(ctx context.Context, data reverseResponse) Location {
	a := data.Address
	loc := Location{
		CountryCode: strings.ToUpper(a.CountryCode),
		Country:     a.Country,
		State:       a.State,
		DisplayName: data.DisplayName,
	}
	if loc.State == "" {
		loc.State = a.Territory
	}

	subdivision := a.ISOLevel3
	if subdivision == "" {
		subdivision = a.ISOLevel4
	}
	if region, ok := countries.OverrideForSubdivision(subdivision); ok {
		logging.FromContext(ctx).Debug().Str("region", region).Msg("Special region detected")
		loc.CountryCode = region
	}
	return loc
}

// key identifies a coordinate to five decimal places (about one metre).
func key(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lng)
}
