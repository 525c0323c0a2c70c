package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/internal/resolver"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/geo"
	"github.com/agentstation/carriermap/pkg/operators"
)

type stubResolver struct {
	result resolver.Result
	err    error
}

func (s stubResolver) Resolve(context.Context, string) (resolver.Result, error) {
	return s.result, s.err
}

type stubGeocoder struct {
	loc   geocode.Location
	err   error
	calls int
}

func (s *stubGeocoder) Reverse(context.Context, float64, float64) (geocode.Location, error) {
	s.calls++
	return s.loc, s.err
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var sample = operators.Collection{
	{CountryCode: "FR", OperatorID: "12", OperatorName: "Orange", Link: "https://www.nperf.com/en/map/FR/-/12.Orange/signal", RegistryID: "3"},
	{CountryCode: "MO", OperatorID: "GSMA_9", OperatorName: "CTM", RegistryID: "9"},
}

type fixture struct {
	t        *testing.T
	dir      string
	artifact string
	clock    *clock
	resolver *stubResolver
	geocoder *stubGeocoder
	server   *Server
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		t:        t,
		dir:      dir,
		artifact: filepath.Join(dir, "operators.json"),
		clock:    &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		resolver: &stubResolver{},
		geocoder: &stubGeocoder{},
	}
	cfg := DefaultConfig()
	cfg.ArtifactPath = f.artifact
	cfg.Environment = "production"
	for _, m := range mutate {
		m(&cfg)
	}
	srv, err := New(cfg, Deps{
		Resolver: f.resolver,
		Geocoder: f.geocoder,
		Clock:    f.clock.Now,
	}, nil)
	require.NoError(t, err)
	f.server = srv
	return f
}

func (f *fixture) writeArtifact(c operators.Collection) {
	f.t.Helper()
	require.NoError(f.t, persistence.NewJSONStore(f.artifact).Save(context.Background(), c))
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestOperators(t *testing.T) {
	f := newFixture(t)

	t.Run("missing artifact", func(t *testing.T) {
		rec := f.do("GET", "/api/operators", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	f.writeArtifact(sample)

	t.Run("serves artifact", func(t *testing.T) {
		rec := f.do("GET", "/api/operators", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
		assert.Equal(t, sample, decode[operators.Collection](t, rec))
	})

	t.Run("country filter", func(t *testing.T) {
		rec := f.do("GET", "/api/operators?country=mo", "")
		got := decode[operators.Collection](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, "GSMA_9", got[0].OperatorID)
	})

	t.Run("cached until ttl", func(t *testing.T) {
		f.writeArtifact(sample[:1])
		assert.Len(t, decode[operators.Collection](t, f.do("GET", "/api/operators", "")), 2)

		f.clock.Advance(5 * time.Minute)
		assert.Len(t, decode[operators.Collection](t, f.do("GET", "/api/operators", "")), 1)
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		require.NoError(t, os.WriteFile(f.artifact, []byte("{not json"), 0o644))
		f.server.Handlers().InvalidateOperators()

		rec := f.do("GET", "/api/operators", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "Failed to load operators data", body["error"])
		assert.Empty(t, body["details"])
	})
}

func TestGeocode(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		loc        geocode.Location
		err        error
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{name: "missing", query: "lat=1", wantStatus: 400, wantError: "lat and lng parameters are required"},
		{name: "not a number", query: "lat=abc&lng=2", wantStatus: 400, wantError: "lat and lng must be valid numbers"},
		{name: "out of range", query: "lat=91&lng=2", wantStatus: 400, wantError: "Invalid coordinate range"},
		{
			name:       "timeout",
			query:      "lat=1&lng=2",
			err:        errors.WrapAPI("nominatim", 0, &errors.TimeoutError{Operation: "nominatim request"}),
			wantStatus: 504, wantError: "Geocoding service timeout", wantCalls: 1,
		},
		{
			name:       "no address",
			query:      "lat=0&lng=-30",
			err:        errors.NewNotFoundError("location", "0,-30"),
			wantStatus: 200, wantError: "Could not determine location", wantCalls: 1,
		},
		{
			name:       "upstream failure",
			query:      "lat=1&lng=2",
			err:        errors.NewAPIError("nominatim", 503, "Service Unavailable"),
			wantStatus: 500, wantError: "Geocoding service unavailable", wantCalls: 1,
		},
		{
			name:       "unknown host",
			query:      "lat=1&lng=2",
			err:        errors.WrapAPI("nominatim", 0, errors.NewNotFoundError("host", "nominatim.invalid")),
			wantStatus: 500, wantError: "Geocoding service unavailable", wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.geocoder.loc, f.geocoder.err = tt.loc, tt.err

			rec := f.do("GET", "/api/geocode?"+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decode[map[string]string](t, rec)["error"])
			assert.Equal(t, tt.wantCalls, f.geocoder.calls)
		})
	}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.geocoder.loc = geocode.Location{CountryCode: "HK", Country: "China", State: "Hong Kong", DisplayName: "Kowloon"}

		rec := f.do("GET", "/api/geocode?lat=22.3193&lng=114.1694", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"countryCode":"HK","country":"China","state":"Hong Kong","displayName":"Kowloon"}`, rec.Body.String())
	})
}

func TestExpand(t *testing.T) {
	coords := &geo.Coordinate{Lat: 40.7128, Lng: -74.006}

	tests := []struct {
		name       string
		body       string
		result     resolver.Result
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "invalid json", body: `{`, wantStatus: 400, wantBody: `{"error":"Invalid JSON body"}`},
		{name: "missing url", body: `{}`, wantStatus: 400, wantBody: `{"error":"URL is required"}`},
		{name: "empty url", body: `{"url":""}`, wantStatus: 400, wantBody: `{"error":"URL is required"}`},
		{name: "non-string url", body: `{"url":42}`, wantStatus: 400, wantBody: `{"error":"URL must be a string"}`},
		{name: "invalid url", body: `{"url":"not a url"}`, wantStatus: 400, wantBody: `{"error":"Invalid URL format"}`},
		{
			name:       "found",
			body:       `{"url":"https://maps.app.goo.gl/x"}`,
			result:     resolver.Result{FinalURL: "https://www.google.com/maps/@40.7128,-74.006,12z", Coords: coords},
			wantStatus: 200,
			wantBody:   `{"expandedUrl":"https://www.google.com/maps/@40.7128,-74.006,12z","coords":{"lat":40.7128,"lng":-74.006}}`,
		},
		{
			name:       "no coordinates",
			body:       `{"url":"https://maps.app.goo.gl/x"}`,
			result:     resolver.Result{FinalURL: "https://example.com/page"},
			wantStatus: 200,
			wantBody:   `{"expandedUrl":"https://example.com/page","error":"Could not find coordinates"}`,
		},
		{
			name:       "timeout",
			body:       `{"url":"https://maps.app.goo.gl/x"}`,
			err:        &errors.TimeoutError{Operation: "link request"},
			wantStatus: 504,
			wantBody:   `{"error":"Request timeout"}`,
		},
		{
			name:       "host not found",
			body:       `{"url":"https://nowhere.invalid/x"}`,
			err:        errors.NewNotFoundError("host", "nowhere.invalid"),
			wantStatus: 404,
			wantBody:   `{"error":"URL not found"}`,
		},
		{
			name:       "upstream failure",
			body:       `{"url":"https://maps.app.goo.gl/x"}`,
			err:        errors.NewAPIError("link", 502, "Bad Gateway"),
			wantStatus: 500,
			wantBody:   `{"error":"Failed to process URL"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			*f.resolver = stubResolver{result: tt.result, err: tt.err}

			rec := f.do("POST", "/api/expand", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestExpandDevelopmentDetails(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Environment = "development" })
	*f.resolver = stubResolver{err: errors.NewAPIError("link", 502, "Bad Gateway")}

	rec := f.do("POST", "/api/expand", `{"url":"https://maps.app.goo.gl/x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["details"], "Bad Gateway")
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(90 * time.Second)

	rec := f.do("GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2026-03-01T12:01:30.000Z", body["timestamp"])
	assert.Equal(t, 90.0, body["uptime"])

	rec = f.do("GET", "/health/detailed", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"operatorsData": "missing"}, body["checks"])

	f.writeArtifact(sample)
	rec = f.do("GET", "/health/detailed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.writeArtifact(sample)
	f.do("GET", "/api/operators", "")

	rec := f.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carriermap_operator_records 2")
	assert.Contains(t, rec.Body.String(), `route="GET /api/operators"`)

	disabled := newFixture(t, func(c *Config) { c.MetricsEnabled = false })
	assert.Equal(t, http.StatusNotFound, disabled.do("GET", "/metrics", "").Code)
}

func TestNotFoundAndStatic(t *testing.T) {
	f := newFixture(t)
	rec := f.do("GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())

	rec = f.do("DELETE", "/api/operators", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>map</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, ".env"), []byte("SECRET=1"), 0o644))

	s := newFixture(t, func(c *Config) { c.StaticDir = static })
	rec = s.do("GET", "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>map</h1>")

	assert.Equal(t, http.StatusNotFound, s.do("GET", "/.env", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/missing.js", "").Code)
}

func TestCORSAndRateLimit(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.RateLimit = 2 })

	rec := f.do("GET", "/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	f.do("GET", "/health", "")
	rec = f.do("GET", "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNewRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 70000
	_, err := New(cfg, Deps{}, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestServeShutsDown(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
