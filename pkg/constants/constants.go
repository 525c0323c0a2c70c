// Package constants provides shared constants used throughout the carriermap codebase.
// This includes upstream endpoints, timeouts, limits and file permissions
// that must agree between the CLI, the reconciliation run and the server.
package constants

import "time"

// Upstream endpoints
const (
	// GSMAFeedURL is the CSV operator registry feed.
	GSMAFeedURL = "https://www.gsma.com/wp-content/uploads/feed.csv"

	// NPerfAPIURL is the per-country ISP listing endpoint.
	NPerfAPIURL = "https://www.nperf.com/en/map/get-isp-list-by-country"

	// NPerfMapURL is the base of canonical coverage map links.
	NPerfMapURL = "https://www.nperf.com/en/map"

	// NominatimURL is the OpenStreetMap reverse geocoding service.
	NominatimURL = "https://nominatim.openstreetmap.org"
)

// User agents sent upstream
const (
	// FeedUserAgent is sent to the registry and listing sources.
	FeedUserAgent = "Mozilla/5.0"

	// BrowserUserAgent is sent when fetching map pages for HTML extraction.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// GeocoderUserAgent identifies this service to Nominatim.
	GeocoderUserAgent = "CoverageChecker/1.0"
)

// Timeout constants
const (
	// DefaultRequestTimeout bounds every outbound HTTP call.
	DefaultRequestTimeout = 5 * time.Second

	// DefaultAPIDelay is the pause after each per-country listing fetch.
	DefaultAPIDelay = 50 * time.Millisecond

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxRedirects is the redirect bound when expanding short links.
	MaxRedirects = 10

	// MaxBodyBytes caps map page bodies read for HTML extraction (1 MiB).
	MaxBodyBytes = 1 << 20

	// MaxRequestBodyBytes caps JSON request bodies accepted by the server.
	MaxRequestBodyBytes = 64 << 10

	// ProgressInterval is how many countries pass between progress logs.
	ProgressInterval = 50
)

// Cache constants
const (
	// OperatorsCacheTTL is how long the served artifact is kept in memory.
	OperatorsCacheTTL = 5 * time.Minute

	// GeocodeCacheTTL is how long reverse geocoding results stay valid.
	GeocodeCacheTTL = 24 * time.Hour

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Defaults
const (
	// DefaultPort is the HTTP listen port.
	DefaultPort = 3000

	// DefaultArtifactPath is where the reconciled dataset is written.
	DefaultArtifactPath = "operators.json"

	// DefaultEnvironment is the default runtime environment.
	DefaultEnvironment = "development"
)
