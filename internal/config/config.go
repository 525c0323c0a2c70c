// Package config loads carriermap settings from the environment, .env files
// and an optional .carriermap.yaml.
//
// Variable names match the deployed service: PORT, NODE_ENV,
// CACHE_DURATION, OPERATORS_CACHE_DURATION, GSMA_FEED_URL, NPERF_API_URL,
// NOMINATIM_URL, REQUEST_TIMEOUT, API_DELAY, CORS_ORIGIN, OPERATORS_FILE,
// STATIC_DIR and RATE_LIMIT. Durations given as bare integers are
// milliseconds; Go duration strings such as "5s" are also accepted.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/carriermap/pkg/constants"
)

// Keys as they appear in the environment.
const (
	KeyPort                   = "PORT"
	KeyHost                   = "HOST"
	KeyEnvironment            = "NODE_ENV"
	KeyCacheDuration          = "CACHE_DURATION"
	KeyOperatorsCacheDuration = "OPERATORS_CACHE_DURATION"
	KeyGSMAFeedURL            = "GSMA_FEED_URL"
	KeyNPerfAPIURL            = "NPERF_API_URL"
	KeyNominatimURL           = "NOMINATIM_URL"
	KeyRequestTimeout         = "REQUEST_TIMEOUT"
	KeyAPIDelay               = "API_DELAY"
	KeyCORSOrigin             = "CORS_ORIGIN"
	KeyOperatorsFile          = "OPERATORS_FILE"
	KeyStaticDir              = "STATIC_DIR"
	KeyRateLimit              = "RATE_LIMIT"
	KeyLogLevel               = "LOG_LEVEL"
	KeyLogFormat              = "LOG_FORMAT"
	KeyLogOutput              = "LOG_OUTPUT"
)

// EnvFiles are loaded in order. Variables already set in the process
// environment are never overridden.
var EnvFiles = []string{".env", ".env.local"}

// Config is the resolved runtime configuration.
type Config struct {
	// Server
	Host        string
	Port        int
	Environment string
	StaticDir   string
	CORSOrigin  string
	RateLimit   int

	// Caches
	CacheDuration          time.Duration
	OperatorsCacheDuration time.Duration

	// Upstreams
	GSMAFeedURL    string
	NPerfAPIURL    string
	NominatimURL   string
	RequestTimeout time.Duration
	APIDelay       time.Duration

	// Artifact
	OperatorsFile string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:                   constants.DefaultPort,
		Environment:            constants.DefaultEnvironment,
		CORSOrigin:             "*",
		CacheDuration:          constants.GeocodeCacheTTL,
		OperatorsCacheDuration: constants.OperatorsCacheTTL,
		GSMAFeedURL:            constants.GSMAFeedURL,
		NPerfAPIURL:            constants.NPerfAPIURL,
		NominatimURL:           constants.NominatimURL,
		RequestTimeout:         constants.DefaultRequestTimeout,
		APIDelay:               constants.DefaultAPIDelay,
		OperatorsFile:          constants.DefaultArtifactPath,
		LogFormat:              "auto",
		LogOutput:              "stderr",
	}
}

// Development reports whether NODE_ENV is development.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

// Load resolves configuration. configFile may be empty, in which case
// .carriermap.yaml is looked up in the working directory and $HOME.
func Load(configFile string) (*Config, error) {
	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName(".carriermap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		_ = v.ReadInConfig()
	}

	return FromViper(v), nil
}

// FromViper builds a Config from v. Values that are missing, unparseable or
// not positive fall back to the defaults, except RATE_LIMIT where 0 turns
// limiting off.
func FromViper(v *viper.Viper) *Config {
	d := Default()
	cfg := &Config{
		Host:                   v.GetString(KeyHost),
		Port:                   positiveInt(v.GetString(KeyPort), d.Port),
		Environment:            stringOr(v.GetString(KeyEnvironment), d.Environment),
		StaticDir:              v.GetString(KeyStaticDir),
		CORSOrigin:             stringOr(v.GetString(KeyCORSOrigin), d.CORSOrigin),
		RateLimit:              positiveInt(v.GetString(KeyRateLimit), 0),
		CacheDuration:          Millis(v.GetString(KeyCacheDuration), d.CacheDuration),
		OperatorsCacheDuration: Millis(v.GetString(KeyOperatorsCacheDuration), d.OperatorsCacheDuration),
		GSMAFeedURL:            stringOr(v.GetString(KeyGSMAFeedURL), d.GSMAFeedURL),
		NPerfAPIURL:            stringOr(v.GetString(KeyNPerfAPIURL), d.NPerfAPIURL),
		NominatimURL:           stringOr(v.GetString(KeyNominatimURL), d.NominatimURL),
		RequestTimeout:         Millis(v.GetString(KeyRequestTimeout), d.RequestTimeout),
		APIDelay:               Millis(v.GetString(KeyAPIDelay), d.APIDelay),
		OperatorsFile:          stringOr(v.GetString(KeyOperatorsFile), d.OperatorsFile),
		LogLevel:               v.GetString(KeyLogLevel),
		LogFormat:              stringOr(v.GetString(KeyLogFormat), d.LogFormat),
		LogOutput:              stringOr(v.GetString(KeyLogOutput), d.LogOutput),
		ConfigFile:             v.ConfigFileUsed(),
	}
	return cfg
}

// Millis parses s as a duration. A bare integer counts milliseconds.
// Empty, invalid and non-positive values yield def.
func Millis(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return def
		}
		return time.Duration(n) * time.Millisecond
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func stringOr(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
