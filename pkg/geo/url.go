package geo

import (
	"net/url"
	"regexp"
	"slices"
)

// URLPattern is one entry of the URL cascade.
type URLPattern struct {
	// Name identifies the pattern in logs and tests.
	Name string
	// Pattern captures latitude then longitude.
	Pattern *regexp.Regexp
	// Last selects the last occurrence instead of the first.
	Last bool
}

// Match returns the coordinate captured by the pattern, if it matches.
func (p URLPattern) Match(s string) (Coordinate, bool) {
	var m []string
	if p.Last {
		all := p.Pattern.FindAllStringSubmatch(s, -1)
		if len(all) == 0 {
			return Coordinate{}, false
		}
		m = all[len(all)-1]
	} else {
		m = p.Pattern.FindStringSubmatch(s)
		if m == nil {
			return Coordinate{}, false
		}
	}
	return parsePair(m[1], m[2])
}

// urlPatterns is the URL cascade, most specific first.
var urlPatterns = []URLPattern{
	{Name: "place-marker", Pattern: regexp.MustCompile(`!8m2!3d` + number + `!4d` + number), Last: true},
	{Name: "data-marker", Pattern: regexp.MustCompile(`!3d` + number + `!4d` + number), Last: true},
	{Name: "coordinate-param", Pattern: regexp.MustCompile(`[?&]coordinate=` + number + `,` + number)},
	{Name: "query-param", Pattern: regexp.MustCompile(`[?&]query=` + number + `\s*,\s*` + number)},
	{Name: "alternate-params", Pattern: regexp.MustCompile(`[?&](?:q|ll|sll|center|destination|daddr)=` + number + `\s*,\s*` + number)},
	{Name: "viewport", Pattern: regexp.MustCompile(`@` + number + `,` + number)},
	{Name: "place-path", Pattern: regexp.MustCompile(`/(?:place|search)/(?:[^/@?]+/)?` + number + `,\s*\+?` + number)},
}

// URLPatterns returns the URL cascade in evaluation order.
func URLPatterns() []URLPattern {
	return slices.Clone(urlPatterns)
}

// ExtractFromURL finds a coordinate in a map link. The link is
// percent-decoded first (the raw string is used if decoding fails). The
// first pattern that matches decides: if its coordinate is out of range
// nothing is returned.
func ExtractFromURL(raw string) (Coordinate, bool) {
	if raw == "" {
		return Coordinate{}, false
	}
	s := raw
	if decoded, err := url.PathUnescape(raw); err == nil {
		s = decoded
	}
	for _, p := range urlPatterns {
		if c, ok := p.Match(s); ok {
			return c, c.IsValid()
		}
	}
	return Coordinate{}, false
}
