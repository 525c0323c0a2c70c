package geo

import (
	"regexp"
	"slices"
)

// HTMLPattern is one entry of the HTML cascade.
type HTMLPattern struct {
	Name    string
	Extract func(body string) (Coordinate, bool)
}

// pair matches latitude and longitude with separate expressions.
func pair(lat, lng *regexp.Regexp) func(string) (Coordinate, bool) {
	return func(body string) (Coordinate, bool) {
		la := lat.FindStringSubmatch(body)
		if la == nil {
			return Coordinate{}, false
		}
		ln := lng.FindStringSubmatch(body)
		if ln == nil {
			return Coordinate{}, false
		}
		return parsePair(la[1], ln[1])
	}
}

// single matches latitude and longitude with one expression.
func single(re *regexp.Regexp) func(string) (Coordinate, bool) {
	return func(body string) (Coordinate, bool) {
		m := re.FindStringSubmatch(body)
		if m == nil {
			return Coordinate{}, false
		}
		return parsePair(m[1], m[2])
	}
}

// metaContentAfter matches <meta property="name" content="value">.
func metaContentAfter(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:property|name)=["']` + regexp.QuoteMeta(name) + `["']\s+content=["']` + number + `["']`)
}

// metaContentBefore matches <meta content="value" property="name">.
func metaContentBefore(name string) *regexp.Regexp {
	return regexp.MustCompile(`content=["']` + number + `["']\s+(?:property|name)=["']` + regexp.QuoteMeta(name) + `["']`)
}

// metaEither matches a meta tag in either attribute order.
func metaEither(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?:(?:property|name)=["']` + q + `["']\s+content=["']` + number + `["']|content=["']` + number + `["']\s+(?:property|name)=["']` + q + `["'])`)
}

// eitherPair is pair for metaEither expressions, which capture in one of two groups.
func eitherPair(lat, lng *regexp.Regexp) func(string) (Coordinate, bool) {
	first := func(m []string) string {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	return func(body string) (Coordinate, bool) {
		la := lat.FindStringSubmatch(body)
		ln := lng.FindStringSubmatch(body)
		if la == nil || ln == nil {
			return Coordinate{}, false
		}
		return parsePair(first(la), first(ln))
	}
}

// htmlPatterns is the HTML cascade in evaluation order.
var htmlPatterns = []HTMLPattern{
	{
		Name:    "place-location-meta",
		Extract: pair(metaContentAfter("place:location:latitude"), metaContentAfter("place:location:longitude")),
	},
	{
		Name:    "place-location-meta-reversed",
		Extract: pair(metaContentBefore("place:location:latitude"), metaContentBefore("place:location:longitude")),
	},
	{
		Name:    "open-graph-geo",
		Extract: eitherPair(metaEither("og:latitude"), metaEither("og:longitude")),
	},
	{
		Name:    "json-center",
		Extract: single(regexp.MustCompile(`"center"\s*:\s*\[\s*` + number + `\s*,\s*` + number + `\s*\]`)),
	},
	{
		Name:    "json-lat-lng",
		Extract: single(regexp.MustCompile(`"lat"\s*:\s*` + number + `\s*,\s*"(?:lng|lon)"\s*:\s*` + number)),
	},
	{
		Name:    "json-latitude-longitude",
		Extract: single(regexp.MustCompile(`"latitude"\s*:\s*` + number + `\s*,\s*"longitude"\s*:\s*` + number)),
	},
}

// HTMLPatterns returns the HTML cascade in evaluation order.
func HTMLPatterns() []HTMLPattern {
	return slices.Clone(htmlPatterns)
}

// ExtractFromHTML finds a coordinate in a map page. The first pattern that
// matches decides: if its coordinate is out of range the page yields
// nothing, as with ExtractFromURL.
func ExtractFromHTML(body string) (Coordinate, bool) {
	for _, p := range htmlPatterns {
		if c, ok := p.Extract(body); ok {
			if !c.IsValid() {
				return Coordinate{}, false
			}
			return c, true
		}
	}
	return Coordinate{}, false
}
