package nperf

import (
	"fmt"
	"regexp"

	"github.com/agentstation/carriermap/pkg/constants"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	nonSlug       = regexp.MustCompile(`[^\w-]`)
)

// Slug turns an operator name into the URL fragment used by coverage map
// links: whitespace runs become a single hyphen and anything other than
// ASCII word characters and hyphens is removed.
func Slug(name string) string {
	s := whitespaceRun.ReplaceAllString(name, "-")
	return nonSlug.ReplaceAllString(s, "")
}

// Link builds the canonical coverage map link for a listing.
func Link(countryCode, id, name string) string {
	return fmt.Sprintf("%s/%s/-/%s.%s/signal", constants.NPerfMapURL, countryCode, id, Slug(name))
}
