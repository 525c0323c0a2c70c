// Package countries holds the static country reference data used during
// reconciliation: the ISO2 codes queried for listings, the name variants
// used to place registry records, and the special administrative regions
// that geocoding reports under their own code.
package countries

import (
	"slices"
	"strings"
)

// Entry is one country-name variant and its ISO2 code.
type Entry struct {
	Name string
	Code string
}

// SpecialRegions are territories whose operators are listed separately from
// the sovereign country that geocoders report them under.
var SpecialRegions = []string{"HK", "MO", "TW", "PR", "VI", "GU", "AS", "MP"}

// Codes returns the ISO2 codes processed by a reconciliation run, in order.
func Codes() []string {
	return slices.Clone(codes)
}

// IsListed reports whether code is one of the processed ISO2 codes.
func IsListed(code string) bool {
	return slices.Contains(codes, strings.ToUpper(code))
}

// Names returns the name table in lookup order.
func Names() []Entry {
	return slices.Clone(names)
}

// CodeForName maps a free-form country name to an ISO2 code.
// An exact (trimmed) name wins; otherwise the first entry whose name contains,
// or is contained in, the given name is used. Unknown names yield "". A blank
// name is contained in every entry and resolves to the first one.
func CodeForName(name string) string {
	clean := strings.TrimSpace(name)
	for _, e := range names {
		if e.Name == clean {
			return e.Code
		}
	}
	for _, e := range names {
		if strings.Contains(clean, e.Name) || strings.Contains(e.Name, clean) {
			return e.Code
		}
	}
	return ""
}

// NameForCode returns the first table name for an ISO2 code, or "".
func NameForCode(code string) string {
	code = strings.ToUpper(code)
	for _, e := range names {
		if e.Code == code {
			return e.Name
		}
	}
	return ""
}

// IsSpecialRegion reports whether code is reported under its own country code.
func IsSpecialRegion(code string) bool {
	return slices.Contains(SpecialRegions, strings.ToUpper(code))
}

// OverrideForSubdivision inspects an ISO 3166-2 subdivision code such as
// "CN-MO" and returns the special region code it designates, if any.
func OverrideForSubdivision(subdivision string) (string, bool) {
	_, region, ok := strings.Cut(subdivision, "-")
	if !ok {
		return "", false
	}
	// "CN-HK-X" style codes carry the region in the second part only.
	region, _, _ = strings.Cut(region, "-")
	region = strings.ToUpper(region)
	if IsSpecialRegion(region) {
		return region, true
	}
	return "", false
}
