// Package operators defines the records exchanged between the registry and
// listing sources, the reconciliation engine and the serving layer.
package operators

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agentstation/carriermap/pkg/errors"
)

// RegistryOnlyPrefix marks operator ids synthesized from registry records
// that no listing claimed.
const RegistryOnlyPrefix = "GSMA_"

// RegistryRecord is one row of the canonical operator registry.
type RegistryRecord struct {
	RegistryID  string `json:"registryId" yaml:"registry_id"`
	Name        string `json:"name" yaml:"name"`
	CountryName string `json:"countryName" yaml:"country_name"`
}

// ListingRecord is one operator listed by the coverage source for a country.
type ListingRecord struct {
	CountryCode string `json:"countryCode" yaml:"country_code"`
	ListingID   string `json:"listingId" yaml:"listing_id"`
	ListingName string `json:"listingName" yaml:"listing_name"`
	Link        string `json:"link" yaml:"link"`
}

// OperatorRecord is the merged output unit.
type OperatorRecord struct {
	CountryCode  string `json:"countryCode" yaml:"country_code"`
	OperatorID   string `json:"operatorId" yaml:"operator_id"`
	OperatorName string `json:"operatorName" yaml:"operator_name"`
	Link         string `json:"link" yaml:"link"`
	RegistryID   string `json:"registryId" yaml:"registry_id"`
}

// FromListing builds an unmatched operator record from a listing.
func FromListing(l ListingRecord) OperatorRecord {
	return OperatorRecord{
		CountryCode:  l.CountryCode,
		OperatorID:   l.ListingID,
		OperatorName: l.ListingName,
		Link:         l.Link,
	}
}

// FromRegistry synthesizes a registry-only operator record.
func FromRegistry(r RegistryRecord, countryCode string) OperatorRecord {
	return OperatorRecord{
		CountryCode:  countryCode,
		OperatorID:   RegistryOnlyPrefix + r.RegistryID,
		OperatorName: r.Name,
		RegistryID:   r.RegistryID,
	}
}

// IsRegistryOnly reports whether the record was synthesized from the registry.
func (o OperatorRecord) IsRegistryOnly() bool {
	return strings.HasPrefix(o.OperatorID, RegistryOnlyPrefix)
}

// Collection is an ordered set of operator records.
type Collection []OperatorRecord

// comparer orders records by country code, then operator name, under the
// root Unicode collation. Case and accents rank below base letters.
// Collators are not safe for concurrent use.
func comparer() func(a, b OperatorRecord) int {
	col := collate.New(language.Und)
	return func(a, b OperatorRecord) int {
		if c := col.CompareString(a.CountryCode, b.CountryCode); c != 0 {
			return c
		}
		return col.CompareString(a.OperatorName, b.OperatorName)
	}
}

// Sort orders the collection by (CountryCode, OperatorName). Equal keys keep
// their relative order.
func (c Collection) Sort() {
	slices.SortStableFunc(c, comparer())
}

// IsSorted reports whether the collection is in (CountryCode, OperatorName) order.
func (c Collection) IsSorted() bool {
	return slices.IsSortedFunc(c, comparer())
}

// Validate checks that operator ids are unique and the collection is sorted.
func (c Collection) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, op := range c {
		if op.OperatorID == "" {
			return errors.NewValidationError("operatorId", i, fmt.Sprintf("record %d has an empty operator id", i))
		}
		if _, dup := seen[op.OperatorID]; dup {
			return errors.NewValidationError("operatorId", op.OperatorID, "duplicate operator id")
		}
		seen[op.OperatorID] = struct{}{}
	}
	if !c.IsSorted() {
		return errors.NewValidationError("", nil, "collection is not sorted by country code and operator name")
	}
	return nil
}

// FilterCountry returns the records for one ISO2 code, case-insensitively.
func (c Collection) FilterCountry(code string) Collection {
	code = strings.ToUpper(code)
	out := make(Collection, 0)
	for _, op := range c {
		if op.CountryCode == code {
			out = append(out, op)
		}
	}
	return out
}

// CountByCountry returns the number of records per ISO2 code.
func (c Collection) CountByCountry() map[string]int {
	counts := make(map[string]int)
	for _, op := range c {
		counts[op.CountryCode]++
	}
	return counts
}
