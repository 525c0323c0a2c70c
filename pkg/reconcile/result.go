package reconcile

import (
	"time"

	"github.com/agentstation/carriermap/pkg/operators"
)

// Result represents the outcome of a reconciliation run
type Result struct {
	// Operators is the sorted, deduplicated collection
	Operators operators.Collection

	// Stats about the run
	Stats Stats

	// StartTime when the run started
	StartTime time.Time

	// Duration of the run, including the save
	Duration time.Duration
}

// Stats counts what happened during a run.
type Stats struct {
	// RegistryRecords is the number of registry rows fetched
	RegistryRecords int `json:"registryRecords"`

	// RegistryFailed is set when the registry could not be fetched
	RegistryFailed bool `json:"registryFailed"`

	// Countries is the number of countries queried
	Countries int `json:"countries"`

	// CountriesFailed counts countries whose listing fetch failed
	CountriesFailed int `json:"countriesFailed"`

	// Listings is the number of listing-derived records kept
	Listings int `json:"listings"`

	// Matched counts listings annotated with a registry id
	Matched int `json:"matched"`

	// RegistryOnly counts synthesized registry-only records
	RegistryOnly int `json:"registryOnly"`

	// Unresolved counts unclaimed registry records with an unknown country
	Unresolved int `json:"unresolved"`

	// Duplicates counts records dropped for a repeated operator id
	Duplicates int `json:"duplicates"`
}

// Total returns the number of records in the output.
func (s Stats) Total() int {
	return s.Listings + s.RegistryOnly
}
