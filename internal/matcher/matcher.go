package matcher

import (
	"strings"

	"github.com/agentstation/carriermap/pkg/operators"
)

// minContainLen is the normalized length both names must exceed before
// containment counts as a match.
const minContainLen = 3

// Index holds a registry with its names normalized once.
type Index struct {
	records    []operators.RegistryRecord
	normalized []string
}

// NewIndex normalizes every registry name, keeping registry order.
func NewIndex(registry []operators.RegistryRecord) *Index {
	idx := &Index{
		records:    registry,
		normalized: make([]string, len(registry)),
	}
	for i, r := range registry {
		idx.normalized[i] = Normalize(r.Name)
	}
	return idx
}

// Len returns the number of indexed registry records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Find returns the first registry record, in registry order, whose
// normalized name equals the candidate's or, when both are longer than
// three characters, contains or is contained in it.
func (idx *Index) Find(candidate string) (operators.RegistryRecord, bool) {
	want := Normalize(candidate)
	for i, got := range idx.normalized {
		if qualifies(want, got) {
			return idx.records[i], true
		}
	}
	return operators.RegistryRecord{}, false
}

// FindMatch is a one-shot Find over an unindexed registry.
func FindMatch(candidate string, registry []operators.RegistryRecord) (operators.RegistryRecord, bool) {
	return NewIndex(registry).Find(candidate)
}

func qualifies(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > minContainLen && len(b) > minContainLen {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}
