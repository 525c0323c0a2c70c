package nperf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/operators"
)

// Shape is one known response envelope. Detect returns the raw record
// container (an array or an object of records) when the envelope matches.
type Shape struct {
	Name   string
	Detect func(envelope map[string]json.RawMessage) (json.RawMessage, bool)
}

// shapes are tried in order; the first match wins.
var shapes = []Shape{
	{Name: "data.isp", Detect: detectDataISP},
	{Name: "result", Detect: detectResult},
}

// Shapes returns the envelope detectors in priority order.
func Shapes() []Shape {
	return slices.Clone(shapes)
}

func detectDataISP(envelope map[string]json.RawMessage) (json.RawMessage, bool) {
	data, ok := envelope["data"]
	if !ok || !truthy(data) {
		return nil, false
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, false
	}
	isp, ok := inner["isp"]
	if !ok || !truthy(isp) {
		return nil, false
	}
	return isp, true
}

func detectResult(envelope map[string]json.RawMessage) (json.RawMessage, bool) {
	result, ok := envelope["result"]
	if !ok || !truthy(result) {
		return nil, false
	}
	return result, true
}

// Field aliases, in lookup order.
var (
	idFields   = []string{"IspId", "id_isp"}
	nameFields = []string{"IspName", "name"}
)

// DecodeEnvelope extracts the listings for countryCode from a decoded
// response body. Items without both an id and a name are dropped.
func DecodeEnvelope(envelope map[string]json.RawMessage, countryCode string) ([]operators.ListingRecord, error) {
	for _, shape := range shapes {
		container, ok := shape.Detect(envelope)
		if !ok {
			continue
		}
		items, err := recordValues(container)
		if err != nil {
			return nil, errors.NewParseError("json", SourceName, fmt.Sprintf("%s: %v", shape.Name, err), err)
		}
		listings := make([]operators.ListingRecord, 0, len(items))
		for _, raw := range items {
			if l, ok := decodeItem(raw, countryCode); ok {
				listings = append(listings, l)
			}
		}
		return listings, nil
	}
	return nil, errors.NewParseError("json", SourceName, "no recognized envelope", nil)
}

// recordValues returns the elements of an array, or the values of an object.
// Object values follow JavaScript property order: array-index keys in
// ascending numeric order, then the remaining keys in document order.
func recordValues(container json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(container)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty record container")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		return orderedValues(trimmed)
	default:
		return nil, fmt.Errorf("record container is neither an array nor an object")
	}
}

type keyedValue struct {
	key   string
	index uint64
	isIdx bool
	value json.RawMessage
}

func orderedValues(obj []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var entries []keyedValue
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		// A repeated key keeps its first position and its last value.
		if i, dup := seen[key]; dup {
			entries[i].value = value
			continue
		}
		idx, isIdx := arrayIndex(key)
		seen[key] = len(entries)
		entries = append(entries, keyedValue{key: key, index: idx, isIdx: isIdx, value: value})
	}

	slices.SortStableFunc(entries, func(a, b keyedValue) int {
		switch {
		case a.isIdx && b.isIdx:
			if a.index < b.index {
				return -1
			}
			if a.index > b.index {
				return 1
			}
			return 0
		case a.isIdx:
			return -1
		case b.isIdx:
			return 1
		}
		return 0
	})

	values := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		values[i] = e.value
	}
	return values, nil
}

// arrayIndex reports whether key is a canonical array index ("0", "17", not "017").
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func decodeItem(raw json.RawMessage, countryCode string) (operators.ListingRecord, bool) {
	var item map[string]json.RawMessage
	if err := json.Unmarshal(raw, &item); err != nil || item == nil {
		return operators.ListingRecord{}, false
	}

	id := firstValue(item, idFields, true)
	name := firstValue(item, nameFields, false)
	if id == "" || name == "" {
		return operators.ListingRecord{}, false
	}

	return operators.ListingRecord{
		CountryCode: countryCode,
		ListingID:   id,
		ListingName: name,
		Link:        Link(countryCode, id, name),
	}, true
}

// firstValue returns the first truthy alias as a string. Numbers are
// accepted only when allowNumber is set.
func firstValue(item map[string]json.RawMessage, fields []string, allowNumber bool) string {
	for _, f := range fields {
		raw, ok := item[f]
		if !ok || !truthy(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		if allowNumber {
			var n json.Number
			if err := json.Unmarshal(raw, &n); err == nil {
				return formatNumber(n)
			}
		}
		return ""
	}
	return ""
}

func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// truthy mirrors the upstream's loose presence checks: null, false, 0 and
// "" count as absent.
func truthy(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	switch v {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f != 0
	}
	return true
}
