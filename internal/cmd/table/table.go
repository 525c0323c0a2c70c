// Package table converts domain values into rows for CLI table output.
package table

import (
	"strconv"

	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/pkg/countries"
	"github.com/agentstation/carriermap/pkg/operators"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// OperatorsToTableData converts operator records to table format. The
// wide form adds the registry ID and coverage link.
func OperatorsToTableData(records operators.Collection, wide bool) Data {
	headers := []string{"Country", "Operator ID", "Operator"}
	if wide {
		headers = append(headers, "Registry ID", "Link")
	}

	rows := make([][]string, 0, len(records))
	for _, op := range records {
		row := []string{op.CountryCode, op.OperatorID, op.OperatorName}
		if wide {
			link := op.Link
			if link == "" {
				link = "-"
			}
			row = append(row, dash(op.RegistryID), link)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// CountsToTableData converts per-country counts to table format in the
// processing order of the country table.
func CountsToTableData(counts map[string]int) Data {
	rows := [][]string{}
	for _, code := range countries.Codes() {
		if n, ok := counts[code]; ok {
			rows = append(rows, []string{code, countries.NameForCode(code), strconv.Itoa(n)})
		}
	}
	return Data{
		Headers:         []string{"Code", "Country", "Operators"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// CountriesToTableData lists ISO2 codes with their display names.
func CountriesToTableData(codes []string) Data {
	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		special := ""
		if countries.IsSpecialRegion(code) {
			special = "yes"
		}
		rows = append(rows, []string{code, dash(countries.NameForCode(code)), special})
	}
	return Data{Headers: []string{"Code", "Name", "Special Region"}, Rows: rows}
}

// LocationToTableData renders a geocoding result as key/value rows.
func LocationToTableData(loc geocode.Location) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Country Code", loc.CountryCode},
			{"Country", loc.Country},
			{"State", dash(loc.State)},
			{"Display Name", loc.DisplayName},
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
