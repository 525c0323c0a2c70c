package output

import (
	"io"

	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/table"
	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/pkg/operators"
)

// isTable reports whether f renders as a table.
func isTable(f Format) bool {
	return f == FormatTable || f == FormatWide || f == ""
}

// FormatOperators writes operator records in the requested format.
func FormatOperators(w io.Writer, records operators.Collection, flags *globals.Flags) error {
	format := DetectFormat(flags.Output)
	var data any = records
	if isTable(format) {
		data = table.OperatorsToTableData(records, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatCountries writes the country code list.
func FormatCountries(w io.Writer, codes []string, flags *globals.Flags) error {
	format := DetectFormat(flags.Output)
	var data any = codes
	if isTable(format) {
		data = table.CountriesToTableData(codes)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatLocation writes a reverse geocoding result.
func FormatLocation(w io.Writer, loc geocode.Location, flags *globals.Flags) error {
	format := DetectFormat(flags.Output)
	var data any = loc
	if isTable(format) {
		data = table.LocationToTableData(loc)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatAny handles the common pattern of formatting any data type for output.
// This is useful for commands with custom data structures.
func FormatAny(w io.Writer, data any, flags *globals.Flags) error {
	return NewFormatter(DetectFormat(flags.Output)).Format(w, data)
}
