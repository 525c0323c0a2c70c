package gsma

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/operators"
)

// ParseBytes parses a feed held in memory.
func ParseBytes(b []byte) ([]operators.RegistryRecord, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	return Parse(bytes.NewReader(b))
}

// Parse reads the feed. The first row is a header and is discarded; each
// later row maps positionally to (id, name, country). Blank lines are
// skipped and rows with fewer than three columns are dropped.
func Parse(r io.Reader) ([]operators.RegistryRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []operators.RegistryRecord
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				return nil, &errors.ParseError{Format: "csv", File: SourceName, Line: perr.Line, Message: perr.Err.Error(), Err: err}
			}
			return nil, errors.WrapParse("csv", SourceName, err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < 3 {
			continue
		}
		records = append(records, operators.RegistryRecord{
			RegistryID:  row[0],
			Name:        row[1],
			CountryName: row[2],
		})
	}
	return records, nil
}
