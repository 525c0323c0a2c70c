package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/pkg/operators"
)

var records = operators.Collection{
	{CountryCode: "FR", OperatorID: "12", OperatorName: "Orange", Link: "https://www.nperf.com/en/map/FR/-/12.Orange/signal", RegistryID: "3"},
	{CountryCode: "MO", OperatorID: "GSMA_9", OperatorName: "CTM", RegistryID: "9"},
}

func TestOperatorsToTableData(t *testing.T) {
	narrow := OperatorsToTableData(records, false)
	assert.Equal(t, []string{"Country", "Operator ID", "Operator"}, narrow.Headers)
	assert.Equal(t, []string{"FR", "12", "Orange"}, narrow.Rows[0])

	wide := OperatorsToTableData(records, true)
	require.Len(t, wide.Headers, 5)
	assert.Equal(t, []string{"MO", "GSMA_9", "CTM", "9", "-"}, wide.Rows[1])
}

func TestCountsToTableData(t *testing.T) {
	data := CountsToTableData(map[string]int{"MO": 1, "FR": 4})
	// Table order follows the country list, where FR precedes MO.
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "FR", data.Rows[0][0])
	assert.Equal(t, "4", data.Rows[0][2])
	assert.Equal(t, AlignRight, data.ColumnAlignment[2])
}

func TestCountriesToTableData(t *testing.T) {
	data := CountriesToTableData([]string{"FR", "HK"})
	assert.Equal(t, []string{"FR", "France", ""}, data.Rows[0])
	assert.Equal(t, "yes", data.Rows[1][2])
}

func TestLocationToTableData(t *testing.T) {
	data := LocationToTableData(geocode.Location{CountryCode: "DE", Country: "Deutschland"})
	assert.Equal(t, []string{"State", "-"}, data.Rows[2])
}
