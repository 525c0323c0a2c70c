package countries

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/pkg/countries"
)

func TestCountriesCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	var codes []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &codes))
	assert.Equal(t, countries.Codes(), codes)
}
