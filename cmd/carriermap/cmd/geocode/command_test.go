package geocode

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/internal/geocode"
	"github.com/agentstation/carriermap/pkg/errors"
)

func TestParse(t *testing.T) {
	c, err := parse("45", "90")
	require.NoError(t, err)
	assert.Equal(t, 45.0, c.Lat)

	_, err = parse("95", "0")
	assert.True(t, errors.IsValidationError(err))
	_, err = parse("north", "0")
	assert.True(t, errors.IsValidationError(err))
	_, err = parse("0", "east")
	assert.True(t, errors.IsValidationError(err))
}

func TestGeocodeCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "22.1987", r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"display_name":"Macau","address":{"country_code":"cn","country":"China","ISO3166-2-lvl3":"CN-MO"}}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.NominatimURL = srv.URL
	cmd := NewCommand(&application.Mock{ConfigFunc: func() *config.Config { return cfg }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"22.1987", "113.5439"})
	require.NoError(t, cmd.Execute())

	var loc geocode.Location
	require.NoError(t, json.Unmarshal(out.Bytes(), &loc))
	assert.Equal(t, "MO", loc.CountryCode)
}
