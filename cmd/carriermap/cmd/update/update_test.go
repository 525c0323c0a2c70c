package update

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/config"
	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/pkg/errors"
)

const feed = "id,name,country\n1,Orange,France\n9,CTM,Macao\n"

func upstreams(t *testing.T) *config.Config {
	t.Helper()
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, feed)
	}))
	t.Cleanup(registry.Close)

	listings := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CountryCode string `json:"countryCode"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.CountryCode == "FR" {
			_, _ = io.WriteString(w, `{"data":{"isp":[{"IspId":12,"IspName":"Orange"}]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"isp":[]}}`)
	}))
	t.Cleanup(listings.Close)

	cfg := config.Default()
	cfg.GSMAFeedURL = registry.URL
	cfg.NPerfAPIURL = listings.URL
	return cfg
}

func mockApp(cfg *config.Config) *application.Mock {
	return &application.Mock{ConfigFunc: func() *config.Config { return cfg }}
}

func TestExecuteWritesArtifact(t *testing.T) {
	cfg := upstreams(t)
	path := filepath.Join(t.TempDir(), "operators.json")

	var out bytes.Buffer
	err := Execute(t.Context(), &out, mockApp(cfg), &Flags{
		Output:    path,
		Delay:     0,
		Countries: []string{"fr", "MO"},
	})
	require.NoError(t, err)

	records, err := persistence.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "FR", records[0].CountryCode)
	assert.Equal(t, "12", records[0].OperatorID)
	assert.Equal(t, "1", records[0].RegistryID)
	assert.Equal(t, "GSMA_9", records[1].OperatorID)
	assert.Empty(t, records[1].Link)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &counts))
	assert.Equal(t, map[string]int{"FR": 1, "MO": 1}, counts)
}

func TestExecuteDryRun(t *testing.T) {
	cfg := upstreams(t)
	path := filepath.Join(t.TempDir(), "operators.json")

	var out bytes.Buffer
	require.NoError(t, Execute(t.Context(), &out, mockApp(cfg), &Flags{
		Output:    path,
		Countries: []string{"FR"},
		DryRun:    true,
	}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), `"FR": 1`)
}

func TestExecutePersistFailure(t *testing.T) {
	cfg := upstreams(t)

	err := Execute(t.Context(), io.Discard, mockApp(cfg), &Flags{
		Output:    t.TempDir(),
		Countries: []string{"FR"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsPersistFailure(err))
}

func TestExecuteRejectsUnknownCountry(t *testing.T) {
	err := Execute(t.Context(), io.Discard, mockApp(config.Default()), &Flags{Countries: []string{"XX"}})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.GSMAFeedURL = srv.URL
	cfg.NPerfAPIURL = srv.URL
	path := filepath.Join(t.TempDir(), "operators.json")

	require.NoError(t, Execute(t.Context(), io.Discard, mockApp(cfg), &Flags{
		Output:    path,
		Countries: []string{"FR"},
	}))
	records, err := persistence.Load(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}
