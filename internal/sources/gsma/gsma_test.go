package gsma

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `id,name,country
1,Orange,France
2,"Vodafone, Ltd",United Kingdom

3,CTM,Macao
4,Broken
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(feed))
	require.NoError(t, err)

	assert.Equal(t, []operators.RegistryRecord{
		{RegistryID: "1", Name: "Orange", CountryName: "France"},
		{RegistryID: "2", Name: "Vodafone, Ltd", CountryName: "United Kingdom"},
		{RegistryID: "3", Name: "CTM", CountryName: "Macao"},
	}, records)
}

func TestParseHeaderOnly(t *testing.T) {
	records, err := Parse(strings.NewReader("id,name,country\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseBytesStripsBOM(t *testing.T) {
	records, err := ParseBytes([]byte("\xef\xbb\xbfid,name,country\n9,Tigo,Bolivia\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "9", records[0].RegistryID)
}

func TestFetchRegistry(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, feed)
	}))
	defer srv.Close()

	records, err := New(WithURL(srv.URL)).FetchRegistry(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "Mozilla/5.0", gotUA)
}

func TestFetchRegistryUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	records, err := New(WithURL(srv.URL)).FetchRegistry(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Empty(t, records)
}

func TestFetchRegistryConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(WithURL(url)).FetchRegistry(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}
