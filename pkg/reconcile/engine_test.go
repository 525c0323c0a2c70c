package reconcile_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
	"github.com/agentstation/carriermap/pkg/reconcile"
)

type memStore struct {
	saved operators.Collection
	calls int
	err   error
}

func (s *memStore) Save(_ context.Context, c operators.Collection) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.saved = c
	return nil
}

func staticRegistry(records ...operators.RegistryRecord) reconcile.RegistryFunc {
	return func(context.Context) ([]operators.RegistryRecord, error) {
		return records, nil
	}
}

func failingRegistry() reconcile.RegistryFunc {
	return func(context.Context) ([]operators.RegistryRecord, error) {
		return nil, errors.NewAPIError("gsma", 503, "down")
	}
}

// listingsByCountry serves fixed listings; countries mapped to nil fail.
func listingsByCountry(m map[string][]operators.ListingRecord) reconcile.ListingFunc {
	return func(_ context.Context, code string) ([]operators.ListingRecord, error) {
		l, ok := m[code]
		if !ok {
			return nil, nil
		}
		if l == nil {
			return nil, errors.NewParseError("json", "nperf", "no recognized envelope", nil)
		}
		return l, nil
	}
}

func listing(code, id, name string) operators.ListingRecord {
	return operators.ListingRecord{CountryCode: code, ListingID: id, ListingName: name, Link: "link-" + id}
}

func noSleep(time.Duration) {}

func ids(c operators.Collection) []string {
	out := make([]string, len(c))
	for i, op := range c {
		out[i] = op.OperatorID
	}
	return out
}

func TestBuild(t *testing.T) {
	registry := staticRegistry(
		operators.RegistryRecord{RegistryID: "1", Name: "Orange", CountryName: "France"},
		operators.RegistryRecord{RegistryID: "2", Name: "SFR", CountryName: "France"},
		operators.RegistryRecord{RegistryID: "3", Name: "CTM", CountryName: "Macau"},
		operators.RegistryRecord{RegistryID: "4", Name: "Nowhere Tel", CountryName: "Atlantis"},
	)
	listings := listingsByCountry(map[string][]operators.ListingRecord{
		"FR": {listing("FR", "208", "Orange France"), listing("FR", "209", "Bouygues Telecom")},
		"MO": nil,
		"DE": {listing("DE", "300", "Telekom")},
	})

	engine := reconcile.New(registry, listings, nil,
		reconcile.WithCountries("FR", "MO", "DE"),
		reconcile.WithSleeper(noSleep),
	)
	got, stats := engine.Build(context.Background())

	assert.Equal(t, []string{"300", "209", "208", "GSMA_2", "GSMA_3"}, ids(got))
	require.NoError(t, got.Validate())

	orange := got[2]
	assert.Equal(t, "1", orange.RegistryID)
	assert.Equal(t, "link-208", orange.Link)

	ctm := got[4]
	assert.Equal(t, "MO", ctm.CountryCode)
	assert.Empty(t, ctm.Link)
	assert.Equal(t, "3", ctm.RegistryID)

	assert.Equal(t, reconcile.Stats{
		RegistryRecords: 4,
		Countries:       3,
		CountriesFailed: 1,
		Listings:        3,
		Matched:         1,
		RegistryOnly:    2,
		Unresolved:      1,
	}, stats)
	assert.Equal(t, 5, stats.Total())
}

func TestBuildMacauRegistryOnly(t *testing.T) {
	engine := reconcile.New(
		staticRegistry(operators.RegistryRecord{RegistryID: "77", Name: "Companhia de Telecomunicacoes", CountryName: "Macau"}),
		listingsByCountry(nil),
		nil,
		reconcile.WithCountries("MO"),
		reconcile.WithSleeper(noSleep),
	)
	got, _ := engine.Build(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, operators.RegistryOnlyPrefix+"77", got[0].OperatorID)
	assert.Equal(t, "MO", got[0].CountryCode)
	assert.True(t, got[0].IsRegistryOnly())
}

func TestBuildPacing(t *testing.T) {
	var fetched []string
	var slept []time.Duration
	listings := reconcile.ListingFunc(func(_ context.Context, code string) ([]operators.ListingRecord, error) {
		// Each fetch must see the pause for the previous country already taken.
		assert.Len(t, slept, len(fetched))
		fetched = append(fetched, code)
		if code == "BE" {
			return nil, stderrors.New("connection reset")
		}
		return []operators.ListingRecord{listing(code, code+"-1", "Op "+code)}, nil
	})

	engine := reconcile.New(staticRegistry(), listings, nil,
		reconcile.WithCountries("AT", "BE", "CH"),
		reconcile.WithDelay(75*time.Millisecond),
		reconcile.WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	got, stats := engine.Build(context.Background())

	assert.Equal(t, []string{"AT", "BE", "CH"}, fetched)
	assert.Equal(t, []time.Duration{75 * time.Millisecond, 75 * time.Millisecond, 75 * time.Millisecond}, slept)
	assert.Equal(t, []string{"AT-1", "CH-1"}, ids(got))
	assert.Equal(t, 1, stats.CountriesFailed)
}

func TestBuildRegistryUnavailable(t *testing.T) {
	tl := logging.NewTestLogger(t)
	engine := reconcile.New(failingRegistry(),
		listingsByCountry(map[string][]operators.ListingRecord{"FR": {listing("FR", "1", "Orange")}}),
		nil,
		reconcile.WithCountries("FR"),
		reconcile.WithSleeper(noSleep),
		reconcile.WithLogger(tl.Logger),
	)
	got, stats := engine.Build(context.Background())

	require.Len(t, got, 1)
	assert.Empty(t, got[0].RegistryID)
	assert.True(t, stats.RegistryFailed)
	assert.Equal(t, []string{"Registry unavailable, listings will not be matched"}, tl.Messages(zerolog.WarnLevel))
}

func TestBuildAllListingsFail(t *testing.T) {
	listings := reconcile.ListingFunc(func(context.Context, string) ([]operators.ListingRecord, error) {
		return nil, errors.NewAPIError("nperf", 500, "down")
	})
	engine := reconcile.New(
		staticRegistry(
			operators.RegistryRecord{RegistryID: "2", Name: "Vodafone", CountryName: "Germany"},
			operators.RegistryRecord{RegistryID: "1", Name: "Orange", CountryName: "France"},
		),
		listings, nil,
		reconcile.WithCountries("DE", "FR"),
		reconcile.WithSleeper(noSleep),
	)
	got, stats := engine.Build(context.Background())

	assert.Equal(t, []string{"GSMA_2", "GSMA_1"}, ids(got))
	assert.Equal(t, 2, stats.CountriesFailed)
	assert.Equal(t, 2, stats.RegistryOnly)
}

func TestBuildDeduplicates(t *testing.T) {
	engine := reconcile.New(
		staticRegistry(
			operators.RegistryRecord{RegistryID: "9", Name: "Digicel", CountryName: "Jamaica"},
			operators.RegistryRecord{RegistryID: "5", Name: "Flow", CountryName: "Jamaica"},
			operators.RegistryRecord{RegistryID: "5", Name: "Flow", CountryName: "Jamaica"},
		),
		listingsByCountry(map[string][]operators.ListingRecord{
			"JM": {listing("JM", "100", "Digicel Jamaica")},
			"HT": {listing("HT", "100", "Digicel Haiti")},
		}),
		nil,
		reconcile.WithCountries("HT", "JM"),
		reconcile.WithSleeper(noSleep),
	)
	got, stats := engine.Build(context.Background())

	require.NoError(t, got.Validate())
	assert.Equal(t, []string{"100", "GSMA_5"}, ids(got))
	assert.Equal(t, "HT", got[0].CountryCode, "first occurrence wins")
	assert.Equal(t, 2, stats.Duplicates)
}

func TestBuildIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCanceled bool
	listings := reconcile.ListingFunc(func(ctx context.Context, code string) ([]operators.ListingRecord, error) {
		if ctx.Err() != nil {
			sawCanceled = true
		}
		return []operators.ListingRecord{listing(code, code, code)}, nil
	})
	engine := reconcile.New(staticRegistry(), listings, nil,
		reconcile.WithCountries("FR", "DE"),
		reconcile.WithSleeper(noSleep),
	)
	got, _ := engine.Build(ctx)

	assert.False(t, sawCanceled)
	assert.Len(t, got, 2)
}

func TestBuildInvariants(t *testing.T) {
	names := []string{"Zain", "Orange", "orange", "Vodafone", "MTN", "Airtel", "Ooredoo", "Mobile", "3"}
	registry := make([]operators.RegistryRecord, 0)
	listingMap := make(map[string][]operators.ListingRecord)
	codes := []string{"KE", "EG", "GB", "FR"}
	for i, code := range codes {
		for j, n := range names {
			id := fmt.Sprintf("%d", (i*len(names)+j)%11)
			listingMap[code] = append(listingMap[code], listing(code, id, n))
			registry = append(registry, operators.RegistryRecord{RegistryID: fmt.Sprint(j), Name: n + " Group", CountryName: "Kenya"})
		}
	}

	engine := reconcile.New(staticRegistry(registry...), listingsByCountry(listingMap), nil,
		reconcile.WithCountries(codes...),
		reconcile.WithSleeper(noSleep),
	)
	got, _ := engine.Build(context.Background())

	assert.True(t, got.IsSorted())
	assert.NoError(t, got.Validate())
}

func TestRun(t *testing.T) {
	store := &memStore{}
	engine := reconcile.New(
		staticRegistry(operators.RegistryRecord{RegistryID: "1", Name: "Orange", CountryName: "France"}),
		listingsByCountry(nil),
		store,
		reconcile.WithCountries("FR"),
		reconcile.WithSleeper(noSleep),
	)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, result.Operators, store.saved)
	assert.Equal(t, []string{"GSMA_1"}, ids(store.saved))
}

func TestRunPersistFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"typed", errors.WrapIO("rename", "operators.json", stderrors.New("read-only file system"))},
		{"untyped", stderrors.New("disk full")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := reconcile.New(staticRegistry(), listingsByCountry(nil), &memStore{err: tt.err},
				reconcile.WithCountries("FR"),
				reconcile.WithSleeper(noSleep),
			)
			result, err := engine.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.IsPersistFailure(err))
			assert.True(t, stderrors.Is(err, tt.err))
		})
	}

	t.Run("no store", func(t *testing.T) {
		engine := reconcile.New(staticRegistry(), listingsByCountry(nil), nil,
			reconcile.WithCountries(),
			reconcile.WithSleeper(noSleep),
		)
		_, err := engine.Run(context.Background())
		assert.True(t, errors.IsPersistFailure(err))
	})
}

func TestDefaultCountries(t *testing.T) {
	engine := reconcile.New(staticRegistry(), listingsByCountry(nil), nil)
	c := engine.Countries()
	require.NotEmpty(t, c)
	assert.Equal(t, "AD", c[0])
}
