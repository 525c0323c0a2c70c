package update

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/carriermap/internal/cmd/application"
	"github.com/agentstation/carriermap/internal/cmd/globals"
	"github.com/agentstation/carriermap/internal/cmd/output"
	"github.com/agentstation/carriermap/internal/cmd/table"
	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/internal/sources/gsma"
	"github.com/agentstation/carriermap/internal/sources/nperf"
	"github.com/agentstation/carriermap/pkg/countries"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
	"github.com/agentstation/carriermap/pkg/reconcile"
)

// Execute runs a reconciliation and, unless DryRun is set, saves the result.
// Per-country operator counts are written to w.
func Execute(ctx context.Context, w io.Writer, app application.Application, flags *Flags) error {
	cfg := app.Config()
	logger := app.Logger()

	codes, err := normalizeCountries(flags.Countries)
	if err != nil {
		return err
	}

	path := flags.Output
	if path == "" {
		path = cfg.OperatorsFile
	}
	delay := flags.Delay
	if delay < 0 {
		delay = cfg.APIDelay
	}

	registry := gsma.New(gsma.WithURL(cfg.GSMAFeedURL), gsma.WithTimeout(cfg.RequestTimeout))
	listings := nperf.New(nperf.WithURL(cfg.NPerfAPIURL), nperf.WithTimeout(cfg.RequestTimeout))

	opts := []reconcile.Option{
		reconcile.WithDelay(delay),
		reconcile.WithLogger(logger),
	}
	if len(codes) > 0 {
		opts = append(opts, reconcile.WithCountries(codes...))
	}

	var store reconcile.Store
	if !flags.DryRun {
		store = persistence.NewJSONStore(path)
	}
	engine := reconcile.New(registry, listings, store, opts...)

	ctx = logging.WithOperation(logging.WithLogger(ctx, logger), "update")

	var collection operators.Collection
	if flags.DryRun {
		var stats reconcile.Stats
		collection, stats = engine.Build(ctx)
		logger.Info().
			Int("operators", len(collection)).
			Int("matched", stats.Matched).
			Int("registry_only", stats.RegistryOnly).
			Msg("Dry run, dataset not written")
	} else {
		result, err := engine.Run(ctx)
		if err != nil {
			return fmt.Errorf("saving %s: %w", path, err)
		}
		collection = result.Operators
		logger.Info().
			Str("path", path).
			Int("operators", len(collection)).
			Int("countries_failed", result.Stats.CountriesFailed).
			Bool("registry_failed", result.Stats.RegistryFailed).
			Msg("Operators dataset updated")
	}

	fl := &globals.Flags{Output: app.OutputFormat()}
	format := output.DetectFormat(fl.Output)
	if format == output.FormatTable || format == output.FormatWide {
		return output.NewFormatter(format).Format(w, table.CountsToTableData(collection.CountByCountry()))
	}
	return output.FormatAny(w, collection.CountByCountry(), fl)
}

func normalizeCountries(in []string) ([]string, error) {
	var codes []string
	for _, c := range in {
		code := strings.ToUpper(strings.TrimSpace(c))
		if code == "" {
			continue
		}
		if !countries.IsListed(code) {
			return nil, errors.NewValidationError("countries", c, "unsupported country code")
		}
		codes = append(codes, code)
	}
	return codes, nil
}
