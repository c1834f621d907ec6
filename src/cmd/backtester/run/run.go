package run

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/pairs-trader/src/backtester"
	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
	"github.com/jiaming2012/pairs-trader/src/eventservices"
	"github.com/jiaming2012/pairs-trader/src/indicators"
	"github.com/jiaming2012/pairs-trader/src/report"
	"github.com/jiaming2012/pairs-trader/src/screener"
	"github.com/jiaming2012/pairs-trader/src/sheets"
)

type Args struct {
	Config  *eventmodels.RunConfigYAML
	OutDir  string
	Journal bool
}

type Result struct {
	Pairs     eventmodels.CandidatePairs
	Summaries []*report.TradeSummary
}

func newFetcher(config *eventmodels.RunConfigYAML) (eventservices.ICandleFetcher, error) {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("newFetcher: missing POLYGON_API_KEY environment variable")
	}

	var fetcher eventservices.ICandleFetcher = eventservices.NewPolygonCandleFetcher(apiKey)
	if config.DataDir != "" {
		fetcher = eventservices.NewCachingCandleFetcher(fetcher, eventservices.NewCsvCandleRepository(config.DataDir))
	}

	return fetcher, nil
}

// Exec runs the whole pipeline: fetch the universe, screen it for
// cointegrated pairs, then simulate every surviving pair and report on each.
func Exec(ctx context.Context, args Args) (Result, error) {
	config := args.Config
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return Result{}, fmt.Errorf("Exec: invalid config: %w", err)
	}

	from, err := config.GetStartDate()
	if err != nil {
		return Result{}, fmt.Errorf("Exec: %w", err)
	}

	to, err := config.GetEndDate()
	if err != nil {
		return Result{}, fmt.Errorf("Exec: %w", err)
	}

	fetcher, err := newFetcher(config)
	if err != nil {
		return Result{}, fmt.Errorf("Exec: %w", err)
	}

	universe, err := eventservices.FetchUniverse(ctx, fetcher, config.GetSymbols(), from, to)
	if err != nil {
		return Result{}, fmt.Errorf("Exec: %w", err)
	}

	log.Infof("fetched %d of %d symbols", len(universe), len(config.Symbols))

	pairs, err := screener.FindCointegratedPairs(ctx, universe, screener.Params{
		Significance:    config.Significance,
		MaxPairs:        config.MaxPairs,
		MinObservations: config.MinObservations,
		Workers:         config.Workers,
		OnProgress: func(p screener.Progress) {
			eventpubsub.Publish(eventpubsub.ScreenProgressEvent, &eventpubsub.ScreenProgress{
				Completed: p.Completed,
				Total:     p.Total,
				Pair:      p.Pair,
			})
		},
	})

	if err != nil {
		return Result{}, fmt.Errorf("Exec: failed to screen universe: %w", err)
	}

	if len(pairs) == 0 {
		log.Warn("no cointegrated pairs found, nothing to backtest")
		return Result{}, nil
	}

	report.RenderCandidatePairs(os.Stdout, pairs)

	var journal *sheets.TradeJournal
	if args.Journal {
		journal, err = sheets.NewTradeJournalFromEnv(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("Exec: failed to open trade journal: %w", err)
		}
	}

	cfg := backtester.Config{
		StartingCash: config.StartingCash,
		EntryZ:       config.EntryZ,
		ExitZ:        config.ExitZ,
		RiskFraction: config.RiskFraction,
	}

	if config.RollingWindow > 0 {
		cfg.Normalizer = &indicators.RollingNormalizer{Window: config.RollingWindow}
	}

	result := Result{Pairs: pairs}

	for _, pair := range pairs {
		backtestResult, err := backtestPair(universe, pair, cfg)
		if err != nil {
			eventpubsub.PublishError("Exec", fmt.Errorf("skipping %s: %w", pair, err))
			continue
		}

		eventpubsub.Publish(eventpubsub.BacktestCompletedEvent, &eventpubsub.BacktestCompleted{Result: backtestResult})

		summary, err := report.NewTradeSummary(backtestResult)
		if err != nil {
			return Result{}, fmt.Errorf("Exec: %w", err)
		}

		report.RenderTradeLedger(os.Stdout, backtestResult.Trades)
		report.RenderSummary(os.Stdout, summary)

		if args.OutDir != "" {
			tradesPath, err := eventservices.ExportTrades(args.OutDir, backtestResult)
			if err != nil {
				return Result{}, fmt.Errorf("Exec: %w", err)
			}

			equityPath, err := eventservices.ExportEquityCurve(args.OutDir, backtestResult)
			if err != nil {
				return Result{}, fmt.Errorf("Exec: %w", err)
			}

			log.Infof("exported %s and %s", tradesPath, equityPath)
		}

		if journal != nil {
			if err := journal.AppendBacktestResult(ctx, backtestResult); err != nil {
				return Result{}, fmt.Errorf("Exec: %w", err)
			}

			if err := journal.AppendSummary(ctx, summary); err != nil {
				return Result{}, fmt.Errorf("Exec: %w", err)
			}
		}

		result.Summaries = append(result.Summaries, summary)
	}

	return result, nil
}

func backtestPair(universe map[eventmodels.StockSymbol]*eventmodels.PriceSeries, candidate *eventmodels.CandidatePair, cfg backtester.Config) (*eventmodels.BacktestResult, error) {
	seriesA, found := universe[candidate.SymbolA]
	if !found {
		return nil, fmt.Errorf("backtestPair: %s missing from universe: %w", candidate.SymbolA, eventmodels.NoDataErr)
	}

	seriesB, found := universe[candidate.SymbolB]
	if !found {
		return nil, fmt.Errorf("backtestPair: %s missing from universe: %w", candidate.SymbolB, eventmodels.NoDataErr)
	}

	pair, err := eventmodels.AlignSeries(seriesA, seriesB)
	if err != nil {
		return nil, fmt.Errorf("backtestPair: %w", err)
	}

	backtestResult, err := backtester.Run(pair, cfg)
	if err != nil {
		return nil, fmt.Errorf("backtestPair: %w", err)
	}

	return backtestResult, nil
}
