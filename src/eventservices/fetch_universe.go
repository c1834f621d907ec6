package eventservices

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
)

// FetchUniverse loads a price series for every symbol, publishing one
// FetchProgressEvent per symbol as it goes. A symbol with no data in the range
// is skipped with a warning rather than failing the whole universe; any other
// fetch error aborts.
func FetchUniverse(ctx context.Context, fetcher ICandleFetcher, symbols []eventmodels.StockSymbol, from, to time.Time) (map[eventmodels.StockSymbol]*eventmodels.PriceSeries, error) {
	universe := make(map[eventmodels.StockSymbol]*eventmodels.PriceSeries, len(symbols))

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("FetchUniverse: cancelled: %w", err)
		}

		candles, err := fetcher.FetchCandles(ctx, symbol, from, to)
		if err != nil {
			if errors.Is(err, eventmodels.NoDataErr) {
				log.Warnf("FetchUniverse: skipping %s: %v", symbol, err)
				eventpubsub.Publish(eventpubsub.FetchProgressEvent, &eventpubsub.FetchProgress{
					Symbol:    symbol,
					Completed: i + 1,
					Total:     len(symbols),
				})
				continue
			}

			return nil, fmt.Errorf("FetchUniverse: failed to fetch %s: %w", symbol, err)
		}

		var bars []eventmodels.ICandle
		for _, candle := range candles {
			bars = append(bars, candle)
		}

		series, err := eventmodels.NewPriceSeries(symbol, bars)
		if err != nil {
			return nil, fmt.Errorf("FetchUniverse: %w", err)
		}

		universe[symbol] = series

		eventpubsub.Publish(eventpubsub.FetchProgressEvent, &eventpubsub.FetchProgress{
			Symbol:    symbol,
			Completed: i + 1,
			Total:     len(symbols),
			Candles:   series.Len(),
		})
	}

	if len(universe) == 0 {
		return nil, fmt.Errorf("FetchUniverse: no symbol returned data: %w", eventmodels.NoDataErr)
	}

	return universe, nil
}
