package eventservices

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// ICandleFetcher loads daily bars for one symbol over a closed date range.
type ICandleFetcher interface {
	FetchCandles(ctx context.Context, symbol eventmodels.StockSymbol, from, to time.Time) ([]*eventmodels.Candle, error)
}

type PolygonCandleFetcher struct {
	Client *polygon.Client
}

func NewPolygonCandleFetcher(apiKey string) *PolygonCandleFetcher {
	return &PolygonCandleFetcher{
		Client: polygon.New(apiKey),
	}
}

func (f *PolygonCandleFetcher) FetchCandles(ctx context.Context, symbol eventmodels.StockSymbol, from, to time.Time) ([]*eventmodels.Candle, error) {
	tracer := otel.Tracer("PolygonCandleFetcher")
	ctx, span := tracer.Start(ctx, "PolygonCandleFetcher.FetchCandles")
	defer span.End()

	log.WithContext(ctx).Debugf("fetching polygon daily candles for symbol %s", symbol)

	params := models.ListAggsParams{
		Ticker:     symbol.String(),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := f.Client.ListAggs(ctx, params)

	var candles []*eventmodels.Candle
	for iter.Next() {
		item := iter.Item()
		candles = append(candles, eventmodels.NewCandle(time.Time(item.Timestamp).UTC(), item.Open, item.High, item.Low, item.Close, item.Volume))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("FetchCandles: failed to fetch candles for %s: %w", symbol, err)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("FetchCandles: %s has no candles between %s and %s: %w", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), eventmodels.NoDataErr)
	}

	return candles, nil
}
