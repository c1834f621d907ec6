package screener

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

func makeSeries(t *testing.T, symbol eventmodels.StockSymbol, startDay, n int, f func(i int) float64) *eventmodels.PriceSeries {
	t.Helper()

	candles := make([]eventmodels.ICandle, 0, n)
	for i := 0; i < n; i++ {
		ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, startDay+i)
		close := f(startDay + i)
		candles = append(candles, eventmodels.NewCandle(ts, close, close, close, close, 0))
	}

	series, err := eventmodels.NewPriceSeries(symbol, candles)
	require.NoError(t, err)

	return series
}

// overlapTester assigns p-values by residual length, so expectations hold no
// matter which worker finishes first.
type overlapTester struct {
	byLen map[int]float64
}

func (s *overlapTester) Test(series []float64) (float64, error) {
	p, found := s.byLen[len(series)]
	if !found {
		return 0, fmt.Errorf("overlapTester: unexpected residual length %d", len(series))
	}

	return p, nil
}

// stubUniverse builds three linear series whose pairwise overlaps are 28, 23
// and 25 observations, keyed by the overlapTester.
func stubUniverse(t *testing.T) (map[eventmodels.StockSymbol]*eventmodels.PriceSeries, *overlapTester) {
	t.Helper()

	priceMap := map[eventmodels.StockSymbol]*eventmodels.PriceSeries{
		"AAA": makeSeries(t, "AAA", 0, 28, func(i int) float64 { return 10 + float64(i) }),
		"BBB": makeSeries(t, "BBB", 0, 35, func(i int) float64 { return 20 + 2*float64(i) }),
		"CCC": makeSeries(t, "CCC", 5, 25, func(i int) float64 { return 5 + 3*float64(i) }),
	}

	tester := &overlapTester{byLen: map[int]float64{
		28: 0.02, // AAA/BBB
		23: 0.08, // AAA/CCC
		25: 0.04, // BBB/CCC
	}}

	return priceMap, tester
}

func TestFindCointegratedPairs(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps pairs under significance ranked ascending", func(t *testing.T) {
		priceMap, tester := stubUniverse(t)

		var events []Progress
		pairs, err := FindCointegratedPairs(ctx, priceMap, Params{
			MinObservations: 10,
			Tester:          tester,
			OnProgress:      func(p Progress) { events = append(events, p) },
		})
		require.NoError(t, err)

		require.Len(t, pairs, 2)
		assert.Equal(t, eventmodels.StockSymbol("AAA"), pairs[0].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("BBB"), pairs[0].SymbolB)
		assert.Equal(t, 0.02, pairs[0].PValue)
		assert.Equal(t, eventmodels.StockSymbol("BBB"), pairs[1].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("CCC"), pairs[1].SymbolB)
		assert.Equal(t, 0.04, pairs[1].PValue)

		for i := 1; i < len(pairs); i++ {
			assert.LessOrEqual(t, pairs[i-1].PValue, pairs[i].PValue)
		}

		for _, pair := range pairs {
			assert.Less(t, pair.PValue, 0.05)
		}

		require.Len(t, events, 3)
		assert.Equal(t, 3, events[2].Completed)
		assert.Equal(t, 3, events[2].Total)
	})

	t.Run("worker pool returns the same ranking", func(t *testing.T) {
		priceMap, tester := stubUniverse(t)

		pairs, err := FindCointegratedPairs(ctx, priceMap, Params{
			MinObservations: 10,
			Workers:         3,
			Tester:          tester,
		})
		require.NoError(t, err)

		require.Len(t, pairs, 2)
		assert.Equal(t, 0.02, pairs[0].PValue)
		assert.Equal(t, 0.04, pairs[1].PValue)
	})

	t.Run("ties rank by symbol and truncate preserves order", func(t *testing.T) {
		priceMap, _ := stubUniverse(t)

		tester := &overlapTester{byLen: map[int]float64{28: 0.01, 23: 0.01, 25: 0.01}}
		pairs, err := FindCointegratedPairs(ctx, priceMap, Params{
			MinObservations: 10,
			MaxPairs:        2,
			Tester:          tester,
		})
		require.NoError(t, err)

		require.Len(t, pairs, 2)
		assert.Equal(t, eventmodels.StockSymbol("AAA"), pairs[0].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("BBB"), pairs[0].SymbolB)
		assert.Equal(t, eventmodels.StockSymbol("AAA"), pairs[1].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("CCC"), pairs[1].SymbolB)

		unlimited, err := FindCointegratedPairs(ctx, priceMap, Params{
			MinObservations: 10,
			MaxPairs:        -1,
			Tester:          tester,
		})
		require.NoError(t, err)
		assert.Len(t, unlimited, 3)
	})

	t.Run("skips pairs with too little overlap", func(t *testing.T) {
		priceMap := map[eventmodels.StockSymbol]*eventmodels.PriceSeries{
			"AAA": makeSeries(t, "AAA", 0, 20, func(i int) float64 { return float64(i) }),
			"BBB": makeSeries(t, "BBB", 15, 20, func(i int) float64 { return float64(2 * i) }),
		}

		pairs, err := FindCointegratedPairs(ctx, priceMap, Params{MinObservations: 10})
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("fewer than two symbols is a normal empty result", func(t *testing.T) {
		pairs, err := FindCointegratedPairs(ctx, map[eventmodels.StockSymbol]*eventmodels.PriceSeries{}, Params{})
		require.NoError(t, err)
		assert.Empty(t, pairs)

		priceMap := map[eventmodels.StockSymbol]*eventmodels.PriceSeries{
			"AAA": makeSeries(t, "AAA", 0, 20, func(i int) float64 { return float64(i) }),
		}

		pairs, err = FindCointegratedPairs(ctx, priceMap, Params{})
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("rejects invalid significance", func(t *testing.T) {
		priceMap, _ := stubUniverse(t)

		_, err := FindCointegratedPairs(ctx, priceMap, Params{Significance: 1.5})
		assert.ErrorIs(t, err, eventmodels.InvalidParametersErr)
	})

	t.Run("finds a genuinely cointegrated pair with the real test", func(t *testing.T) {
		r := rand.New(rand.NewSource(7))

		n := 400
		walk := make([]float64, n)
		level := 100.0
		for i := 0; i < n; i++ {
			level += r.NormFloat64()
			walk[i] = level
		}

		noiseA := make([]float64, n)
		noiseB := make([]float64, n)
		for i := 0; i < n; i++ {
			noiseA[i] = r.NormFloat64()
		}
		for i := 0; i < n; i++ {
			noiseB[i] = r.NormFloat64()
		}

		priceMap := map[eventmodels.StockSymbol]*eventmodels.PriceSeries{
			"XLE": makeSeries(t, "XLE", 0, n, func(i int) float64 { return 2*walk[i] + noiseA[i] }),
			"XOM": makeSeries(t, "XOM", 0, n, func(i int) float64 { return walk[i] + 0.5*noiseB[i] }),
		}

		pairs, err := FindCointegratedPairs(ctx, priceMap, Params{})
		require.NoError(t, err)

		require.Len(t, pairs, 1)
		assert.Equal(t, eventmodels.StockSymbol("XLE"), pairs[0].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("XOM"), pairs[0].SymbolB)
		assert.Less(t, pairs[0].PValue, 0.05)
		assert.InDelta(t, 2.0, pairs[0].Beta, 0.1)
		assert.Equal(t, n, pairs[0].Observations)
	})
}
