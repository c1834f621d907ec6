package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdk_trace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
)

type stubCandleFetcher struct {
	data map[eventmodels.StockSymbol][]*eventmodels.Candle
}

func (f *stubCandleFetcher) FetchCandles(ctx context.Context, symbol eventmodels.StockSymbol, from, to time.Time) ([]*eventmodels.Candle, error) {
	candles, found := f.data[symbol]
	if !found {
		return nil, fmt.Errorf("FetchCandles: %s has no candles: %w", symbol, eventmodels.NoDataErr)
	}

	return candles, nil
}

func makeCandles(base time.Time, closes []float64) []*eventmodels.Candle {
	candles := make([]*eventmodels.Candle, 0, len(closes))
	for i, c := range closes {
		candles = append(candles, eventmodels.NewCandle(base.AddDate(0, 0, i), c, c, c, c, 1000))
	}

	return candles
}

func newTestServer(t *testing.T, data map[eventmodels.StockSymbol][]*eventmodels.Candle) *httptest.Server {
	t.Helper()

	eventpubsub.Init()

	router := mux.NewRouter()
	SetupHandler(NewRouterSetup("", router), &stubCandleFetcher{data: data})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url string, request interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(request)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)

	return resp
}

func TestHandleBacktest(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	srv := newTestServer(t, map[eventmodels.StockSymbol][]*eventmodels.Candle{
		"KO":  makeCandles(base, []float64{11, 15, 12, 12}),
		"PEP": makeCandles(base, []float64{5, 6, 5, 6}),
	})

	t.Run("runs one short trade with default thresholds", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/backtest", BacktestRequest{
			SymbolA:      "KO",
			SymbolB:      "PEP",
			StartDate:    "2024-02-01",
			EndDate:      "2024-02-10",
			StartingCash: 1000,
		})
		defer resp.Body.Close()

		require.Equal(t, 200, resp.StatusCode)

		var out BacktestResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

		require.NotNil(t, out.Summary)
		assert.Equal(t, 1, out.Summary.TotalTrades)
		assert.Equal(t, 1, out.Summary.ShortTrades)
		assert.Equal(t, 1, out.Summary.WinnerCount)
		assert.False(t, out.Summary.HasOpenTrade)
		assert.InDelta(t, 1232.379000772445, out.Summary.FinalCash, 1e-6)

		require.NotNil(t, out.Result)
		require.Len(t, out.Result.Trades, 1)
		trade := out.Result.Trades[0]
		assert.Equal(t, eventmodels.TradeDirectionShortSpread, trade.Direction)
		assert.InDelta(t, 3.0, trade.EntrySpread, 1e-9)
		assert.InDelta(t, 0.0, trade.ExitSpread, 1e-9)
	})

	t.Run("identical symbols are rejected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/backtest", BacktestRequest{
			SymbolA:      "KO",
			SymbolB:      "KO",
			StartDate:    "2024-02-01",
			EndDate:      "2024-02-10",
			StartingCash: 1000,
		})
		defer resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("missing starting cash is rejected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/backtest", BacktestRequest{
			SymbolA:   "KO",
			SymbolB:   "PEP",
			StartDate: "2024-02-01",
			EndDate:   "2024-02-10",
		})
		defer resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("unknown symbol maps to 422", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/backtest", BacktestRequest{
			SymbolA:      "KO",
			SymbolB:      "WAT",
			StartDate:    "2024-02-01",
			EndDate:      "2024-02-10",
			StartingCash: 1000,
		})
		defer resp.Body.Close()

		assert.Equal(t, 422, resp.StatusCode)

		var out errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Contains(t, out.Msg, "WAT")
	})
}

func TestHandleScreen(t *testing.T) {
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

	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	closesA := make([]float64, n)
	closesB := make([]float64, n)
	for i := 0; i < n; i++ {
		closesA[i] = 2*walk[i] + noiseA[i]
		closesB[i] = walk[i] + 0.5*noiseB[i]
	}

	srv := newTestServer(t, map[eventmodels.StockSymbol][]*eventmodels.Candle{
		"XLE": makeCandles(base, closesA),
		"XOM": makeCandles(base, closesB),
	})

	t.Run("finds the cointegrated pair", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/screen", ScreenRequest{
			Symbols:   []string{"XLE", "XOM"},
			StartDate: "2023-01-02",
			EndDate:   "2024-12-31",
		})
		defer resp.Body.Close()

		require.Equal(t, 200, resp.StatusCode)

		var out ScreenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

		assert.Equal(t, 2, out.UniverseSize)
		require.Len(t, out.Pairs, 1)
		assert.Equal(t, eventmodels.StockSymbol("XLE"), out.Pairs[0].SymbolA)
		assert.Equal(t, eventmodels.StockSymbol("XOM"), out.Pairs[0].SymbolB)
		assert.Less(t, out.Pairs[0].PValue, 0.05)
		assert.InDelta(t, 2.0, out.Pairs[0].Beta, 0.1)
	})

	t.Run("fewer than two symbols is rejected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/screen", ScreenRequest{
			Symbols:   []string{"XLE"},
			StartDate: "2023-01-02",
			EndDate:   "2024-12-31",
		})
		defer resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("reversed date range is rejected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/screen", ScreenRequest{
			Symbols:   []string{"XLE", "XOM"},
			StartDate: "2024-12-31",
			EndDate:   "2023-01-02",
		})
		defer resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("GET is not routed", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/screen")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestOrchestrationSpans(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	srv := newTestServer(t, map[eventmodels.StockSymbol][]*eventmodels.Candle{
		"KO":  makeCandles(base, []float64{11, 15, 12, 12}),
		"PEP": makeCandles(base, []float64{5, 6, 5, 6}),
	})

	recorder := tracetest.NewSpanRecorder()
	provider := sdk_trace.NewTracerProvider(sdk_trace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	spanNames := func() []string {
		var names []string
		for _, span := range recorder.Ended() {
			names = append(names, span.Name())
		}

		return names
	}

	t.Run("backtest is traced", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/backtest", BacktestRequest{
			SymbolA:      "KO",
			SymbolB:      "PEP",
			StartDate:    "2024-02-01",
			EndDate:      "2024-02-10",
			StartingCash: 1000,
		})
		defer resp.Body.Close()

		require.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, spanNames(), "runBacktest")
	})

	t.Run("screen is traced", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/screen", ScreenRequest{
			Symbols:   []string{"KO", "PEP"},
			StartDate: "2024-02-01",
			EndDate:   "2024-02-10",
		})
		defer resp.Body.Close()

		require.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, spanNames(), "runScreen")
	})
}

func TestHandleCandles(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	srv := newTestServer(t, map[eventmodels.StockSymbol][]*eventmodels.Candle{
		"KO": makeCandles(base, []float64{11, 15, 12, 12}),
	})

	t.Run("returns candles", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/candles?symbol=KO&from=2024-02-01&to=2024-02-10")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, 200, resp.StatusCode)

		var out []*eventmodels.Candle
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out, 4)
		assert.Equal(t, 11.0, out[0].Close)
	})

	t.Run("missing query params are rejected", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/candles?symbol=KO")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("unknown symbol maps to 422", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/candles?symbol=MSFT&from=2024-02-01&to=2024-02-10")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, 422, resp.StatusCode)
	})
}
