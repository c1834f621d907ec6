package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/jiaming2012/pairs-trader/src/backtester"
	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventservices"
	"github.com/jiaming2012/pairs-trader/src/indicators"
	"github.com/jiaming2012/pairs-trader/src/report"
	"github.com/jiaming2012/pairs-trader/src/screener"
)

var fetcher eventservices.ICandleFetcher

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("SetResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

func statusCodeFromError(err error) int {
	if errors.Is(err, eventmodels.InvalidParametersErr) {
		return 400
	}

	if errors.Is(err, eventmodels.NoDataErr) || errors.Is(err, eventmodels.InsufficientDataErr) {
		return 422
	}

	return 500
}

type ScreenRequest struct {
	Symbols         []string `json:"symbols"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Significance    float64  `json:"significance"`
	MaxPairs        int      `json:"max_pairs"`
	MinObservations int      `json:"min_observations"`
	Workers         int      `json:"workers"`
}

func (req *ScreenRequest) Validate() error {
	if len(req.Symbols) < 2 {
		return fmt.Errorf("at least two symbols are required: %w", eventmodels.InvalidParametersErr)
	}

	if _, _, err := parseDateRange(req.StartDate, req.EndDate); err != nil {
		return err
	}

	return nil
}

type ScreenResponse struct {
	UniverseSize int                        `json:"universe_size"`
	Pairs        eventmodels.CandidatePairs `json:"pairs"`
}

type BacktestRequest struct {
	SymbolA       string  `json:"symbol_a"`
	SymbolB       string  `json:"symbol_b"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartingCash  float64 `json:"starting_cash"`
	EntryZ        float64 `json:"entry_z"`
	ExitZ         float64 `json:"exit_z"`
	RiskFraction  float64 `json:"risk_fraction"`
	RollingWindow int     `json:"rolling_window"`
}

func (req *BacktestRequest) Validate() error {
	if req.SymbolA == "" || req.SymbolB == "" {
		return fmt.Errorf("both symbols are required: %w", eventmodels.InvalidParametersErr)
	}

	if req.SymbolA == req.SymbolB {
		return fmt.Errorf("symbols must differ: %w", eventmodels.InvalidParametersErr)
	}

	if req.StartingCash <= 0 {
		return fmt.Errorf("starting_cash must be positive: %w", eventmodels.InvalidParametersErr)
	}

	if _, _, err := parseDateRange(req.StartDate, req.EndDate); err != nil {
		return err
	}

	return nil
}

// applyDefaults mirrors the yaml config defaults. A zero exit_z also falls
// back to the default, so exit-on-mean-cross runs must set entry_z explicitly
// above it.
func (req *BacktestRequest) applyDefaults() {
	if req.EntryZ == 0 {
		req.EntryZ = 1.0
	}

	if req.ExitZ == 0 {
		req.ExitZ = 0.2
	}

	if req.RiskFraction == 0 {
		req.RiskFraction = 0.1
	}
}

type BacktestResponse struct {
	Result  *eventmodels.BacktestResult `json:"result"`
	Summary *report.TradeSummary        `json:"summary"`
}

type FetchCandlesRequest struct {
	Symbol string `schema:"symbol,required"`
	From   string `schema:"from,required"`
	To     string `schema:"to,required"`
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse start date %q: %w", start, eventmodels.InvalidParametersErr)
	}

	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse end date %q: %w", end, eventmodels.InvalidParametersErr)
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date: %w", eventmodels.InvalidParametersErr)
	}

	return from.UTC(), to.UTC(), nil
}

func handleScreen(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(404)
		return
	}

	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("handleScreen: failed to decode request", 400, err, w)
		return
	}

	if err := req.Validate(); err != nil {
		setErrorResponse("handleScreen: invalid request", 400, err, w)
		return
	}

	resp, err := runScreen(r.Context(), &req)
	if err != nil {
		setErrorResponse("handleScreen: failed to screen universe", statusCodeFromError(err), err, w)
		return
	}

	if err := setResponse(resp, w); err != nil {
		setErrorResponse("handleScreen: failed to set response", 500, err, w)
		return
	}
}

func runScreen(ctx context.Context, req *ScreenRequest) (*ScreenResponse, error) {
	tracer := otel.Tracer("runScreen")
	ctx, span := tracer.Start(ctx, "runScreen")
	defer span.End()

	logger := log.WithContext(ctx)

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	symbols := make([]eventmodels.StockSymbol, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		symbols = append(symbols, eventmodels.NewStockSymbol(s))
	}

	universe, err := eventservices.FetchUniverse(ctx, fetcher, symbols, from, to)
	if err != nil {
		return nil, err
	}

	pairs, err := screener.FindCointegratedPairs(ctx, universe, screener.Params{
		Significance:    req.Significance,
		MaxPairs:        req.MaxPairs,
		MinObservations: req.MinObservations,
		Workers:         req.Workers,
	})

	if err != nil {
		return nil, err
	}

	logger.Infof("screened %d candidate pairs from %d symbols", len(pairs), len(universe))

	return &ScreenResponse{
		UniverseSize: len(universe),
		Pairs:        pairs,
	}, nil
}

func handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(404)
		return
	}

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("handleBacktest: failed to decode request", 400, err, w)
		return
	}

	if err := req.Validate(); err != nil {
		setErrorResponse("handleBacktest: invalid request", 400, err, w)
		return
	}

	resp, err := runBacktest(r.Context(), &req)
	if err != nil {
		setErrorResponse("handleBacktest: failed to run backtest", statusCodeFromError(err), err, w)
		return
	}

	if err := setResponse(resp, w); err != nil {
		setErrorResponse("handleBacktest: failed to set response", 500, err, w)
		return
	}
}

func runBacktest(ctx context.Context, req *BacktestRequest) (*BacktestResponse, error) {
	tracer := otel.Tracer("runBacktest")
	ctx, span := tracer.Start(ctx, "runBacktest")
	defer span.End()

	logger := log.WithContext(ctx)

	req.applyDefaults()

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	symbolA := eventmodels.NewStockSymbol(req.SymbolA)
	symbolB := eventmodels.NewStockSymbol(req.SymbolB)

	universe, err := eventservices.FetchUniverse(ctx, fetcher, []eventmodels.StockSymbol{symbolA, symbolB}, from, to)
	if err != nil {
		return nil, err
	}

	seriesA, found := universe[symbolA]
	if !found {
		return nil, fmt.Errorf("runBacktest: %s has no data in range: %w", symbolA, eventmodels.NoDataErr)
	}

	seriesB, found := universe[symbolB]
	if !found {
		return nil, fmt.Errorf("runBacktest: %s has no data in range: %w", symbolB, eventmodels.NoDataErr)
	}

	pair, err := eventmodels.AlignSeries(seriesA, seriesB)
	if err != nil {
		return nil, fmt.Errorf("runBacktest: %w", err)
	}

	cfg := backtester.Config{
		StartingCash: req.StartingCash,
		EntryZ:       req.EntryZ,
		ExitZ:        req.ExitZ,
		RiskFraction: req.RiskFraction,
	}

	if req.RollingWindow > 0 {
		cfg.Normalizer = &indicators.RollingNormalizer{Window: req.RollingWindow}
	}

	result, err := backtester.Run(pair, cfg)
	if err != nil {
		return nil, fmt.Errorf("runBacktest: %w", err)
	}

	logger.Infof("backtested %s/%s over %d bars: %d trades", symbolA, symbolB, pair.Len(), len(result.Trades))

	summary, err := report.NewTradeSummary(result)
	if err != nil {
		return nil, fmt.Errorf("runBacktest: %w", err)
	}

	return &BacktestResponse{
		Result:  result,
		Summary: summary,
	}, nil
}

func handleCandles(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	req := new(FetchCandlesRequest)
	if err := schema.NewDecoder().Decode(req, r.URL.Query()); err != nil {
		setErrorResponse("handleCandles: failed to decode query", 400, err, w)
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		setErrorResponse("handleCandles: invalid date range", 400, err, w)
		return
	}

	candles, err := fetcher.FetchCandles(r.Context(), eventmodels.NewStockSymbol(req.Symbol), from, to)
	if err != nil {
		setErrorResponse("handleCandles: failed to fetch candles", statusCodeFromError(err), err, w)
		return
	}

	if err := setResponse(candles, w); err != nil {
		setErrorResponse("handleCandles: failed to set response", 500, err, w)
		return
	}
}

func SetupHandler(router *RouterSetup, candleFetcher eventservices.ICandleFetcher) {
	fetcher = candleFetcher

	router.HandleFunc("/screen", handleScreen)
	router.HandleFunc("/backtest", handleBacktest)
	router.HandleFunc("/candles", handleCandles)
}
