package screener

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/indicators"
)

// IStationarityTester decides whether a residual series is stationary. The
// default is the augmented Dickey-Fuller test; tests inject their own.
type IStationarityTester interface {
	Test(series []float64) (pValue float64, err error)
}

type adfTester struct{}

func (adfTester) Test(series []float64) (float64, error) {
	result, err := indicators.ADFTest(series)
	if err != nil {
		return 0, fmt.Errorf("adfTester.Test: %w", err)
	}

	return result.PValue, nil
}

// Progress reports one completed pair out of the total scan. Pair is set only
// when the completed pair passed the screen.
type Progress struct {
	Completed int
	Total     int
	Pair      *eventmodels.CandidatePair
}

type Params struct {
	Significance    float64
	MaxPairs        int
	MinObservations int
	Workers         int
	Tester          IStationarityTester
	OnProgress      func(Progress)
}

func (p *Params) ApplyDefaults() {
	if p.Significance == 0 {
		p.Significance = 0.05
	}

	if p.MaxPairs == 0 {
		p.MaxPairs = 10
	}

	if p.MinObservations == 0 {
		p.MinObservations = 250
	}

	if p.Workers <= 0 {
		p.Workers = 1
	}

	if p.Tester == nil {
		p.Tester = adfTester{}
	}
}

func (p *Params) Validate() error {
	if p.Significance <= 0 || p.Significance >= 1 {
		return fmt.Errorf("Params.Validate: significance must be in (0, 1): %w", eventmodels.InvalidParametersErr)
	}

	if p.MinObservations < 3 {
		return fmt.Errorf("Params.Validate: minObservations must be at least 3: %w", eventmodels.InvalidParametersErr)
	}

	return nil
}

type pairJob struct {
	index   int
	symbolA eventmodels.StockSymbol
	symbolB eventmodels.StockSymbol
}

// FindCointegratedPairs tests every unordered pair of symbols for
// cointegration and returns the survivors ranked by ascending p-value,
// truncated to MaxPairs (negative MaxPairs disables the cap). Fewer than two
// symbols, or no pair with enough overlap, is a normal empty result.
func FindCointegratedPairs(ctx context.Context, priceMap map[eventmodels.StockSymbol]*eventmodels.PriceSeries, params Params) (eventmodels.CandidatePairs, error) {
	params.ApplyDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("FindCointegratedPairs: %w", err)
	}

	symbols := make([]eventmodels.StockSymbol, 0, len(priceMap))
	for symbol := range priceMap {
		symbols = append(symbols, symbol)
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	var jobs []pairJob
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			jobs = append(jobs, pairJob{index: len(jobs), symbolA: symbols[i], symbolB: symbols[j]})
		}
	}

	if len(jobs) == 0 {
		return eventmodels.CandidatePairs{}, nil
	}

	results := make([]*eventmodels.CandidatePair, len(jobs))

	var mu sync.Mutex
	var completed int
	runJob := func(job pairJob) {
		var pair *eventmodels.CandidatePair
		if ctx.Err() == nil {
			pair = screenPair(priceMap[job.symbolA], priceMap[job.symbolB], &params)
		}

		mu.Lock()
		defer mu.Unlock()

		results[job.index] = pair
		completed++
		if params.OnProgress != nil {
			params.OnProgress(Progress{Completed: completed, Total: len(jobs), Pair: pair})
		}
	}

	if params.Workers == 1 {
		for _, job := range jobs {
			runJob(job)
		}
	} else {
		jobCh := make(chan pairJob)

		var wg sync.WaitGroup
		for w := 0; w < params.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for job := range jobCh {
					runJob(job)
				}
			}()
		}

		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)

		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("FindCointegratedPairs: scan interrupted: %w", err)
	}

	candidates := make(eventmodels.CandidatePairs, 0, len(jobs))
	for _, pair := range results {
		if pair != nil {
			candidates = append(candidates, pair)
		}
	}

	candidates.SortByPValue()

	return candidates.Truncate(params.MaxPairs), nil
}

func screenPair(seriesA, seriesB *eventmodels.PriceSeries, params *Params) *eventmodels.CandidatePair {
	aligned, err := eventmodels.AlignSeries(seriesA, seriesB)
	if err != nil {
		log.Warnf("screenPair: failed to align %s/%s: %v", seriesA.Symbol, seriesB.Symbol, err)
		return nil
	}

	if aligned.Len() < params.MinObservations {
		log.Debugf("screenPair: skipping %s/%s: %d overlapping observations, need %d", aligned.SymbolA, aligned.SymbolB, aligned.Len(), params.MinObservations)
		return nil
	}

	_, beta, residuals, err := indicators.SimpleOLS(aligned.ClosesA, aligned.ClosesB)
	if err != nil {
		log.Warnf("screenPair: failed to regress %s on %s: %v", aligned.SymbolA, aligned.SymbolB, err)
		return nil
	}

	pValue, err := params.Tester.Test(residuals)
	if err != nil {
		log.Warnf("screenPair: stationarity test failed for %s/%s: %v", aligned.SymbolA, aligned.SymbolB, err)
		return nil
	}

	if pValue >= params.Significance {
		return nil
	}

	return &eventmodels.CandidatePair{
		SymbolA:      aligned.SymbolA,
		SymbolB:      aligned.SymbolB,
		PValue:       pValue,
		Beta:         beta,
		Observations: aligned.Len(),
	}
}
