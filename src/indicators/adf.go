package indicators

import (
	"fmt"
	"math"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// ADFResult is the outcome of an augmented Dickey-Fuller unit root test. A low
// PValue rejects the null of a unit root, i.e. the series looks stationary.
type ADFResult struct {
	Statistic      float64
	PValue         float64
	UsedLag        int
	NObs           int
	CriticalValues map[string]float64
}

func (r *ADFResult) IsStationary(significance float64) bool {
	return r.PValue < significance
}

// ADFTest runs an augmented Dickey-Fuller test with a constant and no trend.
// The lag order is chosen by AIC up to the Schwert rule maximum, matching the
// usual econometrics convention, then the test regression is refit at the
// chosen lag on the full available sample.
func ADFTest(series []float64) (*ADFResult, error) {
	n := len(series)
	if n < 6 {
		return nil, fmt.Errorf("ADFTest: series of %d observations is too short: %w", n, eventmodels.InsufficientDataErr)
	}

	maxLag := int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
	if limit := n/2 - 2; maxLag > limit {
		maxLag = limit
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("ADFTest: series of %d observations is too short: %w", n, eventmodels.InsufficientDataErr)
	}

	diffs := diff(series)

	// All candidate lags are compared on the common sample implied by the
	// largest lag, so AIC differences come from the regressors alone.
	common := n - 1 - maxLag
	if common <= maxLag+2 {
		return nil, fmt.Errorf("ADFTest: %d observations leave no degrees of freedom at max lag %d: %w", n, maxLag, eventmodels.InsufficientDataErr)
	}

	bestLag := -1
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		y, design := adfDesign(series, diffs, common, lag)
		fit, err := OLS(y, design)
		if err != nil {
			// A collinear candidate design disqualifies that lag, not the test.
			continue
		}

		if aic := fit.AIC(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	if bestLag < 0 {
		return nil, fmt.Errorf("ADFTest: no lag produced a usable test regression")
	}

	nobs := n - 1 - bestLag
	y, design := adfDesign(series, diffs, nobs, bestLag)
	fit, err := OLS(y, design)
	if err != nil {
		return nil, fmt.Errorf("ADFTest: failed to fit test regression at lag %d: %w", bestLag, err)
	}

	stat := fit.TValues[1]

	return &ADFResult{
		Statistic:      stat,
		PValue:         mackinnonP(stat),
		UsedLag:        bestLag,
		NObs:           nobs,
		CriticalValues: mackinnonCrit(nobs),
	}, nil
}

// adfDesign builds the test regression over the trailing nobs differences.
// Each row explains one difference with a constant, the previous level and
// lag earlier difference terms.
func adfDesign(series, diffs []float64, nobs, lag int) ([]float64, [][]float64) {
	start := len(diffs) - nobs

	y := make([]float64, nobs)
	design := make([][]float64, nobs)
	for i := 0; i < nobs; i++ {
		t := start + i
		y[i] = diffs[t]

		row := make([]float64, 0, lag+2)
		row = append(row, 1, series[t])
		for j := 1; j <= lag; j++ {
			row = append(row, diffs[t-j])
		}

		design[i] = row
	}

	return y, design
}

func diff(series []float64) []float64 {
	diffs := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diffs[i-1] = series[i] - series[i-1]
	}

	return diffs
}
