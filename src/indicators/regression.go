package indicators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// RegressionResult holds an ordinary least squares fit. Coefficients follow
// the column order of the design matrix.
type RegressionResult struct {
	Coefficients []float64
	StdErrors    []float64
	TValues      []float64
	Residuals    []float64
	SSR          float64
	NObs         int
}

// OLS fits y against the given design matrix rows by least squares via the
// normal equations. Each row of x must include its own constant column if an
// intercept is wanted.
func OLS(y []float64, x [][]float64) (*RegressionResult, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("OLS: %w", eventmodels.LengthMismatchErr)
	}

	k := len(x[0])
	if k == 0 || n <= k {
		return nil, fmt.Errorf("OLS: need more than %d observations for %d regressors: %w", k, k, eventmodels.InsufficientDataErr)
	}

	flat := make([]float64, 0, n*k)
	for i, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("OLS: ragged design matrix at row %d: %w", i, eventmodels.LengthMismatchErr)
		}

		flat = append(flat, row...)
	}

	design := mat.NewDense(n, k, flat)
	response := mat.NewVecDense(n, y)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("OLS: design matrix is singular or near singular: %v", err)
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), response)

	var coef mat.VecDense
	coef.MulVec(&xtxInv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)

	result := &RegressionResult{
		Coefficients: make([]float64, k),
		StdErrors:    make([]float64, k),
		TValues:      make([]float64, k),
		Residuals:    make([]float64, n),
		NObs:         n,
	}

	for i := 0; i < n; i++ {
		result.Residuals[i] = y[i] - fitted.AtVec(i)
		result.SSR += result.Residuals[i] * result.Residuals[i]
	}

	sigma2 := result.SSR / float64(n-k)
	for j := 0; j < k; j++ {
		result.Coefficients[j] = coef.AtVec(j)
		result.StdErrors[j] = math.Sqrt(sigma2 * xtxInv.At(j, j))
		result.TValues[j] = result.Coefficients[j] / result.StdErrors[j]
	}

	return result, nil
}

// SimpleOLS regresses y on x with an intercept and returns the fitted
// intercept, slope and residuals.
func SimpleOLS(y, x []float64) (alpha float64, beta float64, residuals []float64, err error) {
	if len(y) != len(x) {
		return 0, 0, nil, fmt.Errorf("SimpleOLS: %w", eventmodels.LengthMismatchErr)
	}

	rows := make([][]float64, len(x))
	for i, v := range x {
		rows[i] = []float64{1, v}
	}

	fit, err := OLS(y, rows)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("SimpleOLS: failed to fit: %w", err)
	}

	return fit.Coefficients[0], fit.Coefficients[1], fit.Residuals, nil
}

// logLikelihood is the gaussian log likelihood of an OLS fit, used for
// information criteria.
func (r *RegressionResult) logLikelihood() float64 {
	n := float64(r.NObs)
	return -n / 2.0 * (math.Log(2*math.Pi) + math.Log(r.SSR/n) + 1)
}

// AIC is the Akaike information criterion of the fit.
func (r *RegressionResult) AIC() float64 {
	return -2.0*r.logLikelihood() + 2.0*float64(len(r.Coefficients))
}
