package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

func TestOLS(t *testing.T) {
	t.Run("recovers exact linear relationship", func(t *testing.T) {
		alpha, beta, residuals, err := SimpleOLS([]float64{3, 5, 7, 9}, []float64{1, 2, 3, 4})
		require.NoError(t, err)

		assert.InDelta(t, 1.0, alpha, 1e-9)
		assert.InDelta(t, 2.0, beta, 1e-9)
		for _, r := range residuals {
			assert.InDelta(t, 0.0, r, 1e-9)
		}
	})

	t.Run("matches hand computed fit", func(t *testing.T) {
		y := []float64{2, 4, 5, 8}
		x := [][]float64{{1, 1}, {1, 2}, {1, 3}, {1, 4}}

		fit, err := OLS(y, x)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, fit.Coefficients[0], 1e-9)
		assert.InDelta(t, 1.9, fit.Coefficients[1], 1e-9)
		assert.InDelta(t, 0.7, fit.SSR, 1e-9)
		assert.InDelta(t, 0.264575, fit.StdErrors[1], 1e-5)
		assert.InDelta(t, 7.18135, fit.TValues[1], 1e-4)
		assert.InDelta(t, 8.3796310455, fit.AIC(), 1e-6)
	})

	t.Run("rejects mismatched lengths", func(t *testing.T) {
		_, _, _, err := SimpleOLS([]float64{1, 2}, []float64{1, 2, 3})
		assert.ErrorIs(t, err, eventmodels.LengthMismatchErr)
	})

	t.Run("rejects underdetermined systems", func(t *testing.T) {
		_, err := OLS([]float64{1, 2}, [][]float64{{1, 1}, {1, 2}})
		assert.ErrorIs(t, err, eventmodels.InsufficientDataErr)
	})

	t.Run("rejects singular design", func(t *testing.T) {
		y := []float64{1, 2, 3, 4}
		x := [][]float64{{1, 2, 2}, {1, 3, 3}, {1, 4, 4}, {1, 5, 5}}

		_, err := OLS(y, x)
		assert.Error(t, err)
	})
}
