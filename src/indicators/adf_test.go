package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// scramble is a deterministic equidistributed sequence in [-0.5, 0.5), used
// in place of seeded noise so fixtures are reproducible by inspection.
func scramble(i int) float64 {
	return float64((i*37)%101)/101.0 - 0.5
}

func TestADFTest(t *testing.T) {
	t.Run("mean reverting series is stationary", func(t *testing.T) {
		series := make([]float64, 200)
		for i := range series {
			series[i] = scramble(i)
		}

		result, err := ADFTest(series)
		require.NoError(t, err)

		assert.Less(t, result.PValue, 0.05)
		assert.True(t, result.IsStationary(0.05))
		assert.GreaterOrEqual(t, result.UsedLag, 0)
		assert.LessOrEqual(t, result.UsedLag, 15)
		assert.Equal(t, 199-result.UsedLag, result.NObs)

		require.Len(t, result.CriticalValues, 3)
		assert.Less(t, result.CriticalValues["1%"], result.CriticalValues["5%"])
		assert.Less(t, result.CriticalValues["5%"], result.CriticalValues["10%"])
	})

	t.Run("trending series keeps its unit root", func(t *testing.T) {
		series := make([]float64, 200)
		for i := range series {
			series[i] = 0.5*float64(i) + 0.2*scramble(i)
		}

		result, err := ADFTest(series)
		require.NoError(t, err)

		assert.Greater(t, result.PValue, 0.05)
		assert.False(t, result.IsStationary(0.05))
	})

	t.Run("rejects series too short to difference and lag", func(t *testing.T) {
		_, err := ADFTest([]float64{1, 2, 3, 4})
		assert.ErrorIs(t, err, eventmodels.InsufficientDataErr)
	})

	t.Run("constant series cannot be tested", func(t *testing.T) {
		series := make([]float64, 50)
		for i := range series {
			series[i] = 42
		}

		_, err := ADFTest(series)
		assert.Error(t, err)
	})
}

func TestMacKinnonP(t *testing.T) {
	t.Run("matches tabulated points", func(t *testing.T) {
		assert.InDelta(t, 0.01, mackinnonP(-3.43035), 1.5e-3)
		assert.InDelta(t, 0.05, mackinnonP(-2.86154), 2e-3)
		assert.InDelta(t, 0.9585, mackinnonP(0), 2e-3)
	})

	t.Run("clamps outside the tabulated range", func(t *testing.T) {
		assert.Equal(t, 1.0, mackinnonP(3.0))
		assert.Equal(t, 0.0, mackinnonP(-19.0))
	})
}

func TestMacKinnonCrit(t *testing.T) {
	crit := mackinnonCrit(500)

	assert.InDelta(t, -3.4435, crit["1%"], 1e-3)
	assert.InDelta(t, -2.8673, crit["5%"], 1e-3)
	assert.InDelta(t, -2.5699, crit["10%"], 1e-3)
}
