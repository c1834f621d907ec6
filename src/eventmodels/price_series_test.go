package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCandle(day int, close float64) *Candle {
	ts := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return NewCandle(ts, close, close, close, close, 1000)
}

// stubBar carries only what a price series reads from a bar.
type stubBar struct {
	timestamp time.Time
	close     float64
}

func (b stubBar) GetTimestamp() time.Time { return b.timestamp }

func (b stubBar) GetClose() float64 { return b.close }

func TestPriceSeries(t *testing.T) {
	t.Run("orders candles chronologically", func(t *testing.T) {
		series, err := NewPriceSeries("COIN", []ICandle{
			newTestCandle(3, 103),
			newTestCandle(1, 101),
			newTestCandle(2, 102),
		})
		require.NoError(t, err)

		assert.Equal(t, 3, series.Len())
		assert.Equal(t, []float64{101, 102, 103}, series.Closes())
	})

	t.Run("rejects duplicate timestamps", func(t *testing.T) {
		_, err := NewPriceSeries("COIN", []ICandle{
			newTestCandle(1, 101),
			newTestCandle(1, 102),
		})
		assert.Error(t, err)
	})

	t.Run("empty series is valid", func(t *testing.T) {
		series, err := NewPriceSeries("COIN", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, series.Len())
	})

	t.Run("builds from any bar implementation", func(t *testing.T) {
		series, err := NewPriceSeries("COIN", []ICandle{
			stubBar{timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), close: 102},
			newTestCandle(1, 101),
		})
		require.NoError(t, err)

		assert.Equal(t, 2, series.Len())
		assert.Equal(t, []float64{101, 102}, series.Closes())
	})
}

func TestAlignSeries(t *testing.T) {
	t.Run("drops dates missing from either side", func(t *testing.T) {
		seriesA, err := NewPriceSeries("AAA", []ICandle{
			newTestCandle(1, 10),
			newTestCandle(2, 11),
			newTestCandle(4, 12),
		})
		require.NoError(t, err)

		seriesB, err := NewPriceSeries("BBB", []ICandle{
			newTestCandle(2, 20),
			newTestCandle(3, 21),
			newTestCandle(4, 22),
		})
		require.NoError(t, err)

		pair, err := AlignSeries(seriesA, seriesB)
		require.NoError(t, err)
		require.NoError(t, pair.Validate())

		assert.Equal(t, 2, pair.Len())
		assert.Equal(t, []float64{11, 12}, pair.ClosesA)
		assert.Equal(t, []float64{20, 22}, pair.ClosesB)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), pair.Timestamps[0])
	})

	t.Run("no overlap yields empty pair", func(t *testing.T) {
		seriesA, err := NewPriceSeries("AAA", []ICandle{newTestCandle(1, 10)})
		require.NoError(t, err)

		seriesB, err := NewPriceSeries("BBB", []ICandle{newTestCandle(2, 20)})
		require.NoError(t, err)

		pair, err := AlignSeries(seriesA, seriesB)
		require.NoError(t, err)
		assert.Equal(t, 0, pair.Len())
	})
}
