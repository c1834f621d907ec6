package eventmodels

import (
	"fmt"
	"sort"
	"time"
)

type PricePoint struct {
	Timestamp time.Time
	Close     float64
}

// PriceSeries is the ordered daily closing prices for one symbol. Timestamps are
// strictly increasing. The series is built once from candles and not mutated by
// the screening or backtesting code.
type PriceSeries struct {
	Symbol StockSymbol
	Points []PricePoint
}

func NewPriceSeries(symbol StockSymbol, candles []ICandle) (*PriceSeries, error) {
	points := make([]PricePoint, 0, len(candles))
	for _, c := range candles {
		points = append(points, PricePoint{Timestamp: c.GetTimestamp(), Close: c.GetClose()})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	series := &PriceSeries{Symbol: symbol, Points: points}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("NewPriceSeries: validation failed for %s: %w", symbol, err)
	}

	return series, nil
}

func (s *PriceSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i].Timestamp.After(s.Points[i-1].Timestamp) {
			return fmt.Errorf("duplicate or out of order timestamp %v at index %d", s.Points[i].Timestamp, i)
		}
	}

	return nil
}

func (s *PriceSeries) Len() int {
	return len(s.Points)
}

func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}

	return closes
}

func (s *PriceSeries) Timestamps() []time.Time {
	timestamps := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		timestamps[i] = p.Timestamp
	}

	return timestamps
}
