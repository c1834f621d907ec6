package eventmodels

import (
	"fmt"
	"time"
)

// AlignedPair holds two price vectors joined on their common timestamps, in
// chronological order. Dates missing from either side are dropped.
type AlignedPair struct {
	SymbolA    StockSymbol
	SymbolB    StockSymbol
	Timestamps []time.Time
	ClosesA    []float64
	ClosesB    []float64
}

func (p *AlignedPair) Len() int {
	return len(p.Timestamps)
}

func (p *AlignedPair) Validate() error {
	if len(p.ClosesA) != len(p.Timestamps) || len(p.ClosesB) != len(p.Timestamps) {
		return fmt.Errorf("AlignedPair.Validate: %w", LengthMismatchErr)
	}

	return nil
}

func AlignSeries(a, b *PriceSeries) (*AlignedPair, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("AlignSeries: both series must be set")
	}

	closesB := make(map[int64]float64, b.Len())
	for _, p := range b.Points {
		closesB[p.Timestamp.UnixNano()] = p.Close
	}

	pair := &AlignedPair{SymbolA: a.Symbol, SymbolB: b.Symbol}
	for _, p := range a.Points {
		closeB, found := closesB[p.Timestamp.UnixNano()]
		if !found {
			continue
		}

		pair.Timestamps = append(pair.Timestamps, p.Timestamp)
		pair.ClosesA = append(pair.ClosesA, p.Close)
		pair.ClosesB = append(pair.ClosesB, closeB)
	}

	return pair, nil
}
