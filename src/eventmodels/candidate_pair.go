package eventmodels

import (
	"fmt"
	"sort"
)

// CandidatePair is one unordered symbol pair that passed the cointegration
// screen. PValue is the ADF significance of the OLS residual from regressing
// A on B. Lower is stronger.
type CandidatePair struct {
	SymbolA      StockSymbol `json:"symbol_a"`
	SymbolB      StockSymbol `json:"symbol_b"`
	PValue       float64     `json:"p_value"`
	Beta         float64     `json:"beta"`
	Observations int         `json:"observations"`
}

func (p *CandidatePair) String() string {
	return fmt.Sprintf("%s/%s (p=%.4f)", p.SymbolA, p.SymbolB, p.PValue)
}

type CandidatePairs []*CandidatePair

// SortByPValue orders strongest relationship first. Ties fall back to symbol
// names so the ranking is stable across runs.
func (p CandidatePairs) SortByPValue() {
	sort.SliceStable(p, func(i, j int) bool {
		if p[i].PValue != p[j].PValue {
			return p[i].PValue < p[j].PValue
		}

		if p[i].SymbolA != p[j].SymbolA {
			return p[i].SymbolA < p[j].SymbolA
		}

		return p[i].SymbolB < p[j].SymbolB
	})
}

func (p CandidatePairs) Truncate(maxPairs int) CandidatePairs {
	if maxPairs <= 0 || len(p) <= maxPairs {
		return p
	}

	return p[:maxPairs]
}
