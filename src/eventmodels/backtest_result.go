package eventmodels

// BacktestResult is everything one simulated run produces. FinalCash is
// realized only: a position still open at the end of the series stays on
// OpenTrade, outside the closed ledger, and its unrealized profit is excluded
// from FinalCash.
type BacktestResult struct {
	SymbolA      StockSymbol   `json:"symbol_a"`
	SymbolB      StockSymbol   `json:"symbol_b"`
	StartingCash float64       `json:"starting_cash"`
	FinalCash    float64       `json:"final_cash"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	Spread       *SpreadResult `json:"spread"`
	Trades       ClosedTrades  `json:"trades"`
	OpenTrade    *OpenTrade    `json:"open_trade,omitempty"`
}

func (r *BacktestResult) FinalValue() float64 {
	if len(r.EquityCurve) == 0 {
		return r.StartingCash
	}

	return r.EquityCurve[len(r.EquityCurve)-1].Value
}
