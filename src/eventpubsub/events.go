package eventpubsub

import "github.com/jiaming2012/pairs-trader/src/eventmodels"

// FetchProgress is published once per symbol while historical candles load.
// Candles stays zero when the symbol had no data and was skipped.
type FetchProgress struct {
	Symbol    eventmodels.StockSymbol
	Completed int
	Total     int
	Candles   int
}

// ScreenProgress is published once per scanned pair. Pair is set only when
// the pair passed the screen.
type ScreenProgress struct {
	Completed int
	Total     int
	Pair      *eventmodels.CandidatePair
}

// BacktestCompleted is published after a pair finishes simulating.
type BacktestCompleted struct {
	Result *eventmodels.BacktestResult
}
