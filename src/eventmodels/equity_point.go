package eventmodels

import "time"

// EquityPoint is one day of the simulated portfolio value. While a position is
// open the value includes the unrealized mark to market of the open trade.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
