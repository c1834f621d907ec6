package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

// ClosedTrade is one immutable row of the trade ledger, created exactly once
// when a position closes.
type ClosedTrade struct {
	ID             uuid.UUID      `json:"id"`
	Direction      TradeDirection `json:"direction"`
	EntryTimestamp time.Time      `json:"entry_timestamp"`
	ExitTimestamp  time.Time      `json:"exit_timestamp"`
	EntryZ         float64        `json:"entry_z"`
	ExitZ          float64        `json:"exit_z"`
	EntrySpread    float64        `json:"entry_spread"`
	ExitSpread     float64        `json:"exit_spread"`
	Size           float64        `json:"size"`
	Profit         float64        `json:"profit"`
}

func (t *ClosedTrade) IsWinner() bool {
	return t.Profit > 0
}

type ClosedTrades []*ClosedTrade

func (t ClosedTrades) TotalProfit() float64 {
	var total float64
	for _, trade := range t {
		total += trade.Profit
	}

	return total
}

func (t ClosedTrades) Winners() ClosedTrades {
	var winners ClosedTrades
	for _, trade := range t {
		if trade.IsWinner() {
			winners = append(winners, trade)
		}
	}

	return winners
}

func (t ClosedTrades) Losers() ClosedTrades {
	var losers ClosedTrades
	for _, trade := range t {
		if !trade.IsWinner() {
			losers = append(losers, trade)
		}
	}

	return losers
}
