package eventmodels

import "time"

// ClosedTradeDTO is the CSV row format for an exported trade ledger.
type ClosedTradeDTO struct {
	ID             string  `csv:"id"`
	Direction      string  `csv:"direction"`
	EntryTimestamp string  `csv:"entry_time"`
	ExitTimestamp  string  `csv:"exit_time"`
	EntryZ         float64 `csv:"entry_z"`
	ExitZ          float64 `csv:"exit_z"`
	EntrySpread    float64 `csv:"entry_spread"`
	ExitSpread     float64 `csv:"exit_spread"`
	Size           float64 `csv:"size"`
	Profit         float64 `csv:"profit"`
}

func (t *ClosedTrade) ToDTO() *ClosedTradeDTO {
	return &ClosedTradeDTO{
		ID:             t.ID.String(),
		Direction:      t.Direction.String(),
		EntryTimestamp: t.EntryTimestamp.UTC().Format(time.RFC3339),
		ExitTimestamp:  t.ExitTimestamp.UTC().Format(time.RFC3339),
		EntryZ:         t.EntryZ,
		ExitZ:          t.ExitZ,
		EntrySpread:    t.EntrySpread,
		ExitSpread:     t.ExitSpread,
		Size:           t.Size,
		Profit:         t.Profit,
	}
}

func (t ClosedTrades) ToDTO() []*ClosedTradeDTO {
	out := make([]*ClosedTradeDTO, 0, len(t))
	for _, trade := range t {
		out = append(out, trade.ToDTO())
	}

	return out
}
