package eventmodels

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OpenTrade exists only while a position is on. Size is fixed at entry and does
// not change with cash over the life of the trade.
type OpenTrade struct {
	ID             uuid.UUID      `json:"id"`
	Direction      TradeDirection `json:"direction"`
	EntryIndex     int            `json:"entry_index"`
	EntryTimestamp time.Time      `json:"entry_timestamp"`
	EntryZ         float64        `json:"entry_z"`
	EntrySpread    float64        `json:"entry_spread"`
	Size           float64        `json:"size"`
}

func NewOpenTrade(direction TradeDirection, entryIndex int, entryTimestamp time.Time, entryZ, entrySpread, size float64) (*OpenTrade, error) {
	if size <= 0 {
		return nil, fmt.Errorf("NewOpenTrade: size must be positive: %w", InvalidParametersErr)
	}

	return &OpenTrade{
		ID:             uuid.New(),
		Direction:      direction,
		EntryIndex:     entryIndex,
		EntryTimestamp: entryTimestamp,
		EntryZ:         entryZ,
		EntrySpread:    entrySpread,
		Size:           size,
	}, nil
}

// UnrealizedProfit marks the trade to the current spread level.
func (t *OpenTrade) UnrealizedProfit(currentSpread float64) float64 {
	if t.Direction == TradeDirectionLongSpread {
		return (currentSpread - t.EntrySpread) * t.Size
	}

	return (t.EntrySpread - currentSpread) * t.Size
}

func (t *OpenTrade) Close(exitTimestamp time.Time, exitZ, exitSpread float64) *ClosedTrade {
	return &ClosedTrade{
		ID:             t.ID,
		Direction:      t.Direction,
		EntryTimestamp: t.EntryTimestamp,
		ExitTimestamp:  exitTimestamp,
		EntryZ:         t.EntryZ,
		ExitZ:          exitZ,
		EntrySpread:    t.EntrySpread,
		ExitSpread:     exitSpread,
		Size:           t.Size,
		Profit:         t.UnrealizedProfit(exitSpread),
	}
}
