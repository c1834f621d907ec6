package eventmodels

import (
	"time"
)

type ICandle interface {
	GetTimestamp() time.Time
	GetClose() float64
}

// Candle is one daily bar of adjusted prices for a single symbol.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

func (c *Candle) GetTimestamp() time.Time {
	return c.Timestamp
}

func (c *Candle) GetClose() float64 {
	return c.Close
}

func NewCandle(timestamp time.Time, open, high, low, close, volume float64) *Candle {
	return &Candle{
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}
