package eventmodels

import (
	"fmt"
	"time"
)

// CsvCandleDTO is the on-disk row format for cached daily bars.
type CsvCandleDTO struct {
	Timestamp string  `csv:"time"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

func (c *CsvCandleDTO) ToModel() (*Candle, error) {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		t, err = time.Parse("2006-01-02", c.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("CsvCandleDTO.ToModel: failed to parse time %q: %w", c.Timestamp, err)
		}
	}

	return NewCandle(t.UTC(), c.Open, c.High, c.Low, c.Close, c.Volume), nil
}

func NewCsvCandleDTO(c *Candle) *CsvCandleDTO {
	return &CsvCandleDTO{
		Timestamp: c.Timestamp.UTC().Format(time.RFC3339),
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
		Volume:    c.Volume,
	}
}
