package eventmodels

import "time"

// EquityPointDTO is the CSV row format for an exported equity curve.
type EquityPointDTO struct {
	Timestamp string  `csv:"time"`
	Value     float64 `csv:"value"`
}

func (p EquityPoint) ToDTO() *EquityPointDTO {
	return &EquityPointDTO{
		Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
		Value:     p.Value,
	}
}

func NewEquityCurveDTO(curve []EquityPoint) []*EquityPointDTO {
	out := make([]*EquityPointDTO, 0, len(curve))
	for _, p := range curve {
		out = append(out, p.ToDTO())
	}

	return out
}
