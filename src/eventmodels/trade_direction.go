package eventmodels

import (
	"encoding/json"
	"fmt"
)

type TradeDirection int

const (
	TradeDirectionLongSpread TradeDirection = iota
	TradeDirectionShortSpread
)

func (d TradeDirection) String() string {
	switch d {
	case TradeDirectionLongSpread:
		return "long_spread"
	case TradeDirectionShortSpread:
		return "short_spread"
	default:
		return "unknown"
	}
}

func (d TradeDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *TradeDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "long_spread":
		*d = TradeDirectionLongSpread
	case "short_spread":
		*d = TradeDirectionShortSpread
	default:
		return fmt.Errorf("TradeDirection.UnmarshalJSON: unknown direction %q", s)
	}

	return nil
}
