package backtester

import (
	"fmt"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/indicators"
)

// Config carries every knob of one backtest run. It is passed explicitly per
// call so parameter sweeps can run side by side without shared state.
type Config struct {
	StartingCash float64
	EntryZ       float64
	ExitZ        float64
	RiskFraction float64

	// Normalizer defaults to whole sample standardization, which reproduces
	// the reference strategy. Swapping it changes the signal series only.
	Normalizer indicators.Normalizer
}

func (c *Config) Validate() error {
	if c.StartingCash <= 0 {
		return fmt.Errorf("Config.Validate: starting cash must be positive: %w", eventmodels.InvalidParametersErr)
	}

	if c.EntryZ <= 0 {
		return fmt.Errorf("Config.Validate: entry threshold must be positive: %w", eventmodels.InvalidParametersErr)
	}

	if c.ExitZ < 0 || c.ExitZ >= c.EntryZ {
		return fmt.Errorf("Config.Validate: exit threshold must be in [0, entry): %w", eventmodels.InvalidParametersErr)
	}

	if c.RiskFraction <= 0 || c.RiskFraction > 1 {
		return fmt.Errorf("Config.Validate: risk fraction must be in (0, 1]: %w", eventmodels.InvalidParametersErr)
	}

	return nil
}

func (c *Config) normalizer() indicators.Normalizer {
	if c.Normalizer != nil {
		return c.Normalizer
	}

	return &indicators.WholeSampleNormalizer{}
}
