package eventmodels

import (
	"fmt"
	"time"
)

// RunConfigYAML is the on-disk run configuration consumed by the screener and
// backtester binaries.
type RunConfigYAML struct {
	Symbols         []string `yaml:"symbols"`
	StartDate       string   `yaml:"startDate"`
	EndDate         string   `yaml:"endDate"`
	StartingCash    float64  `yaml:"startingCash"`
	Significance    float64  `yaml:"significance,omitempty"`
	EntryZ          float64  `yaml:"entryZ,omitempty"`
	ExitZ           float64  `yaml:"exitZ,omitempty"`
	RiskFraction    float64  `yaml:"riskFraction,omitempty"`
	MaxPairs        int      `yaml:"maxPairs,omitempty"`
	MinObservations int      `yaml:"minObservations,omitempty"`
	Workers         int      `yaml:"workers,omitempty"`
	DataDir         string   `yaml:"dataDir,omitempty"`
	RollingWindow   int      `yaml:"rollingWindow,omitempty"`
}

func (c *RunConfigYAML) ApplyDefaults() {
	if c.Significance == 0 {
		c.Significance = 0.05
	}

	if c.EntryZ == 0 {
		c.EntryZ = 1.0
	}

	if c.ExitZ == 0 {
		c.ExitZ = 0.2
	}

	if c.RiskFraction == 0 {
		c.RiskFraction = 0.1
	}

	if c.MaxPairs == 0 {
		c.MaxPairs = 10
	}

	if c.MinObservations == 0 {
		c.MinObservations = 250
	}

	if c.Workers == 0 {
		c.Workers = 1
	}
}

func (c *RunConfigYAML) Validate() error {
	if len(c.Symbols) < 2 {
		return fmt.Errorf("RunConfigYAML.Validate: at least two symbols are required: %w", InvalidParametersErr)
	}

	if c.StartingCash <= 0 {
		return fmt.Errorf("RunConfigYAML.Validate: startingCash must be positive: %w", InvalidParametersErr)
	}

	if c.Significance <= 0 || c.Significance >= 1 {
		return fmt.Errorf("RunConfigYAML.Validate: significance must be in (0, 1): %w", InvalidParametersErr)
	}

	if _, err := c.GetStartDate(); err != nil {
		return err
	}

	if _, err := c.GetEndDate(); err != nil {
		return err
	}

	return nil
}

func (c *RunConfigYAML) GetStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("RunConfigYAML.GetStartDate: failed to parse %q: %w", c.StartDate, err)
	}

	return t.UTC(), nil
}

func (c *RunConfigYAML) GetEndDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("RunConfigYAML.GetEndDate: failed to parse %q: %w", c.EndDate, err)
	}

	return t.UTC(), nil
}

func (c *RunConfigYAML) GetSymbols() []StockSymbol {
	symbols := make([]StockSymbol, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		symbols = append(symbols, NewStockSymbol(s))
	}

	return symbols
}
