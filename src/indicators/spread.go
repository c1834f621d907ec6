package indicators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// Normalizer turns a spread series into z-scores. The default whole sample
// normalizer reproduces the reference strategy, lookahead included. A rolling
// normalizer can be swapped in without touching the backtest engine.
type Normalizer interface {
	ZScores(spread []float64) ([]float64, error)
}

type WholeSampleNormalizer struct{}

func (n *WholeSampleNormalizer) ZScores(spread []float64) ([]float64, error) {
	mean, std, err := spreadStats(spread)
	if err != nil {
		return nil, fmt.Errorf("WholeSampleNormalizer: %w", err)
	}

	zScores := make([]float64, len(spread))
	for i, s := range spread {
		zScores[i] = (s - mean) / std
	}

	return zScores, nil
}

// RollingNormalizer standardizes each point by the mean and standard
// deviation of the trailing window ending at that point. Points before the
// window fills, or inside a zero variance window, get NaN, which never
// triggers an entry or exit.
type RollingNormalizer struct {
	Window int
}

func (n *RollingNormalizer) ZScores(spread []float64) ([]float64, error) {
	if n.Window < 2 {
		return nil, fmt.Errorf("RollingNormalizer: window must be at least 2: %w", eventmodels.InvalidParametersErr)
	}

	zScores := make([]float64, len(spread))
	for i := range spread {
		if i < n.Window-1 {
			zScores[i] = math.NaN()
			continue
		}

		window := spread[i-n.Window+1 : i+1]
		mean, std, err := spreadStats(window)
		if err != nil {
			zScores[i] = math.NaN()
			continue
		}

		zScores[i] = (spread[i] - mean) / std
	}

	return zScores, nil
}

func spreadStats(spread []float64) (mean float64, std float64, err error) {
	mean, err = stats.Mean(spread)
	if err != nil {
		return 0, 0, fmt.Errorf("spreadStats: failed to compute mean: %v", err)
	}

	std, err = stats.StandardDeviationSample(spread)
	if err != nil {
		return 0, 0, fmt.Errorf("spreadStats: failed to compute standard deviation: %v", err)
	}

	// A collinear pair leaves only rounding noise in the spread; anything at
	// that scale cannot be standardized.
	if math.IsNaN(std) || std < 1e-9 {
		return 0, 0, eventmodels.DegenerateSpreadErr
	}

	return mean, std, nil
}

// ComputeSpread fits the hedge ratio of closesA on closesB with an intercept,
// builds the spread closesA - beta*closesB and standardizes it over the whole
// sample. Pure function: identical inputs always produce identical output.
func ComputeSpread(closesA, closesB []float64) (*eventmodels.SpreadResult, error) {
	return ComputeSpreadWithNormalizer(closesA, closesB, &WholeSampleNormalizer{})
}

func ComputeSpreadWithNormalizer(closesA, closesB []float64, normalizer Normalizer) (*eventmodels.SpreadResult, error) {
	if len(closesA) != len(closesB) {
		return nil, fmt.Errorf("ComputeSpread: %w", eventmodels.LengthMismatchErr)
	}

	if len(closesA) < 2 {
		return nil, fmt.Errorf("ComputeSpread: need at least 2 observations: %w", eventmodels.InsufficientDataErr)
	}

	_, beta, _, err := SimpleOLS(closesA, closesB)
	if err != nil {
		return nil, fmt.Errorf("ComputeSpread: failed to fit hedge ratio: %w", err)
	}

	spread := make([]float64, len(closesA))
	for i := range closesA {
		spread[i] = closesA[i] - beta*closesB[i]
	}

	mean, std, err := spreadStats(spread)
	if err != nil {
		return nil, fmt.Errorf("ComputeSpread: %w", err)
	}

	zScores, err := normalizer.ZScores(spread)
	if err != nil {
		return nil, fmt.Errorf("ComputeSpread: failed to normalize: %w", err)
	}

	return &eventmodels.SpreadResult{
		Beta:    beta,
		Mean:    mean,
		Std:     std,
		Spread:  spread,
		ZScores: zScores,
	}, nil
}
