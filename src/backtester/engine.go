package backtester

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/indicators"
)

// Run replays the pair day by day under a mean reversion policy: enter short
// when the z-score rises above the entry threshold, enter long when it falls
// below the negative entry threshold, and close as it reverts inside the exit
// band. All comparisons are strict, so a z-score sitting exactly on a
// threshold does nothing, and a step that closes a position never reopens on
// the same step.
func Run(pair *eventmodels.AlignedPair, cfg Config) (*eventmodels.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	if pair.Len() == 0 {
		return nil, fmt.Errorf("Run: empty pair: %w", eventmodels.InsufficientDataErr)
	}

	spread, err := indicators.ComputeSpreadWithNormalizer(pair.ClosesA, pair.ClosesB, cfg.normalizer())
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	state := &runState{cash: cfg.StartingCash}
	for i := 0; i < pair.Len(); i++ {
		z := spread.ZScores[i]
		s := spread.Spread[i]
		ts := pair.Timestamps[i]

		if state.position == eventmodels.PositionStateFlat {
			if z > cfg.EntryZ {
				if err := state.open(eventmodels.TradeDirectionShortSpread, i, ts, z, s, cfg.RiskFraction, spread.Std); err != nil {
					return nil, fmt.Errorf("Run: %w", err)
				}
			} else if z < -cfg.EntryZ {
				if err := state.open(eventmodels.TradeDirectionLongSpread, i, ts, z, s, cfg.RiskFraction, spread.Std); err != nil {
					return nil, fmt.Errorf("Run: %w", err)
				}
			}
		} else if state.position == eventmodels.PositionStateLongSpread && z > -cfg.ExitZ {
			state.close(ts, z, s)
		} else if state.position == eventmodels.PositionStateShortSpread && z < cfg.ExitZ {
			state.close(ts, z, s)
		}

		value := state.cash
		if state.openTrade != nil {
			value += state.openTrade.UnrealizedProfit(s)
		}

		state.equityCurve = append(state.equityCurve, eventmodels.EquityPoint{Timestamp: ts, Value: value})
	}

	return &eventmodels.BacktestResult{
		SymbolA:      pair.SymbolA,
		SymbolB:      pair.SymbolB,
		StartingCash: cfg.StartingCash,
		FinalCash:    state.cash,
		EquityCurve:  state.equityCurve,
		Spread:       spread,
		Trades:       state.trades,
		OpenTrade:    state.openTrade,
	}, nil
}

type runState struct {
	cash        float64
	position    eventmodels.PositionState
	openTrade   *eventmodels.OpenTrade
	trades      eventmodels.ClosedTrades
	equityCurve []eventmodels.EquityPoint
}

func (s *runState) open(direction eventmodels.TradeDirection, index int, ts time.Time, z, spreadValue, riskFraction, std float64) error {
	if s.cash <= 0 {
		log.Debugf("runState.open: no cash left to open a %s position at %v", direction, ts)
		return nil
	}

	size := s.cash * riskFraction / std
	trade, err := eventmodels.NewOpenTrade(direction, index, ts, z, spreadValue, size)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	s.openTrade = trade
	if direction == eventmodels.TradeDirectionLongSpread {
		s.position = eventmodels.PositionStateLongSpread
	} else {
		s.position = eventmodels.PositionStateShortSpread
	}

	return nil
}

func (s *runState) close(ts time.Time, z, spreadValue float64) {
	closed := s.openTrade.Close(ts, z, spreadValue)
	s.cash += closed.Profit
	s.trades = append(s.trades, closed)
	s.openTrade = nil
	s.position = eventmodels.PositionStateFlat
}
