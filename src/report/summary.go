package report

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// TradeSummary condenses one backtest into the numbers a trader looks at
// first. It is computed from the ledger and equity curve alone.
type TradeSummary struct {
	SymbolA        eventmodels.StockSymbol `json:"symbol_a"`
	SymbolB        eventmodels.StockSymbol `json:"symbol_b"`
	TotalTrades    int                     `json:"total_trades"`
	LongTrades     int                     `json:"long_trades"`
	ShortTrades    int                     `json:"short_trades"`
	WinnerCount    int                     `json:"winner_count"`
	LoserCount     int                     `json:"loser_count"`
	WinRate        float64                 `json:"win_rate"`
	AverageWin     float64                 `json:"average_win"`
	AverageLoss    float64                 `json:"average_loss"`
	LargestWin     float64                 `json:"largest_win"`
	LargestLoss    float64                 `json:"largest_loss"`
	TotalProfit    float64                 `json:"total_profit"`
	StartingCash   float64                 `json:"starting_cash"`
	FinalCash      float64                 `json:"final_cash"`
	FinalValue     float64                 `json:"final_value"`
	TotalReturnPct float64                 `json:"total_return_pct"`
	MaxDrawdownPct float64                 `json:"max_drawdown_pct"`
	HasOpenTrade   bool                    `json:"has_open_trade"`
}

func NewTradeSummary(result *eventmodels.BacktestResult) (*TradeSummary, error) {
	if result == nil {
		return nil, fmt.Errorf("NewTradeSummary: result must be set")
	}

	summary := &TradeSummary{
		SymbolA:      result.SymbolA,
		SymbolB:      result.SymbolB,
		TotalTrades:  len(result.Trades),
		StartingCash: result.StartingCash,
		FinalCash:    result.FinalCash,
		FinalValue:   result.FinalValue(),
		TotalProfit:  result.Trades.TotalProfit(),
		HasOpenTrade: result.OpenTrade != nil,
	}

	var wins, losses []float64
	for _, trade := range result.Trades {
		if trade.Direction == eventmodels.TradeDirectionLongSpread {
			summary.LongTrades++
		} else {
			summary.ShortTrades++
		}

		if trade.IsWinner() {
			wins = append(wins, trade.Profit)
		} else {
			losses = append(losses, trade.Profit)
		}
	}

	summary.WinnerCount = len(wins)
	summary.LoserCount = len(losses)
	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.WinnerCount) / float64(summary.TotalTrades)
	}

	if len(wins) > 0 {
		avgWin, err := stats.Mean(wins)
		if err != nil {
			return nil, fmt.Errorf("NewTradeSummary: failed to average wins: %v", err)
		}

		largestWin, err := stats.Max(wins)
		if err != nil {
			return nil, fmt.Errorf("NewTradeSummary: failed to find largest win: %v", err)
		}

		summary.AverageWin = avgWin
		summary.LargestWin = largestWin
	}

	if len(losses) > 0 {
		avgLoss, err := stats.Mean(losses)
		if err != nil {
			return nil, fmt.Errorf("NewTradeSummary: failed to average losses: %v", err)
		}

		largestLoss, err := stats.Min(losses)
		if err != nil {
			return nil, fmt.Errorf("NewTradeSummary: failed to find largest loss: %v", err)
		}

		summary.AverageLoss = avgLoss
		summary.LargestLoss = largestLoss
	}

	if result.StartingCash > 0 {
		summary.TotalReturnPct = (summary.FinalValue/result.StartingCash - 1) * 100
	}

	summary.MaxDrawdownPct = maxDrawdownPct(result.EquityCurve)

	return summary, nil
}

// maxDrawdownPct is the deepest peak to trough decline of the equity curve,
// as a positive percentage of the peak.
func maxDrawdownPct(curve []eventmodels.EquityPoint) float64 {
	var peak, maxDrawdown float64
	for _, point := range curve {
		if point.Value > peak {
			peak = point.Value
		}

		if peak > 0 {
			if drawdown := (peak - point.Value) / peak * 100; drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
