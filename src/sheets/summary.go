package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/jiaming2012/pairs-trader/src/report"
)

const summarySheetName = "Runs"

// AppendSummary writes one row per backtest run to the Runs tab, next to the
// per-trade ledger on the Trades tab.
func (j *TradeJournal) AppendSummary(ctx context.Context, summary *report.TradeSummary) error {
	mu.Lock()
	defer mu.Unlock()

	values := [][]interface{}{{
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf("%s/%s", summary.SymbolA, summary.SymbolB),
		summary.TotalTrades,
		summary.WinnerCount,
		summary.LoserCount,
		summary.WinRate,
		summary.TotalProfit,
		summary.StartingCash,
		summary.FinalCash,
		summary.TotalReturnPct,
		summary.MaxDrawdownPct,
		summary.HasOpenTrade,
	}}

	if err := appendRows(ctx, j.Service, j.SpreadsheetID, summarySheetName, values); err != nil {
		return fmt.Errorf("AppendSummary: failed to append rows: %w", err)
	}

	return nil
}
