package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// RenderCandidatePairs writes the ranked screen results as a table.
func RenderCandidatePairs(w io.Writer, pairs eventmodels.CandidatePairs) {
	fmt.Fprintln(w, "Cointegrated Pairs:")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Pair", "P-Value", "Hedge Ratio", "Observations"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for i, pair := range pairs {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s/%s", pair.SymbolA, pair.SymbolB),
			fmt.Sprintf("%.4f", pair.PValue),
			fmt.Sprintf("%.4f", pair.Beta),
			fmt.Sprintf("%d", pair.Observations),
		})
	}

	table.Render()
}

// RenderTradeLedger writes every closed trade of a run as a table.
func RenderTradeLedger(w io.Writer, trades eventmodels.ClosedTrades) {
	fmt.Fprintln(w, "Trades:")

	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Direction", "Entry", "Exit", "Entry Z", "Exit Z", "Size", "Profit"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for _, trade := range trades {
		table.Append([]string{
			trade.Direction.String(),
			trade.EntryTimestamp.Format("2006-01-02"),
			trade.ExitTimestamp.Format("2006-01-02"),
			fmt.Sprintf("%.2f", trade.EntryZ),
			fmt.Sprintf("%.2f", trade.ExitZ),
			fmt.Sprintf("%.2f", trade.Size),
			fmt.Sprintf("$%s", p.Sprintf("%.2f", trade.Profit)),
		})
	}

	table.Render()
}

// RenderSummary writes the headline numbers of a run.
func RenderSummary(w io.Writer, summary *TradeSummary) {
	fmt.Fprintf(w, "Backtest %s/%s:\n", summary.SymbolA, summary.SymbolB)

	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("")

	money := func(v float64) string {
		return fmt.Sprintf("$%s", p.Sprintf("%.2f", v))
	}

	table.Append([]string{"Total Trades", fmt.Sprintf("%d (%d long / %d short)", summary.TotalTrades, summary.LongTrades, summary.ShortTrades)})
	table.Append([]string{"Win Rate", fmt.Sprintf("%.1f%%", summary.WinRate*100)})
	table.Append([]string{"Average Win", money(summary.AverageWin)})
	table.Append([]string{"Average Loss", money(summary.AverageLoss)})
	table.Append([]string{"Largest Win", money(summary.LargestWin)})
	table.Append([]string{"Largest Loss", money(summary.LargestLoss)})
	table.Append([]string{"Total Profit", money(summary.TotalProfit)})
	table.Append([]string{"Starting Cash", money(summary.StartingCash)})
	table.Append([]string{"Final Cash", money(summary.FinalCash)})
	table.Append([]string{"Final Value", money(summary.FinalValue)})
	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", summary.TotalReturnPct)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawdownPct)})
	if summary.HasOpenTrade {
		table.Append([]string{"Open Position", "yes (excluded from ledger and final cash)"})
	}

	table.Render()
}
