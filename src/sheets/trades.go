package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/utils"
)

const journalSheetName = "Trades"

var mu sync.Mutex

// TradeJournal appends closed trades from backtest runs to a Google sheet so
// runs can be compared outside the terminal.
type TradeJournal struct {
	Service       *sheets.Service
	SpreadsheetID string
	SheetName     string
}

// NewTradeJournalFromEnv connects to the spreadsheet named by
// PAIRS_JOURNAL_SPREADSHEET_ID. When the variable is unset a new spreadsheet
// is created, and moved into PAIRS_JOURNAL_FOLDER_ID when that is set.
func NewTradeJournalFromEnv(ctx context.Context) (*TradeJournal, error) {
	srv, driveSrv, err := NewClientFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewTradeJournalFromEnv: %w", err)
	}

	spreadsheetID, err := utils.GetEnv("PAIRS_JOURNAL_SPREADSHEET_ID")
	if err != nil {
		spreadsheet, createErr := CreateSpreadsheet(ctx, srv, fmt.Sprintf("pairs-journal-%s", time.Now().Format("2006-01-02")))
		if createErr != nil {
			return nil, fmt.Errorf("NewTradeJournalFromEnv: failed to create spreadsheet: %w", createErr)
		}

		if folderID, folderErr := utils.GetEnv("PAIRS_JOURNAL_FOLDER_ID"); folderErr == nil {
			if moveErr := MoveSpreadsheet(ctx, spreadsheet, driveSrv, folderID); moveErr != nil {
				return nil, fmt.Errorf("NewTradeJournalFromEnv: %w", moveErr)
			}
		}

		spreadsheetID = spreadsheet.SpreadsheetId
	}

	return &TradeJournal{
		Service:       srv,
		SpreadsheetID: spreadsheetID,
		SheetName:     journalSheetName,
	}, nil
}

func tradeRow(symbolA, symbolB eventmodels.StockSymbol, trade *eventmodels.ClosedTrade) []interface{} {
	return []interface{}{
		trade.EntryTimestamp.UTC().Format(time.RFC3339),
		trade.ExitTimestamp.UTC().Format(time.RFC3339),
		fmt.Sprintf("%s/%s", symbolA, symbolB),
		trade.Direction.String(),
		trade.Size,
		trade.EntryZ,
		trade.ExitZ,
		trade.EntrySpread,
		trade.ExitSpread,
		trade.Profit,
	}
}

// AppendBacktestResult writes every closed trade of one run as a row. An empty
// ledger is a no-op.
func (j *TradeJournal) AppendBacktestResult(ctx context.Context, result *eventmodels.BacktestResult) error {
	mu.Lock()
	defer mu.Unlock()

	if len(result.Trades) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(result.Trades))
	for _, trade := range result.Trades {
		values = append(values, tradeRow(result.SymbolA, result.SymbolB, trade))
	}

	if err := appendRows(ctx, j.Service, j.SpreadsheetID, j.SheetName, values); err != nil {
		return fmt.Errorf("AppendBacktestResult: failed to append rows: %w", err)
	}

	return nil
}
