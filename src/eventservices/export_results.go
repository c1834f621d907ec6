package eventservices

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

func exportToCsv(outDir, outFilePrefix string, rows interface{}) (string, error) {
	now := time.Now()
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now.Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("exportToCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("exportToCsv: failed to create file: %w", err)
	}

	defer file.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = ','
		return gocsv.NewSafeCSVWriter(writer)
	})

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return "", fmt.Errorf("exportToCsv: failed to write to file: %w", err)
	}

	return outFilePath, nil
}

// ExportTrades writes the closed trade ledger of one backtest to a timestamped
// CSV under outDir and returns the file path.
func ExportTrades(outDir string, result *eventmodels.BacktestResult) (string, error) {
	rows := result.Trades.ToDTO()
	prefix := fmt.Sprintf("trades_%s_%s", result.SymbolA, result.SymbolB)
	return exportToCsv(outDir, prefix, &rows)
}

// ExportEquityCurve writes the daily equity curve of one backtest to a
// timestamped CSV under outDir and returns the file path.
func ExportEquityCurve(outDir string, result *eventmodels.BacktestResult) (string, error) {
	rows := eventmodels.NewEquityCurveDTO(result.EquityCurve)
	prefix := fmt.Sprintf("equity_%s_%s", result.SymbolA, result.SymbolB)
	return exportToCsv(outDir, prefix, &rows)
}
