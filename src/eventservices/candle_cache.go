package eventservices

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
)

// CsvCandleRepository stores one CSV file of daily bars per symbol and date
// range under Dir.
type CsvCandleRepository struct {
	Dir string
}

func NewCsvCandleRepository(dir string) *CsvCandleRepository {
	return &CsvCandleRepository{
		Dir: dir,
	}
}

func (r *CsvCandleRepository) Filepath(symbol eventmodels.StockSymbol, from, to time.Time) string {
	filename := fmt.Sprintf("candles-%s-from-%s-to-%s.csv", symbol, from.Format("20060102"), to.Format("20060102"))
	return path.Join(r.Dir, filename)
}

func (r *CsvCandleRepository) Exists(symbol eventmodels.StockSymbol, from, to time.Time) bool {
	_, err := os.Stat(r.Filepath(symbol, from, to))
	return err == nil
}

func (r *CsvCandleRepository) Load(symbol eventmodels.StockSymbol, from, to time.Time) ([]*eventmodels.Candle, error) {
	filepath := r.Filepath(symbol, from, to)

	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("CsvCandleRepository.Load: failed to open %s: %w", filepath, err)
	}

	defer f.Close()

	var rows []*eventmodels.CsvCandleDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("CsvCandleRepository.Load: failed to unmarshal %s: %w", filepath, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CsvCandleRepository.Load: %s is empty: %w", filepath, eventmodels.NoDataErr)
	}

	candles := make([]*eventmodels.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("CsvCandleRepository.Load: %s: %w", filepath, err)
		}

		candles = append(candles, c)
	}

	return candles, nil
}

func (r *CsvCandleRepository) Save(symbol eventmodels.StockSymbol, from, to time.Time, candles []*eventmodels.Candle) (string, error) {
	if _, err := os.Stat(r.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(r.Dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("CsvCandleRepository.Save: failed to create directory: %w", err)
		}
	}

	filepath := r.Filepath(symbol, from, to)

	file, err := os.Create(filepath)
	if err != nil {
		return "", fmt.Errorf("CsvCandleRepository.Save: failed to create file: %w", err)
	}

	defer file.Close()

	rows := make([]*eventmodels.CsvCandleDTO, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, eventmodels.NewCsvCandleDTO(c))
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("CsvCandleRepository.Save: failed to write to file: %w", err)
	}

	return filepath, nil
}

// CachingCandleFetcher serves candles from the CSV repository when a file for
// the requested range already exists, and falls through to Source otherwise.
type CachingCandleFetcher struct {
	Source ICandleFetcher
	Repo   *CsvCandleRepository
}

func NewCachingCandleFetcher(source ICandleFetcher, repo *CsvCandleRepository) *CachingCandleFetcher {
	return &CachingCandleFetcher{
		Source: source,
		Repo:   repo,
	}
}

func (f *CachingCandleFetcher) FetchCandles(ctx context.Context, symbol eventmodels.StockSymbol, from, to time.Time) ([]*eventmodels.Candle, error) {
	if f.Repo.Exists(symbol, from, to) {
		log.Debugf("loading %s candles from cache", symbol)
		return f.Repo.Load(symbol, from, to)
	}

	candles, err := f.Source.FetchCandles(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	filepath, err := f.Repo.Save(symbol, from, to, candles)
	if err != nil {
		return nil, fmt.Errorf("CachingCandleFetcher: failed to cache %s: %w", symbol, err)
	}

	log.Infof("cached %d %s candles to %s", len(candles), symbol, filepath)

	return candles, nil
}
