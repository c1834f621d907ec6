package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
	"github.com/jiaming2012/pairs-trader/src/eventservices"
	"github.com/jiaming2012/pairs-trader/src/utils"
)

type RunArgs struct {
	GoEnv     string
	Symbols   []string
	StartDate string
	EndDate   string
	DataDir   string
}

type RunResult struct {
	SymbolsFetched int
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/fetch_market_data/main.go --symbols KO,PEP --from 2022-01-03 --to 2023-12-29 --dataDir data",
	Short: "Download daily candles for a list of symbols and cache them as csv files",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		symbols, err := cmd.Flags().GetStringSlice("symbols")
		if err != nil {
			log.Fatalf("error getting symbols: %v", err)
		}

		from, err := cmd.Flags().GetString("from")
		if err != nil {
			log.Fatalf("error getting from: %v", err)
		}

		to, err := cmd.Flags().GetString("to")
		if err != nil {
			log.Fatalf("error getting to: %v", err)
		}

		dataDir, err := cmd.Flags().GetString("dataDir")
		if err != nil {
			log.Fatalf("error getting dataDir: %v", err)
		}

		result, err := Run(RunArgs{
			GoEnv:     goEnv,
			Symbols:   symbols,
			StartDate: from,
			EndDate:   to,
			DataDir:   dataDir,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Infof("Done: cached %d symbols", result.SymbolsFetched)
	},
}

func Run(args RunArgs) (RunResult, error) {
	ctx := context.Background()

	projectsDir := os.Getenv("PROJECTS_DIR")
	if projectsDir == "" {
		return RunResult{}, fmt.Errorf("missing PROJECTS_DIR environment variable")
	}

	if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
		return RunResult{}, fmt.Errorf("failed to init environment variables: %w", err)
	}

	eventpubsub.Init()

	if err := eventpubsub.Subscribe(eventpubsub.FetchProgressEvent, func(ev *eventpubsub.FetchProgress) {
		log.Infof("fetched %s (%d/%d): %d candles", ev.Symbol, ev.Completed, ev.Total, ev.Candles)
	}); err != nil {
		return RunResult{}, fmt.Errorf("failed to subscribe to fetch progress: %w", err)
	}

	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return RunResult{}, fmt.Errorf("missing POLYGON_API_KEY environment variable")
	}

	from, err := time.Parse("2006-01-02", args.StartDate)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to parse from date %q: %w", args.StartDate, err)
	}

	to, err := time.Parse("2006-01-02", args.EndDate)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to parse to date %q: %w", args.EndDate, err)
	}

	symbols := make([]eventmodels.StockSymbol, 0, len(args.Symbols))
	for _, s := range args.Symbols {
		symbols = append(symbols, eventmodels.NewStockSymbol(s))
	}

	fetcher := eventservices.NewCachingCandleFetcher(
		eventservices.NewPolygonCandleFetcher(apiKey),
		eventservices.NewCsvCandleRepository(args.DataDir),
	)

	universe, err := eventservices.FetchUniverse(ctx, fetcher, symbols, from.UTC(), to.UTC())
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to fetch universe: %w", err)
	}

	eventpubsub.WaitAsync()

	return RunResult{SymbolsFetched: len(universe)}, nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().StringSlice("symbols", []string{}, "The stock symbols to fetch.")
	runCmd.PersistentFlags().String("from", "", "The start date in YYYY-MM-DD format.")
	runCmd.PersistentFlags().String("to", "", "The end date in YYYY-MM-DD format.")
	runCmd.PersistentFlags().String("dataDir", "data", "The directory to write the csv files to.")

	runCmd.MarkPersistentFlagRequired("symbols")
	runCmd.MarkPersistentFlagRequired("from")
	runCmd.MarkPersistentFlagRequired("to")

	runCmd.Execute()
}
