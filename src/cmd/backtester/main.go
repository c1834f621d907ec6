package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/pairs-trader/src/cmd/backtester/run"
	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
	"github.com/jiaming2012/pairs-trader/src/utils"
)

type RunArgs struct {
	ConfigFile string
	OutDir     string
	GoEnv      string
	Journal    bool
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/backtester/main.go --outDir results",
	Short: "Screen a symbol universe for cointegrated pairs and backtest them",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		journal, err := cmd.Flags().GetBool("journal")
		if err != nil {
			log.Fatalf("error getting journal: %v", err)
		}

		if _, err := Run(RunArgs{
			ConfigFile: configFile,
			OutDir:     outDir,
			GoEnv:      goEnv,
			Journal:    journal,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func Run(args RunArgs) (run.Result, error) {
	ctx := context.Background()

	projectsDir := os.Getenv("PROJECTS_DIR")
	if projectsDir == "" {
		return run.Result{}, fmt.Errorf("missing PROJECTS_DIR environment variable")
	}

	if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
		return run.Result{}, fmt.Errorf("failed to init environment variables: %w", err)
	}

	eventpubsub.Init()

	if err := eventpubsub.Subscribe(eventpubsub.FetchProgressEvent, func(ev *eventpubsub.FetchProgress) {
		log.Infof("fetched %s (%d/%d): %d candles", ev.Symbol, ev.Completed, ev.Total, ev.Candles)
	}); err != nil {
		return run.Result{}, fmt.Errorf("failed to subscribe to fetch progress: %w", err)
	}

	if err := eventpubsub.Subscribe(eventpubsub.ScreenProgressEvent, func(ev *eventpubsub.ScreenProgress) {
		if ev.Pair != nil {
			log.Infof("screened %d/%d pairs: found %s", ev.Completed, ev.Total, ev.Pair)
		}
	}); err != nil {
		return run.Result{}, fmt.Errorf("failed to subscribe to screen progress: %w", err)
	}

	if err := eventpubsub.Subscribe(eventpubsub.BacktestCompletedEvent, func(ev *eventpubsub.BacktestCompleted) {
		log.Infof("completed %s/%s: %d trades, final cash $%.2f", ev.Result.SymbolA, ev.Result.SymbolB, len(ev.Result.Trades), ev.Result.FinalCash)
	}); err != nil {
		return run.Result{}, fmt.Errorf("failed to subscribe to completed backtests: %w", err)
	}

	var runErrors int32
	if err := eventpubsub.Subscribe(eventpubsub.Error, func(error) {
		atomic.AddInt32(&runErrors, 1)
	}); err != nil {
		return run.Result{}, fmt.Errorf("failed to subscribe to errors: %w", err)
	}

	// Load config
	configFile := args.ConfigFile
	if configFile == "" {
		configFile = path.Join(projectsDir, "pairs-trader", "src", "pairs-config.yaml")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return run.Result{}, fmt.Errorf("failed to read run config: %v", err)
	}

	var config eventmodels.RunConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return run.Result{}, fmt.Errorf("failed to unmarshal run config: %v", err)
	}

	result, err := run.Exec(ctx, run.Args{
		Config:  &config,
		OutDir:  args.OutDir,
		Journal: args.Journal,
	})

	eventpubsub.WaitAsync()

	if n := atomic.LoadInt32(&runErrors); n > 0 {
		log.Warnf("run finished with %d pair errors", n)
	}

	return result, err
}

func main() {
	runCmd.PersistentFlags().String("config", "", "Path to the run config yaml. Defaults to src/pairs-config.yaml under the project.")
	runCmd.PersistentFlags().String("outDir", "", "The directory to write the trade ledger and equity curve csv files to.")
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().Bool("journal", false, "Append results to the Google Sheets trade journal.")

	runCmd.Execute()
}
