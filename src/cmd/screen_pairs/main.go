package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/pairs-trader/src/eventmodels"
	"github.com/jiaming2012/pairs-trader/src/eventpubsub"
	"github.com/jiaming2012/pairs-trader/src/eventservices"
	"github.com/jiaming2012/pairs-trader/src/report"
	"github.com/jiaming2012/pairs-trader/src/screener"
	"github.com/jiaming2012/pairs-trader/src/utils"
)

type RunArgs struct {
	GoEnv      string
	ConfigFile string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/screen_pairs/main.go --config src/pairs-config.yaml",
	Short: "Screen a symbol universe for cointegrated pairs",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		pairs, err := Run(RunArgs{
			GoEnv:      goEnv,
			ConfigFile: configFile,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Infof("Done: %d candidate pairs", len(pairs))
	},
}

func Run(args RunArgs) (eventmodels.CandidatePairs, error) {
	ctx := context.Background()

	projectsDir := os.Getenv("PROJECTS_DIR")
	if projectsDir == "" {
		return nil, fmt.Errorf("missing PROJECTS_DIR environment variable")
	}

	if err := utils.InitEnvironmentVariables(projectsDir, args.GoEnv); err != nil {
		return nil, fmt.Errorf("failed to init environment variables: %w", err)
	}

	eventpubsub.Init()

	data, err := os.ReadFile(args.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %v", err)
	}

	var config eventmodels.RunConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run config: %v", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	from, err := config.GetStartDate()
	if err != nil {
		return nil, err
	}

	to, err := config.GetEndDate()
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing POLYGON_API_KEY environment variable")
	}

	var fetcher eventservices.ICandleFetcher = eventservices.NewPolygonCandleFetcher(apiKey)
	if config.DataDir != "" {
		fetcher = eventservices.NewCachingCandleFetcher(fetcher, eventservices.NewCsvCandleRepository(config.DataDir))
	}

	universe, err := eventservices.FetchUniverse(ctx, fetcher, config.GetSymbols(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch universe: %w", err)
	}

	pairs, err := screener.FindCointegratedPairs(ctx, universe, screener.Params{
		Significance:    config.Significance,
		MaxPairs:        config.MaxPairs,
		MinObservations: config.MinObservations,
		Workers:         config.Workers,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to screen universe: %w", err)
	}

	report.RenderCandidatePairs(os.Stdout, pairs)

	eventpubsub.WaitAsync()

	return pairs, nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")
	runCmd.PersistentFlags().String("config", "", "Path to the run config yaml.")

	runCmd.MarkPersistentFlagRequired("config")

	runCmd.Execute()
}
