package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"BreakoutScope/internal/collector"
	"BreakoutScope/internal/config"
	"BreakoutScope/internal/logger"
)

var configPath string

// rootCmd is the base command for the BreakoutScope CLI
var rootCmd = &cobra.Command{
	Use:   "scope",
	Short: "Relative-strength breakout analyzer",
	Long: `BreakoutScope compares an equity with its benchmark index, finds the days
the relative series broke out to a new rolling high and summarizes how the
equity performed against the index over the following months.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $CONFIG_PATH or configs/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the config file and validates the result.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newCollector wires the configured data source, calendar and bar policy.
func newCollector(cfg *config.Config, log zerolog.Logger) (*collector.Collector, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Source {
	case "file":
		fetcher = collector.NewFileFetcher(cfg.DataSource.CSVDir, cfg.DataSource.CSVPaths)
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Range, cfg.Proxy, logger.Component(log, "yahoo"))
	}

	col := collector.NewCollector(fetcher, cfg.Instrument, cfg.Benchmark, logger.Component(log, "collector"))
	col.DropLastBar = cfg.DropLastBar()
	if mic := cfg.DataSource.CalendarMIC; mic != "" {
		cal, err := collector.NewTradingCalendar(mic)
		if err != nil {
			return nil, err
		}
		col.Calendar = cal
	}
	return col, nil
}
