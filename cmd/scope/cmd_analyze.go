package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"BreakoutScope/internal/analysis"
	"BreakoutScope/internal/logger"
	"BreakoutScope/internal/model"
	"BreakoutScope/internal/report"
)

// Analyze command flags
var (
	analyzeInstrument string
	analyzeBenchmark  string
	analyzeSource     string
	analyzeCSVDir     string
	analyzeExportDir  string
	analyzeKeepLast   bool
	analyzeTimeout    time.Duration
)

// analyzeCmd runs a single collect and recompute and prints the result
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the summary",
	Long: `Fetch both series, run the breakout analysis once and print the signals and
checkpoint statistics. Nothing is cached or recorded.

Examples:
  scope analyze
  scope analyze --instrument BP.L --benchmark ^FTSE
  scope analyze --source file --csv-dir testdata --export out/`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInstrument, "instrument", "", "Instrument symbol (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeBenchmark, "benchmark", "", "Benchmark symbol (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "Data source: yahoo or file (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeCSVDir, "csv-dir", "", "Directory of <symbol>.csv files for the file source")
	analyzeCmd.Flags().StringVar(&analyzeExportDir, "export", "", "Write series.csv, windows.csv and checkpoints.csv to this directory")
	analyzeCmd.Flags().BoolVar(&analyzeKeepLast, "keep-last-bar", false, "Keep the final bar even if the session may still be open")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "Overall timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeInstrument != "" {
		cfg.Instrument = analyzeInstrument
	}
	if analyzeBenchmark != "" {
		cfg.Benchmark = analyzeBenchmark
	}
	if analyzeSource != "" {
		cfg.DataSource.Source = analyzeSource
	}
	if analyzeCSVDir != "" {
		cfg.DataSource.CSVDir = analyzeCSVDir
	}
	if analyzeKeepLast {
		keep := false
		cfg.DataSource.DropLastBar = &keep
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	col, err := newCollector(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	pair, err := col.Collect(ctx)
	if err != nil {
		return err
	}
	rs, err := analysis.Recompute(pair, cfg.Params(), time.Now())
	if err != nil {
		return err
	}

	if err := report.WriteText(cmd.OutOrStdout(), rs); err != nil {
		return err
	}
	if analyzeExportDir != "" {
		if err := exportCSV(analyzeExportDir, rs); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nexported to %s\n", analyzeExportDir)
	}
	return nil
}

func exportCSV(dir string, rs *model.ResultSet) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"series.csv", func(w io.Writer) error { return report.WriteSeriesCSV(w, rs.Series) }},
		{"windows.csv", func(w io.Writer) error { return report.WriteWindowsCSV(w, rs.Windows) }},
		{"checkpoints.csv", func(w io.Writer) error { return report.WriteStatisticsCSV(w, rs) }},
	}
	for _, f := range files {
		fh, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			return err
		}
		if err := f.write(fh); err != nil {
			fh.Close()
			return fmt.Errorf("%s: %w", f.name, err)
		}
		if err := fh.Close(); err != nil {
			return err
		}
	}
	return nil
}
