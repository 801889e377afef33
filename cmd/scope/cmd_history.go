package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"BreakoutScope/internal/logger"
	"BreakoutScope/internal/recorder"
	"BreakoutScope/internal/report"
)

var historyLimit int

// historyCmd lists recorded refresh runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent refresh runs",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is not configured")
	}

	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger.Component(log, "recorder"))
	if err != nil {
		return err
	}
	defer rec.Close()

	runs, err := rec.RecentRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	header := []string{"id", "time", "pair", "source", "data", "days", "signals", "took"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Instrument + "/" + r.Benchmark,
			r.Source,
			r.DataFrom.Format("2006-01-02") + ".." + r.DataTo.Format("2006-01-02"),
			strconv.Itoa(r.Days),
			strconv.Itoa(r.Signals),
			r.Duration.String(),
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), report.AlignColumns(header, rows))
	return nil
}
