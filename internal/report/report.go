// Package report renders result sets as plain-text tables and CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"BreakoutScope/internal/analysis"
	"BreakoutScope/internal/model"
)

const dateLayout = "2006-01-02"

// AlignColumns renders a header and rows as left-aligned, space-padded
// columns.
func AlignColumns(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	measure := func(r []string) {
		for i, c := range r {
			if i < len(widths) && len([]rune(c)) > widths[i] {
				widths[i] = len([]rune(c))
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	var b strings.Builder
	line := func(r []string) {
		for i, c := range r {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
			if i < len(r)-1 && i < len(widths) {
				b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(c))))
			}
		}
		b.WriteString("\n")
	}
	line(header)
	for _, r := range rows {
		line(r)
	}
	return b.String()
}

// WriteText prints the run header, the signal list and the checkpoint
// statistics table.
func WriteText(w io.Writer, rs *model.ResultSet) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\n", rs.Instrument, rs.Benchmark)
	fmt.Fprintf(&b, "data %s to %s, %d days\n", rs.DataFrom.Format(dateLayout), rs.DataTo.Format(dateLayout), len(rs.Series))
	fmt.Fprintf(&b, "window %d, re-arm %d, horizon %d trading days\n", rs.Params.Window, rs.Params.Rearm, rs.Params.Horizon)
	if rs.Insufficient {
		fmt.Fprintf(&b, "\n%v: need %d days\n", analysis.ErrInsufficientHistory, rs.Params.Window+rs.Params.Horizon)
	}

	fmt.Fprintf(&b, "\nsignals: %d\n", rs.SignalCount())
	for _, s := range rs.Signals {
		fmt.Fprintf(&b, "  %s  ratio %s\n", s.Date.Format(dateLayout), strconv.FormatFloat(s.Ratio, 'f', 6, 64))
	}

	if len(rs.Statistics) > 0 {
		header, rows := analysis.SummaryTable(rs.Statistics)
		b.WriteString("\n")
		b.WriteString(AlignColumns(header, rows))
		for _, hs := range rs.Statistics {
			if hs.Error != "" {
				fmt.Fprintf(&b, "%s: %s\n", hs.Checkpoint.Name, hs.Error)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSeriesCSV exports the relative series with its rolling high and
// signal marks. The rolling high is blank during the warm-up period.
func WriteSeriesCSV(w io.Writer, series []model.RelativePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "ratio", "rolling_high", "new_high", "signal"}); err != nil {
		return err
	}
	for _, p := range series {
		high := ""
		if p.HasRollingHigh {
			high = formatFloat(p.RollingHigh)
		}
		rec := []string{
			p.Date.Format(dateLayout),
			formatFloat(p.Ratio),
			high,
			strconv.FormatBool(p.NewHigh),
			strconv.FormatBool(p.Signal),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWindowsCSV exports every horizon window in long format, one row per
// signal and offset.
func WriteWindowsCSV(w io.Writer, windows []model.HorizonWindow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"signal_date", "offset", "calendar_days", "date", "ratio", "normalized"}); err != nil {
		return err
	}
	for _, win := range windows {
		sig := win.Signal.Date.Format(dateLayout)
		for _, p := range win.Points {
			rec := []string{
				sig,
				strconv.Itoa(p.Offset),
				strconv.Itoa(p.CalendarDays),
				p.Date.Format(dateLayout),
				formatFloat(p.Ratio),
				formatFloat(p.Normalized),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatisticsCSV exports the checkpoint values, one row per signal, with
// one column per checkpoint.
func WriteStatisticsCSV(w io.Writer, rs *model.ResultSet) error {
	cw := csv.NewWriter(w)
	header := []string{"signal_date"}
	for _, hs := range rs.Statistics {
		header = append(header, hs.Checkpoint.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, s := range rs.Signals {
		rec := []string{s.Date.Format(dateLayout)}
		for _, hs := range rs.Statistics {
			v := ""
			if i < len(hs.Values) {
				v = formatFloat(hs.Values[i])
			}
			rec = append(rec, v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
