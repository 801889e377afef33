package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"BreakoutScope/internal/analysis"
	"BreakoutScope/internal/model"
	"BreakoutScope/internal/report"
)

const dateLayout = "2006-01-02"

// FormatSummary formats the checkpoint statistics table of a result set.
func FormatSummary(rs *model.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s vs %s</b> | %s\n\n",
		html.EscapeString(rs.Instrument), html.EscapeString(rs.Benchmark), rs.ComputedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Data: %s → %s (%d days)\n", rs.DataFrom.Format(dateLayout), rs.DataTo.Format(dateLayout), len(rs.Series))
	fmt.Fprintf(&b, "Signals: %d\n", rs.SignalCount())
	if rs.Insufficient {
		b.WriteString("⚠️ Not enough history to detect signals\n")
		return b.String()
	}
	if len(rs.Statistics) == 0 {
		return b.String()
	}

	header, rows := analysis.SummaryTable(rs.Statistics)
	b.WriteString("\n<pre>")
	b.WriteString(html.EscapeString(report.AlignColumns(header, rows)))
	b.WriteString("</pre>")
	return b.String()
}

// FormatSignals lists each signal with its normalized value at every checkpoint.
func FormatSignals(rs *model.ResultSet, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 <b>Signals</b> (%d)\n\n", rs.SignalCount())
	if rs.SignalCount() == 0 {
		b.WriteString("No breakouts detected.")
		return b.String()
	}

	var checkpoints []model.Checkpoint
	for _, hs := range rs.Statistics {
		checkpoints = append(checkpoints, hs.Checkpoint)
	}

	windows := rs.Windows
	if limit > 0 && len(windows) > limit {
		fmt.Fprintf(&b, "Showing the latest %d\n", limit)
		windows = windows[len(windows)-limit:]
	}
	for i := range windows {
		w := &windows[i]
		fmt.Fprintf(&b, "%s  ratio %.4f", w.Signal.Date.Format(dateLayout), w.Signal.Ratio)
		for _, cp := range checkpoints {
			if v, ok := w.NormalizedAt(cp.Offset); ok {
				fmt.Fprintf(&b, " | %s %.2f", cp.Label, v)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStatus reports what result is visible and how the last refreshes went.
func FormatStatus(rs *model.ResultSet, st model.RefreshStatus) string {
	var b strings.Builder
	b.WriteString("🩺 <b>Status</b>\n\n")
	if rs == nil {
		b.WriteString("No result computed yet\n")
	} else {
		fmt.Fprintf(&b, "Result: %s vs %s, %d signals, computed %s\n",
			html.EscapeString(rs.Instrument), html.EscapeString(rs.Benchmark),
			rs.SignalCount(), rs.ComputedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Last success: %s\n", formatTime(st.LastSuccess))
	if !st.LastFailure.IsZero() {
		fmt.Fprintf(&b, "Last failure: %s\n", formatTime(st.LastFailure))
	}
	if st.LastError != "" {
		fmt.Fprintf(&b, "Consecutive failures: %d\nError: %s\n", st.Failures, html.EscapeString(st.LastError))
	}
	return b.String()
}

// FormatFailure formats a refresh failure alert.
func FormatFailure(stage string, err error, lastGood *model.ResultSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ <b>Refresh failed</b> (%s)\n\n%s\n", html.EscapeString(stage), html.EscapeString(err.Error()))
	if lastGood != nil {
		fmt.Fprintf(&b, "\nStill serving the result from %s", lastGood.ComputedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Commands:\n/summary - checkpoint statistics\n/signals - breakout dates\n/status - refresh status\n/refresh - recompute now"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}
