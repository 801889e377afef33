package analysis

import (
	"strconv"

	"BreakoutScope/internal/model"
)

// StatRows lays a summary out in the fixed table order of model.StatLabels.
func StatRows(s *model.Summary) []model.StatRow {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	values := []string{
		s.HitRatioText,
		num(s.Minimum),
		num(s.Maximum),
		num(s.Mean),
		num(s.Median),
		num(s.Range),
		num(s.StdDev),
		num(s.Variance),
		num(s.MeanAbsDev),
	}
	rows := make([]model.StatRow, len(model.StatLabels))
	for i, label := range model.StatLabels {
		rows[i] = model.StatRow{Label: label, Value: values[i]}
	}
	return rows
}

// SummaryTable pivots per-checkpoint statistics into a label-by-horizon
// table. The header starts with a blank label column; checkpoints without a
// summary show "n/a".
func SummaryTable(stats []model.HorizonStatistics) (header []string, rows [][]string) {
	header = make([]string, 0, len(stats)+1)
	header = append(header, " ")
	for _, hs := range stats {
		header = append(header, hs.Checkpoint.Name)
	}

	rows = make([][]string, len(model.StatLabels))
	for i, label := range model.StatLabels {
		rows[i] = append(make([]string, 0, len(stats)+1), label)
	}
	for _, hs := range stats {
		if hs.Summary == nil {
			for i := range rows {
				rows[i] = append(rows[i], "n/a")
			}
			continue
		}
		for i, r := range StatRows(hs.Summary) {
			rows[i] = append(rows[i], r.Value)
		}
	}
	return header, rows
}
