package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"BreakoutScope/internal/model"
)

// FileFetcher implements Fetcher over local "date,close" CSV files, one per
// symbol. Paths maps a symbol to its file; unmapped symbols are looked up as
// <Dir>/<symbol>.csv with characters unsafe for file names replaced.
type FileFetcher struct {
	Dir   string
	Paths map[string]string
}

// NewFileFetcher creates a CSV-backed fetcher.
func NewFileFetcher(dir string, paths map[string]string) *FileFetcher {
	return &FileFetcher{Dir: dir, Paths: paths}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) path(symbol string) string {
	if p, ok := f.Paths[symbol]; ok && p != "" {
		return p
	}
	safe := strings.NewReplacer("^", "", "/", "_", "\\", "_", ":", "_").Replace(symbol)
	return filepath.Join(f.Dir, safe+".csv")
}

// FetchDailyCloses reads the CSV for symbol. Rows with an empty, "null" or
// non-numeric close are skipped as missing.
func (f *FileFetcher) FetchDailyCloses(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.path(symbol)
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	points, err := ParseCloses(fh)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return points, nil
}

// ParseCloses decodes "date,close" rows. A header row is detected by an
// unparseable first date and skipped.
func ParseCloses(r io.Reader) ([]model.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var points []model.PricePoint
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected date and close, got %d fields", line, len(rec))
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: bad date %q", line, rec[0])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil || math.IsNaN(price) {
			continue
		}
		points = append(points, model.PricePoint{Date: model.DateKey(date), Price: price})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
