package collector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCloses_HeaderAndMissing(t *testing.T) {
	in := "Date,Close\n2024-01-03,101.5\n2024-01-02,100\n2024-01-04,null\n2024-01-05,\n"
	points, err := ParseCloses(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, day("2024-01-02"), points[0].Date)
	assert.Equal(t, 101.5, points[1].Price)
}

func TestParseCloses_BadDate(t *testing.T) {
	_, err := ParseCloses(strings.NewReader("2024-01-02,1\nyesterday,2\n"))
	assert.Error(t, err)
}

func TestFileFetcher_Lookup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FTSE.csv"), []byte("2024-01-02,7700\n"), 0o644))
	custom := filepath.Join(dir, "astra.csv")
	require.NoError(t, os.WriteFile(custom, []byte("2024-01-02,100\n"), 0o644))

	f := NewFileFetcher(dir, map[string]string{"AZN.L": custom})
	assert.Equal(t, "file", f.Name())

	bench, err := f.FetchDailyCloses(context.Background(), "^FTSE")
	require.NoError(t, err)
	assert.Equal(t, 7700.0, bench[0].Price)

	inst, err := f.FetchDailyCloses(context.Background(), "AZN.L")
	require.NoError(t, err)
	assert.Equal(t, 100.0, inst[0].Price)

	_, err = f.FetchDailyCloses(context.Background(), "MISSING")
	assert.Error(t, err)
}
