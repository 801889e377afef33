package collector

import (
	"context"

	"BreakoutScope/internal/model"
)

// Fetcher retrieves the daily closing price history for one symbol,
// oldest first.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string) ([]model.PricePoint, error)
	Name() string
}
