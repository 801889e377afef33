package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"BreakoutScope/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// Requests are throttled and guarded by a circuit breaker so that a failing
// upstream does not get hammered by retries.
type YahooFetcher struct {
	BaseURL string
	Range   string // Yahoo range parameter, e.g. "10y" or "max"
	Client  *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(rng, proxyURL string, log zerolog.Logger) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rng == "" {
		rng = "10y"
	}
	f := &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Range:   rng,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		log:     log,
	}
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yahoo",
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses downloads the daily closes for symbol over the configured range.
func (f *YahooFetcher) FetchDailyCloses(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetchChart(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.PricePoint), nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(f.Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: status %d, body: %s", symbol, resp.StatusCode, truncate(body, 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo %s: no data returned", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: no quote block", symbol)
	}
	closes := result.Indicators.Quote[0].Close

	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		} else {
			f.log.Warn().Err(err).Str("tz", tz).Msg("unknown exchange timezone, using UTC")
		}
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bar (holiday, halted session)
		}
		points = append(points, model.PricePoint{
			Date:  model.DateKey(time.Unix(ts, 0).In(loc)),
			Price: *closes[i],
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	f.log.Debug().Str("symbol", symbol).Int("points", len(points)).Msg("yahoo chart fetched")
	return points, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
