package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
	"github.com/machenderson/brilionxc/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.Bar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _, _, _ string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(100, 1000, 60)
}

// GenerateMockBars builds a quiet synthetic one-minute series around
// basePrice with roughly constant volume.
func GenerateMockBars(basePrice, volume float64, count int) ([]model.Bar, error) {
	if count <= 0 {
		return nil, fmt.Errorf("bar count must be positive, got %d", count)
	}
	start := time.Now().Add(-time.Duration(count) * time.Minute).Truncate(time.Minute)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0001)
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   p * 0.9995,
			High:   p * 1.0005,
			Low:    p * 0.9990,
			Close:  p,
			Volume: volume,
		}
	}
	return bars, nil
}

// Collector binds a Fetcher to one symbol and lookback window and
// feeds the series store.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Period   string
	Interval string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, period, interval string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Period: period, Interval: interval}
}

// Collect fetches the configured lookback, loads it into the store
// wholesale, and returns the resulting snapshot. An empty feed fails
// with store.ErrEmptyFeed before any analysis can run.
func (c *Collector) Collect(ctx context.Context, st *store.SeriesStore) (model.Series, error) {
	bars, err := c.Fetcher.FetchBars(ctx, c.Symbol, c.Period, c.Interval)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch %s bars: %w", c.Symbol, err)
	}
	if err := st.Load(c.Symbol, bars); err != nil {
		return model.Series{}, fmt.Errorf("load %s series: %w", c.Symbol, err)
	}
	return st.Snapshot(), nil
}
