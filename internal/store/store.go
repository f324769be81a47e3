package store

import (
	"errors"
	"sync"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// ErrEmptyFeed indicates the market feed returned zero bars.
var ErrEmptyFeed = errors.New("market feed returned no bars")

// SeriesStore holds the currently loaded series for a single symbol.
// Load replaces the series wholesale; Snapshot returns the current one.
// The lock keeps a monitor-loop Load from racing an in-flight Snapshot.
type SeriesStore struct {
	mu     sync.RWMutex
	series model.Series
}

// NewSeriesStore creates an empty store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{}
}

// Load replaces the stored series with the given bars.
func (s *SeriesStore) Load(symbol string, bars []model.Bar) error {
	if len(bars) == 0 {
		return ErrEmptyFeed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = model.Series{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}
	return nil
}

// Snapshot returns the current series. Consumers must treat the bar
// slice as read-only.
func (s *SeriesStore) Snapshot() model.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series
}
