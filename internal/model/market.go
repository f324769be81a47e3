package model

import "time"

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the ordered bar history for one symbol.
// Bars are sorted by time ascending with no duplicate timestamps.
type Series struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}
