package model

// Stat is an optional float64. Rolling metrics are undefined during
// window warm-up, for zero-low bars and for flat windows; an invalid
// Stat never satisfies a threshold comparison.
type Stat struct {
	Value float64
	Valid bool
}

// StatOf wraps a defined value.
func StatOf(v float64) Stat { return Stat{Value: v, Valid: true} }

// BarMetrics holds the derived fields for one bar, aligned by index
// with the Series it was computed from.
type BarMetrics struct {
	NeedlePct   Stat // (High - Low) / Low, the relative intrabar price range
	RollingMean Stat
	RollingStd  Stat
	ZScore      Stat
	AvgVolume   Stat
}

// Anomaly pairs a flagged bar with the metrics that triggered it.
type Anomaly struct {
	Bar     Bar
	Metrics BarMetrics
}
