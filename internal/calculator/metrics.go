package calculator

import (
	"fmt"

	"github.com/machenderson/brilionxc/internal/model"
)

// ComputeMetrics derives the per-bar rolling statistics for the series:
// the price needle (high-low spread over low), the rolling mean and
// sample standard deviation of the needle, the resulting z-score, and
// the rolling volume average. The returned slice is aligned by index
// with bars.
//
// Each bar is scored against the baseline window of the `window` bars
// preceding it, never against a window containing the bar itself: a
// sample inside its own window can mathematically never stand more
// than (n-1)/sqrt(n) deviations out (about 5.3 at window 30), which
// would put any useful fat-finger threshold out of reach.
//
// Rolling fields stay undefined for the first `window` bars. A bar
// with a zero low has an undefined needle and keeps the spread
// statistics undefined for every baseline window that still contains
// it; its volume still counts. A flat baseline (zero standard
// deviation) yields an undefined z-score.
func ComputeMetrics(bars []model.Bar, window int) ([]model.BarMetrics, error) {
	if window < 2 {
		return nil, fmt.Errorf("rolling window must be at least 2, got %d", window)
	}

	metrics := make([]model.BarMetrics, len(bars))
	spread := NewRollingStats(window)
	volume := NewRollingStats(window)

	for i, bar := range bars {
		m := &metrics[i]

		// Baseline statistics from the trailing window, before this
		// bar joins it.
		if mean, ok := spread.Mean(); ok {
			m.RollingMean = model.StatOf(mean)
		}
		if std, ok := spread.SampleStd(); ok {
			m.RollingStd = model.StatOf(std)
		}
		if avg, ok := volume.Mean(); ok {
			m.AvgVolume = model.StatOf(avg)
		}

		if bar.Low > 0 {
			m.NeedlePct = model.StatOf((bar.High - bar.Low) / bar.Low)
		}
		if m.NeedlePct.Valid && m.RollingMean.Valid && m.RollingStd.Valid && m.RollingStd.Value > 0 {
			m.ZScore = model.StatOf((m.NeedlePct.Value - m.RollingMean.Value) / m.RollingStd.Value)
		}

		// Push this bar into the windows for the bars after it.
		if m.NeedlePct.Valid {
			spread.Add(m.NeedlePct.Value)
		} else {
			spread.AddHole()
		}
		volume.Add(bar.Volume)
	}

	return metrics, nil
}
