package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// makeBars builds a series where bar i has needle pct needles[i]
// exactly (low fixed at 100) and volume volumes[i].
func makeBars(needles, volumes []float64) []model.Bar {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(needles))
	for i := range needles {
		low := 100.0
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   low,
			High:   low * (1 + needles[i]),
			Low:    low,
			Close:  low * (1 + needles[i]/2),
			Volume: volumes[i],
		}
	}
	return bars
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestComputeMetricsRejectsSmallWindow(t *testing.T) {
	bars := makeBars(repeat(0.01, 5), repeat(100, 5))
	if _, err := ComputeMetrics(bars, 1); err == nil {
		t.Fatal("expected error for window < 2")
	}
}

func TestComputeMetricsWarmup(t *testing.T) {
	const window = 4
	needles := []float64{0.01, 0.02, 0.01, 0.02, 0.03, 0.01}
	volumes := []float64{100, 200, 100, 200, 300, 100}
	metrics, err := ComputeMetrics(makeBars(needles, volumes), window)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < window; i++ {
		m := metrics[i]
		if m.RollingMean.Valid || m.RollingStd.Valid || m.AvgVolume.Valid || m.ZScore.Valid {
			t.Errorf("index %d: rolling fields defined during warm-up", i)
		}
		if !m.NeedlePct.Valid {
			t.Errorf("index %d: needle pct should always be defined for positive lows", i)
		}
	}
	for i := window; i < len(needles); i++ {
		m := metrics[i]
		if !m.RollingMean.Valid || !m.RollingStd.Valid || !m.AvgVolume.Valid {
			t.Errorf("index %d: rolling fields undefined after warm-up", i)
		}
	}
}

func TestComputeMetricsBaselineValues(t *testing.T) {
	// Baseline for the last bar is the three bars before it.
	needles := []float64{0.01, 0.02, 0.03, 0.06}
	volumes := []float64{100, 200, 300, 400}
	metrics, err := ComputeMetrics(makeBars(needles, volumes), 3)
	if err != nil {
		t.Fatal(err)
	}

	m := metrics[3]
	if got, want := m.RollingMean.Value, 0.02; !m.RollingMean.Valid || math.Abs(got-want) > 1e-12 {
		t.Errorf("rolling mean = %v/%v, want %g", m.RollingMean.Valid, got, want)
	}
	if got, want := m.RollingStd.Value, 0.01; !m.RollingStd.Valid || math.Abs(got-want) > 1e-12 {
		t.Errorf("rolling std = %v/%v, want %g", m.RollingStd.Valid, got, want)
	}
	if got, want := m.ZScore.Value, 4.0; !m.ZScore.Valid || math.Abs(got-want) > 1e-9 {
		t.Errorf("z-score = %v/%v, want %g", m.ZScore.Valid, got, want)
	}
	if got, want := m.AvgVolume.Value, 200.0; !m.AvgVolume.Valid || math.Abs(got-want) > 1e-12 {
		t.Errorf("avg volume = %v/%v, want %g", m.AvgVolume.Valid, got, want)
	}
}

func TestComputeMetricsZeroLowBar(t *testing.T) {
	const window = 3
	needles := repeat(0.01, 9)
	volumes := repeat(100, 9)
	bars := makeBars(needles, volumes)
	bars[4].Low = 0 // degenerate bar

	metrics, err := ComputeMetrics(bars, window)
	if err != nil {
		t.Fatalf("zero-low bar must not fail the run: %v", err)
	}

	if metrics[4].NeedlePct.Valid {
		t.Error("needle pct defined for a zero-low bar")
	}
	if metrics[4].ZScore.Valid {
		t.Error("z-score defined for a zero-low bar")
	}
	// The degenerate needle poisons the next `window` baselines.
	for i := 5; i <= 7; i++ {
		if metrics[i].RollingMean.Valid {
			t.Errorf("index %d: spread baseline defined while containing a degenerate bar", i)
		}
		if !metrics[i].AvgVolume.Valid {
			t.Errorf("index %d: volume baseline should be unaffected", i)
		}
	}
	// Bar 8's baseline is bars 5..7, all clean again.
	if !metrics[8].RollingMean.Valid {
		t.Error("spread baseline should recover once the degenerate bar slides out")
	}
}

func TestComputeMetricsFlatBaseline(t *testing.T) {
	const window = 5
	needles := append(repeat(0.002, window), 0.25)
	volumes := repeat(100, window+1)
	metrics, err := ComputeMetrics(makeBars(needles, volumes), window)
	if err != nil {
		t.Fatal(err)
	}

	m := metrics[window]
	if !m.RollingStd.Valid || m.RollingStd.Value != 0 {
		t.Fatalf("expected zero std for a flat baseline, got %v/%g", m.RollingStd.Valid, m.RollingStd.Value)
	}
	if m.ZScore.Valid {
		t.Error("z-score must be undefined when the baseline std is zero")
	}
}
