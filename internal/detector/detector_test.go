package detector

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

var quietConfig = model.DetectionConfig{Window: 30, ZThreshold: 8, VolMultiplier: 5}

// quietSeries builds a one-minute series whose needle jitters slightly
// around 0.001 with volume 1000, so baselines stay defined (non-flat)
// and nothing is anomalous.
func quietSeries(n int) model.Series {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		needle := 0.0008 + 0.0001*float64(i%5)
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   100,
			High:   100 * (1 + needle),
			Low:    100,
			Close:  100,
			Volume: 1000,
		}
	}
	return model.Series{Symbol: "BTC-USD", Bars: bars}
}

// spike turns bar i into a fat-finger candidate.
func spike(s model.Series, i int, needle, volume float64) model.Series {
	s.Bars[i].High = s.Bars[i].Low * (1 + needle)
	s.Bars[i].Volume = volume
	return s
}

func TestIdentifyEndToEndScenario(t *testing.T) {
	// 35 quiet one-minute bars; bar 30 carries a 10% needle on 8x
	// volume. Its baseline (bars 0..29) has mean needle ~0.001 with a
	// tiny std, so the z-score is enormous, and 8000 > 5 * avg(1000).
	series := quietSeries(35)
	series = spike(series, 30, 0.10, 8000)
	series.Bars[30].High = 110
	series.Bars[30].Low = 100

	anomalies, err := Identify(series, quietConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(anomalies) != 1 {
		t.Fatalf("expected exactly one anomaly, got %d", len(anomalies))
	}
	a := anomalies[0]
	if !a.Bar.Time.Equal(series.Bars[30].Time) {
		t.Errorf("flagged bar at %s, want bar 30 at %s", a.Bar.Time, series.Bars[30].Time)
	}
	if !a.Metrics.ZScore.Valid || a.Metrics.ZScore.Value <= quietConfig.ZThreshold {
		t.Errorf("z-score = %+v, want defined and > %g", a.Metrics.ZScore, quietConfig.ZThreshold)
	}
	if !a.Metrics.AvgVolume.Valid || math.Abs(a.Metrics.AvgVolume.Value-1000) > 1 {
		t.Errorf("avg volume = %+v, want ~1000", a.Metrics.AvgVolume)
	}
}

func TestIdentifyWarmupInvariant(t *testing.T) {
	// Even with absurdly loose thresholds, bars inside the warm-up
	// region can never be flagged.
	series := quietSeries(40)
	series = spike(series, 5, 0.5, 100000)
	series = spike(series, quietConfig.Window-2, 0.5, 100000)

	cfg := model.DetectionConfig{Window: 30, ZThreshold: 0.001, VolMultiplier: 0.001}
	anomalies, err := Identify(series, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range anomalies {
		idx := int(a.Bar.Time.Sub(series.Bars[0].Time) / time.Minute)
		if idx <= cfg.Window-2 {
			t.Errorf("bar %d flagged during warm-up", idx)
		}
	}
}

func TestIdentifyDeterminism(t *testing.T) {
	series := spike(quietSeries(50), 35, 0.08, 9000)
	first, err := Identify(series, quietConfig)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Identify(series, quietConfig)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different results")
	}
}

func TestIdentifyThresholdMonotonicity(t *testing.T) {
	series := quietSeries(60)
	series = spike(series, 32, 0.01, 3000)
	series = spike(series, 40, 0.05, 6000)
	series = spike(series, 50, 0.20, 20000)

	count := func(cfg model.DetectionConfig) int {
		anomalies, err := Identify(series, cfg)
		if err != nil {
			t.Fatal(err)
		}
		return len(anomalies)
	}

	prev := math.MaxInt
	for _, z := range []float64{0.5, 2, 8, 50, 1e6} {
		n := count(model.DetectionConfig{Window: 30, ZThreshold: z, VolMultiplier: 2})
		if n > prev {
			t.Errorf("raising z threshold to %g grew the result from %d to %d", z, prev, n)
		}
		prev = n
	}

	prev = math.MaxInt
	for _, mult := range []float64{0.5, 2, 5, 50, 1e6} {
		n := count(model.DetectionConfig{Window: 30, ZThreshold: 2, VolMultiplier: mult})
		if n > prev {
			t.Errorf("raising volume multiplier to %g grew the result from %d to %d", mult, prev, n)
		}
		prev = n
	}
}

func TestIdentifyZeroLowSafety(t *testing.T) {
	series := quietSeries(80)
	series.Bars[40].Low = 0
	series.Bars[40].High = 500
	series.Bars[40].Volume = 50000
	// A genuine spike long after the degenerate bar left every window.
	series = spike(series, 75, 0.10, 9000)

	anomalies, err := Identify(series, quietConfig)
	if err != nil {
		t.Fatalf("zero-low bar must not fail the run: %v", err)
	}
	for _, a := range anomalies {
		if a.Bar.Time.Equal(series.Bars[40].Time) {
			t.Error("zero-low bar was flagged")
		}
	}
	if len(anomalies) != 1 || !anomalies[0].Bar.Time.Equal(series.Bars[75].Time) {
		t.Errorf("expected the later spike to be the sole anomaly, got %d", len(anomalies))
	}
}

func TestIdentifyFlatBaseline(t *testing.T) {
	// Identical needles leave the baseline std at zero; the spike's
	// z-score is undefined and it must not be flagged.
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 31)
	for i := range bars {
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   100,
			High:   100.1,
			Low:    100,
			Close:  100,
			Volume: 1000,
		}
	}
	bars[30].High = 110
	bars[30].Volume = 50000
	series := model.Series{Symbol: "BTC-USD", Bars: bars}

	anomalies, err := Identify(series, quietConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(anomalies) != 0 {
		t.Errorf("flat baseline produced %d anomalies, want none", len(anomalies))
	}
}

func TestIdentifyEmptyResultIsNotAnError(t *testing.T) {
	anomalies, err := Identify(quietSeries(50), quietConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(anomalies) != 0 {
		t.Errorf("quiet series produced %d anomalies", len(anomalies))
	}
}

func TestIdentifyRejectsBadWindow(t *testing.T) {
	_, err := Identify(quietSeries(10), model.DetectionConfig{Window: 1, ZThreshold: 8, VolMultiplier: 5})
	if err == nil {
		t.Fatal("expected error for window < 2")
	}
}
