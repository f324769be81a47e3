package detector

import (
	"fmt"

	"github.com/machenderson/brilionxc/internal/calculator"
	"github.com/machenderson/brilionxc/internal/model"
)

// Identify computes rolling metrics over the series and returns the
// bars matching the joint fat-finger rule, in time order:
//
//   - the needle z-score strictly exceeds cfg.ZThreshold, and
//   - the bar volume strictly exceeds cfg.VolMultiplier times the
//     rolling volume average.
//
// A price needle alone is common in thin low-volume conditions; the
// simultaneous volume surge is what separates an erroneous execution
// from ordinary illiquid jitter. Bars with undefined metrics are never
// eligible. An empty result means "no anomalies", not an error.
func Identify(series model.Series, cfg model.DetectionConfig) ([]model.Anomaly, error) {
	metrics, err := calculator.ComputeMetrics(series.Bars, cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	anomalies := []model.Anomaly{}
	for i, bar := range series.Bars {
		m := metrics[i]
		if !m.ZScore.Valid || !m.AvgVolume.Valid {
			continue
		}
		if m.ZScore.Value > cfg.ZThreshold && bar.Volume > cfg.VolMultiplier*m.AvgVolume.Value {
			anomalies = append(anomalies, model.Anomaly{Bar: bar, Metrics: m})
		}
	}
	return anomalies, nil
}
