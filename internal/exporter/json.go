package exporter

import (
	"encoding/json"
	"os"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// auditRecord is the JSON shape of one anomaly. Undefined metrics
// serialize as null.
type auditRecord struct {
	Timestamp   string   `json:"timestamp"`
	Open        float64  `json:"open"`
	High        float64  `json:"high"`
	Low         float64  `json:"low"`
	Close       float64  `json:"close"`
	Volume      float64  `json:"volume"`
	NeedlePct   *float64 `json:"needle_pct"`
	RollingMean *float64 `json:"rolling_mean"`
	RollingStd  *float64 `json:"rolling_std"`
	ZScore      *float64 `json:"z_score"`
	AvgVolume   *float64 `json:"avg_volume"`
}

func statPtr(s model.Stat) *float64 {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

func writeJSON(path string, records []model.Anomaly) error {
	out := make([]auditRecord, len(records))
	for i, rec := range records {
		out[i] = auditRecord{
			Timestamp:   rec.Bar.Time.Format(time.RFC3339),
			Open:        rec.Bar.Open,
			High:        rec.Bar.High,
			Low:         rec.Bar.Low,
			Close:       rec.Bar.Close,
			Volume:      rec.Bar.Volume,
			NeedlePct:   statPtr(rec.Metrics.NeedlePct),
			RollingMean: statPtr(rec.Metrics.RollingMean),
			RollingStd:  statPtr(rec.Metrics.RollingStd),
			ZScore:      statPtr(rec.Metrics.ZScore),
			AvgVolume:   statPtr(rec.Metrics.AvgVolume),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
