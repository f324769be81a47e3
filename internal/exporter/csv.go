package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

var csvHeader = []string{
	"timestamp", "open", "high", "low", "close", "volume",
	"needle_pct", "rolling_mean", "rolling_std", "z_score", "avg_volume",
}

func writeCSV(path string, records []model.Anomaly) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Bar.Time.Format(time.RFC3339),
			formatFloat(rec.Bar.Open),
			formatFloat(rec.Bar.High),
			formatFloat(rec.Bar.Low),
			formatFloat(rec.Bar.Close),
			formatFloat(rec.Bar.Volume),
			formatStat(rec.Metrics.NeedlePct),
			formatStat(rec.Metrics.RollingMean),
			formatStat(rec.Metrics.RollingStd),
			formatStat(rec.Metrics.ZScore),
			formatStat(rec.Metrics.AvgVolume),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatStat renders an undefined metric as an empty cell.
func formatStat(s model.Stat) string {
	if !s.Valid {
		return ""
	}
	return formatFloat(s.Value)
}

// ParseCSV reads a previously exported CSV audit report back into
// anomaly records.
func ParseCSV(path string) ([]model.Anomaly, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("report %s is empty", path)
	}

	var records []model.Anomaly
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("report row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		rec, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("report row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCSVRow(row []string) (model.Anomaly, error) {
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return model.Anomaly{}, fmt.Errorf("parse timestamp %q: %w", row[0], err)
	}

	bar := make([]float64, 5)
	for i, raw := range row[1:6] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Anomaly{}, fmt.Errorf("parse %s %q: %w", csvHeader[i+1], raw, err)
		}
		bar[i] = v
	}

	stats := make([]model.Stat, 5)
	for i, raw := range row[6:11] {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Anomaly{}, fmt.Errorf("parse %s %q: %w", csvHeader[i+6], raw, err)
		}
		stats[i] = model.StatOf(v)
	}

	return model.Anomaly{
		Bar: model.Bar{
			Time:   ts,
			Open:   bar[0],
			High:   bar[1],
			Low:    bar[2],
			Close:  bar[3],
			Volume: bar[4],
		},
		Metrics: model.BarMetrics{
			NeedlePct:   stats[0],
			RollingMean: stats[1],
			RollingStd:  stats[2],
			ZScore:      stats[3],
			AvgVolume:   stats[4],
		},
	}, nil
}
