package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// FormatScanReport formats one scan outcome as console text.
func FormatScanReport(series model.Series, anomalies []model.Anomaly) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("--- Sentinel Monitoring Report | %s ---\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Symbol: %s | Bars scanned: %d\n", series.Symbol, len(series.Bars)))

	if len(anomalies) == 0 {
		b.WriteString("Status: nominal. No fat-finger events detected.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("CRITICAL: %d fat-finger event(s) identified\n", len(anomalies)))
	for _, a := range anomalies {
		b.WriteString(fmt.Sprintf("  %s  high=%.4f low=%.4f volume=%.0f z=%s\n",
			a.Bar.Time.Format(time.RFC3339), a.Bar.High, a.Bar.Low, a.Bar.Volume,
			formatZ(a.Metrics.ZScore)))
	}
	return b.String()
}

func formatZ(z model.Stat) string {
	if !z.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", z.Value)
}
