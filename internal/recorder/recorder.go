package recorder

import "github.com/machenderson/brilionxc/internal/model"

// ScanEvent summarizes one completed detection pass.
type ScanEvent struct {
	Symbol        string
	BarsScanned   int
	AnomalyCount  int
	Window        int
	ZThreshold    float64
	VolMultiplier float64
	ReportPath    string
}

// Recorder persists the scan history for auditing.
type Recorder interface {
	RecordScan(evt *ScanEvent) error
	RecordAnomalies(symbol string, records []model.Anomaly) error
	Close() error
}
