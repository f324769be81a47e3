package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// Format selects the audit report encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat indicates an unknown export format was requested.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Exporter writes forensic audit reports of flagged bars.
type Exporter struct {
	OutDir string
	now    func() time.Time
}

// New creates an Exporter writing into outDir.
func New(outDir string) *Exporter {
	return &Exporter{OutDir: outDir, now: time.Now}
}

// Export serializes the anomaly records and returns the report path.
// The name embeds the symbol and a generation timestamp so repeated
// runs never overwrite each other. An empty record set is a legitimate
// "no anomalies" outcome: nothing is written and the path is empty.
func (e *Exporter) Export(records []model.Anomaly, symbol string, format Format) (string, error) {
	if format != FormatCSV && format != FormatJSON {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if len(records) == 0 {
		return "", nil
	}

	if e.OutDir != "" {
		if err := os.MkdirAll(e.OutDir, 0755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}

	name := fmt.Sprintf("Sentinel_Audit_%s_%s.%s",
		strings.ReplaceAll(symbol, "-", "_"), e.now().Format("20060102_150405"), format)
	path := filepath.Join(e.OutDir, name)

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(path, records)
	case FormatJSON:
		err = writeJSON(path, records)
	}
	if err != nil {
		return "", fmt.Errorf("write %s report: %w", format, err)
	}
	return path, nil
}
