package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/machenderson/brilionxc/internal/model"
)

// FileFetcher implements Fetcher from a local CSV capture, for
// offline replay of a recorded feed. The file carries one bar per
// row as timestamp,open,high,low,close,volume with an ISO-8601
// timestamp; extra trailing columns are ignored, so an exported
// audit report also loads.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a fetcher reading bars from path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

// FetchBars reads every bar in the file. period and interval are
// ignored: a capture is replayed as-is.
func (f *FileFetcher) FetchBars(_ context.Context, _, _, _ string) ([]model.Bar, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bar file: %w", err)
	}

	var bars []model.Bar
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("bar file row %d: expected at least 6 columns, got %d", i+1, len(row))
		}
		if i == 0 && row[0] == "timestamp" {
			continue // header row
		}
		bar, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("bar file row %d: %w", i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseBarRow(row []string) (model.Bar, error) {
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse timestamp %q: %w", row[0], err)
	}
	fields := make([]float64, 5)
	for i, raw := range row[1:6] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parse column %d %q: %w", i+2, raw, err)
		}
		fields[i] = v
	}
	return model.Bar{
		Time:   ts,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}
