package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/machenderson/brilionxc/internal/collector"
	"github.com/machenderson/brilionxc/internal/detector"
	"github.com/machenderson/brilionxc/internal/exporter"
	"github.com/machenderson/brilionxc/internal/model"
	"github.com/machenderson/brilionxc/internal/recorder"
	"github.com/machenderson/brilionxc/internal/report"
	"github.com/machenderson/brilionxc/internal/store"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the monitor loop: each cron tick runs a full
// ingest → detect → export → record pass to completion, so a new load
// can never overlap a pass still reading its snapshot.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     *store.SeriesStore
	Exporter  *exporter.Exporter
	Recorder  recorder.Recorder
	Detection model.DetectionConfig
	Format    exporter.Format
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, st *store.SeriesStore,
	exp *exporter.Exporter, rec recorder.Recorder, det model.DetectionConfig, format exporter.Format) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Store:     st,
		Exporter:  exp,
		Recorder:  rec,
		Detection: det,
		Format:    format,
		Ctx:       ctx,
	}
}

// Register registers the scan task on the given cron expression.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one scan pass immediately (single-shot mode / RUN_ON_START).
func (s *Scheduler) RunNow() error {
	return s.scan()
}

func (s *Scheduler) scanTask() {
	if err := s.scan(); err != nil {
		log.Printf("[ERROR] scan: %v", err)
	}
}

func (s *Scheduler) scan() error {
	log.Printf("[INFO] running scan for %s", s.Collector.Symbol)

	series, err := s.Collector.Collect(s.Ctx, s.Store)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", s.Collector.Symbol, err)
	}

	anomalies, err := detector.Identify(series, s.Detection)
	if err != nil {
		return fmt.Errorf("detect %s: %w", series.Symbol, err)
	}

	fmt.Print(report.FormatScanReport(series, anomalies))

	path, err := s.Exporter.Export(anomalies, series.Symbol, s.Format)
	if err != nil {
		return fmt.Errorf("export %s: %w", series.Symbol, err)
	}
	if path == "" {
		log.Printf("[INFO] no anomalies for %s, nothing exported", series.Symbol)
	} else {
		log.Printf("[INFO] audit report generated: %s", path)
	}

	if err := s.Recorder.RecordScan(&recorder.ScanEvent{
		Symbol:        series.Symbol,
		BarsScanned:   len(series.Bars),
		AnomalyCount:  len(anomalies),
		Window:        s.Detection.Window,
		ZThreshold:    s.Detection.ZThreshold,
		VolMultiplier: s.Detection.VolMultiplier,
		ReportPath:    path,
	}); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
	if len(anomalies) > 0 {
		if err := s.Recorder.RecordAnomalies(series.Symbol, anomalies); err != nil {
			log.Printf("[ERROR] record anomalies: %v", err)
		}
	}
	return nil
}
