package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/machenderson/brilionxc/internal/collector"
	"github.com/machenderson/brilionxc/internal/config"
	"github.com/machenderson/brilionxc/internal/exporter"
	"github.com/machenderson/brilionxc/internal/recorder"
	"github.com/machenderson/brilionxc/internal/scheduler"
	"github.com/machenderson/brilionxc/internal/store"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file, relying on actual environment variables")
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CryptoPulse Sentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	format, err := exporter.ParseFormat(cfg.Export.Format)
	if err != nil {
		log.Fatalf("[FATAL] export format: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Market.DataFile != "" {
		fetcher = collector.NewFileFetcher(cfg.Market.DataFile)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector and store
	col := collector.NewCollector(fetcher, cfg.Market.Symbol, cfg.Market.Period, cfg.Market.Interval)
	st := store.NewSeriesStore()

	// Init exporter
	exp := exporter.New(cfg.Export.OutDir)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, st, exp, rec, cfg.DetectionConfig(), format)

	// Single-shot mode: one scan pass, then exit.
	if cfg.Schedule.ScanCron == "" {
		if err := sched.RunNow(); err != nil {
			log.Fatalf("[FATAL] scan: %v", err)
		}
		return
	}

	// Monitor mode: scan on the configured cron until interrupted.
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register scan task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go func() {
			if err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] scan: %v", err)
			}
		}()
	}

	log.Println("[INFO] CryptoPulse Sentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CryptoPulse Sentinel stopped")
}
