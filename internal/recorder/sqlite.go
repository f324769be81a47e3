package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/machenderson/brilionxc/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the scan loop.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			bars_scanned   INTEGER,
			anomaly_count  INTEGER,
			window         INTEGER,
			z_threshold    REAL,
			vol_multiplier REAL,
			report_path    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS anomalies (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at  INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			bar_time     INTEGER NOT NULL,
			open         REAL,
			high         REAL,
			low          REAL,
			close        REAL,
			volume       REAL,
			needle_pct   REAL,
			rolling_mean REAL,
			rolling_std  REAL,
			z_score      REAL,
			avg_volume   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_anomaly_bar_ts ON anomalies(bar_time)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullStat maps an undefined metric to SQL NULL.
func nullStat(s model.Stat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: s.Value, Valid: s.Valid}
}

func (r *SQLiteRecorder) RecordScan(evt *ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, symbol, bars_scanned, anomaly_count, window, z_threshold, vol_multiplier, report_path)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.BarsScanned, evt.AnomalyCount,
		evt.Window, evt.ZThreshold, evt.VolMultiplier, evt.ReportPath,
	)
	return err
}

func (r *SQLiteRecorder) RecordAnomalies(symbol string, records []model.Anomaly) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, rec := range records {
		_, err := r.db.Exec(`INSERT INTO anomalies
			(recorded_at, symbol, bar_time, open, high, low, close, volume,
			 needle_pct, rolling_mean, rolling_std, z_score, avg_volume)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, symbol, rec.Bar.Time.Unix(),
			rec.Bar.Open, rec.Bar.High, rec.Bar.Low, rec.Bar.Close, rec.Bar.Volume,
			nullStat(rec.Metrics.NeedlePct), nullStat(rec.Metrics.RollingMean),
			nullStat(rec.Metrics.RollingStd), nullStat(rec.Metrics.ZScore),
			nullStat(rec.Metrics.AvgVolume),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
