package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StarTrade/internal/calculator"
	"StarTrade/internal/model"
	"StarTrade/pkg/logger"
)

// SQLiteRecorder persists analysis snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the digest job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.Named("recorder"), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			price     REAL,
			sma20     REAL,
			sma50     REAL,
			ema12     REAL,
			rsi       REAL,
			macd      REAL,
			signal    REAL,
			bb_upper  REAL,
			bb_lower  REAL,
			high_52w  REAL,
			low_52w   REAL,
			score     REAL,
			action    TEXT,
			summary   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON analysis_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(a *model.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &a.Snapshot
	var (
		score  float64
		action string
	)
	if a.Signal != nil {
		score = a.Signal.Score
		action = string(a.Signal.Recommendation.Action)
	}

	_, err := r.db.Exec(`INSERT INTO analysis_snapshots
		(symbol, timestamp, price, sma20, sma50, ema12, rsi, macd, signal,
		 bb_upper, bb_lower, high_52w, low_52w, score, action, summary)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		strings.ToUpper(a.Symbol), r.now().Unix(), snap.Price,
		reading(snap, calculator.KeySMA20), reading(snap, calculator.KeySMA50),
		reading(snap, calculator.KeyEMA12), reading(snap, calculator.KeyRSI),
		reading(snap, calculator.KeyMACD), reading(snap, calculator.KeySignal),
		reading(snap, calculator.KeyBBUpper), reading(snap, calculator.KeyBBLower),
		snap.High52w, snap.Low52w, score, action, a.Summary,
	)
	return err
}

// History returns the newest records for symbol, newest first. limit <= 0 means 30.
func (r *SQLiteRecorder) History(symbol string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.Query(`SELECT id, symbol, timestamp, price, sma20, sma50, ema12, rsi,
		macd, signal, bb_upper, bb_lower, score, action, summary
		FROM analysis_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                                               Record
			ts                                                int64
			sma20, sma50, ema12, rsi, macd, sig, upper, lower sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Symbol, &ts, &rec.Price,
			&sma20, &sma50, &ema12, &rsi, &macd, &sig, &upper, &lower,
			&rec.Score, &rec.Action, &rec.Summary); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.SMA20, rec.SMA50, rec.EMA12 = ptr(sma20), ptr(sma50), ptr(ema12)
		rec.RSI, rec.MACD, rec.Signal = ptr(rsi), ptr(macd), ptr(sig)
		rec.BBUpper, rec.BBLower = ptr(upper), ptr(lower)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func reading(snap *model.IndicatorSnapshot, name string) sql.NullFloat64 {
	v, ok := snap.Get(name)
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
