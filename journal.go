// FILE: journal.go
// Package main – Optional SQLite trade journal.
//
// TradeJournal persists entries and exits to a local SQLite file so sessions
// can be reviewed after the fact. It is entirely optional: a nil *TradeJournal
// is a valid no-op journal, which keeps the engine free of nil checks.
//
// Schema: one row per entry in trade_entries, one row per full close in
// trade_exits, one upserted row per session in session_summaries. WAL mode so
// external readers can tail the file while the engine writes.

package main

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// TradeJournal persists trade activity to a SQLite database.
type TradeJournal struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenTradeJournal opens (or creates) the journal database and runs
// migrations. An empty path returns (nil, nil): journaling disabled.
func OpenTradeJournal(path string) (*TradeJournal, error) {
	if path == "" {
		return nil, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	j := &TradeJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[JOURNAL] opened: %s", path)
	return j, nil
}

func (j *TradeJournal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trade_entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_time  INTEGER NOT NULL,
			symbol      TEXT,
			direction   TEXT,
			entry_price REAL,
			stop_loss   REAL,
			target_poc  REAL,
			contracts   INTEGER,
			setup_score INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_ts ON trade_entries(entry_time)`,

		`CREATE TABLE IF NOT EXISTS trade_exits (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_time  INTEGER NOT NULL,
			exit_time   INTEGER NOT NULL,
			symbol      TEXT,
			direction   TEXT,
			entry_price REAL,
			exit_price  REAL,
			contracts   INTEGER,
			pnl         REAL,
			reason      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exits_ts ON trade_exits(exit_time)`,

		`CREATE TABLE IF NOT EXISTS session_summaries (
			session_date TEXT PRIMARY KEY,
			trades       INTEGER,
			wins         INTEGER,
			losses       INTEGER,
			pnl          REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := j.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// RecordEntry logs a placed entry. Safe to call on a nil journal.
func (j *TradeJournal) RecordEntry(at time.Time, symbol string, dir Direction,
	entry, stop, targetPOC float64, contracts, score int) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`INSERT INTO trade_entries
		(entry_time, symbol, direction, entry_price, stop_loss, target_poc, contracts, setup_score)
		VALUES (?,?,?,?,?,?,?,?)`,
		at.Unix(), symbol, dir.String(), entry, stop, targetPOC, contracts, score,
	)
	if err != nil {
		log.Printf("[JOURNAL] entry insert failed: %v", err)
	}
}

// RecordExit logs a full close. Safe to call on a nil journal.
func (j *TradeJournal) RecordExit(entryAt time.Time, symbol string, dir Direction,
	entry, exit float64, contracts int, pnl float64, reason string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`INSERT INTO trade_exits
		(entry_time, exit_time, symbol, direction, entry_price, exit_price, contracts, pnl, reason)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		entryAt.Unix(), time.Now().Unix(), symbol, dir.String(),
		entry, exit, contracts, pnl, reason,
	)
	if err != nil {
		log.Printf("[JOURNAL] exit insert failed: %v", err)
	}
}

// RecordSummary upserts one row per completed session. Safe to call on a nil
// journal.
func (j *TradeJournal) RecordSummary(date time.Time, trades, wins, losses int, pnl float64) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`INSERT INTO session_summaries
		(session_date, trades, wins, losses, pnl) VALUES (?,?,?,?,?)
		ON CONFLICT(session_date) DO UPDATE SET
		trades=excluded.trades, wins=excluded.wins, losses=excluded.losses, pnl=excluded.pnl`,
		date.Format("2006-01-02"), trades, wins, losses, pnl,
	)
	if err != nil {
		log.Printf("[JOURNAL] summary insert failed: %v", err)
	}
}

// Close releases the database handle. Safe to call on a nil journal.
func (j *TradeJournal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
