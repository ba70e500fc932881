// Package store manages all SQLite persistence for claude-rank.
//
// SQLite in WAL mode is the idempotence anchor: daily aggregates, the XP
// ledger, streak state, achievement unlocks, and the resync cursor commit in
// one transaction, so a crash mid-sync leaves the store at its pre-sync
// state, safe to retry. Readers see a consistent snapshot throughout.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/model"
)

// Profile keys.
const (
	keyCursorTimestamp = "cursor_timestamp"
	keyCursorUuid      = "cursor_uuid"
	keyPrestigeCount   = "prestige_count"
	keyXPBaseline      = "xp_baseline"
)

// Store manages all SQLite operations with WAL mode for concurrent access.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database and initializes the schema.
// Writes serialize on an immediate transaction lock; busy_timeout keeps
// short contention invisible and longer contention surfaces as ErrConcurrency.
func Open(path string) (*Store, error) {
	dsn := path + "?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_aggregates (
		date TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS xp_ledger (
		date       TEXT PRIMARY KEY,
		raw_xp     INTEGER NOT NULL,
		capped_xp  INTEGER NOT NULL,
		multiplier REAL NOT NULL,
		final_xp   INTEGER NOT NULL,
		breakdown  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS streak_state (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id          TEXT PRIMARY KEY,
		unlocked_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		first_seen_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS totals (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profile (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// isBusy detects SQLITE_BUSY / SQLITE_LOCKED from modernc.org/sqlite.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "database table is locked", "(5)", "(6)"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Sync transaction
// ---------------------------------------------------------------------------

// SyncTx is the single-writer transaction scope of one sync. All mutations of
// the derived state go through it; Commit makes them visible atomically.
type SyncTx struct {
	tx *sql.Tx
}

// BeginSync opens the exclusive sync transaction. A concurrent holder shows
// up as ErrConcurrency, with no partial state written.
func (s *Store) BeginSync() (*SyncTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		if isBusy(err) {
			return nil, errs.Concurrencyf("another sync holds the store lock")
		}
		return nil, fmt.Errorf("begin sync tx: %w", err)
	}
	return &SyncTx{tx: tx}, nil
}

// Commit commits the sync transaction.
func (t *SyncTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		if isBusy(err) {
			return errs.Concurrencyf("commit blocked by concurrent writer")
		}
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

// Rollback aborts the sync transaction. Safe to call after Commit.
func (t *SyncTx) Rollback() { _ = t.tx.Rollback() }

// GetAggregate loads one date's aggregate, or nil when absent.
func (t *SyncTx) GetAggregate(date string) (*model.DailyAggregate, error) {
	return scanAggregate(t.tx.QueryRow(`SELECT data FROM daily_aggregates WHERE date = ?`, date))
}

// PutAggregate upserts one date's aggregate.
func (t *SyncTx) PutAggregate(agg *model.DailyAggregate) error {
	data, err := sonic.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshal aggregate %s: %w", agg.Date, err)
	}
	_, err = t.tx.Exec(
		`INSERT INTO daily_aggregates (date, data) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET data = excluded.data`,
		agg.Date, string(data),
	)
	return err
}

// GetLedgerEntry loads one date's ledger entry, or nil when absent.
func (t *SyncTx) GetLedgerEntry(date string) (*model.XPLedgerEntry, error) {
	return scanLedgerEntry(t.tx.QueryRow(
		`SELECT date, raw_xp, capped_xp, multiplier, final_xp, breakdown FROM xp_ledger WHERE date = ?`, date))
}

// PutLedgerEntry overwrites one date's ledger entry. The ledger holds exactly
// one row per date; recomputation replaces, never appends.
func (t *SyncTx) PutLedgerEntry(entry *model.XPLedgerEntry) error {
	breakdown, err := sonic.Marshal(entry.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown %s: %w", entry.Date, err)
	}
	_, err = t.tx.Exec(
		`INSERT INTO xp_ledger (date, raw_xp, capped_xp, multiplier, final_xp, breakdown)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   raw_xp = excluded.raw_xp, capped_xp = excluded.capped_xp,
		   multiplier = excluded.multiplier, final_xp = excluded.final_xp,
		   breakdown = excluded.breakdown`,
		entry.Date, entry.RawXP, entry.CappedXP, entry.Multiplier, entry.FinalXP, string(breakdown),
	)
	return err
}

// GetStreak loads the singleton streak state.
func (t *SyncTx) GetStreak() (model.StreakState, error) {
	return scanStreak(t.tx.QueryRow(`SELECT data FROM streak_state WHERE id = 1`))
}

// PutStreak stores the singleton streak state.
func (t *SyncTx) PutStreak(state model.StreakState) error {
	data, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal streak: %w", err)
	}
	_, err = t.tx.Exec(
		`INSERT INTO streak_state (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(data),
	)
	return err
}

// SeenProjectsBefore returns the ids of projects first seen strictly before
// the given date.
func (t *SyncTx) SeenProjectsBefore(date string) (map[string]bool, error) {
	rows, err := t.tx.Query(`SELECT id FROM projects WHERE first_seen_date < ?`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// RecordProjects registers project ids with their first-seen date. An
// earlier first-seen date always wins.
func (t *SyncTx) RecordProjects(ids []string, date string) error {
	for _, id := range ids {
		_, err := t.tx.Exec(
			`INSERT INTO projects (id, first_seen_date) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET first_seen_date = MIN(first_seen_date, excluded.first_seen_date)`,
			id, date,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// CountProjects returns the number of distinct projects ever seen.
func (t *SyncTx) CountProjects() (int, error) {
	var count int
	err := t.tx.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}

// UnlockAchievement records an unlock write-once: an existing row is never
// re-dated, so the unlock set is monotone under resync.
func (t *SyncTx) UnlockAchievement(id, date string) error {
	_, err := t.tx.Exec(`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`, id, date)
	return err
}

// GetUnlocks returns all recorded unlocks as id -> unlock date.
func (t *SyncTx) GetUnlocks() (map[string]string, error) {
	return scanUnlocks(t.tx.Query(`SELECT id, unlocked_at FROM achievements`))
}

// GetTotals loads the cumulative totals singleton.
func (t *SyncTx) GetTotals() (model.CumulativeTotals, error) {
	return scanTotals(t.tx.QueryRow(`SELECT data FROM totals WHERE id = 1`))
}

// PutTotals stores the cumulative totals singleton.
func (t *SyncTx) PutTotals(totals model.CumulativeTotals) error {
	data, err := sonic.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}
	_, err = t.tx.Exec(
		`INSERT INTO totals (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(data),
	)
	return err
}

// GetCursor loads the resync cursor.
func (t *SyncTx) GetCursor() (model.Cursor, error) {
	ts, err := t.getProfile(keyCursorTimestamp)
	if err != nil {
		return model.Cursor{}, err
	}
	uuid, err := t.getProfile(keyCursorUuid)
	if err != nil {
		return model.Cursor{}, err
	}
	return model.Cursor{Timestamp: parseInt64(ts), Uuid: uuid}, nil
}

// PutCursor advances the resync cursor.
func (t *SyncTx) PutCursor(cursor model.Cursor) error {
	if err := t.setProfile(keyCursorTimestamp, fmt.Sprintf("%d", cursor.Timestamp)); err != nil {
		return err
	}
	return t.setProfile(keyCursorUuid, cursor.Uuid)
}

// GetPrestige loads (prestige count, xp baseline).
func (t *SyncTx) GetPrestige() (int, int, error) {
	count, err := t.getProfile(keyPrestigeCount)
	if err != nil {
		return 0, 0, err
	}
	baseline, err := t.getProfile(keyXPBaseline)
	if err != nil {
		return 0, 0, err
	}
	return int(parseInt64(count)), int(parseInt64(baseline)), nil
}

// PutPrestige stores (prestige count, xp baseline).
func (t *SyncTx) PutPrestige(count, baseline int) error {
	if err := t.setProfile(keyPrestigeCount, fmt.Sprintf("%d", count)); err != nil {
		return err
	}
	return t.setProfile(keyXPBaseline, fmt.Sprintf("%d", baseline))
}

func (t *SyncTx) getProfile(key string) (string, error) {
	var value string
	err := t.tx.QueryRow(`SELECT value FROM profile WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (t *SyncTx) setProfile(key, value string) error {
	_, err := t.tx.Exec(
		`INSERT INTO profile (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// ClearDerivedState drops everything a full rebuild recomputes: aggregates,
// ledger, streak, totals, projects, and the cursor. Achievement unlocks and
// prestige survive; both are monotone by contract.
func (t *SyncTx) ClearDerivedState() error {
	stmts := []string{
		`DELETE FROM daily_aggregates`,
		`DELETE FROM xp_ledger`,
		`DELETE FROM streak_state`,
		`DELETE FROM totals`,
		`DELETE FROM projects`,
		`DELETE FROM profile WHERE key IN (?, ?)`,
	}
	for _, stmt := range stmts[:5] {
		if _, err := t.tx.Exec(stmt); err != nil {
			return err
		}
	}
	_, err := t.tx.Exec(stmts[5], keyCursorTimestamp, keyCursorUuid)
	return err
}
