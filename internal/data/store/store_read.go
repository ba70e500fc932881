package store

import (
	"database/sql"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/model"
)

// Read-side queries. These run outside the sync transaction; WAL mode gives
// them a consistent snapshot while a sync is in flight.

// Streak returns the persisted streak state, zero-valued when absent.
func (s *Store) Streak() (model.StreakState, error) {
	return scanStreak(s.db.QueryRow(`SELECT data FROM streak_state WHERE id = 1`))
}

// Totals returns the persisted cumulative totals, zero-valued when absent.
func (s *Store) Totals() (model.CumulativeTotals, error) {
	return scanTotals(s.db.QueryRow(`SELECT data FROM totals WHERE id = 1`))
}

// Unlocks returns all achievement unlocks as id -> unlock date.
func (s *Store) Unlocks() (map[string]string, error) {
	return scanUnlocks(s.db.Query(`SELECT id, unlocked_at FROM achievements`))
}

// Cursor returns the resync cursor.
func (s *Store) Cursor() (model.Cursor, error) {
	ts, err := s.profileValue(keyCursorTimestamp)
	if err != nil {
		return model.Cursor{}, err
	}
	uuid, err := s.profileValue(keyCursorUuid)
	if err != nil {
		return model.Cursor{}, err
	}
	return model.Cursor{Timestamp: parseInt64(ts), Uuid: uuid}, nil
}

// Prestige returns (prestige count, xp baseline).
func (s *Store) Prestige() (int, int, error) {
	count, err := s.profileValue(keyPrestigeCount)
	if err != nil {
		return 0, 0, err
	}
	baseline, err := s.profileValue(keyXPBaseline)
	if err != nil {
		return 0, 0, err
	}
	return int(parseInt64(count)), int(parseInt64(baseline)), nil
}

// Aggregate returns one date's aggregate, or nil when absent.
func (s *Store) Aggregate(date string) (*model.DailyAggregate, error) {
	return scanAggregate(s.db.QueryRow(`SELECT data FROM daily_aggregates WHERE date = ?`, date))
}

// AggregateRange returns aggregates for dates in [start, end], ordered by date.
func (s *Store) AggregateRange(start, end string) ([]*model.DailyAggregate, error) {
	rows, err := s.db.Query(
		`SELECT data FROM daily_aggregates WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []*model.DailyAggregate
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var agg model.DailyAggregate
		if err := sonic.Unmarshal([]byte(data), &agg); err != nil {
			return nil, errs.Corruptionf("undecodable aggregate row: %v", err)
		}
		aggregates = append(aggregates, &agg)
	}
	return aggregates, rows.Err()
}

// LedgerRange returns ledger entries for dates in [start, end], ordered by date.
func (s *Store) LedgerRange(start, end string) ([]*model.XPLedgerEntry, error) {
	rows, err := s.db.Query(
		`SELECT date, raw_xp, capped_xp, multiplier, final_xp, breakdown
		 FROM xp_ledger WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.XPLedgerEntry
	for rows.Next() {
		entry, err := scanLedgerRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CheckInvariants verifies the persisted invariants a sync depends on.
// A violation is state corruption: the caller must rebuild before syncing.
func (s *Store) CheckInvariants() error {
	streak, err := s.Streak()
	if err != nil {
		return err
	}
	if !streak.Valid() {
		return errs.Corruptionf("streak state invalid: current=%d longest=%d freezes=%d",
			streak.CurrentStreak, streak.LongestStreak, streak.FreezesAvailable)
	}

	totals, err := s.Totals()
	if err != nil {
		return err
	}
	if totals.TotalXP < 0 || totals.TotalSessions < 0 {
		return errs.Corruptionf("negative cumulative totals")
	}

	// Every ledger date must have a backing aggregate.
	var orphans int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM xp_ledger l LEFT JOIN daily_aggregates a ON l.date = a.date WHERE a.date IS NULL`,
	).Scan(&orphans)
	if err != nil {
		return err
	}
	if orphans > 0 {
		return errs.Corruptionf("%d ledger entries without a daily aggregate", orphans)
	}
	return nil
}

func (s *Store) profileValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM profile WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// ---------------------------------------------------------------------------
// Row scanning helpers shared by Store and SyncTx
// ---------------------------------------------------------------------------

func scanAggregate(row *sql.Row) (*model.DailyAggregate, error) {
	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var agg model.DailyAggregate
	if err := sonic.Unmarshal([]byte(data), &agg); err != nil {
		return nil, errs.Corruptionf("undecodable aggregate row: %v", err)
	}
	return &agg, nil
}

func scanLedgerEntry(row *sql.Row) (*model.XPLedgerEntry, error) {
	var entry model.XPLedgerEntry
	var breakdown string
	err := row.Scan(&entry.Date, &entry.RawXP, &entry.CappedXP, &entry.Multiplier, &entry.FinalXP, &breakdown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := sonic.Unmarshal([]byte(breakdown), &entry.Breakdown); err != nil {
		return nil, errs.Corruptionf("undecodable ledger breakdown for %s: %v", entry.Date, err)
	}
	return &entry, nil
}

func scanLedgerRow(rows *sql.Rows) (*model.XPLedgerEntry, error) {
	var entry model.XPLedgerEntry
	var breakdown string
	if err := rows.Scan(&entry.Date, &entry.RawXP, &entry.CappedXP, &entry.Multiplier, &entry.FinalXP, &breakdown); err != nil {
		return nil, err
	}
	if err := sonic.Unmarshal([]byte(breakdown), &entry.Breakdown); err != nil {
		return nil, errs.Corruptionf("undecodable ledger breakdown for %s: %v", entry.Date, err)
	}
	return &entry, nil
}

func scanStreak(row *sql.Row) (model.StreakState, error) {
	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return model.NewStreakState(), nil
	}
	if err != nil {
		return model.StreakState{}, err
	}
	var state model.StreakState
	if err := sonic.Unmarshal([]byte(data), &state); err != nil {
		return model.StreakState{}, errs.Corruptionf("undecodable streak state: %v", err)
	}
	return state, nil
}

func scanTotals(row *sql.Row) (model.CumulativeTotals, error) {
	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return model.CumulativeTotals{}, nil
	}
	if err != nil {
		return model.CumulativeTotals{}, err
	}
	var totals model.CumulativeTotals
	if err := sonic.Unmarshal([]byte(data), &totals); err != nil {
		return model.CumulativeTotals{}, errs.Corruptionf("undecodable totals: %v", err)
	}
	return totals, nil
}

func scanUnlocks(rows *sql.Rows, err error) (map[string]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocks := make(map[string]string)
	for rows.Next() {
		var id, unlockedAt string
		if err := rows.Scan(&id, &unlockedAt); err != nil {
			return nil, err
		}
		unlocks[id] = unlockedAt
	}
	return unlocks, rows.Err()
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
