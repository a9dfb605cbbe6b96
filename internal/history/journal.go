// Package history keeps a SQLite journal of profile save attempts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/mousetracks/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Journal wraps SQLite access for save records.
type Journal struct {
	db *sql.DB
}

// Summary aggregates the journal for one profile.
type Summary struct {
	Profile   string
	Saves     int
	Failures  int
	LastSaved time.Time
	LastTicks uint64
}

// Open opens or creates the journal database and applies migrations.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The engine is the only writer.
	db.SetMaxOpenConns(1)
	journal := &Journal{db: db}
	if err := journal.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return journal, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			reason TEXT NOT NULL,
			attempt INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			total_ticks INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			error TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_profile ON saves(profile, saved_at);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordSave stores one save attempt.
func (j *Journal) RecordSave(ctx context.Context, rec model.SaveRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO saves (profile, reason, attempt, saved_at, total_ticks, bytes, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Profile,
		rec.Reason,
		rec.Attempt,
		rec.SavedAt.UTC().Format(timeLayout),
		// SQLite integers are signed.
		int64(min(rec.TotalTicks, math.MaxInt64)),
		rec.Bytes,
		rec.Err,
	)
	if err != nil {
		return fmt.Errorf("insert save record: %w", err)
	}
	return nil
}

// ListSaves returns the most recent save attempts, newest first. An empty
// profile lists every profile; limit <= 0 means no limit.
func (j *Journal) ListSaves(ctx context.Context, profile string, limit int) ([]model.SaveRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if profile != "" {
		clauses = append(clauses, "profile = ?")
		args = append(args, profile)
	}
	query := fmt.Sprintf(`SELECT profile, reason, attempt, saved_at, total_ticks, bytes, error
		FROM saves
		WHERE %s
		ORDER BY saved_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SaveRecord
	for rows.Next() {
		var rec model.SaveRecord
		var savedAt string
		var ticks int64
		if err := rows.Scan(&rec.Profile, &rec.Reason, &rec.Attempt, &savedAt, &ticks, &rec.Bytes, &rec.Err); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, savedAt)
		if err != nil {
			return nil, err
		}
		rec.SavedAt = parsed
		rec.TotalTicks = uint64(ticks)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Summaries aggregates the journal per profile, ordered by profile name.
func (j *Journal) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT profile,
			SUM(CASE WHEN error = '' THEN 1 ELSE 0 END) AS saves,
			SUM(CASE WHEN error = '' THEN 0 ELSE 1 END) AS failures,
			COALESCE(MAX(CASE WHEN error = '' THEN saved_at END), '') AS last_saved,
			COALESCE(MAX(total_ticks), 0) AS last_ticks
		FROM saves
		GROUP BY profile
		ORDER BY profile ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []Summary
	for rows.Next() {
		var sum Summary
		var lastSaved string
		var ticks int64
		if err := rows.Scan(&sum.Profile, &sum.Saves, &sum.Failures, &lastSaved, &ticks); err != nil {
			return nil, err
		}
		if lastSaved != "" {
			parsed, err := time.Parse(timeLayout, lastSaved)
			if err != nil {
				return nil, err
			}
			sum.LastSaved = parsed
		}
		sum.LastTicks = uint64(ticks)
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Prune deletes records older than cutoff and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM saves WHERE saved_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune saves: %w", err)
	}
	return res.RowsAffected()
}
