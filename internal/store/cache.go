package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bugboard/internal/model"

	_ "modernc.org/sqlite"
)

// Cache is a local sqlite snapshot of the last fetched bug list, so the
// board renders instantly on startup and `bugboard board` works offline.
// It is never authoritative: the tracker is.
type Cache struct {
	// Dir is the cache directory; empty means the config dir.
	Dir string
}

func (c Cache) path() (string, error) {
	dir := c.Dir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	path, err := c.path()
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bugs (
			id INTEGER PRIMARY KEY,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
	}
	return nil
}

// SaveBugs replaces the cached snapshot with the given bug list.
func (c Cache) SaveBugs(ctx context.Context, bugs []model.Bug) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bugs`); err != nil {
		return err
	}
	for _, b := range bugs {
		payload, err := json.Marshal(b)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO bugs(id, payload) VALUES(?, ?)`,
			b.ID, string(payload)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta(k, v) VALUES('fetched_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadBugs returns the cached snapshot and when it was fetched. An empty
// cache yields an empty slice and a zero time, not an error.
func (c Cache) LoadBugs(ctx context.Context) ([]model.Bug, time.Time, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT payload FROM bugs ORDER BY id`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var bugs []model.Bug
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, time.Time{}, err
		}
		var b model.Bug
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			// A corrupt row degrades to "not cached" rather than making the
			// whole board unusable.
			continue
		}
		bugs = append(bugs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	var fetchedAt time.Time
	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'fetched_at'`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, time.Time{}, err
	default:
		if ts, perr := time.Parse(time.RFC3339, raw); perr == nil {
			fetchedAt = ts
		}
	}
	return bugs, fetchedAt, nil
}
