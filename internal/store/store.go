// Package store persists collected calls in SQLite, keyed by the
// sha256 of the call URL so that repeated runs converge on one row per
// announcement.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"callwatch/internal/call"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id                TEXT PRIMARY KEY,
	source            TEXT NOT NULL,
	title             TEXT NOT NULL,
	url               TEXT NOT NULL,
	snippet           TEXT,
	detected_deadline TEXT,
	detected_language TEXT,
	detected_status   TEXT,
	fetched_at        TEXT NOT NULL,
	first_seen_at     TEXT NOT NULL
);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ComputeID returns the stable identity of a call: the hex sha256 of
// its URL.
func ComputeID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Upsert writes the candidates into the database within one
// transaction. A candidate whose URL is already present updates every
// descriptive column but keeps the original first_seen_at; a new URL is
// inserted with first_seen_at = now. Returns the number of newly
// inserted rows.
func (s *Store) Upsert(candidates []call.Call, now time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	nowText := now.UTC().Format(time.RFC3339)
	inserted := 0

	for _, c := range candidates {
		id := ComputeID(c.URL)

		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM calls WHERE id = ?", id).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check existing row: %w", err)
		}

		if exists > 0 {
			_, err = tx.Exec(`
				UPDATE calls
				SET source = ?, title = ?, url = ?, snippet = ?,
				    detected_deadline = ?, detected_language = ?,
				    detected_status = ?, fetched_at = ?
				WHERE id = ?`,
				c.Source, c.Title, c.URL, c.Snippet,
				nullable(c.DetectedDeadline), c.DetectedLanguage,
				c.DetectedStatus, c.FetchedAt.UTC().Format(time.RFC3339), id)
			if err != nil {
				return 0, fmt.Errorf("update row: %w", err)
			}
			continue
		}

		_, err = tx.Exec(`
			INSERT INTO calls (id, source, title, url, snippet,
				detected_deadline, detected_language, detected_status,
				fetched_at, first_seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.Source, c.Title, c.URL, c.Snippet,
			nullable(c.DetectedDeadline), c.DetectedLanguage,
			c.DetectedStatus, c.FetchedAt.UTC().Format(time.RFC3339), nowText)
		if err != nil {
			return 0, fmt.Errorf("insert row: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

// Cleanup deletes rows whose first_seen_at is older than keepDays
// before now and returns how many were removed.
func (s *Store) Cleanup(keepDays int, now time.Time) (int, error) {
	cutoff := now.UTC().AddDate(0, 0, -keepDays).Format(time.RFC3339)
	res, err := s.db.Exec("DELETE FROM calls WHERE first_seen_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted rows: %w", err)
	}
	return int(n), nil
}

// Snapshot returns every stored call ordered with the nearest deadline
// first (missing deadlines last), newest discovery breaking ties, id as
// the final tiebreak for a stable order.
func (s *Store) Snapshot() ([]call.Stored, error) {
	rows, err := s.db.Query(`
		SELECT id, source, title, url, snippet,
		       detected_deadline, detected_language, detected_status,
		       fetched_at, first_seen_at
		FROM calls
		ORDER BY COALESCE(detected_deadline, '9999-12-31') ASC,
		         first_seen_at DESC,
		         id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var out []call.Stored
	for rows.Next() {
		var (
			st                   call.Stored
			deadline             sql.NullString
			fetchedAt, firstSeen string
		)
		err := rows.Scan(&st.ID, &st.Source, &st.Title, &st.URL, &st.Snippet,
			&deadline, &st.DetectedLanguage, &st.DetectedStatus,
			&fetchedAt, &firstSeen)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		st.DetectedDeadline = deadline.String
		if st.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
			return nil, fmt.Errorf("parse fetched_at: %w", err)
		}
		if st.FirstSeenAt, err = time.Parse(time.RFC3339, firstSeen); err != nil {
			return nil, fmt.Errorf("parse first_seen_at: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// nullable maps the empty string to SQL NULL so COALESCE-based ordering
// sees missing deadlines as absent.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
