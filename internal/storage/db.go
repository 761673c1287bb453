package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"dropdex/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS datasets (
  name TEXT PRIMARY KEY,
  body BLOB NOT NULL,
  sourceUrl TEXT,
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  command TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS unresolved (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  name TEXT NOT NULL,
  sourceLabel TEXT,
  section TEXT,
  reason TEXT NOT NULL,
  suggestion TEXT,
  suggestionDistance INTEGER,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_unresolved_trace ON unresolved(traceId);
CREATE INDEX IF NOT EXISTS idx_unresolved_reason ON unresolved(reason);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) PutDataset(name string, body []byte, sourceURL string) error {
	_, err := d.conn.Exec(`
INSERT INTO datasets (name, body, sourceUrl, fetchedAt) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, sourceUrl = excluded.sourceUrl, fetchedAt = CURRENT_TIMESTAMP
`, name, body, sourceURL)
	return err
}

// Dataset is one raw dataset body for batch persistence.
type Dataset struct {
	Name      string
	Body      []byte
	SourceURL string
}

// PutDatasets upserts a batch in one transaction: either every body lands in
// the cache or none does.
func (d *DB) PutDatasets(datasets []Dataset) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO datasets (name, body, sourceUrl, fetchedAt) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, sourceUrl = excluded.sourceUrl, fetchedAt = CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ds := range datasets {
		if _, err := stmt.Exec(ds.Name, ds.Body, ds.SourceURL); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDataset returns the cached body, or nil when the dataset was never
// fetched.
func (d *DB) GetDataset(name string) ([]byte, error) {
	var body []byte
	err := d.conn.QueryRow(`SELECT body FROM datasets WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (d *DB) ListDatasets() ([]string, error) {
	rows, err := d.conn.Query(`SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID, command string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, command, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, command, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) InsertUnresolved(traceID string, records []internal.UnresolvedRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO unresolved (traceId, name, sourceLabel, section, reason, suggestion, suggestionDistance)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		var suggestion *string
		var distance *int
		if rec.Suggestion != "" {
			suggestion = internal.StringPtr(rec.Suggestion)
			distance = internal.IntPtr(rec.SuggestionDistance)
		}
		if _, err := stmt.Exec(traceID, rec.Name, nullable(rec.SourceLabel), nullable(rec.Section), string(rec.Reason), suggestion, distance); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListUnresolved(traceID string) ([]internal.UnresolvedRecord, error) {
	rows, err := d.conn.Query(`
SELECT name, sourceLabel, section, reason, suggestion, suggestionDistance
FROM unresolved WHERE traceId = ? ORDER BY name, section
`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.UnresolvedRecord
	for rows.Next() {
		var rec internal.UnresolvedRecord
		var sourceLabel, section, suggestion sql.NullString
		var distance sql.NullInt64
		if err := rows.Scan(&rec.Name, &sourceLabel, &section, &rec.Reason, &suggestion, &distance); err != nil {
			return nil, err
		}
		rec.SourceLabel = sourceLabel.String
		rec.Section = section.String
		rec.Suggestion = suggestion.String
		rec.SuggestionDistance = int(distance.Int64)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
