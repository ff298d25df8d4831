// Package backup exports the clinic database into single-file SQLite
// snapshots kept in the blob store, and restores from them.
package backup

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Tables lists the exported tables in foreign-key order: parents before
// children. Restore inserts in this order and deletes in reverse.
var Tables = []string{"users", "patients", "inventory", "visits", "prescriptions", "finance"}

// Record is one exported row: its primary key and the row as JSON.
type Record struct {
	ID      int64
	Payload string
}

// snapshotFile is the on-disk format: one SQLite database with a single
// records table holding every row of every exported table as JSON.
type snapshotFile struct {
	db *sql.DB
}

func createSnapshot(path string) (*snapshotFile, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE records (
		tbl TEXT NOT NULL,
		id INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (tbl, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &snapshotFile{db: db}, nil
}

func openSnapshot(path string) (*snapshotFile, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'records'`).Scan(&name)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("not a clinic snapshot: %w", err)
	}
	return &snapshotFile{db: db}, nil
}

func (f *snapshotFile) Close() error {
	return f.db.Close()
}

func (f *snapshotFile) Add(table string, rec Record) error {
	_, err := f.db.Exec(`INSERT INTO records (tbl, id, payload) VALUES (?, ?, ?)`,
		table, rec.ID, rec.Payload)
	return err
}

func (f *snapshotFile) Records(table string) ([]Record, error) {
	rows, err := f.db.Query(`SELECT id, payload FROM records WHERE tbl = ? ORDER BY id`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Payload); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
