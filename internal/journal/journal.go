package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one completed reconciliation run as recorded in the journal.
type Entry struct {
	ID        int64
	Time      time.Time
	Account   string
	Name      string
	CIDRBlock string
	State     string
	DryRun    bool
	Changed   bool
	VPCID     string
	Error     string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	ts         TEXT NOT NULL,
	account    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	cidr_block TEXT NOT NULL,
	state      TEXT NOT NULL,
	dry_run    INTEGER NOT NULL,
	changed    INTEGER NOT NULL,
	vpc_id     TEXT NOT NULL DEFAULT '',
	error      TEXT NOT NULL DEFAULT ''
)`

// Journal is an append-only local record of reconciliation runs. It is a
// diagnostic aid only; the reconciler never reads it back to make decisions.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one run. The entry time defaults to now if unset.
func (j *Journal) Append(e Entry) error {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := j.db.Exec(
		`INSERT INTO runs (ts, account, name, cidr_block, state, dry_run, changed, vpc_id, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(time.RFC3339), e.Account, e.Name, e.CIDRBlock, e.State,
		e.DryRun, e.Changed, e.VPCID, e.Error,
	)
	if err != nil {
		return fmt.Errorf("appending journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, ts, account, name, cidr_block, state, dry_run, changed, vpc_id, error
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Account, &e.Name, &e.CIDRBlock, &e.State, &e.DryRun, &e.Changed, &e.VPCID, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Time = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
