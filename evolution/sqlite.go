package evolution

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS evolution_records (
	version     INTEGER PRIMARY KEY,
	created_at  TEXT NOT NULL,
	trigger_text TEXT NOT NULL,
	change_text  TEXT NOT NULL,
	success     INTEGER NOT NULL
);`

// SQLiteLedger is the durable Ledger implementation. Version assignment
// happens inside a transaction so concurrent appends never race to the
// same version.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (or creates) a SQLite-backed ledger at path.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

// Append implements Ledger.
func (l *SQLiteLedger) Append(ctx context.Context, trigger, change string, success bool) (Record, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM evolution_records`).Scan(&count); err != nil {
		return Record{}, err
	}

	rec := Record{
		Version:   count + 1,
		Timestamp: time.Now(),
		Trigger:   trigger,
		Change:    change,
		Success:   success,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO evolution_records (version, created_at, trigger_text, change_text, success) VALUES (?, ?, ?, ?, ?)`,
		rec.Version, rec.Timestamp.Format(time.RFC3339Nano), rec.Trigger, rec.Change, boolToInt(rec.Success))
	if err != nil {
		return Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Records implements Ledger.
func (l *SQLiteLedger) Records(ctx context.Context) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT version, created_at, trigger_text, change_text, success FROM evolution_records ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		var success int
		if err := rows.Scan(&rec.Version, &createdAt, &rec.Trigger, &rec.Change, &success); err != nil {
			return nil, err
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Len implements Ledger.
func (l *SQLiteLedger) Len(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evolution_records`).Scan(&count)
	return count, err
}

// Close releases the underlying database handle.
func (l *SQLiteLedger) Close() error { return l.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
