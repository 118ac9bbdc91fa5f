package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"AlphaWatcher/internal/ports"
)

const seenSchema = `CREATE TABLE IF NOT EXISTS seen_announcements (
	id TEXT PRIMARY KEY,
	first_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps the seen set in an embedded sqlite database.
// Rows are only ever inserted, never removed, so a persisted snapshot
// is always a superset of what was loaded.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.SeenStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (and if needed initializes) the database file.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(seenSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns every recorded id.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]struct{}, error) {
	query, args, err := sq.Select("id").From("seen_announcements").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}
	defer rows.Close()

	seen := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		seen[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return seen, nil
}

// Persist inserts any not-yet-recorded ids in one transaction.
func (s *SQLiteStore) Persist(ctx context.Context, seen map[string]struct{}) error {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	for _, id := range ids {
		query, args, err := sq.Insert("seen_announcements").
			Columns("id").
			Values(id).
			Suffix("ON CONFLICT(id) DO NOTHING").
			ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
