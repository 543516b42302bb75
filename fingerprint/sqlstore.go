package fingerprint

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schemaforge/schemaforge/schema"
)

// DefaultTable is the physical fingerprint table name.
const DefaultTable = "_schemaforge_fingerprints"

// SQLStore persists fingerprint records in a table of the target database
// itself. One physical table serves any number of owners.
type SQLStore struct {
	db       *sql.DB
	provider string
	table    string
}

// NewSQLStore creates a store for the given provider ("postgres",
// "postgresql", "mysql" or "sqlite").
func NewSQLStore(db *sql.DB, provider string) *SQLStore {
	return &SQLStore{db: db, provider: provider, table: DefaultTable}
}

func (s *SQLStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create fingerprint table: %w", err)
	}
	return nil
}

func (s *SQLStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.existsSQL(), s.table).Scan(&n)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe fingerprint table: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) List(ctx context.Context, owner string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, s.listSQL(), owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprints: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r    Record
			kind string
		)
		if err := rows.Scan(&r.ID, &r.Key.Name, &kind, &r.Hash, &r.Owner, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		switch kind {
		case "index":
			r.Key.Kind = schema.KindIndex
		default:
			r.Key.Kind = schema.KindTable
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLStore) Upsert(ctx context.Context, owner string, key schema.ObjectKey, hash string) error {
	_, err := s.db.ExecContext(ctx, s.upsertSQL(), owner, key.Name, key.Kind.String(), hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert fingerprint for %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, owner string, key schema.ObjectKey) error {
	_, err := s.db.ExecContext(ctx, s.deleteSQL(), owner, key.Name, key.Kind.String())
	if err != nil {
		return fmt.Errorf("failed to delete fingerprint for %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) createTableSQL() string {
	switch s.provider {
	case "postgresql", "postgres":
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id SERIAL PRIMARY KEY,
				object_name VARCHAR(255) NOT NULL,
				object_kind VARCHAR(16) NOT NULL,
				hash VARCHAR(64) NOT NULL,
				owner VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (owner, object_name, object_kind)
			)
		`, s.table)
	case "mysql":
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INT AUTO_INCREMENT PRIMARY KEY,
				object_name VARCHAR(255) NOT NULL,
				object_kind VARCHAR(16) NOT NULL,
				hash VARCHAR(64) NOT NULL,
				owner VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE KEY uq_owner_object (owner, object_name, object_kind)
			)
		`, s.table)
	default: // sqlite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				object_name TEXT NOT NULL,
				object_kind TEXT NOT NULL,
				hash TEXT NOT NULL,
				owner TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (owner, object_name, object_kind)
			)
		`, s.table)
	}
}

func (s *SQLStore) existsSQL() string {
	switch s.provider {
	case "postgresql", "postgres":
		return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	case "mysql":
		return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	default:
		return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	}
}

func (s *SQLStore) listSQL() string {
	q := `SELECT id, object_name, object_kind, hash, owner, created_at FROM %s WHERE owner = %s ORDER BY id ASC`
	switch s.provider {
	case "postgresql", "postgres":
		return fmt.Sprintf(q, s.table, "$1")
	default:
		return fmt.Sprintf(q, s.table, "?")
	}
}

func (s *SQLStore) upsertSQL() string {
	switch s.provider {
	case "postgresql", "postgres":
		return fmt.Sprintf(`
			INSERT INTO %s (owner, object_name, object_kind, hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (owner, object_name, object_kind)
			DO UPDATE SET hash = EXCLUDED.hash, created_at = EXCLUDED.created_at
		`, s.table)
	case "mysql":
		return fmt.Sprintf(`
			INSERT INTO %s (owner, object_name, object_kind, hash, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE hash = VALUES(hash), created_at = VALUES(created_at)
		`, s.table)
	default:
		return fmt.Sprintf(`
			INSERT INTO %s (owner, object_name, object_kind, hash, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (owner, object_name, object_kind)
			DO UPDATE SET hash = excluded.hash, created_at = excluded.created_at
		`, s.table)
	}
}

func (s *SQLStore) deleteSQL() string {
	q := `DELETE FROM %s WHERE owner = %s AND object_name = %s AND object_kind = %s`
	switch s.provider {
	case "postgresql", "postgres":
		return fmt.Sprintf(q, s.table, "$1", "$2", "$3")
	default:
		return fmt.Sprintf(q, s.table, "?", "?", "?")
	}
}
