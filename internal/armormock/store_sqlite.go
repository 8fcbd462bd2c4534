package armormock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists mock resources in SQLite, so a standalone armormock
// keeps its templates across restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and prepares the
// schema. WAL mode allows concurrent reads while writing.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite serializes writes; a single connection avoids lock contention.
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore creates the resources table if needed.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS resources (
			name TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			data BLOB NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create inserts a new resource.
func (s *SQLiteStore) Create(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (name, created_at, data) VALUES (?, ?, ?)
	`, name, time.Now().Unix(), data)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// Put inserts or replaces a resource.
func (s *SQLiteStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (name, created_at, data) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data
	`, name, time.Now().Unix(), data)
	if err != nil {
		return fmt.Errorf("upsert resource: %w", err)
	}
	return nil
}

// Get returns a resource document by name.
func (s *SQLiteStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM resources WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query resource: %w", err)
	}
	return data, nil
}

// List returns resources under prefix ordered by name, after the cursor.
func (s *SQLiteStore) List(ctx context.Context, prefix string, limit int, after string) ([]Resource, error) {
	limit = normalizeLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, data
		FROM resources
		WHERE name LIKE ? ESCAPE '\' AND name > ?
		ORDER BY name
		LIMIT ?
	`, escapeLike(prefix)+"%", after, limit)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	items := make([]Resource, 0, limit)
	for rows.Next() {
		var r Resource
		if err := rows.Scan(&r.Name, &r.Data); err != nil {
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource rows: %w", err)
	}

	return items, nil
}

// Delete removes a resource by name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM resources WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation detects primary-key conflicts without depending on
// driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// escapeLike escapes LIKE wildcards in a resource-name prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
