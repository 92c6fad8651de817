package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

// ApplyMigrations executes the dialect's embedded *.sql files in name order,
// each at most once, recording applied files in schema_migrations.
func ApplyMigrations(ctx context.Context, db *sql.DB, dialect string, migrationFS fs.FS) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}
	entries, err := fs.ReadDir(migrationFS, dialect)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	ledger := `CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
  name       VARCHAR(191) PRIMARY KEY,
  applied_at BIGINT NOT NULL
)`
	if _, err := db.ExecContext(ctx, ledger); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range files {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}
		content, err := fs.ReadFile(migrationFS, path.Join(dialect, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		// MySQL commits DDL implicitly, so statements run outside a transaction
		// and rely on IF NOT EXISTS for re-runs.
		for _, stmt := range splitStatements(ExtractUpMigration(string(content))) {
			if _, err := db.ExecContext(ctx, stmt); err != nil && !isAlreadyExists(err) {
				return fmt.Errorf("exec migration %s: %w", name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			name, toMillis(time.Now()),
		); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// splitStatements cuts on semicolons that end a line; the migrations never
// embed semicolons inside literals.
func splitStatements(sqlText string) []string {
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			out = append(out, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isAlreadyExists(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AppliedMigration is one row of the migration ledger.
type AppliedMigration struct {
	Name      string
	AppliedAt time.Time
}

// Migrations lists the applied migrations in name order.
func (s *Store) Migrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, applied_at FROM "+migrationTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	out := []AppliedMigration{}
	for rows.Next() {
		var m AppliedMigration
		var at int64
		if err := rows.Scan(&m.Name, &at); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		m.AppliedAt = fromMillis(at)
		out = append(out, m)
	}
	return out, rows.Err()
}
