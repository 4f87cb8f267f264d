// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database: it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. It is the
// default backend, and every handler/service test runs against ":memory:".
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code, no C compiler needed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/repository"
)

// compile-time check that *DB satisfies the combined store contract
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database and runs migrations.
//
// dbPath examples:
//   - "data/jobs.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests, lost on close)
//
// PER-CONNECTION PRAGMAS:
// foreign_keys is a per-connection setting in SQLite. Setting it with a
// one-off Exec only affects whichever pooled connection ran it, so we pass it
// through the DSN instead; the driver applies DSN pragmas to every new
// connection.
func New(dbPath string) (*DB, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate, empty database.
	// Pin the pool to one connection so all queries see the same tables.
	if strings.HasPrefix(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads WHILE a write is happening.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every start.
// The UNIQUE constraint on users.email is what turns a second registration
// with the same address into a duplicate-key error.
func (db *DB) migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id         TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			company    TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending'
			           CHECK (status IN ('interview', 'pending', 'declined')),
			created_by TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_created_by ON jobs(created_by, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	return nil
}

// uniqueColumns pulls "users.email" out of
// "constraint failed: UNIQUE constraint failed: users.email (2067)".
var uniqueColumns = regexp.MustCompile(`UNIQUE constraint failed: ([^()]+)`)

// translateError converts driver errors into application errors.
// Anything it does not recognise is returned unchanged.
func translateError(err error) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return err
	}

	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return apperror.DuplicateKey(duplicateFields(sqlErr.Error())...)
	}
	return err
}

func duplicateFields(msg string) []string {
	m := uniqueColumns.FindStringSubmatch(msg)
	if m == nil {
		return []string{"unknown"}
	}

	var fields []string
	for _, col := range strings.Split(m[1], ",") {
		col = strings.TrimSpace(col)
		if i := strings.LastIndex(col, "."); i >= 0 {
			col = col[i+1:]
		}
		if col != "" {
			fields = append(fields, col)
		}
	}
	return fields
}
