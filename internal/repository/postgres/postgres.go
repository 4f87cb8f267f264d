// Package postgres implements the repository interfaces on PostgreSQL using
// a pgx connection pool. The schema lives in migrations/ and is applied with
// goose when the store opens.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/repository"
	"github.com/sakif/jobs-api/internal/repository/postgres/migrations"
)

var _ repository.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and jobs.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and migrates the schema to the latest version.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases the pool. It never fails; the error return satisfies
// repository.Store.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// gooseUp is swapped out in tests that must not reach a server.
var gooseUp = func(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := gooseUp(ctx, pool); err != nil {
		return fmt.Errorf("postgres: apply migrations: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

// keyColumns pulls "email" out of `Key (email)=(ana@example.com) already exists.`
var keyColumns = regexp.MustCompile(`Key \(([^)]+)\)=`)

// translateError maps Postgres error codes onto application errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == uniqueViolation {
		return apperror.DuplicateKey(uniqueFields(pgErr)...)
	}
	return err
}

func uniqueFields(pgErr *pgconn.PgError) []string {
	if pgErr.ColumnName != "" {
		return []string{pgErr.ColumnName}
	}
	if m := keyColumns.FindStringSubmatch(pgErr.Detail); m != nil {
		var fields []string
		for _, col := range strings.Split(m[1], ",") {
			if col = strings.TrimSpace(col); col != "" {
				fields = append(fields, col)
			}
		}
		return fields
	}
	// users_email_unique_idx → email
	if name := pgErr.ConstraintName; name != "" {
		name = strings.TrimSuffix(name, "_unique_idx")
		if i := strings.Index(name, "_"); i >= 0 {
			name = name[i+1:]
		}
		return []string{name}
	}
	return []string{"unknown"}
}
