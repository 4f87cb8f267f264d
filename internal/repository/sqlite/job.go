package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

const jobColumns = `id, role, company, status, created_by, created_at, updated_at`

var errZeroScope = errors.New("sqlite: job query without an owner scope")

// parseJobID checks that id has the shape of an xid before it reaches SQL.
//
// A malformed id could never match a row, but answering "not found with id
// ???" would hide a client bug. Reporting it as a cast failure lets the
// error boundary say exactly which value could not be used.
func parseJobID(id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.Cast("id", id)
	}
	return nil
}

func jobNotFound(id string) error {
	return apperror.NotFound(fmt.Sprintf("No job with id %s", id))
}

// ListJobs returns every job owned by the scope's owner, oldest first.
//
// ORDER BY created_at, rowid:
// Two jobs created within the same clock tick share a timestamp; rowid
// breaks the tie in insertion order so the listing is stable. Updates
// never touch created_at, so they never reorder the list.
func (db *DB) ListJobs(ctx context.Context, scope repository.OwnerScope) ([]model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE created_by = ?
		 ORDER BY created_at ASC, rowid ASC`,
		scope.OwnerID(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	// CRITICAL: always close rows when done!
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, nil
}

// GetJob fetches one job by (id, owner).
func (db *DB) GetJob(ctx context.Context, scope repository.OwnerScope, id string) (*model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}
	if err := parseJobID(id); err != nil {
		return nil, err
	}

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ? AND created_by = ?`,
		id, scope.OwnerID(),
	)
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}
	return job, nil
}

// CreateJob inserts a job owned by the scope's owner.
// Whatever CreatedBy the caller put on the struct is replaced.
func (db *DB) CreateJob(ctx context.Context, scope repository.OwnerScope, job *model.Job) error {
	if scope.IsZero() {
		return errZeroScope
	}

	now := time.Now().UTC()
	job.ID = xid.New().String()
	job.CreatedBy = scope.OwnerID()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Role,
		job.Company,
		string(job.Status),
		job.CreatedBy,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating job: %w", translateError(err))
	}
	return nil
}

// UpdateJob applies the patch in ONE statement.
//
// COALESCE(?, column) keeps the current value when the parameter is NULL,
// which is how an unset patch field is passed. RETURNING hands back the
// merged row, so there is no window between "find" and "replace" in which
// another request could delete or change the job.
func (db *DB) UpdateJob(ctx context.Context, scope repository.OwnerScope, id string, patch model.JobPatch) (*model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}
	if err := parseJobID(id); err != nil {
		return nil, err
	}

	var status any
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	row := db.conn.QueryRowContext(ctx,
		`UPDATE jobs
		 SET role       = COALESCE(?, role),
		     company    = COALESCE(?, company),
		     status     = COALESCE(?, status),
		     updated_at = ?
		 WHERE id = ? AND created_by = ?
		 RETURNING `+jobColumns,
		nullable(patch.Role),
		nullable(patch.Company),
		status,
		time.Now().UTC(),
		id,
		scope.OwnerID(),
	)
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("sqlite: updating job %s: %w", id, translateError(err))
	}
	return job, nil
}

// DeleteJob removes a job by (id, owner). RowsAffected == 0 means not found.
func (db *DB) DeleteJob(ctx context.Context, scope repository.OwnerScope, id string) error {
	if scope.IsZero() {
		return errZeroScope
	}
	if err := parseJobID(id); err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND created_by = ?`,
		id, scope.OwnerID(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return jobNotFound(id)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*model.Job, error) {
	var (
		job    model.Job
		status string
	)
	if err := s.Scan(
		&job.ID,
		&job.Role,
		&job.Company,
		&status,
		&job.CreatedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Status = model.Status(status)
	return &job, nil
}

// nullable turns a nil *string into SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
