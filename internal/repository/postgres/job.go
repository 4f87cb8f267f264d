package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/xid"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

const jobColumns = `id, role, company, status, created_by, created_at, updated_at`

var errZeroScope = errors.New("postgres: job query without an owner scope")

func checkJobID(id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.Cast("id", id)
	}
	return nil
}

func jobNotFound(id string) error {
	return apperror.NotFound(fmt.Sprintf("No job with id %s", id))
}

// ListJobs returns the owner's jobs, oldest first. seq breaks ties between
// rows that share a created_at.
func (s *Store) ListJobs(ctx context.Context, scope repository.OwnerScope) ([]model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE created_by = $1 ORDER BY created_at ASC, seq ASC`,
		scope.OwnerID(),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetJob fetches one job by (id, owner).
func (s *Store) GetJob(ctx context.Context, scope repository.OwnerScope, id string) (*model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}
	if err := checkJobID(id); err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND created_by = $2`,
		id, scope.OwnerID(),
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("postgres: get job %s: %w", id, err)
	}
	return job, nil
}

// CreateJob inserts a job owned by the scope's owner.
func (s *Store) CreateJob(ctx context.Context, scope repository.OwnerScope, job *model.Job) error {
	if scope.IsZero() {
		return errZeroScope
	}

	now := time.Now().UTC()
	job.ID = xid.New().String()
	job.CreatedBy = scope.OwnerID()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.Role, job.Company, string(job.Status), job.CreatedBy, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert job: %w", translateError(err))
	}
	return nil
}

// UpdateJob merges patch into the stored job in one statement; a nil patch
// field binds NULL and COALESCE keeps the current column value.
func (s *Store) UpdateJob(ctx context.Context, scope repository.OwnerScope, id string, patch model.JobPatch) (*model.Job, error) {
	if scope.IsZero() {
		return nil, errZeroScope
	}
	if err := checkJobID(id); err != nil {
		return nil, err
	}

	var status *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET role       = COALESCE($1, role),
		     company    = COALESCE($2, company),
		     status     = COALESCE($3, status),
		     updated_at = $4
		 WHERE id = $5 AND created_by = $6
		 RETURNING `+jobColumns,
		patch.Role, patch.Company, status, time.Now().UTC(), id, scope.OwnerID(),
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("postgres: update job %s: %w", id, translateError(err))
	}
	return job, nil
}

// DeleteJob removes a job by (id, owner).
func (s *Store) DeleteJob(ctx context.Context, scope repository.OwnerScope, id string) error {
	if scope.IsZero() {
		return errZeroScope
	}
	if err := checkJobID(id); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND created_by = $2`, id, scope.OwnerID())
	if err != nil {
		return fmt.Errorf("postgres: delete job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return jobNotFound(id)
	}
	return nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job    model.Job
		status string
	)
	if err := row.Scan(&job.ID, &job.Role, &job.Company, &status, &job.CreatedBy, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	job.Status = model.Status(status)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return &job, nil
}
