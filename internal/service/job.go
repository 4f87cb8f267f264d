// Package service holds the business rules between the HTTP handlers and
// the repositories:
//
//	Handler (HTTP) → Service (rules) → Repository (storage)
//
// Services never see HTTP types. They return apperror values and let the
// error boundary choose status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

// JobService implements the owner-scoped job operations.
type JobService struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

// NewJobService creates a JobService.
func NewJobService(jobs repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, logger: logger}
}

// CreateJobInput is what a client may send when creating a job. Anything
// else in the request body, including an owner, is ignored.
type CreateJobInput struct {
	Role    string       `json:"role"`
	Company string       `json:"company"`
	Status  model.Status `json:"status"`
}

func scopeFor(ownerID string) (repository.OwnerScope, error) {
	scope, err := repository.NewOwnerScope(ownerID)
	if err != nil {
		// Only reachable when a route skipped the auth gate.
		return repository.OwnerScope{}, fmt.Errorf("service/job: %w", err)
	}
	return scope, nil
}

// List returns every job the owner created, oldest first.
func (s *JobService) List(ctx context.Context, ownerID string) ([]model.Job, error) {
	scope, err := scopeFor(ownerID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListJobs(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("service/job: listing jobs: %w", err)
	}
	return jobs, nil
}

// Get returns one of the owner's jobs. Someone else's job is NotFound.
func (s *JobService) Get(ctx context.Context, ownerID, id string) (*model.Job, error) {
	scope, err := scopeFor(ownerID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetJob(ctx, scope, id)
	if err != nil {
		return nil, fmt.Errorf("service/job: getting job %s: %w", id, err)
	}
	return job, nil
}

// Create validates and stores a new job owned by ownerID.
//
// The owner is stamped BEFORE validation, so "Please provide user" can only
// fire for a caller-less request and a client-supplied owner never survives.
func (s *JobService) Create(ctx context.Context, ownerID string, in CreateJobInput) (*model.Job, error) {
	scope, err := scopeFor(ownerID)
	if err != nil {
		return nil, err
	}

	job := &model.Job{
		Role:      strings.TrimSpace(in.Role),
		Company:   strings.TrimSpace(in.Company),
		Status:    in.Status,
		CreatedBy: ownerID,
	}
	if job.Status == "" {
		job.Status = model.StatusPending
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	if err := s.jobs.CreateJob(ctx, scope, job); err != nil {
		return nil, fmt.Errorf("service/job: creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.String("jobID", job.ID),
		slog.String("ownerID", ownerID),
	)
	return job, nil
}

// Update applies a partial change to one of the owner's jobs.
//
// Explicitly blanking role or company is refused up front with a domain
// error; every other field problem is a validation failure. An empty patch
// returns the job unchanged.
func (s *JobService) Update(ctx context.Context, ownerID, id string, patch model.JobPatch) (*model.Job, error) {
	scope, err := scopeFor(ownerID)
	if err != nil {
		return nil, err
	}

	patch.Normalize()
	if (patch.Role != nil && *patch.Role == "") || (patch.Company != nil && *patch.Company == "") {
		return nil, apperror.BadRequest("Role or Company fields cannot be empty")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return s.Get(ctx, ownerID, id)
	}

	job, err := s.jobs.UpdateJob(ctx, scope, id, patch)
	if err != nil {
		return nil, fmt.Errorf("service/job: updating job %s: %w", id, err)
	}

	s.logger.Info("job updated", slog.String("jobID", id), slog.String("ownerID", ownerID))
	return job, nil
}

// Delete permanently removes one of the owner's jobs.
func (s *JobService) Delete(ctx context.Context, ownerID, id string) error {
	scope, err := scopeFor(ownerID)
	if err != nil {
		return err
	}

	if err := s.jobs.DeleteJob(ctx, scope, id); err != nil {
		return fmt.Errorf("service/job: deleting job %s: %w", id, err)
	}

	s.logger.Info("job deleted", slog.String("jobID", id), slog.String("ownerID", ownerID))
	return nil
}
