// Package handler turns HTTP requests into service calls and service results
// into JSON.
//
// Handlers return errors instead of writing them. httpx.Handle routes every
// returned error to the one error boundary, so no handler decides a failure
// status on its own.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/auth"
	"github.com/sakif/jobs-api/internal/httpx"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/service"
)

// JobService is the job behaviour the handlers need.
type JobService interface {
	List(ctx context.Context, ownerID string) ([]model.Job, error)
	Get(ctx context.Context, ownerID, id string) (*model.Job, error)
	Create(ctx context.Context, ownerID string, in service.CreateJobInput) (*model.Job, error)
	Update(ctx context.Context, ownerID, id string, patch model.JobPatch) (*model.Job, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// JobHandler serves /api/v1/jobs. Every route sits behind auth.RequireAuth.
type JobHandler struct {
	jobs   JobService
	logger *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

// Routes mounts the job endpoints on r.
func (h *JobHandler) Routes(r chi.Router) {
	r.Get("/", httpx.Handle(h.logger, h.List))
	r.Post("/", httpx.Handle(h.logger, h.Create))
	r.Get("/{id}", httpx.Handle(h.logger, h.Get))
	r.Patch("/{id}", httpx.Handle(h.logger, h.Update))
	r.Delete("/{id}", httpx.Handle(h.logger, h.Delete))
}

// callerID reads the authenticated user's id placed by RequireAuth.
func callerID(r *http.Request) (string, error) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		return "", apperror.Unauthenticated("Authentication invalid")
	}
	return caller.ID, nil
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := callerID(r)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.List(r.Context(), ownerID)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, jobsResponse{Jobs: jobs, NumOfJobs: len(jobs)})
	return nil
}

// Get handles GET /api/v1/jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := callerID(r)
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, jobResponse{Job: job})
	return nil
}

// Create handles POST /api/v1/jobs. A "createdBy" in the body is ignored.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := callerID(r)
	if err != nil {
		return err
	}

	var in service.CreateJobInput
	if err := httpx.Decode(w, r, &in); err != nil {
		return err
	}

	job, err := h.jobs.Create(r.Context(), ownerID, in)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, jobResponse{Job: job})
	return nil
}

// Update handles PATCH /api/v1/jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := callerID(r)
	if err != nil {
		return err
	}

	var patch model.JobPatch
	if err := httpx.Decode(w, r, &patch); err != nil {
		return err
	}

	job, err := h.jobs.Update(r.Context(), ownerID, chi.URLParam(r, "id"), patch)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, updatedJobResponse{UpdatedJob: job})
	return nil
}

// Delete handles DELETE /api/v1/jobs/{id}. Success has no body.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := callerID(r)
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, nil)
	return nil
}
