package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
)

func newTestJobService(t *testing.T) (*JobService, *fakeJobRepo) {
	t.Helper()
	repo := newFakeJobRepo()
	return NewJobService(repo, discardLogger()), repo
}

func ptr[T any](v T) *T { return &v }

// =========================================================================
// CREATE
// =========================================================================

func TestJobCreate_DefaultsAndOwner(t *testing.T) {
	svc, _ := newTestJobService(t)

	job, err := svc.Create(context.Background(), "user-1", CreateJobInput{Role: "  Engineer ", Company: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, "Engineer", job.Role)
	assert.Equal(t, model.StatusPending, job.Status)
	assert.Equal(t, "user-1", job.CreatedBy)
	assert.NotEmpty(t, job.ID)
}

func TestJobCreate_MissingFieldsNamesBoth(t *testing.T) {
	svc, repo := newTestJobService(t)

	_, err := svc.Create(context.Background(), "user-1", CreateJobInput{})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Please provide role,Please provide company", err.Error())
	assert.Empty(t, repo.jobs)
}

func TestJobCreate_InvalidStatus(t *testing.T) {
	svc, _ := newTestJobService(t)

	_, err := svc.Create(context.Background(), "user-1",
		CreateJobInput{Role: "Engineer", Company: "Acme", Status: "hired"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestJobCreate_NoOwner(t *testing.T) {
	svc, _ := newTestJobService(t)

	_, err := svc.Create(context.Background(), "", CreateJobInput{Role: "Engineer", Company: "Acme"})
	require.Error(t, err)
	_, isApp := apperror.As(err)
	assert.False(t, isApp, "a missing owner is an internal fault, not a client error")
}

// =========================================================================
// LIST / GET
// =========================================================================

func TestJobList_OnlyOwnJobs(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", CreateJobInput{Role: "B", Company: "Y"})
	require.NoError(t, err)

	jobs, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "A", jobs[0].Role)
}

func TestJobList_RepoError(t *testing.T) {
	svc, repo := newTestJobService(t)
	repo.listErr = errors.New("connection lost")

	_, err := svc.List(context.Background(), "user-1")
	assert.ErrorContains(t, err, "connection lost")
}

func TestJobGet_ForeignJobIsNotFound(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", job.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// UPDATE
// =========================================================================

func TestJobUpdate_PreservesUnsetStatus(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X", Status: model.StatusInterview})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "user-1", job.ID, model.JobPatch{Company: ptr("Globex")})
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Company)
	assert.Equal(t, model.StatusInterview, updated.Status)
}

func TestJobUpdate_OutOfEnumStatus(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-1", job.ID, model.JobPatch{Status: ptr(model.Status("hired"))})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "`hired` is not a valid status")
}

func TestJobUpdate_BlankRoleOrCompany(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	for _, patch := range []model.JobPatch{
		{Role: ptr("")},
		{Company: ptr("   ")},
	} {
		_, err := svc.Update(ctx, "user-1", job.ID, patch)
		require.ErrorIs(t, err, apperror.ErrBadRequest)
		assert.Equal(t, "Role or Company fields cannot be empty", err.Error())
	}
}

func TestJobUpdate_EmptyPatchReturnsCurrent(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, "user-1", job.ID, model.JobPatch{})
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "A", got.Role)
}

func TestJobUpdate_ForeignJobIsNotFound(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-2", job.ID, model.JobPatch{Role: ptr("B")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// DELETE
// =========================================================================

func TestJobDelete(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", CreateJobInput{Role: "A", Company: "X"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", job.ID), apperror.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "user-1", job.ID))

	_, err = svc.Get(ctx, "user-1", job.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
