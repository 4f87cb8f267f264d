package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/service"
)

type fakeJobService struct {
	ownerID string
	created service.CreateJobInput
	patch   model.JobPatch
	err     error
}

func (f *fakeJobService) List(_ context.Context, ownerID string) ([]model.Job, error) {
	f.ownerID = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return []model.Job{{ID: "j1", CreatedBy: ownerID}, {ID: "j2", CreatedBy: ownerID}}, nil
}

func (f *fakeJobService) Get(_ context.Context, ownerID, id string) (*model.Job, error) {
	f.ownerID = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: id, CreatedBy: ownerID}, nil
}

func (f *fakeJobService) Create(_ context.Context, ownerID string, in service.CreateJobInput) (*model.Job, error) {
	f.ownerID = ownerID
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: "j1", Role: in.Role, Company: in.Company, Status: model.StatusPending, CreatedBy: ownerID}, nil
}

func (f *fakeJobService) Update(_ context.Context, ownerID, id string, patch model.JobPatch) (*model.Job, error) {
	f.ownerID = ownerID
	f.patch = patch
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: id, CreatedBy: ownerID}, nil
}

func (f *fakeJobService) Delete(_ context.Context, ownerID, id string) error {
	f.ownerID = ownerID
	return f.err
}

func newJobRouter(svc JobService, withCaller bool) *chi.Mux {
	r := chi.NewRouter()
	if withCaller {
		r.Use(passAuth)
	}
	NewJobHandler(svc, discardLogger()).Routes(r)
	return r
}

func TestJobList_Envelope(t *testing.T) {
	svc := &fakeJobService{}
	r := newJobRouter(svc, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["numOfJobs"])
	assert.Len(t, body["jobs"], 2)
	assert.Equal(t, "u1", svc.ownerID)
}

func TestJobCreate_PassesOnlyKnownFields(t *testing.T) {
	svc := &fakeJobService{}
	r := newJobRouter(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"role":"Engineer","company":"Acme","createdBy":"intruder"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	job := decodeBody(t, rec)["job"].(map[string]any)
	assert.Equal(t, "u1", job["createdBy"])
	assert.Equal(t, service.CreateJobInput{Role: "Engineer", Company: "Acme"}, svc.created)
}

func TestJobUpdate_DecodesPatch(t *testing.T) {
	svc := &fakeJobService{}
	r := newJobRouter(svc, true)

	req := httptest.NewRequest(http.MethodPatch, "/j1", strings.NewReader(`{"status":"declined"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "updatedJob")
	assert.Nil(t, svc.patch.Role)
	assert.Nil(t, svc.patch.Company)
	require.NotNil(t, svc.patch.Status)
	assert.Equal(t, model.StatusDeclined, *svc.patch.Status)
}

func TestJobDelete_NoBody(t *testing.T) {
	r := newJobRouter(&fakeJobService{}, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/j1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestJobGet_NotFound(t *testing.T) {
	r := newJobRouter(&fakeJobService{err: apperror.NotFound("No job with id j1")}, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/j1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No job with id j1", decodeBody(t, rec)["msg"])
}

func TestJobRoutes_WithoutCaller(t *testing.T) {
	svc := &fakeJobService{}
	r := newJobRouter(svc, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication invalid", decodeBody(t, rec)["msg"])
	assert.Empty(t, svc.ownerID)
}
