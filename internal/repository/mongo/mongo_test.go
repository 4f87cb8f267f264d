package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

func duplicateWriteException(t *testing.T, raw bson.Raw, msg string) error {
	t.Helper()
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: msg, Raw: raw}},
	}
}

func TestTranslateError_KeyValue(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "code", Value: 11000},
		{Key: "keyValue", Value: bson.D{{Key: "email", Value: "ana@example.com"}}},
	})
	require.NoError(t, err)

	got := translateError(duplicateWriteException(t, raw, "E11000 duplicate key error"))
	require.ErrorIs(t, got, apperror.ErrDuplicateKey)

	appErr, ok := apperror.As(got)
	require.True(t, ok)
	assert.Equal(t, []string{"email"}, appErr.Fields)
}

func TestTranslateError_MessageFallback(t *testing.T) {
	msg := `E11000 duplicate key error collection: jobs.users index: email_1 dup key: { email: "ana@example.com" }`
	got := translateError(duplicateWriteException(t, nil, msg))

	appErr, ok := apperror.As(got)
	require.True(t, ok)
	assert.Equal(t, []string{"email"}, appErr.Fields)
}

func TestTranslateError_PassThrough(t *testing.T) {
	plain := errors.New("server selection timeout")
	assert.Same(t, plain, translateError(plain))
}

func TestByIDAndOwner(t *testing.T) {
	owner := bson.NewObjectID()
	scope, err := repository.NewOwnerScope(owner.Hex())
	require.NoError(t, err)

	_, err = byIDAndOwner(scope, "not-hex")
	require.ErrorIs(t, err, apperror.ErrCast)

	_, err = byIDAndOwner(repository.OwnerScope{}, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, errZeroScope)

	id := bson.NewObjectID()
	filter, err := byIDAndOwner(scope, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: id}, {Key: "createdBy", Value: owner}}, filter)
}

// =========================================================================
// INTEGRATION (needs a running MongoDB)
// =========================================================================

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	dbName := fmt.Sprintf("jobs_api_test_%s", bson.NewObjectID().Hex())
	s, err := New(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.users.Database().Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestIntegration_UsersAndJobs(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	ana := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, ana))

	err := s.CreateUser(ctx, &model.User{Name: "Ana2", Email: "ana@example.com", PasswordHash: "hash"})
	require.ErrorIs(t, err, apperror.ErrDuplicateKey)

	scope, err := repository.NewOwnerScope(ana.ID)
	require.NoError(t, err)

	job := &model.Job{Role: "Engineer", Company: "Acme", Status: model.StatusPending}
	require.NoError(t, s.CreateJob(ctx, scope, job))
	assert.Equal(t, ana.ID, job.CreatedBy)

	status := model.StatusInterview
	updated, err := s.UpdateJob(ctx, scope, job.ID, model.JobPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterview, updated.Status)
	assert.Equal(t, "Engineer", updated.Role)

	other, err := repository.NewOwnerScope(bson.NewObjectID().Hex())
	require.NoError(t, err)
	_, err = s.GetJob(ctx, other, job.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	jobs, err := s.ListJobs(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	require.NoError(t, s.DeleteJob(ctx, scope, job.ID))
	assert.ErrorIs(t, s.DeleteJob(ctx, scope, job.ID), apperror.ErrNotFound)
}
