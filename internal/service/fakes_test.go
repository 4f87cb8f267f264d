package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// They honour the same contracts as the real stores (owner scoping,
// NotFound messages, duplicate emails) so the services can be tested
// without a database.

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.byEmail[user.Email]; taken {
		return apperror.DuplicateKey("email")
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("No user with email " + email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("No user with id " + id)
	}
	copied := *u
	return &copied, nil
}

type fakeJobRepo struct {
	mu     sync.Mutex
	jobs   []model.Job // insertion order
	nextID int

	listErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{}
}

func (f *fakeJobRepo) find(scope repository.OwnerScope, id string) (int, error) {
	for i, j := range f.jobs {
		if j.ID == id && j.CreatedBy == scope.OwnerID() {
			return i, nil
		}
	}
	return -1, apperror.NotFound("No job with id " + id)
}

func (f *fakeJobRepo) ListJobs(_ context.Context, scope repository.OwnerScope) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Job, 0)
	for _, j := range f.jobs {
		if j.CreatedBy == scope.OwnerID() {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) GetJob(_ context.Context, scope repository.OwnerScope, id string) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(scope, id)
	if err != nil {
		return nil, err
	}
	job := f.jobs[i]
	return &job, nil
}

func (f *fakeJobRepo) CreateJob(_ context.Context, scope repository.OwnerScope, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job.ID = fmt.Sprintf("job-%d", f.nextID)
	job.CreatedBy = scope.OwnerID()
	job.CreatedAt = time.Now().UTC()
	job.UpdatedAt = job.CreatedAt
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeJobRepo) UpdateJob(_ context.Context, scope repository.OwnerScope, id string, patch model.JobPatch) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(scope, id)
	if err != nil {
		return nil, err
	}
	f.jobs[i] = patch.Apply(f.jobs[i])
	f.jobs[i].UpdatedAt = time.Now().UTC()
	job := f.jobs[i]
	return &job, nil
}

func (f *fakeJobRepo) DeleteJob(_ context.Context, scope repository.OwnerScope, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(scope, id)
	if err != nil {
		return err
	}
	f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
