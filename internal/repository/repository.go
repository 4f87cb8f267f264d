// Package repository declares the storage contracts the service layer depends on.
//
// Three implementations live in sub-packages: sqlite (embedded, the default),
// postgres and mongo. Services only ever see these interfaces.
package repository

import (
	"context"
	"errors"

	"github.com/sakif/jobs-api/internal/model"
)

// ErrEmptyOwner is returned by NewOwnerScope for an empty owner id.
var ErrEmptyOwner = errors.New("repository: owner id is required")

// OwnerScope restricts a job query to one owner.
//
// OWNERSHIP AT THE TYPE LEVEL:
// Every JobRepository method takes an OwnerScope, and the only way to build a
// usable one outside this package is NewOwnerScope, which rejects an empty
// owner. A query that forgets the owner filter does not compile; a zero
// OwnerScope{} is caught by stores through IsZero.
type OwnerScope struct {
	ownerID string
}

// NewOwnerScope builds a scope for the given owner.
func NewOwnerScope(ownerID string) (OwnerScope, error) {
	if ownerID == "" {
		return OwnerScope{}, ErrEmptyOwner
	}
	return OwnerScope{ownerID: ownerID}, nil
}

// OwnerID returns the owner the scope is bound to.
func (s OwnerScope) OwnerID() string {
	return s.ownerID
}

// IsZero reports whether the scope was built without NewOwnerScope.
func (s OwnerScope) IsZero() bool {
	return s.ownerID == ""
}

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts a user and fills in ID and timestamps.
	// A taken email yields apperror.DuplicateKey("email").
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// JobRepository persists job applications. Every call is owner-scoped:
// a job that exists but belongs to someone else is reported exactly like a
// job that does not exist (apperror.ErrNotFound).
type JobRepository interface {
	// ListJobs returns the owner's jobs ordered by creation time, oldest first.
	ListJobs(ctx context.Context, scope OwnerScope) ([]model.Job, error)
	GetJob(ctx context.Context, scope OwnerScope, id string) (*model.Job, error)
	// CreateJob stamps the scope's owner on the job and fills in ID and timestamps.
	CreateJob(ctx context.Context, scope OwnerScope, job *model.Job) error
	// UpdateJob applies patch in a single atomic statement and returns the result.
	UpdateJob(ctx context.Context, scope OwnerScope, id string, patch model.JobPatch) (*model.Job, error)
	DeleteJob(ctx context.Context, scope OwnerScope, id string) error
}

// Store bundles both repositories with a lifecycle, so the server can own
// whichever backend was configured.
type Store interface {
	UserRepository
	JobRepository
	Close() error
}
