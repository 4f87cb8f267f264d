package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/repository"
)

var errZeroScope = errors.New("mongo: job query without an owner scope")

type jobDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Role      string        `bson:"role"`
	Company   string        `bson:"company"`
	Status    string        `bson:"status"`
	CreatedBy bson.ObjectID `bson:"createdBy"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d jobDoc) toModel() model.Job {
	return model.Job{
		ID:        d.ID.Hex(),
		Role:      d.Role,
		Company:   d.Company,
		Status:    model.Status(d.Status),
		CreatedBy: d.CreatedBy.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func jobNotFound(id string) error {
	return apperror.NotFound(fmt.Sprintf("No job with id %s", id))
}

// ownerFilter resolves the scope into the createdBy match every job query uses.
func ownerFilter(scope repository.OwnerScope) (bson.ObjectID, error) {
	if scope.IsZero() {
		return bson.ObjectID{}, errZeroScope
	}
	return parseObjectID("createdBy", scope.OwnerID())
}

// byIDAndOwner builds {_id, createdBy}. It fails with a cast error before
// any round trip when id is not a valid ObjectID.
func byIDAndOwner(scope repository.OwnerScope, id string) (bson.D, error) {
	owner, err := ownerFilter(scope)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID("id", id)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "createdBy", Value: owner}}, nil
}

// ListJobs returns the owner's jobs, oldest first; _id breaks timestamp ties
// because ObjectIDs grow monotonically within one process.
func (s *Store) ListJobs(ctx context.Context, scope repository.OwnerScope) ([]model.Job, error) {
	owner, err := ownerFilter(scope)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.jobs.Find(ctx, bson.D{{Key: "createdBy", Value: owner}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := make([]model.Job, 0)
	for cur.Next(ctx) {
		var doc jobDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode job: %w", err)
		}
		jobs = append(jobs, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetJob fetches one job by (id, owner).
func (s *Store) GetJob(ctx context.Context, scope repository.OwnerScope, id string) (*model.Job, error) {
	filter, err := byIDAndOwner(scope, id)
	if err != nil {
		return nil, err
	}

	var doc jobDoc
	if err := s.jobs.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("mongo: get job %s: %w", id, err)
	}
	job := doc.toModel()
	return &job, nil
}

// CreateJob inserts a job owned by the scope's owner.
func (s *Store) CreateJob(ctx context.Context, scope repository.OwnerScope, job *model.Job) error {
	owner, err := ownerFilter(scope)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := jobDoc{
		ID:        bson.NewObjectID(),
		Role:      job.Role,
		Company:   job.Company,
		Status:    string(job.Status),
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.jobs.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert job: %w", translateError(err))
	}

	*job = doc.toModel()
	return nil
}

// UpdateJob applies patch with a single FindOneAndUpdate so the read and
// the write cannot interleave with another request.
func (s *Store) UpdateJob(ctx context.Context, scope repository.OwnerScope, id string, patch model.JobPatch) (*model.Job, error) {
	filter, err := byIDAndOwner(scope, id)
	if err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC().Truncate(time.Millisecond)}}
	if patch.Role != nil {
		set = append(set, bson.E{Key: "role", Value: *patch.Role})
	}
	if patch.Company != nil {
		set = append(set, bson.E{Key: "company", Value: *patch.Company})
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*patch.Status)})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc jobDoc
	err = s.jobs.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("mongo: update job %s: %w", id, translateError(err))
	}
	job := doc.toModel()
	return &job, nil
}

// DeleteJob removes a job by (id, owner).
func (s *Store) DeleteJob(ctx context.Context, scope repository.OwnerScope, id string) error {
	filter, err := byIDAndOwner(scope, id)
	if err != nil {
		return err
	}

	res, err := s.jobs.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: delete job %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return jobNotFound(id)
	}
	return nil
}
