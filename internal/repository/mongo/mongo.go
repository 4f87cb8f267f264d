// Package mongo implements the repository interfaces on MongoDB.
//
// Documents use ObjectIDs; the hex form is what the rest of the application
// sees as an id string.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/sakif/jobs-api/internal/apperror"
	"github.com/sakif/jobs-api/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const (
	usersCollection = "users"
	jobsCollection  = "jobs"
)

// Store holds the client and the two collections it works on.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	jobs   *mongo.Collection
}

// New connects to uri, selects database and ensures indexes exist.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		jobs:   db.Collection(jobsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ensureIndexes is idempotent: creating an index that already exists with
// the same definition is a no-op on the server.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: users email index: %w", err)
	}

	_, err = s.jobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: jobs owner index: %w", err)
	}
	return nil
}

// parseObjectID turns a hex id into an ObjectID, or a cast error naming it.
func parseObjectID(field, id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, apperror.Cast(field, id)
	}
	return oid, nil
}

// dupKeyField matches the field in
// `E11000 duplicate key error collection: jobs.users index: email_1 dup key: { email: "a@b.c" }`.
var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// translateError maps a duplicate-key write failure to apperror.DuplicateKey.
func translateError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return apperror.DuplicateKey(duplicateFields(err)...)
}

func duplicateFields(err error) []string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if fields := keyValueFields(writeErr.Raw); len(fields) > 0 {
				return fields
			}
			if m := dupKeyField.FindStringSubmatch(writeErr.Message); m != nil {
				return []string{m[1]}
			}
		}
	}
	if m := dupKeyField.FindStringSubmatch(err.Error()); m != nil {
		return []string{m[1]}
	}
	return []string{"unknown"}
}

// keyValueFields reads the field names from the server's keyValue document.
func keyValueFields(raw bson.Raw) []string {
	if len(raw) == 0 {
		return nil
	}
	doc, ok := raw.Lookup("keyValue").DocumentOK()
	if !ok {
		return nil
	}
	elems, err := doc.Elements()
	if err != nil {
		return nil
	}
	fields := make([]string, 0, len(elems))
	for _, e := range elems {
		fields = append(fields, e.Key())
	}
	return fields
}
