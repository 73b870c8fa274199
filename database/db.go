package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionName is the collection (or table) holding task documents
const CollectionName = "tasks"

var (
	// ErrInvalidID is returned when an id is not a well-formed ObjectID
	ErrInvalidID = errors.New("invalid task id")
	// ErrNotFound is returned when no task matches the given id
	ErrNotFound = errors.New("task not found")
)

// StoreError wraps a connection or query failure from the backing store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError reports a required field missing from a NewTask
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// TaskStore is the persisted task collection. Every call round-trips to the store.
type TaskStore interface {
	// ListTasks returns tasks whose date equals date, or every task when date
	// is empty, ordered by date then time.
	ListTasks(ctx context.Context, date string) ([]Task, error)
	// CreateTask persists a task and returns it with its generated id.
	CreateTask(ctx context.Context, in NewTask) (Task, error)
	// DeleteTask removes exactly one task.
	DeleteTask(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Open returns the store matching the scheme of uri. Nothing is dialled until
// the first operation.
func Open(uri, dbName string) (TaskStore, error) {
	switch {
	case uri == "":
		return nil, errors.New("store connection string is empty")
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return NewMongoStore(uri, dbName), nil
	case strings.HasPrefix(uri, "sqlite://"):
		return NewSQLiteStore(strings.TrimPrefix(uri, "sqlite://")), nil
	case strings.HasPrefix(uri, "sqlite:"):
		return NewSQLiteStore(strings.TrimPrefix(uri, "sqlite:")), nil
	default:
		return nil, fmt.Errorf("unsupported store connection string %q", redact(uri))
	}
}

// parseID converts the string form of a task id back to an ObjectID
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// buildTask stamps a new task the same way for every backend. Missing
// optional fields are already "" in Go, so no other defaulting is needed.
func buildTask(in NewTask, now time.Time) (Task, primitive.ObjectID) {
	oid := primitive.NewObjectIDFromTimestamp(now)
	return Task{
		ID:          oid.Hex(),
		Title:       in.Title,
		Description: in.Description,
		Time:        in.Time,
		Person:      in.Person,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, oid
}

// redact hides credentials in a connection string before it is logged
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
