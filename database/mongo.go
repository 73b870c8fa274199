package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskDocument is the persisted form of a Task in MongoDB
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Time        string             `bson:"time"`
	Person      Person             `bson:"person"`
	Date        string             `bson:"date"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) task() Task {
	return Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Time:        d.Time,
		Person:      d.Person,
		Date:        d.Date,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoStore keeps tasks in a MongoDB collection. The client is connected on
// first use and shared by every later call.
type MongoStore struct {
	uri    string
	dbName string
	now    func() time.Time

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(uri, dbName string) *MongoStore {
	return &MongoStore{uri: uri, dbName: dbName, now: time.Now}
}

// NewMongoStoreFromCollection wraps an already connected collection. Close
// leaves the owning client alone.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

func (s *MongoStore) collection(ctx context.Context) (*mongo.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.coll != nil {
		return s.coll, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, &StoreError{Op: "connect", Err: err}
	}

	s.client = client
	s.coll = client.Database(s.dbName).Collection(CollectionName)
	return s.coll, nil
}

// ListTasks finds tasks for a date (or all tasks) sorted by date then time
func (s *MongoStore) ListTasks(ctx context.Context, date string) ([]Task, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.D{}
	if date != "" {
		filter = bson.D{{Key: "date", Value: date}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &StoreError{Op: "find", Err: fmt.Errorf("failed to decode tasks: %w", err)}
	}

	tasks := make([]Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.task())
	}
	return tasks, nil
}

// CreateTask inserts one task document
func (s *MongoStore) CreateTask(ctx context.Context, in NewTask) (Task, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return Task{}, err
	}

	task, oid := buildTask(in, s.now().UTC())
	doc := taskDocument{
		ID:          oid,
		Title:       task.Title,
		Description: task.Description,
		Time:        task.Time,
		Person:      task.Person,
		Date:        task.Date,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return Task{}, &StoreError{Op: "insert", Err: err}
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = id.Hex()
	}
	return task, nil
}

// DeleteTask deletes the document with the given id
func (s *MongoStore) DeleteTask(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the client if this store opened one
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.coll = nil
	if err != nil {
		return &StoreError{Op: "close", Err: err}
	}
	return nil
}
