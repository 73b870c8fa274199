package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const mockNamespace = "couple_calendar.tasks"

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list decodes documents", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: first},
				{Key: "title", Value: "Brunch"},
				{Key: "description", Value: ""},
				{Key: "time", Value: ""},
				{Key: "person", Value: "both"},
				{Key: "date", Value: "2024-06-15"},
			},
			bson.D{
				{Key: "_id", Value: second},
				{Key: "title", Value: "Gym"},
				{Key: "time", Value: "18:00"},
				{Key: "person", Value: "nut"},
				{Key: "date", Value: "2024-06-15"},
			},
		))

		tasks, err := store.ListTasks(context.Background(), "2024-06-15")
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)

		assert.Equal(mt, first.Hex(), tasks[0].ID)
		assert.Equal(mt, PersonBoth, tasks[0].Person)
		assert.Equal(mt, second.Hex(), tasks[1].ID)
		assert.Equal(mt, "", tasks[1].Description)
		assert.Equal(mt, "18:00", tasks[1].Time)
	})

	mt.Run("list with no matches is empty", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch))

		tasks, err := store.ListTasks(context.Background(), "1999-01-01")
		require.NoError(mt, err)
		assert.NotNil(mt, tasks)
		assert.Empty(mt, tasks)
	})

	mt.Run("list failure is a store error", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := store.ListTasks(context.Background(), "")
		var storeErr *StoreError
		require.ErrorAs(mt, err, &storeErr)
		assert.Equal(mt, "find", storeErr.Op)
	})

	mt.Run("create returns generated id", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return fixed }
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task, err := store.CreateTask(context.Background(), NewTask{
			Title:  "Picnic",
			Person: PersonBoth,
			Date:   "2024-06-15",
		})
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(task.ID))
		assert.Equal(mt, "", task.Description)
		assert.Equal(mt, "", task.Time)
		assert.Equal(mt, fixed, task.CreatedAt)
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := store.DeleteTask(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := store.DeleteTask(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete malformed id never reaches the server", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)

		err := store.DeleteTask(context.Background(), "not-a-valid-id")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}
