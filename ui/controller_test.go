package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrowderSoup/couple-calendar/database"
)

var errBackend = errors.New("backend down")

type fakeAPI struct {
	tasks     []database.Task
	listErr   error
	createErr error
	deleteErr error

	created []database.NewTask
	deleted []string
}

func (f *fakeAPI) ListTasks(_ context.Context, _ string) ([]database.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, in database.NewTask) (database.Task, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return database.Task{}, f.createErr
	}
	return database.Task{
		ID:          "665f1c2e9b1e8a3d4c5b6a79",
		Title:       in.Title,
		Description: in.Description,
		Time:        in.Time,
		Person:      in.Person,
		Date:        in.Date,
	}, nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func newTestController(api TaskAPI) (*Controller, *bytes.Buffer) {
	var buf bytes.Buffer
	c := NewController(api, slog.New(slog.NewTextHandler(&buf, nil)))
	c.now = func() time.Time { return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC) }
	return c, &buf
}

func TestController_Mount(t *testing.T) {
	api := &fakeAPI{tasks: []database.Task{{ID: "a", Date: "2024-06-15"}}}
	c, _ := newTestController(api)

	s := c.Mount(context.Background())
	assert.False(t, s.Loading)
	assert.Equal(t, api.tasks, s.Tasks)
}

func TestController_MountFailureLeavesEmptyList(t *testing.T) {
	c, logs := newTestController(&fakeAPI{listErr: errBackend})

	s := c.Mount(context.Background())
	assert.False(t, s.Loading)
	assert.Empty(t, s.Tasks)
	assert.Contains(t, logs.String(), "failed to fetch tasks")
}

func TestController_SubmitRejectsBlankTitle(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(api)
	c.SelectDay("2024-06-20")
	c.Dispatch(FieldChanged{Field: FieldTitle, Value: "   "})

	s, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.True(t, s.ModalOpen)
	assert.Empty(t, api.created)
}

func TestController_SubmitAddsTask(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(api)
	c.SelectDay("2024-06-20")
	c.Dispatch(FieldChanged{Field: FieldTitle, Value: "Dinner"})
	c.Dispatch(FieldChanged{Field: FieldTime, Value: "19:00"})
	c.Dispatch(PersonToggled{Person: database.PersonNice})

	s, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, database.NewTask{Title: "Dinner", Time: "19:00", Person: database.PersonBoth, Date: "2024-06-20"}, api.created[0])

	assert.False(t, s.ModalOpen)
	assert.Equal(t, emptyForm(), s.Form)
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, "Dinner", s.Tasks[0].Title)
}

func TestController_SubmitDefaultsToToday(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(api)
	c.Dispatch(FieldChanged{Field: FieldTitle, Value: "Coffee"})

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Equal(t, "2024-06-15", api.created[0].Date)
}

func TestController_SubmitFailureKeepsForm(t *testing.T) {
	api := &fakeAPI{createErr: errBackend}
	c, logs := newTestController(api)
	c.SelectDay("2024-06-20")
	c.Dispatch(FieldChanged{Field: FieldTitle, Value: "Dinner"})
	before := c.State()

	s, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, s)
	assert.Contains(t, logs.String(), "failed to add task")
}

func TestController_Delete(t *testing.T) {
	api := &fakeAPI{tasks: []database.Task{{ID: "a"}, {ID: "b"}}}
	c, _ := newTestController(api)
	c.Mount(context.Background())

	s, err := c.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, api.deleted)
	assert.Equal(t, []database.Task{{ID: "b"}}, s.Tasks)
}

func TestController_DeleteFailureKeepsTask(t *testing.T) {
	api := &fakeAPI{tasks: []database.Task{{ID: "a"}}}
	c, logs := newTestController(api)
	c.Mount(context.Background())
	api.deleteErr = database.ErrNotFound

	s, err := c.Delete(context.Background(), "a")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Len(t, s.Tasks, 1)
	assert.Contains(t, logs.String(), "failed to delete task")
}
