package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/CrowderSoup/couple-calendar/calendar"
	"github.com/CrowderSoup/couple-calendar/database"
)

// ErrEmptyTitle is returned by Submit when the form title is blank
var ErrEmptyTitle = errors.New("activity title is required")

// TaskAPI is the task backend as seen by the page. services.Client implements it over HTTP.
type TaskAPI interface {
	ListTasks(ctx context.Context, date string) ([]database.Task, error)
	CreateTask(ctx context.Context, in database.NewTask) (database.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Controller runs the page flows against a TaskAPI. Local state changes only
// after the server confirms, so nothing ever needs rolling back. Failures are
// logged and leave the last good state in place.
type Controller struct {
	api    TaskAPI
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
}

func NewController(api TaskAPI, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:    api,
		logger: logger,
		now:    time.Now,
		state:  InitialState(),
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a to the current state
func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// Mount loads every task once
func (c *Controller) Mount(ctx context.Context) State {
	c.Dispatch(LoadStarted{})

	tasks, err := c.api.ListTasks(ctx, "")
	if err != nil {
		c.logger.Error("failed to fetch tasks", slog.Any("err", err))
		return c.Dispatch(LoadFailed{})
	}
	return c.Dispatch(LoadSucceeded{Tasks: tasks})
}

// SelectDay opens the modal on date
func (c *Controller) SelectDay(date string) State {
	return c.Dispatch(DaySelected{Date: date})
}

// CloseModal hides the modal without touching the form
func (c *Controller) CloseModal() State {
	return c.Dispatch(ModalClosed{})
}

// Submit creates the task described by the form on the selected day
func (c *Controller) Submit(ctx context.Context) (State, error) {
	s := c.State()
	if strings.TrimSpace(s.Form.Title) == "" {
		return s, ErrEmptyTitle
	}

	date := s.SelectedDate
	if date == "" {
		date = calendar.FormatDate(c.now())
	}

	task, err := c.api.CreateTask(ctx, database.NewTask{
		Title:       s.Form.Title,
		Description: s.Form.Description,
		Time:        s.Form.Time,
		Person:      s.Form.Person,
		Date:        date,
	})
	if err != nil {
		c.logger.Error("failed to add task", slog.String("date", date), slog.Any("err", err))
		return c.State(), err
	}
	return c.Dispatch(TaskAdded{Task: task}), nil
}

// Delete removes a task on the server and then locally
func (c *Controller) Delete(ctx context.Context, id string) (State, error) {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		c.logger.Error("failed to delete task", slog.String("id", id), slog.Any("err", err))
		return c.State(), err
	}
	return c.Dispatch(TaskRemoved{ID: id}), nil
}
