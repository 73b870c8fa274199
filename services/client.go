package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CrowderSoup/couple-calendar/database"
)

// APIError is a non-success response from the task API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task api: status %d", e.Status)
	}
	return fmt.Sprintf("task api: status %d: %s", e.Status, e.Message)
}

// Client talks to the task HTTP API. It enforces the required create fields
// before anything is sent, since the server does not.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	v := validator.New()
	// Report json field names so errors match the wire format
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		validate:   v,
	}
}

// ListTasks fetches every task, or only those on date when it is not empty
func (c *Client) ListTasks(ctx context.Context, date string) ([]database.Task, error) {
	u := c.baseURL + "/tasks"
	if date != "" {
		u += "?" + url.Values{"date": {date}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var tasks []database.Task
	if err := c.do(req, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []database.Task{}
	}
	return tasks, nil
}

// CreateTask validates in and posts it, returning the stored task
func (c *Client) CreateTask(ctx context.Context, in database.NewTask) (database.Task, error) {
	if err := c.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return database.Task{}, &database.ValidationError{Field: fieldErrs[0].Field()}
		}
		return database.Task{}, err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return database.Task{}, fmt.Errorf("failed to marshal task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return database.Task{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var task database.Task
	if err := c.do(req, http.StatusCreated, &task); err != nil {
		return database.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task by id. Malformed and unknown ids come back as
// database.ErrInvalidID and database.ErrNotFound.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	err = c.do(req, http.StatusOK, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", database.ErrInvalidID, id)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", database.ErrNotFound, id)
		}
	}
	return err
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) != nil {
			body.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
