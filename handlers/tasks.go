package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CrowderSoup/couple-calendar/database"
)

// TaskHandler serves the task collection
type TaskHandler struct {
	store  database.TaskStore
	logger *slog.Logger
}

func NewTaskHandler(store database.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		store:  store,
		logger: logger,
	}
}

// Register mounts the task routes on r
func (h *TaskHandler) Register(r *mux.Router) {
	r.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
}

// ListTasks returns all tasks, or the tasks of ?date=YYYY-MM-DD
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	tasks, err := h.store.ListTasks(r.Context(), date)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch tasks",
			slog.String("date", date), slog.Any("err", err))
		writeErr(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask stores a new task. Required fields are not checked here.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in database.NewTask
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.store.CreateTask(r.Context(), in)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create task", slog.Any("err", err))
		writeErr(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	h.logger.InfoContext(r.Context(), "task created",
		slog.String("id", task.ID), slog.String("date", task.Date), slog.String("person", string(task.Person)))
	writeJSON(w, http.StatusCreated, task)
}

// DeleteTask removes the task named in the path
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.store.DeleteTask(r.Context(), id)
	switch {
	case err == nil:
		h.logger.InfoContext(r.Context(), "task deleted", slog.String("id", id))
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, database.ErrInvalidID):
		writeErr(w, http.StatusBadRequest, "Invalid task ID")
	case errors.Is(err, database.ErrNotFound):
		writeErr(w, http.StatusNotFound, "Task not found")
	default:
		h.logger.ErrorContext(r.Context(), "failed to delete task",
			slog.String("id", id), slog.Any("err", err))
		writeErr(w, http.StatusInternalServerError, "Failed to delete task")
	}
}

// Health reports that the process is serving
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
