package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/CrowderSoup/couple-calendar/database"
)

// NewRouter wires the task API with request ids, access logging, panic
// recovery and CORS. Routes are served at /tasks and at /api/tasks.
func NewRouter(store database.TaskStore, logger *slog.Logger, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	taskHandler := NewTaskHandler(store, logger)
	accessLog := NewAccessLog(logger)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)
	taskHandler.Register(r)
	taskHandler.Register(r.PathPrefix("/api").Subrouter())

	r.Use(WithRequestID, accessLog.Log, accessLog.Recover)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	return c.Handler(r)
}
