package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps task documents in a single SQLite table. Ids use the same
// ObjectID hex format as MongoStore so clients see one id format.
type SQLiteStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = "./couple_calendar.db"
	}
	return &SQLiteStore{path: path, now: time.Now}
}

func (s *SQLiteStore) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	if s.path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	// Create tasks table
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		"time" TEXT NOT NULL DEFAULT '',
		person TEXT NOT NULL,
		"date" TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "connect", Err: fmt.Errorf("failed to create tasks table: %w", err)}
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks ("date", "time")`)
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "connect", Err: fmt.Errorf("failed to create tasks index: %w", err)}
	}

	s.db = db
	return db, nil
}

// ListTasks returns tasks for a date (or all tasks) sorted by date then time
func (s *SQLiteStore) ListTasks(ctx context.Context, date string) ([]Task, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, title, description, "time", person, "date", created_at, updated_at FROM tasks`
	var args []any
	if date != "" {
		query += ` WHERE "date" = ?`
		args = append(args, date)
	}
	query += ` ORDER BY "date" ASC, "time" ASC, rowid ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StoreError{Op: "find", Err: fmt.Errorf("failed to query tasks: %w", err)}
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var person string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Time, &person, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, &StoreError{Op: "find", Err: fmt.Errorf("failed to scan task: %w", err)}
		}
		t.Person = Person(person)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}

	return tasks, nil
}

// CreateTask inserts one task row
func (s *SQLiteStore) CreateTask(ctx context.Context, in NewTask) (Task, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return Task{}, err
	}

	task, _ := buildTask(in, s.now().UTC())
	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, "time", person, "date", created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Time, string(task.Person), task.Date, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return Task{}, &StoreError{Op: "insert", Err: fmt.Errorf("failed to insert task: %w", err)}
	}

	return task, nil
}

// DeleteTask deletes the row with the given id
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, oid.Hex())
	if err != nil {
		return &StoreError{Op: "delete", Err: fmt.Errorf("failed to delete task: %w", err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return &StoreError{Op: "close", Err: err}
	}
	return nil
}
