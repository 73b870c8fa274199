package database

import "time"

// Person identifies who an activity belongs to
type Person string

const (
	PersonNut  Person = "nut"
	PersonNice Person = "nice"
	PersonBoth Person = "both"
)

// Includes reports whether an activity for p also counts for other.
// "both" counts for nut and for nice.
func (p Person) Includes(other Person) bool {
	return p == other || p == PersonBoth
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        string    `json:"time"`
	Person      Person    `json:"person"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// NewTask is the input accepted by CreateTask. Description and Time are optional.
type NewTask struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Time        string `json:"time,omitempty"`
	Person      Person `json:"person" validate:"required"`
	Date        string `json:"date" validate:"required"`
}
