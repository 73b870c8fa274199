// Package ui holds the calendar page state, the controller that keeps it in
// step with the task API, and its terminal rendering.
package ui

import (
	"slices"

	"github.com/CrowderSoup/couple-calendar/calendar"
	"github.com/CrowderSoup/couple-calendar/database"
)

// Form is the add-activity form inside the day modal
type Form struct {
	Title       string
	Description string
	Time        string
	Person      database.Person
}

func emptyForm() Form {
	return Form{Person: database.PersonNut}
}

// State is the whole client state. Reduce never mutates a State it is given.
type State struct {
	Tasks []database.Task
	// SelectedDate is "" until a day is picked
	SelectedDate string
	ModalOpen    bool
	Loading      bool
	Form         Form
}

func InitialState() State {
	return State{Tasks: []database.Task{}, Form: emptyForm()}
}

// SelectedTasks are the tasks shown in the day modal
func (s State) SelectedTasks() []database.Task {
	if s.SelectedDate == "" {
		return []database.Task{}
	}
	return calendar.FilterByDate(s.Tasks, s.SelectedDate)
}

// Action is an event applied by Reduce
type Action interface {
	isAction()
}

type (
	LoadStarted   struct{}
	LoadSucceeded struct{ Tasks []database.Task }
	LoadFailed    struct{}
	DaySelected   struct{ Date string }
	ModalClosed   struct{}
	FieldChanged  struct {
		Field Field
		Value string
	}
	PersonToggled struct{ Person database.Person }
	TaskAdded     struct{ Task database.Task }
	TaskRemoved   struct{ ID string }
)

func (LoadStarted) isAction()   {}
func (LoadSucceeded) isAction() {}
func (LoadFailed) isAction()    {}
func (DaySelected) isAction()   {}
func (ModalClosed) isAction()   {}
func (FieldChanged) isAction()  {}
func (PersonToggled) isAction() {}
func (TaskAdded) isAction()     {}
func (TaskRemoved) isAction()   {}

// Field names a text input of the form
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldTime
)

// Reduce returns the state after a. The task slice is copied whenever it changes.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Loading = true
	case LoadSucceeded:
		s.Loading = false
		s.Tasks = slices.Clone(a.Tasks)
		if s.Tasks == nil {
			s.Tasks = []database.Task{}
		}
	case LoadFailed:
		s.Loading = false
		s.Tasks = []database.Task{}
	case DaySelected:
		s.SelectedDate = a.Date
		s.ModalOpen = true
	case ModalClosed:
		s.ModalOpen = false
	case FieldChanged:
		switch a.Field {
		case FieldTitle:
			s.Form.Title = a.Value
		case FieldDescription:
			s.Form.Description = a.Value
		case FieldTime:
			s.Form.Time = a.Value
		}
	case PersonToggled:
		s.Form.Person = TogglePerson(s.Form.Person, a.Person)
	case TaskAdded:
		s.Tasks = append(slices.Clip(s.Tasks), a.Task)
		s.ModalOpen = false
		s.Form = emptyForm()
	case TaskRemoved:
		s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(t database.Task) bool {
			return t.ID == a.ID
		})
	}
	return s
}

// TogglePerson flips one person's button in the form. The selection cycles
// nut <-> both <-> nice and can never end up empty.
func TogglePerson(current, p database.Person) database.Person {
	if current == p {
		return current
	}
	if current == database.PersonBoth {
		if p == database.PersonNut {
			return database.PersonNice
		}
		return database.PersonNut
	}
	return database.PersonBoth
}
